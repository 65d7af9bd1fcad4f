package domain

import "fmt"

// PecletNumber returns the dimensionless ratio of convective to dispersive
// transport, Pe = L·u / D, for a column of length L [m], interstitial
// velocity u [m/s], and axial dispersion coefficient D [m²/s].
func PecletNumber(length, velocity, dispersion float64) float64 {
	return length * velocity / dispersion
}

// DispersionFromPeclet inverts the Peclet relation, returning the axial
// dispersion coefficient D = L·u / Pe that realizes the target Peclet
// number at fixed length and velocity. The inversion is an exact
// floating-point division; PecletNumber(length, velocity, D) recovers Pe.
func DispersionFromPeclet(length, velocity, peclet float64) (float64, error) {
	if peclet <= 0 {
		return 0, fmt.Errorf("dispersion for Pe=%g: %w", peclet, ErrNonPositivePeclet)
	}
	return length * velocity / peclet, nil
}
