package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/chromaflow/chromaflow/infrastructure/plot"
	"github.com/chromaflow/chromaflow/internal/application"
	"github.com/chromaflow/chromaflow/internal/domain"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Sweep the column's Peclet number and render the elution curves",
		Long: `Sweep re-simulates the process for each configured Peclet number,
recomputing the column's axial dispersion as D = L·u/Pe per point, and
renders the outlet curves into a tiled figure grid, one panel per Peclet
number in input order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			process, cfg, err := loadProcess(cmd)
			if err != nil {
				return err
			}
			if cfg.Sweep == nil {
				return fmt.Errorf("configuration has no sweep section")
			}
			simulator, collector, err := buildSimulator(cmd)
			if err != nil {
				return err
			}

			driver, err := application.NewPecletSweep(simulator,
				application.WithSweepMetrics(collector))
			if err != nil {
				return err
			}

			start := time.Now()
			points, err := driver.Run(cmd.Context(), process, *cfg.Sweep)
			if err != nil {
				return err
			}
			log.Printf("swept %d Peclet numbers in %s",
				len(points), time.Since(start).Round(time.Millisecond))

			outletName := process.FlowSheet().ProductOutlet()
			panels := make([]plot.Panel, 0, len(points))
			for _, point := range points {
				series, ok := point.Result.Series(outletName, domain.PortOutlet)
				if !ok {
					return fmt.Errorf("engine returned no series for product outlet %q", outletName)
				}
				panels = append(panels, plot.Panel{
					Title:  fmt.Sprintf("Peclet number: %g", point.PecletNumber),
					Series: series,
				})
			}

			out, _ := cmd.Flags().GetString("out")
			cols, _ := cmd.Flags().GetInt("cols")
			rows := (len(panels) + cols - 1) / cols
			if err := plot.RenderGrid(panels, plot.GridConfig{Rows: rows, Cols: cols}, out); err != nil {
				return err
			}
			log.Printf("wrote %s", out)
			return nil
		},
	}
	cmd.Flags().String("out", "peclet_sweep.png", "Output PNG figure path")
	cmd.Flags().Int("cols", 2, "Number of subplot columns in the figure grid")
	return cmd
}
