package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/chromaflow/chromaflow/infrastructure/engine"
	"github.com/chromaflow/chromaflow/infrastructure/middleware"
	"github.com/chromaflow/chromaflow/internal/application"
	"github.com/chromaflow/chromaflow/internal/domain"
	"github.com/chromaflow/chromaflow/internal/ports"
)

// loadProcess resolves the process and configuration for a command: either
// the configured YAML file or the built-in pulse benchmark.
func loadProcess(cmd *cobra.Command) (*domain.Process, *application.ProcessConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		process, err := application.LinearGRMBenchmark()
		if err != nil {
			return nil, nil, err
		}
		return process, &application.ProcessConfig{
			Name: process.Name(),
			Sweep: &application.SweepConfig{
				Column:        "column",
				PecletNumbers: application.BenchmarkPecletNumbers,
			},
		}, nil
	}

	loader := application.NewProcessLoader()
	return loader.LoadFile(path)
}

// buildSimulator assembles the engine client with its middleware chain and,
// when a metrics address is configured, the Prometheus collector behind it.
func buildSimulator(cmd *cobra.Command) (ports.Simulator, ports.MetricsCollector, error) {
	engineURL, _ := cmd.Flags().GetString("engine-url")

	var collector ports.MetricsCollector
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		collector = middleware.NewPrometheusMetrics(prometheus.DefaultRegisterer)
		serveMetrics(addr)
	}

	client, err := engine.NewClient(engine.ClientConfig{
		BaseURL: engineURL,
		Middleware: []engine.Middleware{
			engine.RetryMiddleware(3, time.Second, 30*time.Second),
			engine.MetricsMiddleware(collector),
			engine.TracingMiddleware(),
		},
	})
	if err != nil {
		return nil, nil, err
	}
	return client, collector, nil
}

// serveMetrics exposes the Prometheus registry for the lifetime of the
// command. The server dies with the process; a one-shot CLI needs no
// graceful shutdown.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("metrics server: %v", err)
		}
	}()
}

// describeProcess prints a one-shot summary of a validated process.
func describeProcess(process *domain.Process) {
	fs := process.FlowSheet()
	fmt.Printf("process %q: %d components, cycle time %g s\n",
		process.Name(), fs.System().NComp(), process.CycleTime())
	for _, u := range fs.Units() {
		fmt.Printf("  unit %s (%T)\n", u.Name(), u)
	}
	for _, c := range fs.Connections() {
		fmt.Printf("  connection %s -> %s\n", c.From, c.To)
	}
	for _, e := range process.Events() {
		fmt.Printf("  event %s: %s = %v at t=%g s\n", e.Name, e.Target, e.Value, e.Time)
	}
}
