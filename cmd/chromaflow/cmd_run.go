package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/chromaflow/chromaflow/infrastructure/plot"
	"github.com/chromaflow/chromaflow/internal/analysis"
	"github.com/chromaflow/chromaflow/internal/domain"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate the process once and report the elution curve",
		RunE: func(cmd *cobra.Command, args []string) error {
			process, _, err := loadProcess(cmd)
			if err != nil {
				return err
			}
			simulator, _, err := buildSimulator(cmd)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := simulator.Simulate(cmd.Context(), process)
			if err != nil {
				return err
			}
			log.Printf("simulation finished in %s", time.Since(start).Round(time.Millisecond))

			outletName := process.FlowSheet().ProductOutlet()
			series, ok := result.Series(outletName, domain.PortOutlet)
			if !ok {
				return fmt.Errorf("engine returned no series for product outlet %q", outletName)
			}

			stats, err := analysis.Moments(series, 0)
			if err != nil {
				return err
			}
			fmt.Printf("outlet peak: area=%.4g mM·s, retention=%.4g s, variance=%.4g s², height=%.4g mM\n",
				stats.Area, stats.RetentionTime, stats.Variance, stats.Height)

			if out, _ := cmd.Flags().GetString("out"); out != "" {
				err := plot.RenderGrid([]plot.Panel{
					{Title: process.Name(), Series: series},
				}, plot.GridConfig{Rows: 1, Cols: 1, Width: 6 * vg.Inch, Height: 4 * vg.Inch}, out)
				if err != nil {
					return err
				}
				log.Printf("wrote %s", out)
			}
			return nil
		},
	}
	cmd.Flags().String("out", "", "Write the outlet curve as a PNG figure")
	return cmd
}
