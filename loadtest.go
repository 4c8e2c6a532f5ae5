package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cvhariharan/actordir/client"
	"github.com/cvhariharan/actordir/telemetry"
)

func loadtestCmd() *cobra.Command {
	var (
		target   string
		requests int
		path     string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Measure request latency against a running server",
		Long:  `Send sequential GET requests to the target and print per-request and summary latencies.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if requests <= 0 {
				return errors.New("--requests must be positive")
			}
			c, err := client.New(target, timeout)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render("Load testing "+target+path))

			latencies := make([]float64, 0, requests)
			failures := 0
			for i := 0; i < requests; i++ {
				elapsed, code, err := c.Probe(cmd.Context(), path)
				ms := float64(elapsed) / float64(time.Millisecond)
				if err != nil {
					failures++
					fmt.Fprintln(out, fail("Request %d: %v", i+1, err))
					continue
				}
				latencies = append(latencies, ms)
				line := fmt.Sprintf("Request %d: %.0fms", i+1, ms)
				if code >= 400 {
					fmt.Fprintln(out, fail("%s (status %d)", line, code))
				} else {
					fmt.Fprintln(out, dimStyle.Render(line))
				}
			}

			if len(latencies) == 0 {
				return fmt.Errorf("all %d requests failed", requests)
			}

			s := telemetry.Summarize(latencies)
			fmt.Fprintln(out)
			fmt.Fprintln(out, summaryTable("Summary", [][2]string{
				{"Requests", fmt.Sprintf("%d (%d failed)", requests, failures)},
				{"Average", fmt.Sprintf("%.0fms", s.Mean)},
				{"50th percentile", fmt.Sprintf("%.0fms", s.P50)},
				{"75th percentile", fmt.Sprintf("%.0fms", s.P75)},
				{"90th percentile", fmt.Sprintf("%.0fms", s.P90)},
				{"99th percentile", fmt.Sprintf("%.0fms", s.P99)},
				{"Min", fmt.Sprintf("%.0fms", s.Min)},
				{"Max", fmt.Sprintf("%.0fms", s.Max)},
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "http://localhost:8000", "base URL of the server")
	cmd.Flags().IntVarP(&requests, "requests", "n", 50, "number of sequential requests")
	cmd.Flags().StringVar(&path, "path", "/", "path to request")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
	return cmd
}
