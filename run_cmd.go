package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jaimeestela/physicode/pkg/engine"
	"github.com/Jaimeestela/physicode/pkg/generate"
	"github.com/Jaimeestela/physicode/pkg/stl"
)

func newRunCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Evaluate a PhysiCode script and run its jobs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			eng := engine.NewEngine()
			jobs, evalErrs, err := eng.Evaluate(string(src))
			if err != nil {
				return fmt.Errorf("evaluating %s: %w", args[0], err)
			}
			if len(evalErrs) > 0 {
				for _, e := range evalErrs {
					log.Printf("%s: %s", args[0], e.Error())
				}
				return fmt.Errorf("%d script error(s)", len(evalErrs))
			}
			if len(jobs) == 0 {
				log.Printf("%s: no jobs defined", args[0])
				return nil
			}

			return runJobs(cmd.Context(), jobs, workers)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "extraction goroutines per job (0 = all CPUs)")
	return cmd
}

func runJobs(ctx context.Context, jobs []engine.Job, workers int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	for _, j := range jobs {
		opts := j.Options
		if workers > 0 {
			opts.Workers = workers
		}

		m, err := generate.Generate(ctx, j.Field, opts)
		if err != nil {
			return fmt.Errorf("job %q: %w", j.Name, err)
		}

		printAnalysis(j.Name, m, j.Density, j.WallThickness)

		if j.Output != "" {
			if err := stl.WriteFile(j.Output, m); err != nil {
				return fmt.Errorf("job %q: %w", j.Name, err)
			}
			log.Printf("wrote %s (%d triangles)", j.Output, m.FaceCount())
		}
	}
	return nil
}
