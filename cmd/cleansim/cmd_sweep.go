package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"cleansim/internal/config"
	"cleansim/internal/experiment"
	"cleansim/internal/logging"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the agent-count experiment and report aggregate results",
		Long: `Run the full experiment: for every agent count, repeat the simulation with
per-trial seeds, then tabulate mean/std/min/max of steps-to-clean and total
movements per crew size. Trial rows are written to CSV and the per-crew
means are plotted as PNG charts.

Examples:
  cleansim sweep                          # defaults: 10x10, 50% dirty, crews 1-20
  cleansim sweep --config experiment.yaml
  cleansim sweep --agent-counts 1,5,25 --repetitions 30 --csv out.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			// Flags that were set explicitly override the config file.
			if cmd.Flags().Changed("width") {
				cfg.Width, _ = cmd.Flags().GetInt("width")
			}
			if cmd.Flags().Changed("height") {
				cfg.Height, _ = cmd.Flags().GetInt("height")
			}
			if cmd.Flags().Changed("dirty-pct") {
				cfg.DirtyPct, _ = cmd.Flags().GetFloat64("dirty-pct")
			}
			if cmd.Flags().Changed("max-steps") {
				cfg.MaxSteps, _ = cmd.Flags().GetInt("max-steps")
			}
			if cmd.Flags().Changed("agent-counts") {
				cfg.AgentCounts, _ = cmd.Flags().GetIntSlice("agent-counts")
			}
			if cmd.Flags().Changed("repetitions") {
				cfg.Repetitions, _ = cmd.Flags().GetInt("repetitions")
			}
			if cmd.Flags().Changed("base-seed") {
				cfg.BaseSeed, _ = cmd.Flags().GetInt64("base-seed")
			}
			if cmd.Flags().Changed("stop-on-clean") {
				cfg.StopOnClean, _ = cmd.Flags().GetBool("stop-on-clean")
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers, _ = cmd.Flags().GetInt("workers")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			level, _ := cmd.Flags().GetString("log-level")
			if cfg.Logging.Level != "" && !cmd.Flags().Changed("log-level") {
				level = cfg.Logging.Level
			}
			logger := logging.New(level, cmd.ErrOrStderr())

			trials, err := experiment.Run(cfg.Spec(), logger)
			if err != nil {
				return err
			}
			sums := experiment.Summarize(trials)

			csvPath, _ := cmd.Flags().GetString("csv")
			if csvPath != "" {
				f, err := os.Create(csvPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", csvPath, err)
				}
				if err := experiment.WriteCSV(f, trials); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				logger.Info("wrote trial rows", "path", csvPath, "rows", len(trials))
			}

			chartPrefix, _ := cmd.Flags().GetString("chart-prefix")
			if chartPrefix != "" {
				if err := writeChart(chartPrefix+"_steps.png", sums, experiment.RenderStepsChart); err != nil {
					// A sweep where nothing finished cleaning has no steps
					// chart; the movement chart may still render.
					logger.Warn("skipping steps chart", "err", err)
				}
				if err := writeChart(chartPrefix+"_movements.png", sums, experiment.RenderMovementsChart); err != nil {
					logger.Warn("skipping movements chart", "err", err)
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"summary": sums})
			}

			fmt.Fprintf(out, "%dx%d grid, %.0f%% dirty, %d repetitions, budget %d steps\n\n",
				cfg.Width, cfg.Height, cfg.DirtyPct, cfg.Repetitions, cfg.MaxSteps)
			fmt.Fprintf(out, "%7s %9s %12s %10s %10s %12s %10s %8s\n",
				"agents", "cleaned%", "steps(mean)", "steps(std)", "steps(min)", "steps(max)", "moves(mean)", "moves(std)")
			for _, gs := range sums {
				fmt.Fprintf(out, "%7d %8.1f%% %12.2f %10.2f %10.0f %12.0f %10.2f %8.2f\n",
					gs.Agents, gs.PctFullyClean,
					gs.StepsMean, gs.StepsStd, gs.StepsMin, gs.StepsMax,
					gs.MovesMean, gs.MovesStd)
			}
			return nil
		},
	}

	cmd.Flags().String("config", "", "YAML experiment config file")
	cmd.Flags().Int("width", 10, "Grid width")
	cmd.Flags().Int("height", 10, "Grid height")
	cmd.Flags().Float64("dirty-pct", 50, "Initial percentage of dirty cells [0-100]")
	cmd.Flags().Int("max-steps", 1000, "Step budget per trial")
	cmd.Flags().IntSlice("agent-counts", []int{1, 2, 3, 5, 10, 15, 20}, "Agent counts to sweep")
	cmd.Flags().Int("repetitions", 10, "Repetitions per agent count")
	cmd.Flags().Int64("base-seed", 0, "Offset added to every trial seed")
	cmd.Flags().Bool("stop-on-clean", false, "Stop each trial as soon as the grid is fully clean")
	cmd.Flags().Int("workers", 0, "Concurrent trials (0 = NumCPU)")
	cmd.Flags().String("csv", "cleaning_results.csv", "Trial rows output file (empty to skip)")
	cmd.Flags().String("chart-prefix", "cleaning_results", "Prefix for chart PNGs (empty to skip)")
	return cmd
}

func writeChart(path string, sums []experiment.GroupSummary, render func(w io.Writer, sums []experiment.GroupSummary) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f, sums); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
