package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cleansim/internal/core"
	"cleansim/internal/sims/cleaning"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single simulation and print its results",
		Long: `Run one cleaning simulation to completion and print the final metrics.

Examples:
  cleansim run                          # 10x10 grid, 50% dirty, 1 robot
  cleansim run --agents 5 --seed 7      # reproducible 5-robot run
  cleansim run --stop-on-clean --json   # stop once clean, JSON output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			width, _ := cmd.Flags().GetInt("width")
			height, _ := cmd.Flags().GetInt("height")
			agents, _ := cmd.Flags().GetInt("agents")
			dirtyPct, _ := cmd.Flags().GetFloat64("dirty-pct")
			maxSteps, _ := cmd.Flags().GetInt("max-steps")
			seed, _ := cmd.Flags().GetInt64("seed")
			stopOnClean, _ := cmd.Flags().GetBool("stop-on-clean")
			withHistory, _ := cmd.Flags().GetBool("history")
			jsonOut, _ := cmd.Flags().GetBool("json")

			factory, ok := core.Sims()["cleaning"]
			if !ok {
				return fmt.Errorf("cleaning simulation not registered")
			}
			sim, err := factory(map[string]string{
				"w":             strconv.Itoa(width),
				"h":             strconv.Itoa(height),
				"agents":        strconv.Itoa(agents),
				"dirty_pct":     strconv.FormatFloat(dirtyPct, 'f', -1, 64),
				"max_steps":     strconv.Itoa(maxSteps),
				"seed":          strconv.FormatInt(seed, 10),
				"stop_on_clean": strconv.FormatBool(stopOnClean),
			})
			if err != nil {
				return err
			}
			model := sim.(*cleaning.Model)

			for model.Running() {
				model.Step()
			}
			res := model.Results()

			out := cmd.OutOrStdout()
			if jsonOut {
				payload := map[string]any{"results": res}
				if withHistory {
					payload["history"] = model.History()
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			}

			cfg := model.Config()
			fmt.Fprintf(out, "Grid:            %dx%d (%.0f%% dirty, %d robots)\n", cfg.Width, cfg.Height, cfg.DirtyPct, cfg.Agents)
			if res.StepsToClean > 0 {
				fmt.Fprintf(out, "Steps to clean:  %d\n", res.StepsToClean)
			} else {
				fmt.Fprintf(out, "Steps to clean:  never (budget %d exhausted)\n", cfg.MaxSteps)
			}
			fmt.Fprintf(out, "Clean:           %.2f%%\n", res.CleanPercentage)
			fmt.Fprintf(out, "Total movements: %d\n", res.TotalMovements)
			fmt.Fprintf(out, "Total steps:     %d\n", res.TotalSteps)
			if withHistory {
				for _, snap := range model.History() {
					fmt.Fprintf(out, "step %4d: dirty=%d clean=%.2f%% movements=%d\n",
						snap.Step, snap.DirtyCells, snap.CleanPercentage, snap.TotalMovements)
				}
			}
			return nil
		},
	}

	def := cleaning.DefaultConfig()
	cmd.Flags().Int("width", def.Width, "Grid width")
	cmd.Flags().Int("height", def.Height, "Grid height")
	cmd.Flags().Int("agents", def.Agents, "Number of cleaning robots")
	cmd.Flags().Float64("dirty-pct", def.DirtyPct, "Initial percentage of dirty cells [0-100]")
	cmd.Flags().Int("max-steps", def.MaxSteps, "Step budget")
	cmd.Flags().Int64("seed", def.Seed, "Random seed")
	cmd.Flags().Bool("stop-on-clean", false, "Stop as soon as the grid is fully clean")
	cmd.Flags().Bool("history", false, "Include the per-step metrics log")
	return cmd
}
