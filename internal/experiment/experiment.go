// Package experiment runs batches of cleaning simulations across agent
// counts and aggregates the results, so the effect of crew size on cleaning
// time and movement cost can be compared.
package experiment

import (
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/montanaflynn/stats"

	"cleansim/internal/core"
	"cleansim/internal/sims/cleaning"
)

// Spec describes a full sweep: one trial per (agent count, repetition) pair,
// all sharing the same grid and dirt parameters.
type Spec struct {
	Width       int
	Height      int
	DirtyPct    float64
	MaxSteps    int
	AgentCounts []int
	Repetitions int

	// BaseSeed offsets every trial seed. A trial runs with seed
	// BaseSeed + agents*1000 + repetition, so each configuration is
	// reproducible in isolation.
	BaseSeed    int64
	StopOnClean bool

	// Workers bounds the number of concurrent trials; zero means NumCPU.
	Workers int
}

// DefaultSpec mirrors the standard experiment: a 10x10 half-dirty room
// swept by crews of 1 to 20 robots, ten repetitions each.
func DefaultSpec() Spec {
	return Spec{
		Width:       10,
		Height:      10,
		DirtyPct:    50,
		MaxSteps:    1000,
		AgentCounts: []int{1, 2, 3, 5, 10, 15, 20},
		Repetitions: 10,
	}
}

// Trial is the outcome of one simulation run within a sweep.
type Trial struct {
	Agents     int
	Repetition int
	Seed       int64
	Results    cleaning.Results
}

// Run executes every trial of the spec on a bounded worker pool and returns
// the rows sorted by (agents, repetition). Trial seeds are derived from the
// spec alone, so results do not depend on worker interleaving.
func Run(spec Spec, logger *slog.Logger) ([]Trial, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(spec.AgentCounts) == 0 {
		return nil, fmt.Errorf("%w: no agent counts to sweep", core.ErrInvalidConfig)
	}
	if spec.Repetitions <= 0 {
		return nil, fmt.Errorf("%w: repetitions %d must be positive", core.ErrInvalidConfig, spec.Repetitions)
	}
	// Validate every configuration before spinning anything up.
	for _, agents := range spec.AgentCounts {
		if err := spec.config(agents, 0).Validate(); err != nil {
			return nil, err
		}
	}

	workers := spec.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type job struct {
		agents, rep int
	}
	jobs := make(chan job)
	results := make(chan Trial)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				cfg := spec.config(j.agents, j.rep)
				m, err := cleaning.New(cfg)
				if err != nil {
					// Parameters were validated up front; per-trial
					// construction cannot fail after that.
					logger.Error("trial construction failed", "agents", j.agents, "rep", j.rep, "err", err)
					continue
				}
				for m.Running() {
					m.Step()
				}
				results <- Trial{
					Agents:     j.agents,
					Repetition: j.rep,
					Seed:       cfg.Seed,
					Results:    m.Results(),
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, agents := range spec.AgentCounts {
			logger.Info("sweeping configuration", "agents", agents, "repetitions", spec.Repetitions)
			for rep := 0; rep < spec.Repetitions; rep++ {
				jobs <- job{agents: agents, rep: rep}
			}
		}
		close(jobs)
	}()

	var trials []Trial
	for tr := range results {
		logger.Debug("trial finished",
			"agents", tr.Agents,
			"rep", tr.Repetition,
			"stepsToClean", tr.Results.StepsToClean,
			"totalMovements", tr.Results.TotalMovements)
		trials = append(trials, tr)
	}

	sort.Slice(trials, func(i, j int) bool {
		if trials[i].Agents != trials[j].Agents {
			return trials[i].Agents < trials[j].Agents
		}
		return trials[i].Repetition < trials[j].Repetition
	})
	return trials, nil
}

func (s Spec) config(agents, rep int) cleaning.Config {
	return cleaning.Config{
		Width:       s.Width,
		Height:      s.Height,
		Agents:      agents,
		DirtyPct:    s.DirtyPct,
		MaxSteps:    s.MaxSteps,
		Seed:        s.BaseSeed + int64(agents)*1000 + int64(rep),
		StopOnClean: s.StopOnClean,
	}
}

// GroupSummary aggregates all repetitions of one agent count.
type GroupSummary struct {
	Agents int
	Runs   int

	// CleanedRuns counts runs that reached a fully clean grid; the steps
	// statistics below cover only those runs.
	CleanedRuns   int
	PctFullyClean float64

	StepsMean float64
	StepsStd  float64
	StepsMin  float64
	StepsMax  float64

	MovesMean float64
	MovesStd  float64
	MovesMin  float64
	MovesMax  float64

	CleanPctMean float64
	CleanPctStd  float64
}

// Summarize groups trials by agent count and computes mean/std/min/max of
// steps-to-clean and total movements, ordered by ascending agent count.
func Summarize(trials []Trial) []GroupSummary {
	byAgents := map[int][]Trial{}
	var order []int
	for _, tr := range trials {
		if _, seen := byAgents[tr.Agents]; !seen {
			order = append(order, tr.Agents)
		}
		byAgents[tr.Agents] = append(byAgents[tr.Agents], tr)
	}
	sort.Ints(order)

	out := make([]GroupSummary, 0, len(order))
	for _, agents := range order {
		group := byAgents[agents]
		var steps, moves, cleanPct []float64
		for _, tr := range group {
			if tr.Results.StepsToClean > 0 {
				steps = append(steps, float64(tr.Results.StepsToClean))
			}
			moves = append(moves, float64(tr.Results.TotalMovements))
			cleanPct = append(cleanPct, tr.Results.CleanPercentage)
		}

		gs := GroupSummary{
			Agents:        agents,
			Runs:          len(group),
			CleanedRuns:   len(steps),
			PctFullyClean: float64(len(steps)) / float64(len(group)) * 100.0,
		}
		gs.StepsMean, gs.StepsStd, gs.StepsMin, gs.StepsMax = aggregate(steps)
		gs.MovesMean, gs.MovesStd, gs.MovesMin, gs.MovesMax = aggregate(moves)
		gs.CleanPctMean, gs.CleanPctStd, _, _ = aggregate(cleanPct)
		out = append(out, gs)
	}
	return out
}

// aggregate returns mean, sample standard deviation, min and max, or zeros
// for an empty series (stats errors only on empty input here).
func aggregate(xs []float64) (mean, std, minV, maxV float64) {
	if len(xs) == 0 {
		return 0, 0, 0, 0
	}
	mean, _ = stats.Mean(xs)
	std, _ = stats.StandardDeviationSample(xs)
	minV, _ = stats.Min(xs)
	maxV, _ = stats.Max(xs)
	return mean, std, minV, maxV
}
