package cleaning

import (
	"errors"
	"testing"

	"cleansim/internal/core"
)

func mustNew(t *testing.T, cfg Config) *Model {
	t.Helper()
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestValidationFailures(t *testing.T) {
	base := DefaultConfig()
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -2 }},
		{"zero agents", func(c *Config) { c.Agents = 0 }},
		{"negative dirty pct", func(c *Config) { c.DirtyPct = -1 }},
		{"dirty pct over 100", func(c *Config) { c.DirtyPct = 100.5 }},
		{"zero max steps", func(c *Config) { c.MaxSteps = 0 }},
	}
	for _, tc := range cases {
		cfg := base
		tc.mutate(&cfg)
		if _, err := New(cfg); !errors.Is(err, core.ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tc.name, err)
		}
	}
}

func TestDirtyCountTruncates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 3, 3
	cfg.DirtyPct = 50 // 4.5 cells truncates to 4
	m := mustNew(t, cfg)
	if m.DirtyCells() != 4 {
		t.Fatalf("initial dirty cells = %d, want 4", m.DirtyCells())
	}
}

func TestConservationAndMonotonicity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 8, 8
	cfg.Agents = 4
	cfg.DirtyPct = 60
	cfg.MaxSteps = 200
	cfg.Seed = 7
	m := mustNew(t, cfg)

	prevDirty := m.DirtyCells()
	prevMoves := make([]int, len(m.Agents()))
	step := 0
	for m.Running() {
		m.Step()
		step++
		if m.CurrentStep() != step {
			t.Fatalf("currentStep = %d after %d calls", m.CurrentStep(), step)
		}
		if got := m.grid.DirtyCount(); got != m.DirtyCells() {
			t.Fatalf("step %d: counter %d desynchronized from grid %d", step, m.DirtyCells(), got)
		}
		if m.DirtyCells() < 0 {
			t.Fatalf("step %d: dirty counter went negative", step)
		}
		if m.DirtyCells() > prevDirty {
			t.Fatalf("step %d: dirty count rose from %d to %d", step, prevDirty, m.DirtyCells())
		}
		prevDirty = m.DirtyCells()
		for i, a := range m.Agents() {
			if a.Movements < prevMoves[i] {
				t.Fatalf("step %d: agent %d movement counter decreased", step, i)
			}
			prevMoves[i] = a.Movements
		}
	}
}

func TestDeterminism(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 6, 7
	cfg.Agents = 3
	cfg.DirtyPct = 40
	cfg.MaxSteps = 120
	cfg.Seed = 99

	a := mustNew(t, cfg)
	b := mustNew(t, cfg)
	for a.Running() {
		a.Step()
		b.Step()
	}
	if b.Running() {
		t.Fatal("twin run still running after the first finished")
	}

	ha, hb := a.History(), b.History()
	if len(ha) != len(hb) {
		t.Fatalf("history lengths differ: %d vs %d", len(ha), len(hb))
	}
	for i := range ha {
		if ha[i] != hb[i] {
			t.Fatalf("history diverges at step %d: %+v vs %+v", i+1, ha[i], hb[i])
		}
	}
	if a.Results() != b.Results() {
		t.Fatalf("results differ: %+v vs %+v", a.Results(), b.Results())
	}
}

func TestResetReproducesRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 5, 5
	cfg.Agents = 2
	cfg.MaxSteps = 50
	cfg.Seed = 3
	m := mustNew(t, cfg)
	for m.Running() {
		m.Step()
	}
	first := m.Results()

	m.Reset(0)
	if !m.Running() || m.CurrentStep() != 0 || len(m.History()) != 0 {
		t.Fatal("Reset did not restore the initial state")
	}
	for m.Running() {
		m.Step()
	}
	if m.Results() != first {
		t.Fatalf("reset run differs: %+v vs %+v", m.Results(), first)
	}
}

func TestTerminationWithinBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 4, 4
	cfg.MaxSteps = 25
	m := mustNew(t, cfg)

	for i := 0; i < cfg.MaxSteps; i++ {
		if !m.Running() {
			t.Fatalf("stopped early at step %d without StopOnClean", i)
		}
		m.Step()
	}
	if m.Running() {
		t.Fatal("still running after maxSteps calls")
	}
	res := m.Results()
	if !res.MaxStepsReached || res.TotalSteps != cfg.MaxSteps {
		t.Fatalf("unexpected results after budget: %+v", res)
	}
}

func TestStepAfterFinishedIsNoOp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 4, 4
	cfg.MaxSteps = 5
	m := mustNew(t, cfg)
	for m.Running() {
		m.Step()
	}
	res := m.Results()
	hist := len(m.History())

	m.Step()
	m.Step()
	if m.Results() != res || len(m.History()) != hist || m.CurrentStep() != cfg.MaxSteps {
		t.Fatal("Step after Finished mutated state")
	}
}

func TestCleanAndMoveAreExclusive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 2, 2
	cfg.Agents = 1
	cfg.DirtyPct = 100
	cfg.MaxSteps = 1
	m := mustNew(t, cfg)

	m.Step()
	// The agent stood on a dirty cell, so its whole turn was the cleanup.
	if m.DirtyCells() != 3 {
		t.Fatalf("dirty cells = %d after one activation, want 3", m.DirtyCells())
	}
	if got := m.TotalMovements(); got != 0 {
		t.Fatalf("agent moved %d times in a cleaning turn", got)
	}
}

// Scenario: an already-clean grid is fully clean after the first step.
func TestAllCleanGridTimestampsImmediately(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 5, 5
	cfg.Agents = 1
	cfg.DirtyPct = 0
	cfg.MaxSteps = 10
	m := mustNew(t, cfg)

	for m.Running() {
		m.Step()
	}
	res := m.Results()
	if res.StepsToClean != 1 {
		t.Fatalf("stepsToClean = %d on a clean grid, want 1", res.StepsToClean)
	}
	if res.TotalSteps != cfg.MaxSteps {
		t.Fatalf("run stopped at %d steps without StopOnClean", res.TotalSteps)
	}
	if res.TotalMovements > cfg.MaxSteps {
		t.Fatalf("one agent recorded %d movements in %d steps", res.TotalMovements, cfg.MaxSteps)
	}
}

// Scenario: a single random walker eventually covers a fully dirty 3x3 grid.
func TestSingleAgentCleansEverything(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 3, 3
	cfg.Agents = 1
	cfg.DirtyPct = 100
	cfg.MaxSteps = 1000
	cfg.Seed = 21
	m := mustNew(t, cfg)

	for m.Running() {
		m.Step()
	}
	res := m.Results()
	if res.StepsToClean == 0 {
		t.Fatalf("grid never became clean: %+v", res)
	}
	if res.StepsToClean > cfg.MaxSteps {
		t.Fatalf("stepsToClean %d exceeds budget", res.StepsToClean)
	}
	if res.CleanPercentage != 100 {
		t.Fatalf("clean percentage = %.2f, want 100", res.CleanPercentage)
	}
	// The timestamp must match the first zero-dirty snapshot exactly.
	for _, snap := range m.History() {
		if snap.DirtyCells == 0 {
			if snap.Step != res.StepsToClean {
				t.Fatalf("first clean snapshot at step %d but stepsToClean = %d", snap.Step, res.StepsToClean)
			}
			break
		}
	}
}

// Scenario: three co-located agents on a 1x1 grid. One cleans on the first
// step, the rest find no neighbors and stay, without erroring.
func TestSingleCellGrid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 1, 1
	cfg.Agents = 3
	cfg.DirtyPct = 100
	cfg.MaxSteps = 5
	m := mustNew(t, cfg)

	m.Step()
	if m.DirtyCells() != 0 {
		t.Fatalf("single cell still dirty after first step")
	}
	res := m.Results()
	if res.StepsToClean != 1 {
		t.Fatalf("stepsToClean = %d, want 1", res.StepsToClean)
	}
	for m.Running() {
		m.Step()
	}
	if got := m.TotalMovements(); got != 0 {
		t.Fatalf("agents moved %d times on a 1x1 grid", got)
	}
}

func TestStopOnCleanVariant(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 3, 3
	cfg.Agents = 2
	cfg.DirtyPct = 100
	cfg.MaxSteps = 5000
	cfg.Seed = 11
	cfg.StopOnClean = true
	m := mustNew(t, cfg)

	for m.Running() {
		m.Step()
	}
	res := m.Results()
	if res.StepsToClean == 0 {
		t.Fatalf("grid never became clean: %+v", res)
	}
	if res.TotalSteps != res.StepsToClean {
		t.Fatalf("run continued to step %d after cleaning at %d", res.TotalSteps, res.StepsToClean)
	}
}

// More robots should not slow the cleanup down, statistically.
func TestMoreAgentsCleanFasterOnAverage(t *testing.T) {
	mean := func(agents int) float64 {
		sum, runs := 0.0, 0
		for rep := 0; rep < 20; rep++ {
			cfg := DefaultConfig()
			cfg.Width, cfg.Height = 6, 6
			cfg.Agents = agents
			cfg.DirtyPct = 50
			cfg.MaxSteps = 5000
			cfg.Seed = int64(agents*1000 + rep)
			m := mustNew(t, cfg)
			for m.Running() {
				m.Step()
			}
			if res := m.Results(); res.StepsToClean > 0 {
				sum += float64(res.StepsToClean)
				runs++
			}
		}
		if runs == 0 {
			t.Fatal("no run finished cleaning within budget")
		}
		return sum / float64(runs)
	}

	if m1, m10 := mean(1), mean(10); m10 > m1 {
		t.Fatalf("10 agents averaged %.1f steps, 1 agent %.1f", m10, m1)
	}
}

func TestRegisteredFactory(t *testing.T) {
	factory, ok := core.Sims()["cleaning"]
	if !ok {
		t.Fatal("cleaning sim not registered")
	}
	sim, err := factory(map[string]string{"w": "4", "h": "3", "seed": "5"})
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if size := sim.Size(); size.W != 4 || size.H != 3 {
		t.Fatalf("factory produced size %+v", size)
	}
	sim.Step()
	if len(sim.Cells()) != 12 {
		t.Fatalf("cells length %d, want 12", len(sim.Cells()))
	}
}
