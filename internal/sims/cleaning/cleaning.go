package cleaning

import (
	"cleansim/internal/core"
)

// Agent is a single cleaning robot. Any number of agents may share a cell;
// the grid is multi-occupancy.
type Agent struct {
	X, Y int

	// Movements counts moves made over the agent's lifetime. Cleaning and
	// moving are mutually exclusive within one activation, so a cleaning
	// turn never increments it.
	Movements int
}

// Snapshot captures the aggregate metrics after one full step.
type Snapshot struct {
	Step            int     `json:"step"`
	DirtyCells      int     `json:"dirtyCells"`
	CleanPercentage float64 `json:"cleanPercentage"`
	TotalMovements  int     `json:"totalMovements"`
}

// Results is the final metrics record of a finished (or in-flight) run.
type Results struct {
	// StepsToClean is the first step index at which every cell was clean,
	// or 0 if the grid never became fully clean. Step indices start at 1.
	StepsToClean    int     `json:"stepsToClean"`
	CleanPercentage float64 `json:"cleanPercentage"`
	TotalMovements  int     `json:"totalMovements"`
	MaxStepsReached bool    `json:"maxStepsReached"`
	TotalSteps      int     `json:"totalSteps"`
}

// Model simulates cleaning robots on a bounded grid. Robots start co-located,
// clean the cell they stand on when it is dirty, and otherwise wander to a
// uniformly random Moore neighbor. Stepping is single-threaded and
// synchronous; the only nondeterminism is the seeded RNG.
type Model struct {
	cfg Config

	grid   *core.Grid
	agents []*Agent
	rng    *core.RNG

	currentStep  int
	dirtyCells   int
	stepsToClean int
	running      bool

	history []Snapshot
}

// New returns a cleaning model built from the provided configuration.
func New(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Model{cfg: cfg}
	if err := m.build(cfg.Seed); err != nil {
		return nil, err
	}
	return m, nil
}

// build materializes the initial state for the given seed. It is shared by
// New and Reset so a reset run is bit-for-bit identical to a fresh one.
func (m *Model) build(seed int64) error {
	grid, err := core.NewGrid(m.cfg.Width, m.cfg.Height)
	if err != nil {
		return err
	}
	rng := core.NewRNG(seed)

	total := m.cfg.Width * m.cfg.Height
	numDirty := int(m.cfg.DirtyPct / 100.0 * float64(total))
	if err := grid.SeedDirty(numDirty, rng); err != nil {
		return err
	}

	// All robots start at (1,1), clamped inward so 1-wide grids stay legal.
	startX := min(1, m.cfg.Width-1)
	startY := min(1, m.cfg.Height-1)
	agents := make([]*Agent, m.cfg.Agents)
	for i := range agents {
		agents[i] = &Agent{X: startX, Y: startY}
	}

	m.grid = grid
	m.rng = rng
	m.agents = agents
	m.currentStep = 0
	m.dirtyCells = numDirty
	m.stepsToClean = 0
	m.running = true
	m.history = nil
	return nil
}

// Name returns the simulation identifier.
func (m *Model) Name() string { return "cleaning" }

// Config returns the effective configuration of the run.
func (m *Model) Config() Config { return m.cfg }

// Size reports the grid dimensions.
func (m *Model) Size() core.Size { return core.Size{W: m.cfg.Width, H: m.cfg.Height} }

// Cells exposes the grid state, 1 per dirty cell.
func (m *Model) Cells() []uint8 { return m.grid.Cells() }

// Reset rebuilds the initial state using deterministic randomness. A zero
// seed falls back to the configured one.
func (m *Model) Reset(seed int64) {
	if seed == 0 {
		seed = m.cfg.Seed
	}
	// Dimensions were validated at construction, so build cannot fail here.
	_ = m.build(seed)
}

// Running reports whether the run still has budget left.
func (m *Model) Running() bool { return m.running }

// CurrentStep returns the number of completed steps.
func (m *Model) CurrentStep() int { return m.currentStep }

// DirtyCells returns the number of cells still dirty.
func (m *Model) DirtyCells() int { return m.dirtyCells }

// Agents exposes the robot collection.
func (m *Model) Agents() []*Agent { return m.agents }

// History returns the per-step metrics log, one snapshot per completed step.
func (m *Model) History() []Snapshot { return m.history }

// Step runs one full round: every agent activates exactly once, in a fresh
// random order, then a metrics snapshot is appended. Calling Step after the
// run has finished is a no-op; no counter moves.
func (m *Model) Step() {
	if !m.running {
		return
	}
	m.currentStep++

	// Fresh permutation each step so no agent systematically acts first.
	for _, i := range m.rng.Perm(len(m.agents)) {
		m.activate(m.agents[i])
	}

	m.history = append(m.history, Snapshot{
		Step:            m.currentStep,
		DirtyCells:      m.dirtyCells,
		CleanPercentage: m.CleanPercentage(),
		TotalMovements:  m.TotalMovements(),
	})

	if m.dirtyCells == 0 && m.stepsToClean == 0 {
		m.stepsToClean = m.currentStep
		if m.cfg.StopOnClean {
			m.running = false
		}
	}
	if m.currentStep >= m.cfg.MaxSteps {
		m.running = false
	}
}

// activate runs one agent's turn: clean the occupied cell if dirty,
// otherwise move to a random clipped Moore neighbor. Never both.
func (m *Model) activate(a *Agent) {
	if dirty, _ := m.grid.IsDirty(a.X, a.Y); dirty {
		if changed, _ := m.grid.Clean(a.X, a.Y); changed {
			m.dirtyCells--
		}
		return
	}

	nbrs := m.grid.Neighbors(a.X, a.Y)
	if len(nbrs) == 0 {
		// 1x1 grid: nowhere to go, the agent stays put.
		return
	}
	next := nbrs[m.rng.IntN(len(nbrs))]
	a.X, a.Y = next[0], next[1]
	a.Movements++
}

// CleanPercentage returns the share of clean cells in [0, 100].
func (m *Model) CleanPercentage() float64 {
	total := m.cfg.Width * m.cfg.Height
	return float64(total-m.dirtyCells) / float64(total) * 100.0
}

// TotalMovements sums every agent's movement counter.
func (m *Model) TotalMovements() int {
	sum := 0
	for _, a := range m.agents {
		sum += a.Movements
	}
	return sum
}

// Results returns a read-only snapshot of the final metrics.
func (m *Model) Results() Results {
	return Results{
		StepsToClean:    m.stepsToClean,
		CleanPercentage: m.CleanPercentage(),
		TotalMovements:  m.TotalMovements(),
		MaxStepsReached: m.currentStep >= m.cfg.MaxSteps,
		TotalSteps:      m.currentStep,
	}
}

func init() {
	core.Register("cleaning", func(cfg map[string]string) (core.Sim, error) {
		return New(FromMap(cfg))
	})
}
