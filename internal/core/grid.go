package core

import "fmt"

// Grid stores the dirty/clean state of a bounded W x H room in row-major
// order. Cells hold 1 when dirty and 0 when clean.
type Grid struct {
	W, H int
	data []uint8
}

// NewGrid allocates an all-clean grid with the given dimensions.
func NewGrid(w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: grid dimensions %dx%d must be positive", ErrInvalidConfig, w, h)
	}
	return &Grid{W: w, H: h, data: make([]uint8, w*h)}, nil
}

// Cells exposes the backing slice so callers can read values directly.
func (g *Grid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return y*g.W + x }

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// IsDirty reports whether the cell at (x, y) is dirty.
func (g *Grid) IsDirty(x, y int) (bool, error) {
	if !g.InBounds(x, y) {
		return false, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, g.W, g.H)
	}
	return g.data[g.Index(x, y)] == 1, nil
}

// Clean marks the cell at (x, y) clean. It returns true only when the cell
// transitioned from dirty to clean, so callers can maintain an aggregate
// dirty counter without rescanning the grid.
func (g *Grid) Clean(x, y int) (bool, error) {
	if !g.InBounds(x, y) {
		return false, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, g.W, g.H)
	}
	idx := g.Index(x, y)
	if g.data[idx] == 0 {
		return false, nil
	}
	g.data[idx] = 0
	return true, nil
}

// SeedDirty marks numDirty distinct cells dirty, sampled uniformly without
// replacement from the full coordinate set.
func (g *Grid) SeedDirty(numDirty int, rng *RNG) error {
	total := g.W * g.H
	if numDirty < 0 || numDirty > total {
		return fmt.Errorf("%w: %d dirty cells on a %d-cell grid", ErrInvalidConfig, numDirty, total)
	}
	for _, idx := range rng.Perm(total)[:numDirty] {
		g.data[idx] = 1
	}
	return nil
}

// DirtyCount rescans the grid and returns the number of dirty cells.
func (g *Grid) DirtyCount() int {
	n := 0
	for _, v := range g.data {
		if v == 1 {
			n++
		}
	}
	return n
}

// Neighbors returns the Moore neighborhood of (x, y) clipped to the grid
// bounds, excluding the center cell. The scan order is fixed (dy outer, dx
// inner) so runs with a seeded RNG are reproducible.
func (g *Grid) Neighbors(x, y int) [][2]int {
	out := make([][2]int, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		ny := y + dy
		if ny < 0 || ny >= g.H {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			nx := x + dx
			if nx < 0 || nx >= g.W {
				continue
			}
			if dx == 0 && dy == 0 {
				continue
			}
			out = append(out, [2]int{nx, ny})
		}
	}
	return out
}
