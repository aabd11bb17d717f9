package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/nlcemu/internal/cosmo"
	"github.com/san-kum/nlcemu/internal/numeric"
)

// Objective scores a cosmology; lower is better.
type Objective func(ctx context.Context, p cosmo.Params) (float64, error)

type GridSearch struct {
	paramIdx []int
	ranges   [][]float64
}

// Result is the best grid point. Skipped counts grid points outside the
// admissible parameter box.
type Result struct {
	Best      cosmo.Params
	Value     float64
	Evaluated int
	Skipped   int
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("grid search: %d parameters but %d ranges", len(params), len(ranges))
	}
	g := &GridSearch{ranges: ranges}
	for i, name := range params {
		idx := paramIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("grid search: unknown parameter %q (have %v)", name, cosmo.ParamNames)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("grid search: empty range for %s", name)
		}
		g.paramIdx = append(g.paramIdx, idx)
	}
	return g, nil
}

func paramIndex(name string) int {
	for i, n := range cosmo.ParamNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Linspace returns n evenly spaced values on [lo, hi] with exact ends.
func Linspace(lo, hi float64, n int) []float64 {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	out[n-1] = hi
	return out
}

// Search evaluates obj at every grid point, holding the parameters not on
// the grid at their values in base. Out-of-range points are skipped; any
// other objective error aborts the search.
func (g *GridSearch) Search(ctx context.Context, base cosmo.Params, obj Objective) (Result, error) {
	res := Result{Value: math.Inf(1)}
	if err := g.searchRecursive(ctx, 0, base.Vector(), obj, &res); err != nil {
		return Result{}, err
	}
	if res.Evaluated == 0 {
		return Result{}, fmt.Errorf("grid search: no admissible grid point (%d skipped): %w", res.Skipped, numeric.ErrParameterOutOfRange)
	}
	return res, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current [cosmo.NumParams]float64, obj Objective, res *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramIdx) {
		p := cosmo.ParamsFromVector(current)
		if err := p.Validate(); err != nil {
			res.Skipped++
			return nil
		}
		val, err := obj(ctx, p)
		if errors.Is(err, numeric.ErrParameterOutOfRange) {
			res.Skipped++
			return nil
		}
		if err != nil {
			return fmt.Errorf("grid point %s: %w", p, err)
		}
		res.Evaluated++
		if val < res.Value {
			res.Value = val
			res.Best = p
		}
		return nil
	}

	for _, val := range g.ranges[depth] {
		next := current
		next[g.paramIdx[depth]] = val
		if err := g.searchRecursive(ctx, depth+1, next, obj, res); err != nil {
			return err
		}
	}
	return nil
}
