package solver_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/curvelib/swap/config"
	"github.com/meenmo/curvelib/swap/solver"
)

func TestNewtonFindsRoot(t *testing.T) {
	t.Parallel()

	// df such that 1/df - 1 = 0.05 * 2
	f := func(x float64) (float64, error) { return 1.0/x - 1.1, nil }
	res, err := solver.Newton(f, 1.0, config.DefaultConfig)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/1.1, res.Root, 1e-12)
	assert.LessOrEqual(t, res.Iterations, 10)
}

func TestNewtonExactRootAtGuess(t *testing.T) {
	t.Parallel()

	res, err := solver.Newton(func(x float64) (float64, error) { return x - 0.5, nil }, 0.5, config.DefaultConfig)
	require.NoError(t, err)
	assert.Equal(t, 0.5, res.Root)
	assert.Equal(t, 1, res.Iterations)
}

func TestNewtonBudgetExhausted(t *testing.T) {
	t.Parallel()

	c := config.DefaultConfig
	c.MaxIterations = 3
	// x^2 + 1 has no real root; Newton wanders without converging
	f := func(x float64) (float64, error) { return x*x + 1, nil }
	_, err := solver.Newton(f, 0.9, c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, solver.ErrNotConverged))
}

func TestNewtonFlatObjective(t *testing.T) {
	t.Parallel()

	_, err := solver.Newton(func(float64) (float64, error) { return 1, nil }, 0.9, config.DefaultConfig)
	assert.ErrorIs(t, err, solver.ErrNotConverged)
}

func TestNewtonNonFinite(t *testing.T) {
	t.Parallel()

	_, err := solver.Newton(func(float64) (float64, error) { return math.NaN(), nil }, 0.9, config.DefaultConfig)
	assert.ErrorIs(t, err, solver.ErrNotConverged)
}

func TestNewtonPropagatesObjectiveError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := solver.Newton(func(float64) (float64, error) { return 0, boom }, 0.9, config.DefaultConfig)
	assert.ErrorIs(t, err, boom)
}

func TestNewtonBudgetExhaustedKeepsObjectiveError(t *testing.T) {
	t.Parallel()

	c := config.DefaultConfig
	c.MaxIterations = 1
	boom := errors.New("boom")
	calls := 0
	// one iteration evaluates x and x+h; the third call is the final residual
	f := func(x float64) (float64, error) {
		calls++
		if calls == 3 {
			return 0, boom
		}
		return x*x + 1, nil
	}
	_, err := solver.Newton(f, 0.9, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, solver.ErrNotConverged)
	assert.Equal(t, 3, calls)
}
