package strategy

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// penalty weight for missing the target-return floor
const returnPenalty = 1e4

// frontier runs constrained mean-variance solves over the long-only,
// fully-invested simplex. The unconstrained minimizer is consumed as a
// black box; constraints are enforced through the squared-simplex
// parameterization w_i = x_i^2 / sum_j x_j^2.
type frontier struct {
	keys []string
	mu   []float64
	cov  [][]float64
}

func (f frontier) minVolatility() (map[string]float64, error) {
	return f.solve(f.variance)
}

func (f frontier) efficientReturn(target float64) (map[string]float64, error) {
	return f.solve(func(w []float64) float64 {
		shortfall := target - f.expectedReturn(w)
		if shortfall < 0 {
			shortfall = 0
		}
		return f.variance(w) + returnPenalty*shortfall*shortfall
	})
}

func (f frontier) maxSharpe(riskFree float64) (map[string]float64, error) {
	return f.solve(func(w []float64) float64 {
		vol := math.Sqrt(f.variance(w))
		return -(f.expectedReturn(w) - riskFree) / vol
	})
}

func (f frontier) expectedReturn(w []float64) float64 {
	total := 0.0
	for i, wi := range w {
		total += wi * f.mu[i]
	}
	return total
}

func (f frontier) variance(w []float64) float64 {
	total := 0.0
	for i, wi := range w {
		for j, wj := range w {
			total += wi * wj * f.cov[i][j]
		}
	}
	return total
}

func (f frontier) solve(objective func(w []float64) float64) (map[string]float64, error) {
	n := len(f.keys)
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return objective(weightsFromParams(x))
		},
	}

	// start from equal weights
	x0 := make([]float64, n)
	for i := range x0 {
		x0[i] = 1
	}

	if v := problem.Func(x0); math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("objective is not finite at the starting point")
	}

	result, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("failed to minimize objective: %w", err)
	}

	weights := weightsFromParams(result.X)
	out := map[string]float64{}
	for i, k := range f.keys {
		w := weights[i]
		if math.IsNaN(w) {
			return nil, fmt.Errorf("solver produced NaN weight for %s", k)
		}
		if w < 0 {
			w = 0
		}
		if w > 1 {
			w = 1
		}
		out[k] = w
	}

	return out, nil
}

func weightsFromParams(x []float64) []float64 {
	total := 0.0
	for _, v := range x {
		total += v * v
	}
	w := make([]float64, len(x))
	if total == 0 {
		for i := range w {
			w[i] = 1 / float64(len(x))
		}
		return w
	}
	for i, v := range x {
		w[i] = v * v / total
	}
	return w
}
