package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/expr"
	"gonum.org/v1/gonum/optimize"
)

// SolverSettings tune the penalty method wrapped around gonum's L-BFGS.
type SolverSettings struct {
	// Weights is the increasing penalty schedule. Each stage restarts the
	// optimizer from the previous solution.
	Weights []float64 `yaml:"weights" mapstructure:"weights"`
	// Slack pushes inequality residuals this far past zero.
	Slack float64 `yaml:"slack" mapstructure:"slack"`
	// Tolerance is the largest residual accepted as satisfied.
	Tolerance         float64 `yaml:"tolerance" mapstructure:"tolerance"`
	MaxIterations     int     `yaml:"max_iterations" mapstructure:"max_iterations"`
	MaxEvaluations    int     `yaml:"max_evaluations" mapstructure:"max_evaluations"`
	GradientThreshold float64 `yaml:"gradient_threshold" mapstructure:"gradient_threshold"`
}

// DefaultSolverSettings returns the settings used when none are given.
func DefaultSolverSettings() SolverSettings {
	return SolverSettings{
		Weights:           []float64{1, 10, 100, 1000, 10000},
		Slack:             0.5,
		Tolerance:         1e-3,
		MaxIterations:     1000,
		MaxEvaluations:    20000,
		GradientThreshold: 1e-9,
	}
}

func (s SolverSettings) withDefaults() SolverSettings {
	d := DefaultSolverSettings()
	if len(s.Weights) == 0 {
		s.Weights = d.Weights
	}
	if s.Slack <= 0 {
		s.Slack = d.Slack
	}
	if s.Tolerance <= 0 {
		s.Tolerance = d.Tolerance
	}
	if s.MaxIterations <= 0 {
		s.MaxIterations = d.MaxIterations
	}
	if s.MaxEvaluations <= 0 {
		s.MaxEvaluations = d.MaxEvaluations
	}
	if s.GradientThreshold <= 0 {
		s.GradientThreshold = d.GradientThreshold
	}
	return s
}

type solution struct {
	x          []float64
	energy     float64
	iterations int
}

// ctxRecorder aborts the optimizer once the build context is done.
type ctxRecorder struct {
	ctx        context.Context
	iterations int
}

func (r *ctxRecorder) Init() error { return r.ctx.Err() }

func (r *ctxRecorder) Record(_ *optimize.Location, op optimize.Operation, _ *optimize.Stats) error {
	if op == optimize.MajorIteration {
		r.iterations++
	}
	return r.ctx.Err()
}

// energy builds w·Σ eq² + w·Σ max(0, le+slack)² + Σ weight·objective.
func energy(st *style, w, slack float64) *expr.Expr {
	terms := make([]*expr.Expr, 0, len(st.constraints)+len(st.objectives))
	wc := expr.Const(w)
	for _, c := range st.constraints {
		r := c.Residual
		if c.Relation == domain.RelationLe {
			r = expr.Max(expr.Add(r, expr.Const(slack)), expr.Zero())
		}
		terms = append(terms, expr.Mul(wc, expr.Square(r)))
	}
	for _, o := range st.objectives {
		terms = append(terms, expr.Scale(o.weight, o.expr))
	}
	return expr.Sum(terms...)
}

// solve minimizes the penalty energy stage by stage and then checks every
// constraint against the tolerance.
func solve(ctx context.Context, cfg SolverSettings, st *style, logger *slog.Logger) (*solution, error) {
	cfg = cfg.withDefaults()
	x := append([]float64(nil), st.init...)
	sol := &solution{x: x}

	if len(x) == 0 || (len(st.constraints) == 0 && len(st.objectives) == 0) {
		return sol, checkResiduals(st, x, cfg.Tolerance)
	}

	rec := &ctxRecorder{ctx: ctx}
	for stage, w := range cfg.Weights {
		prog := expr.Compile(energy(st, w, cfg.Slack))
		problem := optimize.Problem{
			Func: func(x []float64) float64 { return prog.Value(x, 0) },
			Grad: func(grad, x []float64) { prog.Gradient(x, 0, grad) },
		}
		settings := &optimize.Settings{
			GradientThreshold: cfg.GradientThreshold,
			MajorIterations:   cfg.MaxIterations,
			FuncEvaluations:   cfg.MaxEvaluations,
			Recorder:          rec,
		}

		res, err := optimize.Minimize(problem, sol.x, settings, &optimize.LBFGS{})
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if res != nil && finiteAll(res.X) {
			sol.x = res.X
			sol.energy = res.F
		}
		if err != nil {
			logger.Debug("optimizer stopped early", "stage", stage, "weight", w, "err", err)
		}
		if checkResiduals(st, sol.x, cfg.Tolerance) == nil {
			break
		}
	}
	sol.iterations = rec.iterations
	if err := checkResiduals(st, sol.x, cfg.Tolerance); err != nil {
		return nil, err
	}
	return sol, nil
}

func checkResiduals(st *style, x []float64, tol float64) error {
	if len(st.constraints) == 0 {
		return nil
	}
	roots := make([]*expr.Expr, len(st.constraints))
	for i, c := range st.constraints {
		roots[i] = c.Residual
	}
	values := expr.Compile(roots...).Values(x)

	var failed []string
	for i, c := range st.constraints {
		v := values[i]
		if math.IsNaN(v) || !c.Satisfied(v, tol) {
			failed = append(failed, fmt.Sprintf("%s (residual %.4g)", c.Name, v))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	const shown = 5
	more := ""
	if len(failed) > shown {
		more = fmt.Sprintf(" and %d more", len(failed)-shown)
		failed = failed[:shown]
	}
	return fmt.Errorf("%w: %s%s", domain.ErrInfeasible, strings.Join(failed, ", "), more)
}

func finiteAll(xs []float64) bool {
	for _, v := range xs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
