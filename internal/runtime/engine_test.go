package runtime_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/aretw0/lattice/internal/runtime"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/expr"
	"github.com/aretw0/lattice/pkg/formula"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var canvas = domain.Canvas{Width: 800, Height: 600, Seed: 42}

// pointsSession declares two points kept apart by at least sep.
func pointsSession(t *testing.T, e ports.Engine, sep float64) ports.Session {
	t.Helper()
	s := e.NewSession("points", canvas)
	require.NoError(t, s.DeclareType("Point"))
	require.NoError(t, s.DeclarePredicate("Apart", "Point", "Point"))
	p, err := s.NewInstance("Point", "p", "P")
	require.NoError(t, err)
	q, err := s.NewInstance("Point", "q", "")
	require.NoError(t, err)
	require.NoError(t, s.Assert("Apart", p, q))

	pos := map[string]expr.Vec{}
	require.NoError(t, s.DeclareRule(domain.Rule{
		Name: "place",
		Type: "Point",
		Body: func(st domain.Style, m domain.Match) error {
			in := m.One()
			pos[in.ID] = st.Point(in.ID, 20)
			st.Draw(domain.Circle(in.ID, "icon", pos[in.ID], expr.Const(10)))
			return nil
		},
	}))
	require.NoError(t, s.DeclareRule(domain.Rule{
		Name:      "apart",
		Predicate: "Apart",
		Body: func(st domain.Style, m domain.Match) error {
			a, b := pos[m.At(0).ID], pos[m.At(1).ID]
			st.Ensure(domain.MinSeparation(m.Key(), a, b, expr.Const(sep)))
			st.Draw(domain.Line(m.Key(), "link", a, b))
			return nil
		},
	}))
	return s
}

func TestSession_Declarations(t *testing.T) {
	s := runtime.NewEngine().NewSession("decl", canvas)
	require.NoError(t, s.DeclareType("Point"))
	require.NoError(t, s.DeclareType("Edge"))

	assert.ErrorIs(t, s.DeclareType("Point"), domain.ErrDuplicate)
	assert.NotErrorIs(t, s.DeclareType("Point"), domain.ErrDuplicateInstance)
	assert.ErrorIs(t, s.DeclarePredicate("Bad", "Nope"), domain.ErrUnknownType)
	require.NoError(t, s.DeclarePredicate("Connects", "Edge", "Point", "Point"))
	assert.ErrorIs(t, s.DeclarePredicate("Connects", "Edge"), domain.ErrDuplicate)

	_, err := s.NewInstance("Nope", "x", "")
	assert.ErrorIs(t, err, domain.ErrUnknownType)

	p, err := s.NewInstance("Point", "p", "")
	require.NoError(t, err)
	q, err := s.NewInstance("Point", "q", "")
	require.NoError(t, err)
	e, err := s.NewInstance("Edge", "e", "")
	require.NoError(t, err)
	_, err = s.NewInstance("Point", "p", "")
	assert.ErrorIs(t, err, domain.ErrDuplicateInstance)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	assert.ErrorIs(t, s.Assert("Missing", e, p, q), domain.ErrUnknownPredicate)
	assert.ErrorIs(t, s.Assert("Connects", e, p), domain.ErrArity)
	assert.ErrorIs(t, s.Assert("Connects", p, e, q), domain.ErrTypeMismatch)
	assert.ErrorIs(t, s.Assert("Connects", e, p, domain.Instance{ID: "ghost", Type: "Point"}), domain.ErrTypeMismatch)
	require.NoError(t, s.Assert("Connects", e, p, q))
	require.NoError(t, s.Assert("Connects", e, p, q), "re-asserting a fact is a no-op")

	body := func(domain.Style, domain.Match) error { return nil }
	assert.ErrorIs(t, s.DeclareRule(domain.Rule{Name: "r", Type: "Nope", Body: body}), domain.ErrUnknownType)
	assert.ErrorIs(t, s.DeclareRule(domain.Rule{Name: "r", Predicate: "Nope", Body: body}), domain.ErrUnknownPredicate)
	assert.Error(t, s.DeclareRule(domain.Rule{Name: "r", Type: "Point"}))

	d, err := s.Build(context.Background())
	require.NoError(t, err)
	assert.Len(t, d.Facts, 1)
	assert.Len(t, d.Instances, 3)
}

func TestSession_BuildSatisfiesConstraints(t *testing.T) {
	s := pointsSession(t, runtime.NewEngine(), 300)

	d, err := s.Build(context.Background())
	require.NoError(t, err)

	p, ok := d.Find("p", "icon")
	require.True(t, ok)
	q, ok := d.Find("q", "icon")
	require.True(t, ok)
	assert.Greater(t, dist(p.Center, q.Center), 300-1e-3)

	for _, c := range []domain.Point{p.Center, q.Center} {
		assert.LessOrEqual(t, c.X, canvas.HalfWidth()-20+1e-3)
		assert.GreaterOrEqual(t, c.Y, -canvas.HalfHeight()+20-1e-3)
	}

	assert.Contains(t, d.Values, "p.x")
	assert.Contains(t, d.Values, "q.y")
	assert.Equal(t, "points", d.Name)
	assert.NotEmpty(t, d.ID)
	assert.Contains(t, string(d.Element()), "<svg")
	assert.Contains(t, string(d.Element()), `data-owner="Apart(p, q)"`)
}

func TestSession_BuildIsDeterministic(t *testing.T) {
	e := runtime.NewEngine()
	d1, err := pointsSession(t, e, 200).Build(context.Background())
	require.NoError(t, err)
	d2, err := pointsSession(t, e, 200).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, d1.Values, d2.Values)
	assert.Equal(t, d1.Markup, d2.Markup)
}

func TestSession_Infeasible(t *testing.T) {
	s := runtime.NewEngine().NewSession("infeasible", canvas)
	require.NoError(t, s.DeclareType("T"))
	_, err := s.NewInstance("T", "t", "")
	require.NoError(t, err)
	require.NoError(t, s.DeclareRule(domain.Rule{
		Type: "T",
		Body: func(st domain.Style, m domain.Match) error {
			x := st.Var("x", 0)
			st.Ensure(
				domain.Equal("one", x, expr.Const(1)),
				domain.Equal("two", x, expr.Const(2)),
			)
			return nil
		},
	}))

	_, err = s.Build(context.Background())
	assert.ErrorIs(t, err, domain.ErrBuildFailed)
	assert.ErrorIs(t, err, domain.ErrInfeasible)
}

func TestSession_DegenerateShape(t *testing.T) {
	s := runtime.NewEngine().NewSession("degenerate", canvas)
	require.NoError(t, s.DeclareType("T"))
	_, err := s.NewInstance("T", "t", "")
	require.NoError(t, err)
	require.NoError(t, s.DeclareRule(domain.Rule{
		Type: "T",
		Body: func(st domain.Style, m domain.Match) error {
			st.Draw(domain.Circle("t", "icon", expr.VConst(0, 0), expr.Div(expr.One(), expr.Zero())))
			return nil
		},
	}))

	_, err = s.Build(context.Background())
	assert.ErrorIs(t, err, domain.ErrBuildFailed)
	assert.ErrorIs(t, err, formula.ErrDegenerate)
}

func TestSession_RuleErrors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name string
		body domain.RuleBody
		want error
	}{
		{"returned error", func(domain.Style, domain.Match) error { return boom }, boom},
		{"panic", func(st domain.Style, _ domain.Match) error {
			expr.VAdd(expr.VConst(1), expr.VConst(1, 2))
			return nil
		}, domain.ErrBuildFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := runtime.NewEngine().NewSession("rules", canvas)
			require.NoError(t, s.DeclareType("T"))
			_, err := s.NewInstance("T", "t", "")
			require.NoError(t, err)
			require.NoError(t, s.DeclareRule(domain.Rule{Name: "r", Type: "T", Body: tt.body}))
			_, err = s.Build(context.Background())
			assert.ErrorIs(t, err, domain.ErrBuildFailed)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSession_Cancelled(t *testing.T) {
	s := pointsSession(t, runtime.NewEngine(), 100)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Build(ctx)
	assert.ErrorIs(t, err, domain.ErrBuildFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSession_RuleOrder(t *testing.T) {
	s := runtime.NewEngine().NewSession("order", canvas)
	require.NoError(t, s.DeclareType("T"))
	require.NoError(t, s.DeclarePredicate("Next", "T", "T"))
	a, _ := s.NewInstance("T", "a", "")
	b, _ := s.NewInstance("T", "b", "")
	c, _ := s.NewInstance("T", "c", "")
	require.NoError(t, s.Assert("Next", b, c))
	require.NoError(t, s.Assert("Next", a, b))

	var seen []string
	require.NoError(t, s.DeclareRule(domain.Rule{Predicate: "Next", Body: func(_ domain.Style, m domain.Match) error {
		seen = append(seen, m.Key())
		return nil
	}}))
	require.NoError(t, s.DeclareRule(domain.Rule{Type: "T", Body: func(_ domain.Style, m domain.Match) error {
		seen = append(seen, m.Key())
		return nil
	}}))

	_, err := s.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Next(b, c)", "Next(a, b)", "a", "b", "c"}, seen)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var events []*domain.BuildEvent
	record := func(_ context.Context, e *domain.BuildEvent) { events = append(events, e) }

	e := runtime.NewEngine(
		runtime.WithLifecycleHooks(domain.LifecycleHooks{OnBuildStart: record, OnBuildFinish: record}),
		runtime.WithIDGenerator(func() string { return "build-1" }),
	)
	d, err := pointsSession(t, e, 100).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "build-1", d.ID)

	require.Len(t, events, 2)
	assert.Equal(t, domain.EventBuildStart, events[0].Type)
	assert.Equal(t, domain.EventBuildFinish, events[1].Type)
	assert.Equal(t, "points", events[1].Diagram)
	assert.Equal(t, "build-1", events[1].BuildID)
	assert.NoError(t, events[1].Err)
}

func TestEngine_SolverDefaults(t *testing.T) {
	e := runtime.NewEngine(runtime.WithSolver(runtime.SolverSettings{Slack: 2}))
	d, err := pointsSession(t, e, 250).Build(context.Background())
	require.NoError(t, err)
	p, _ := d.Find("p", "icon")
	q, _ := d.Find("q", "icon")
	assert.Greater(t, dist(p.Center, q.Center), 250.0)
}

func dist(a, b domain.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
