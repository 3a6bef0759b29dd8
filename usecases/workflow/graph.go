package workflow

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/healthinsights/health-insights-backend/models"
	"github.com/healthinsights/health-insights-backend/repositories/clock"
	"github.com/healthinsights/health-insights-backend/utils"
	"go.opentelemetry.io/otel/attribute"
)

const (
	START = "__start__"
	END   = "__end__"

	DefaultRecursionLimit = 25
)

// Node mutates the workflow state in place. A returned error aborts the whole run.
type Node func(ctx context.Context, state *models.WorkflowState) error

// Router picks the key of the next conditional edge from the state.
type Router func(state *models.WorkflowState) string

type conditionalEdge struct {
	router  Router
	targets map[string]string
}

// Graph is the mutable builder of a workflow. Build it once, then Compile it.
type Graph struct {
	nodes       map[string]Node
	order       []string
	edges       map[string]string
	conditional map[string]conditionalEdge
	problems    []string
}

func NewGraph() *Graph {
	return &Graph{
		nodes:       make(map[string]Node),
		edges:       make(map[string]string),
		conditional: make(map[string]conditionalEdge),
	}
}

func (g *Graph) AddNode(name string, node Node) *Graph {
	switch {
	case name == START || name == END:
		g.problems = append(g.problems, fmt.Sprintf("node name %s is reserved", name))
	case name == "":
		g.problems = append(g.problems, "node name is empty")
	case node == nil:
		g.problems = append(g.problems, fmt.Sprintf("node %s has no function", name))
	case g.nodes[name] != nil:
		g.problems = append(g.problems, fmt.Sprintf("node %s is added twice", name))
	default:
		g.nodes[name] = node
		g.order = append(g.order, name)
	}
	return g
}

func (g *Graph) AddEdge(from, to string) *Graph {
	if _, ok := g.edges[from]; ok {
		g.problems = append(g.problems, fmt.Sprintf("node %s has two static edges", from))
		return g
	}
	g.edges[from] = to
	return g
}

func (g *Graph) AddConditionalEdges(from string, router Router, targets map[string]string) *Graph {
	if _, ok := g.conditional[from]; ok {
		g.problems = append(g.problems, fmt.Sprintf("node %s has two sets of conditional edges", from))
		return g
	}
	if router == nil || len(targets) == 0 {
		g.problems = append(g.problems, fmt.Sprintf("conditional edges of %s need a router and targets", from))
		return g
	}
	copied := make(map[string]string, len(targets))
	for key, target := range targets {
		copied[key] = target
	}
	g.conditional[from] = conditionalEdge{router: router, targets: copied}
	return g
}

type CompileOption func(*CompiledGraph)

func WithRecursionLimit(limit int) CompileOption {
	return func(c *CompiledGraph) {
		c.recursionLimit = limit
	}
}

func WithClock(clk clock.Clock) CompileOption {
	return func(c *CompiledGraph) {
		c.clock = clk
	}
}

// Compile checks that the graph is well formed and freezes it.
func (g *Graph) Compile(opts ...CompileOption) (*CompiledGraph, error) {
	problems := append([]string{}, g.problems...)

	known := func(name string) bool {
		_, ok := g.nodes[name]
		return ok || name == END
	}

	_, hasStatic := g.edges[START]
	_, hasConditional := g.conditional[START]
	if !hasStatic && !hasConditional {
		problems = append(problems, "no entry edge from "+START)
	}

	for from, to := range g.edges {
		if from != START && g.nodes[from] == nil {
			problems = append(problems, fmt.Sprintf("edge from unknown node %s", from))
		}
		if !known(to) {
			problems = append(problems, fmt.Sprintf("edge from %s to unknown node %s", from, to))
		}
		if _, ok := g.conditional[from]; ok {
			problems = append(problems, fmt.Sprintf("node %s has both a static and conditional edges", from))
		}
	}
	for from, edge := range g.conditional {
		if from != START && g.nodes[from] == nil {
			problems = append(problems, fmt.Sprintf("conditional edges from unknown node %s", from))
		}
		for key, to := range edge.targets {
			if !known(to) {
				problems = append(problems, fmt.Sprintf("conditional edge %s of %s leads to unknown node %s", key, from, to))
			}
		}
	}
	for _, name := range g.order {
		_, hasStatic := g.edges[name]
		_, hasConditional := g.conditional[name]
		if !hasStatic && !hasConditional {
			problems = append(problems, fmt.Sprintf("node %s has no outgoing edge", name))
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, errors.Wrap(models.ErrInvalidGraph, strings.Join(problems, "; "))
	}

	compiled := &CompiledGraph{
		nodes:          make(map[string]Node, len(g.nodes)),
		edges:          make(map[string]string, len(g.edges)),
		conditional:    make(map[string]conditionalEdge, len(g.conditional)),
		recursionLimit: DefaultRecursionLimit,
		clock:          clock.New(),
	}
	for name, node := range g.nodes {
		compiled.nodes[name] = node
	}
	for from, to := range g.edges {
		compiled.edges[from] = to
	}
	for from, edge := range g.conditional {
		compiled.conditional[from] = edge
	}
	for _, opt := range opts {
		opt(compiled)
	}
	return compiled, nil
}

// CompiledGraph is immutable and safe to share between concurrent runs.
type CompiledGraph struct {
	nodes          map[string]Node
	edges          map[string]string
	conditional    map[string]conditionalEdge
	recursionLimit int
	clock          clock.Clock
}

func (c *CompiledGraph) next(from string, state *models.WorkflowState) (string, error) {
	if to, ok := c.edges[from]; ok {
		return to, nil
	}
	edge := c.conditional[from]
	key := edge.router(state)
	to, ok := edge.targets[key]
	if !ok {
		return "", errors.Newf("router of %s returned unknown key %q", from, key)
	}
	return to, nil
}

// Invoke runs the graph from START until END, mutating and returning the given state.
func (c *CompiledGraph) Invoke(ctx context.Context, state *models.WorkflowState) (*models.WorkflowState, error) {
	logger := utils.LoggerFromContext(ctx)

	current, err := c.next(START, state)
	if err != nil {
		return state, err
	}

	for steps := 0; current != END; steps++ {
		if steps >= c.recursionLimit {
			return state, errors.Wrapf(models.ErrRecursionLimit, "stopped after %d steps at node %s", steps, current)
		}
		if err := ctx.Err(); err != nil {
			return state, errors.Wrapf(err, "workflow interrupted before node %s", current)
		}

		if err := c.runNode(ctx, current, state); err != nil {
			return state, err
		}

		next, err := c.next(current, state)
		if err != nil {
			return state, err
		}
		logger.DebugContext(ctx, "workflow transition", "from", current, "to", next, "route", string(state.NextNode))
		current = next
	}

	return state, nil
}

func (c *CompiledGraph) runNode(ctx context.Context, name string, state *models.WorkflowState) error {
	ctx, span := utils.StartSpan(ctx, "workflow."+name, attribute.String("workflow.node", name))
	defer span.End()

	utils.LoggerFromContext(ctx).InfoContext(ctx, "reached workflow node", "node", name)

	start := time.Now()
	err := c.nodes[name](ctx, state)
	utils.MetricWorkflowNodeDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		return errors.Wrapf(err, "workflow node %s failed", name)
	}

	state.UpdatedAt = c.clock.Now()
	return nil
}
