package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/healthinsights/health-insights-backend/models"
	"github.com/healthinsights/health-insights-backend/repositories/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendNode(name string, visited *[]string) Node {
	return func(ctx context.Context, state *models.WorkflowState) error {
		*visited = append(*visited, name)
		return nil
	}
}

func TestGraphCompileErrors(t *testing.T) {
	noop := func(ctx context.Context, state *models.WorkflowState) error { return nil }
	router := func(state *models.WorkflowState) string { return "a" }

	tests := []struct {
		name    string
		graph   *Graph
		problem string
	}{
		{
			name:    "no entry edge",
			graph:   NewGraph().AddNode("a", noop).AddEdge("a", END),
			problem: "no entry edge",
		},
		{
			name:    "edge to unknown node",
			graph:   NewGraph().AddNode("a", noop).AddEdge(START, "a").AddEdge("a", "b"),
			problem: "unknown node b",
		},
		{
			name:    "conditional edge to unknown node",
			graph:   NewGraph().AddNode("a", noop).AddEdge(START, "a").AddConditionalEdges("a", router, map[string]string{"a": "zzz"}),
			problem: "unknown node zzz",
		},
		{
			name:    "node without outgoing edge",
			graph:   NewGraph().AddNode("a", noop).AddNode("b", noop).AddEdge(START, "a").AddEdge("a", END),
			problem: "node b has no outgoing edge",
		},
		{
			name: "static and conditional edges",
			graph: NewGraph().AddNode("a", noop).AddEdge(START, "a").AddEdge("a", END).
				AddConditionalEdges("a", router, map[string]string{"a": END}),
			problem: "both a static and conditional edges",
		},
		{
			name:    "reserved node name",
			graph:   NewGraph().AddNode(END, noop).AddEdge(START, END),
			problem: "reserved",
		},
		{
			name:    "duplicated node",
			graph:   NewGraph().AddNode("a", noop).AddNode("a", noop).AddEdge(START, "a").AddEdge("a", END),
			problem: "added twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.graph.Compile()
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrInvalidGraph)
			assert.Contains(t, err.Error(), tt.problem)
		})
	}
}

func TestGraphInvokeFollowsEdges(t *testing.T) {
	var visited []string
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	graph, err := NewGraph().
		AddNode("first", appendNode("first", &visited)).
		AddNode("left", appendNode("left", &visited)).
		AddNode("right", appendNode("right", &visited)).
		AddEdge(START, "first").
		AddConditionalEdges("first", func(state *models.WorkflowState) string {
			return string(state.NextNode)
		}, map[string]string{"left": "left", "right": "right"}).
		AddEdge("left", END).
		AddEdge("right", END).
		Compile(WithClock(clock.NewMock(now)))
	require.NoError(t, err)

	state, err := graph.Invoke(context.Background(), &models.WorkflowState{NextNode: "right"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "right"}, visited)
	assert.Equal(t, now, state.UpdatedAt)
}

func TestGraphInvokeUnknownRouterKey(t *testing.T) {
	var visited []string
	graph, err := NewGraph().
		AddNode("a", appendNode("a", &visited)).
		AddEdge(START, "a").
		AddConditionalEdges("a", func(*models.WorkflowState) string { return "nowhere" }, map[string]string{"done": END}).
		Compile()
	require.NoError(t, err)

	_, err = graph.Invoke(context.Background(), &models.WorkflowState{})
	assert.ErrorContains(t, err, `unknown key "nowhere"`)
}

func TestGraphInvokeRecursionLimit(t *testing.T) {
	var visited []string
	graph, err := NewGraph().
		AddNode("ping", appendNode("ping", &visited)).
		AddNode("pong", appendNode("pong", &visited)).
		AddEdge(START, "ping").
		AddEdge("ping", "pong").
		AddEdge("pong", "ping").
		Compile()
	require.NoError(t, err)

	_, err = graph.Invoke(context.Background(), &models.WorkflowState{})
	assert.ErrorIs(t, err, models.ErrRecursionLimit)
	assert.Len(t, visited, DefaultRecursionLimit)
}

func TestGraphInvokeNodeError(t *testing.T) {
	var visited []string
	boom := errors.New("boom")
	graph, err := NewGraph().
		AddNode("failing", func(ctx context.Context, state *models.WorkflowState) error { return boom }).
		AddNode("after", appendNode("after", &visited)).
		AddEdge(START, "failing").
		AddEdge("failing", "after").
		AddEdge("after", END).
		Compile()
	require.NoError(t, err)

	_, err = graph.Invoke(context.Background(), &models.WorkflowState{})
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "workflow node failing failed")
	assert.Empty(t, visited)
}

func TestGraphInvokeCanceledContext(t *testing.T) {
	var visited []string
	ctx, cancel := context.WithCancel(context.Background())

	graph, err := NewGraph().
		AddNode("cancel", func(ctx context.Context, state *models.WorkflowState) error {
			cancel()
			return nil
		}).
		AddNode("after", appendNode("after", &visited)).
		AddEdge(START, "cancel").
		AddEdge("cancel", "after").
		AddEdge("after", END).
		Compile(WithRecursionLimit(10))
	require.NoError(t, err)

	_, err = graph.Invoke(ctx, &models.WorkflowState{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, visited)
}

func TestBuildChatGraphCompiles(t *testing.T) {
	_, err := BuildChatGraph(NewNodes(nil, nil))
	require.NoError(t, err)
}
