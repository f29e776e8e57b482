package taskgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarchlab/mapper2/taskgraph"
)

func TestBuild_Simple(t *testing.T) {
	tg, err := taskgraph.NewBuilder("t").
		AddNode(taskgraph.Node{Name: "A"}).
		AddNode(taskgraph.Node{Name: "B"}).
		AddEdge(taskgraph.Edge{Sources: []string{"A"}, Sinks: []string{"B"}}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, tg.NodeNames())
	assert.Equal(t, 1, tg.NumEdges())
	assert.Equal(t, []int{0}, tg.OutEdges("A"))
	assert.Equal(t, []int{0}, tg.InEdges("B"))
	assert.Empty(t, tg.InEdges("A"))
}

func TestBuild_DuplicateNode(t *testing.T) {
	_, err := taskgraph.NewBuilder("t").
		AddNode(taskgraph.Node{Name: "A"}).
		AddNode(taskgraph.Node{Name: "A"}).
		Build()
	require.ErrorIs(t, err, taskgraph.ErrDuplicateNode)
}

func TestBuild_EdgeMissingNode(t *testing.T) {
	_, err := taskgraph.NewBuilder("t").
		AddNode(taskgraph.Node{Name: "A"}).
		AddEdge(taskgraph.Edge{Sources: []string{"A"}, Sinks: []string{"Ghost"}}).
		Build()
	require.ErrorIs(t, err, taskgraph.ErrNodeNotFound)
}

func TestBuild_EmptyEdgeEndpoints(t *testing.T) {
	_, err := taskgraph.NewBuilder("t").
		AddNode(taskgraph.Node{Name: "A"}).
		AddEdge(taskgraph.Edge{Sources: nil, Sinks: []string{"A"}}).
		Build()
	require.ErrorIs(t, err, taskgraph.ErrEmptyEdgeEndpoints)
}

func TestBuild_MultiChannelFanout(t *testing.T) {
	tg, err := taskgraph.NewBuilder("t").
		AddNode(taskgraph.Node{Name: "src"}).
		AddNode(taskgraph.Node{Name: "s1"}).
		AddNode(taskgraph.Node{Name: "s2"}).
		AddNode(taskgraph.Node{Name: "s3"}).
		AddEdge(taskgraph.Edge{Sources: []string{"src"}, Sinks: []string{"s1", "s2", "s3"}}).
		Build()
	require.NoError(t, err)

	e := tg.EdgeAt(0)
	assert.Len(t, e.Sinks, 3)
	assert.Equal(t, []int{0}, tg.OutEdges("src"))
}
