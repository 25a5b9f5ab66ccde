package npsched

import "fmt"

// Graph is the optional search-graph diagnostic: every visited state and
// every dispatch edge between them. It is only populated when
// Options.CollectGraph is set — otherwise each depth layer is dropped as
// soon as its successors have been computed, to keep memory bounded by
// two layers' worth of states rather than the whole graph.
type Graph struct {
	Nodes []GraphNode
	Edges []GraphEdge
}

type GraphNode struct {
	Key   uint64
	Depth int
}

type GraphEdge struct {
	From, To uint64
	JobIndex int
}

// NewGraph returns an empty graph collector.
func NewGraph() *Graph {
	return &Graph{}
}

func (g *Graph) AddNode(key uint64, depth int) {
	g.Nodes = append(g.Nodes, GraphNode{key, depth})
}

func (g *Graph) AddEdge(from, to uint64, jobIndex int) {
	g.Edges = append(g.Edges, GraphEdge{from, to, jobIndex})
}

// DOT renders the graph in Graphviz's dot format. Full label styling and
// file emission is the CLI driver's job (see cmd/npcheck); this gives it
// the raw structure to render.
func (g *Graph) DOT() string {
	out := "digraph schedule_space {\n"
	for _, n := range g.Nodes {
		out += fmt.Sprintf("  \"%x\" [label=\"depth %d\"];\n", n.Key, n.Depth)
	}
	for _, e := range g.Edges {
		out += fmt.Sprintf("  \"%x\" -> \"%x\" [label=\"job %d\"];\n", e.From, e.To, e.JobIndex)
	}
	out += "}\n"
	return out
}
