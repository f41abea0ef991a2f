package nodelink_test

import (
	"fmt"

	"github.com/matzehuels/coarsen/pkg/graph"
	"github.com/matzehuels/coarsen/pkg/render/nodelink"
)

func ExampleToDOT() {
	g := graph.New(4)
	_ = g.AddEdge(0, 1, 5)
	_ = g.AddEdge(1, 2, 1)
	_ = g.AddEdge(2, 3, 5)

	q, err := g.Quotient([]int{0, 0, 1, 1})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(nodelink.ToDOT(q, nodelink.Options{}))
	// Output:
	// graph G {
	//   rankdir=LR;
	//   bgcolor="transparent";
	//   node [shape=circle, style=filled, fillcolor=white, fontsize=14];
	//
	//   n0 [label="c0 (2)", width=0.85, fillcolor=lightblue];
	//   n1 [label="c1 (2)", width=0.85, fillcolor=lightblue];
	//
	//   n0 -- n1 [penwidth=5.00];
	// }
}
