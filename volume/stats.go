package volume

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
)

type levelStats struct {
	nodes, leaves, renderers, maxLeaf, dirty, proxies int
}

// Stats renders a per-depth summary of the tree as a table.
func (t *Tree) Stats() string {
	var levels []levelStats
	root := t.Root()
	if root != nil {
		var visit func(*Node, int)
		visit = func(n *Node, depth int) {
			if depth == len(levels) {
				levels = append(levels, levelStats{})
			}
			ls := &levels[depth]
			ls.nodes++
			if n.Dirty {
				ls.dirty++
			}
			if n.HLOD != nil {
				ls.proxies++
			}
			if n.IsLeaf() {
				ls.leaves++
				ls.renderers += len(n.renderers)
				if len(n.renderers) > ls.maxLeaf {
					ls.maxLeaf = len(n.renderers)
				}
			}
			for _, child := range n.Children() {
				visit(child, depth+1)
			}
		}
		visit(root, 0)
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Depth", "Nodes", "Leaves", "Renderers", "Max leaf", "Dirty", "HLODs"})

	var total levelStats
	for depth, ls := range levels {
		table.Append([]string{
			fmt.Sprint(depth), fmt.Sprint(ls.nodes), fmt.Sprint(ls.leaves), fmt.Sprint(ls.renderers),
			fmt.Sprint(ls.maxLeaf), fmt.Sprint(ls.dirty), fmt.Sprint(ls.proxies),
		})
		total.nodes += ls.nodes
		total.leaves += ls.leaves
		total.renderers += ls.renderers
		total.dirty += ls.dirty
		total.proxies += ls.proxies
		if ls.maxLeaf > total.maxLeaf {
			total.maxLeaf = ls.maxLeaf
		}
	}
	table.SetFooter([]string{
		"Total", fmt.Sprint(total.nodes), fmt.Sprint(total.leaves), fmt.Sprint(total.renderers),
		fmt.Sprint(total.maxLeaf), fmt.Sprint(total.dirty), fmt.Sprint(total.proxies),
	})
	table.Render()

	c := t.counters
	fmt.Fprintf(&buf, "inserts: %d removes: %d splits: %d grows: %d shrinks: %d nodes created: %d destroyed: %d\n",
		c.Inserts, c.Removes, c.Splits, c.Grows, c.Shrinks, c.Created, c.Destroyed)
	return buf.String()
}
