package planning

import (
	"container/heap"

	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
)

// astarNode for priority queue.
type astarNode struct {
	cell   shared.Cell
	g      int // Cost so far
	f      int // g + h
	seq    int // insertion order, breaks f ties FIFO
	parent *astarNode
	index  int // heap index
}

// astarHeap implements heap.Interface.
type astarHeap []*astarNode

func (h astarHeap) Len() int { return len(h) }
func (h astarHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h astarHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *astarHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *astarHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// stepCostFunc prices entering a cell. Plain searches charge 1 everywhere;
// penalized searches add surcharges near peers.
type stepCostFunc func(cell shared.Cell) int

// admissibleFunc decides whether a cell may appear on the path at all.
type admissibleFunc func(cell shared.Cell) bool

// findPath runs best-first search from start to goal. Equal-f nodes expand
// in insertion order, so repeated searches over the same world produce the
// same route. Returns nil when the goal is unreachable.
func findPath(start, goal shared.Cell, admissible admissibleFunc, stepCost stepCostFunc) []shared.Cell {
	// The start cell is never tested for admissibility: a robot may stand on
	// a cell it could not re-enter, e.g. under a freshly placed obstacle.
	open := &astarHeap{}
	heap.Init(open)

	seq := 0
	startNode := &astarNode{
		cell: start,
		g:    0,
		f:    start.ManhattanTo(goal),
		seq:  seq,
	}
	heap.Push(open, startNode)

	visited := make(map[shared.Cell]bool)
	bestG := map[shared.Cell]int{start: 0}

	for open.Len() > 0 {
		current := heap.Pop(open).(*astarNode)

		if current.cell == goal {
			return reconstructPath(current)
		}

		if visited[current.cell] {
			continue
		}
		visited[current.cell] = true

		for _, neighbor := range current.cell.Neighbors4() {
			if !admissible(neighbor) {
				continue
			}
			if visited[neighbor] {
				continue
			}

			tentativeG := current.g + stepCost(neighbor)
			if known, ok := bestG[neighbor]; ok && tentativeG >= known {
				continue
			}
			bestG[neighbor] = tentativeG

			seq++
			node := &astarNode{
				cell:   neighbor,
				g:      tentativeG,
				f:      tentativeG + neighbor.ManhattanTo(goal),
				seq:    seq,
				parent: current,
			}
			heap.Push(open, node)
		}
	}

	return nil // No path found
}

func reconstructPath(node *astarNode) []shared.Cell {
	length := 0
	for n := node; n != nil; n = n.parent {
		length++
	}
	path := make([]shared.Cell, length)
	for n := node; n != nil; n = n.parent {
		length--
		path[length] = n.cell
	}
	return path
}
