package graph

import "math"

const (
	levelStepX    = 300.0
	baseRowHeight = 140.0
	minRowHeight  = 70.0
	rowDecay      = 0.8
)

// rowHeight is the vertical space one leaf occupies at a level. It never grows with
// depth, so a subtree always fits inside the band its root was given.
func rowHeight(level int) float64 {
	if level < 1 {
		level = 1
	}
	h := baseRowHeight * math.Pow(rowDecay, float64(level-1))
	if h < minRowHeight {
		return minRowHeight
	}
	return h
}

// layout places the root at the origin, each level levelStepX to the right of its
// parent, and stacks siblings around the parent's y in bands sized by leaf count.
func layout(a *arena) {
	root := a.get(RootID)
	if root == nil {
		return
	}
	weights := make(map[string]float64, len(a.nodes))
	leafWeight(a, RootID, weights)
	root.Position = Position{}
	place(a, RootID, weights)
}

func leafWeight(a *arena, id string, weights map[string]float64) float64 {
	n := a.get(id)
	if n == nil {
		return 0
	}
	if len(n.ChildIDs) == 0 {
		weights[id] = 1
		return 1
	}
	total := 0.0
	for _, c := range n.ChildIDs {
		total += leafWeight(a, c, weights)
	}
	weights[id] = total
	return total
}

func place(a *arena, id string, weights map[string]float64) {
	n := a.get(id)
	if n == nil || len(n.ChildIDs) == 0 {
		return
	}
	origin := n.Position
	rh := rowHeight(n.Level + 1)
	kids := append([]string(nil), n.ChildIDs...)

	total := 0.0
	for _, c := range kids {
		total += weights[c] * rh
	}
	y := origin.Y - total/2
	for _, c := range kids {
		band := weights[c] * rh
		child := a.get(c)
		child.Position = Position{X: origin.X + levelStepX, Y: y + band/2}
		y += band
		place(a, c, weights)
	}
}
