package grid

// Axis is a movement target for one coordinate. Use To or Keep.
type Axis struct {
	target int
	set    bool
}

// To targets coordinate n.
func To(n int) Axis { return Axis{target: n, set: true} }

// Keep leaves the coordinate where it is.
var Keep = Axis{}

// Position is a unit's location plus the trail of where it has been.
// Movement never fails; requests past the edge are truncated to the edge.
type Position struct {
	current Point
	history []Point
}

// NewPosition places a unit at (x, y), clamped onto the grid.
func NewPosition(x, y int) *Position {
	return &Position{current: Point{X: clampAxis(x), Y: clampAxis(y)}}
}

// Current returns the occupied point.
func (p *Position) Current() Point { return p.current }

// History returns a copy of the previously occupied points, oldest first.
func (p *Position) History() []Point {
	out := make([]Point, len(p.history))
	copy(out, p.history)
	return out
}

// ChangePosition records the current point in history and moves each axis
// toward its target independently.
//
// Postcondition: Current().InBounds() is true; len(History()) grows by one.
func (p *Position) ChangePosition(x, y Axis) {
	p.history = append(p.history, p.current)
	if x.set {
		p.current.X = step(p.current.X, x.target)
	}
	if y.set {
		p.current.Y = step(p.current.Y, y.target)
	}
}

// Advance moves degree files toward the front.
func (p *Position) Advance(degree int) {
	p.ChangePosition(To(p.current.X-degree), Keep)
}

// Retreat moves degree files toward the back.
func (p *Position) Retreat(degree int) {
	p.ChangePosition(To(p.current.X+degree), Keep)
}

// StrafeHigh moves degree ranks toward the top.
func (p *Position) StrafeHigh(degree int) {
	p.ChangePosition(Keep, To(p.current.Y-degree))
}

// StrafeLow moves degree ranks toward the bottom.
func (p *Position) StrafeLow(degree int) {
	p.ChangePosition(Keep, To(p.current.Y+degree))
}

// Shift moves by (dx, dy); a zero delta leaves that axis alone.
func (p *Position) Shift(dx, dy int) {
	x, y := Keep, Keep
	if dx != 0 {
		x = To(p.current.X + dx)
	}
	if dy != 0 {
		y = To(p.current.Y + dy)
	}
	p.ChangePosition(x, y)
}

// Revert returns to the most recent history entry and reports whether it moved.
func (p *Position) Revert() bool {
	n := len(p.history)
	if n == 0 {
		return false
	}
	p.current = p.history[n-1]
	p.history = p.history[:n-1]
	return true
}

// step resolves a single-axis move: moving down floors at MinPos, moving up
// ceils at MaxPos.
func step(current, target int) int {
	switch {
	case target < current:
		return max(target, MinPos)
	case target > current:
		return min(target, MaxPos)
	default:
		return current
	}
}

func clampAxis(v int) int {
	return min(max(v, MinPos), MaxPos)
}
