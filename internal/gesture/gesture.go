// Package gesture classifies a pointer or touch drag into a swipe decision.
// Everything here is pure; callers pass value snapshots of the drag.
package gesture

import (
	"math"

	"github.com/actuallystonmai/food-swipe/internal/domain"
)

const (
	DefaultAxisThreshold = 100.0
	DefaultHintDistance  = 50.0
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Sample is one drag: where contact started and where it is now.
type Sample struct {
	Start   Point
	Current Point
}

func Begin(at Point) Sample {
	return Sample{Start: at, Current: at}
}

// MoveTo returns the sample with a new current point. The start is never
// touched, so the delta is always recomputed from scratch.
func (s Sample) MoveTo(at Point) Sample {
	s.Current = at
	return s
}

func (s Sample) Delta() Point {
	return s.Current.Sub(s.Start)
}

type Axis int

const (
	AxisNone Axis = iota
	AxisHorizontal
	AxisVertical
)

func (a Axis) String() string {
	switch a {
	case AxisHorizontal:
		return "horizontal"
	case AxisVertical:
		return "vertical"
	}
	return "none"
}

// DominanceRule picks the axis a delta moves along, or AxisNone.
type DominanceRule func(delta Point) Axis

// UpwardDominance selects vertical only for upward drags that move further
// vertically than horizontally. Equal magnitudes resolve to horizontal.
// Downward-dominant drags are never classified.
func UpwardDominance(delta Point) Axis {
	absX, absY := math.Abs(delta.X), math.Abs(delta.Y)
	switch {
	case absX == 0 && absY == 0:
		return AxisNone
	case delta.Y < 0 && absY > absX:
		return AxisVertical
	case absX >= absY:
		return AxisHorizontal
	}
	return AxisNone
}

type Config struct {
	AxisThreshold float64
	Dominance     DominanceRule
}

func DefaultConfig() Config {
	return Config{AxisThreshold: DefaultAxisThreshold, Dominance: UpwardDominance}
}

// Classification is the interpreter output. Axis none means indeterminate.
// Committed is set once the dominant magnitude is past the threshold.
type Classification struct {
	Axis      Axis
	Sign      int
	Magnitude float64
	Committed bool
}

// Action maps a committed classification to the decision it stands for.
func (c Classification) Action() (domain.ActionKind, bool) {
	if !c.Committed {
		return "", false
	}
	switch {
	case c.Axis == AxisVertical:
		return domain.ActionSuperAccept, true
	case c.Axis == AxisHorizontal && c.Sign > 0:
		return domain.ActionAccept, true
	case c.Axis == AxisHorizontal && c.Sign < 0:
		return domain.ActionReject, true
	}
	return "", false
}

func Interpret(s Sample, cfg Config) Classification {
	rule := cfg.Dominance
	if rule == nil {
		rule = UpwardDominance
	}

	delta := s.Delta()
	axis := rule(delta)

	var c Classification
	switch axis {
	case AxisHorizontal:
		c = Classification{Axis: axis, Sign: sign(delta.X), Magnitude: math.Abs(delta.X)}
	case AxisVertical:
		c = Classification{Axis: axis, Sign: sign(delta.Y), Magnitude: math.Abs(delta.Y)}
	default:
		return Classification{}
	}
	c.Committed = c.Magnitude > cfg.AxisThreshold
	return c
}

// Hint is the badge shown on the card while it is dragged.
type Hint string

const (
	HintNone  Hint = ""
	HintLike  Hint = "like"
	HintNope  Hint = "nope"
	HintSuper Hint = "super"
)

// HintFor reports the badge for a drag delta. A badge appears before the
// commit threshold so the user can see where the card is heading.
func HintFor(delta Point, distance float64) Hint {
	absX, absY := math.Abs(delta.X), math.Abs(delta.Y)
	switch {
	case delta.X > distance && absX > absY:
		return HintLike
	case delta.X < -distance && absX > absY:
		return HintNope
	case delta.Y < -distance && absY > absX:
		return HintSuper
	}
	return HintNone
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
