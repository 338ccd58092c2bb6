// Package transform turns drag state into the card's visual transform.
package transform

import (
	"math"

	"github.com/actuallystonmai/food-swipe/internal/domain"
	"github.com/actuallystonmai/food-swipe/internal/gesture"
)

// VisualTransform is what a renderer applies to a card.
type VisualTransform struct {
	TranslateX  float64 `json:"translate_x"`
	TranslateY  float64 `json:"translate_y"`
	Scale       float64 `json:"scale"`
	RotationDeg float64 `json:"rotation_deg"`
	Opacity     float64 `json:"opacity"`
}

// Params holds the fixed constants of the card animation.
type Params struct {
	RotationPerUnit float64 // degrees of tilt per unit of horizontal drag
	ScalePerUnit    float64 // growth per unit of upward drag
	FadeDistance    float64
	MinDragOpacity  float64

	ExitX        float64
	ExitRotation float64
	SuperExitY   float64
	SuperScale   float64

	// Scale and opacity of the cards peeking out behind the active one.
	DepthScaleStep   float64
	DepthOpacityStep float64
}

func DefaultParams() Params {
	return Params{
		RotationPerUnit:  0.05,
		ScalePerUnit:     0.001,
		FadeDistance:     300,
		MinDragOpacity:   0.5,
		ExitX:            400,
		ExitRotation:     20,
		SuperExitY:       -600,
		SuperScale:       1.2,
		DepthScaleStep:   0.05,
		DepthOpacityStep: 0.25,
	}
}

// Identity is the idle card: no gesture and nothing committed.
func Identity() VisualTransform {
	return VisualTransform{Scale: 1, Opacity: 1}
}

// Drag renders an in-progress gesture. Upward vertical-dominant drags lift
// and grow the card; every other drag slides and tilts it sideways.
func Drag(delta gesture.Point, p Params) VisualTransform {
	absX, absY := math.Abs(delta.X), math.Abs(delta.Y)

	t := Identity()
	if delta.Y < 0 && absY > absX {
		t.TranslateY = delta.Y
		t.Scale = 1 + absY*p.ScalePerUnit
	} else {
		t.TranslateX = delta.X
		t.RotationDeg = delta.X * p.RotationPerUnit
	}

	if p.FadeDistance > 0 {
		t.Opacity = math.Max(p.MinDragOpacity, 1-math.Max(absX, absY)/p.FadeDistance)
	}
	return t
}

// Exit renders the card flying off screen after a committed action.
func Exit(kind domain.ActionKind, p Params) VisualTransform {
	switch kind {
	case domain.ActionReject:
		return VisualTransform{TranslateX: -p.ExitX, RotationDeg: -p.ExitRotation, Scale: 1}
	case domain.ActionAccept:
		return VisualTransform{TranslateX: p.ExitX, RotationDeg: p.ExitRotation, Scale: 1}
	case domain.ActionSuperAccept:
		return VisualTransform{TranslateY: p.SuperExitY, Scale: p.SuperScale}
	}
	return Identity()
}

// Depth renders the n-th card stacked behind the active one, n >= 1.
func Depth(n int, p Params) VisualTransform {
	if n <= 0 {
		return Identity()
	}
	return VisualTransform{
		Scale:   math.Max(0, 1-float64(n)*p.DepthScaleStep),
		Opacity: math.Max(0, 1-float64(n+1)*p.DepthOpacityStep),
	}
}
