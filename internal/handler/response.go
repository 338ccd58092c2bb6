package handler

import (
	"github.com/actuallystonmai/food-swipe/internal/domain"
	"github.com/actuallystonmai/food-swipe/internal/gesture"
)

// PointRequest is the body of gesture start and move.
type PointRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

func (p PointRequest) Point() gesture.Point {
	return gesture.Point{X: *p.X, Y: *p.Y}
}

type SummaryResponse struct {
	domain.Stats
	LeftPercent  float64 `json:"left_percent"`
	RightPercent float64 `json:"right_percent"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
