package swipe

import (
	"github.com/actuallystonmai/food-swipe/internal/domain"
	"github.com/actuallystonmai/food-swipe/internal/gesture"
	"github.com/actuallystonmai/food-swipe/internal/transform"
)

type CardView struct {
	Item      domain.RecommendationItem `json:"item"`
	Transform transform.VisualTransform `json:"transform"`
}

// View is a render-ready snapshot of the controller. Renderers subscribe to
// views and never see the machine state itself.
type View struct {
	Phase    Phase               `json:"phase"`
	Active   *CardView           `json:"active,omitempty"`
	Behind   []CardView          `json:"behind,omitempty"`
	Position int                 `json:"position"`
	Total    int                 `json:"total"`
	Hint     gesture.Hint        `json:"hint,omitempty"`
	Pending  *domain.SwipeAction `json:"pending,omitempty"`
	Error    string              `json:"error,omitempty"`
}

func Render(s State, cfg Config) View {
	v := View{
		Phase: s.Phase,
		Total: s.Queue.Len(),
	}
	if s.LastErr != nil {
		v.Error = s.LastErr.Error()
	}

	item, ok := s.Queue.Active()
	if !ok || s.Phase == PhaseLoading || s.Phase == PhaseEnded {
		return v
	}
	v.Position = s.Queue.Cursor() + 1

	card := CardView{Item: item, Transform: transform.Identity()}
	switch s.Phase {
	case PhaseDragging:
		delta := s.Sample.Delta()
		card.Transform = transform.Drag(delta, cfg.Transform)
		v.Hint = gesture.HintFor(delta, cfg.HintDistance)
	case PhaseCommitting:
		card.Transform = transform.Exit(s.Pending.Kind, cfg.Transform)
		pending := s.Pending
		v.Pending = &pending
	}
	v.Active = &card

	for i, behind := range s.Queue.Peek(cfg.PeekDepth) {
		v.Behind = append(v.Behind, CardView{Item: behind, Transform: transform.Depth(i+1, cfg.Transform)})
	}
	return v
}
