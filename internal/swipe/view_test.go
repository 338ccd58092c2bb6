package swipe

import (
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/actuallystonmai/food-swipe/internal/domain"
	"github.com/actuallystonmai/food-swipe/internal/gesture"
	"github.com/actuallystonmai/food-swipe/internal/transform"
)

func TestRenderLoading(t *testing.T) {
	v := Render(Initial(), DefaultConfig())
	if v.Phase != PhaseLoading || v.Active != nil || v.Position != 0 {
		t.Errorf("unexpected loading view %+v", v)
	}
}

func TestRenderReadyStack(t *testing.T) {
	cfg := DefaultConfig()
	s := ready(t, domain.Batch{itemA, itemB, itemC})

	v := Render(s, cfg)
	if v.Active == nil || v.Active.Transform != transform.Identity() {
		t.Fatalf("expected idle active card, got %+v", v.Active)
	}
	if len(v.Behind) != 2 {
		t.Fatalf("expected two cards behind, got %d", len(v.Behind))
	}
	if v.Behind[0].Transform != transform.Depth(1, cfg.Transform) || v.Behind[1].Transform != transform.Depth(2, cfg.Transform) {
		t.Errorf("unexpected depth transforms %+v", v.Behind)
	}
	if v.Position != 1 || v.Total != 3 {
		t.Errorf("expected 1 / 3, got %d / %d", v.Position, v.Total)
	}
}

func TestRenderDragging(t *testing.T) {
	cfg := DefaultConfig()
	s := ready(t, domain.Batch{itemA})

	s, _ = Step(s, GestureStarted{At: gesture.Point{X: 10, Y: 10}}, cfg)
	s, _ = Step(s, GestureMoved{At: gesture.Point{X: 90, Y: 20}}, cfg)

	v := Render(s, cfg)
	want := transform.Drag(gesture.Point{X: 80, Y: 10}, cfg.Transform)
	if v.Active.Transform != want {
		t.Errorf("expected %+v, got %+v", want, v.Active.Transform)
	}
	if v.Hint != gesture.HintLike {
		t.Errorf("expected like hint, got %q", v.Hint)
	}
}

func TestRenderCommitting(t *testing.T) {
	cfg := DefaultConfig()
	s := ready(t, domain.Batch{itemA})
	s, _ = Step(s, ActionTriggered{Kind: domain.ActionAccept}, cfg)

	v := Render(s, cfg)
	if v.Active.Transform != transform.Exit(domain.ActionAccept, cfg.Transform) {
		t.Errorf("expected exit transform, got %+v", v.Active.Transform)
	}
	if v.Pending == nil || v.Pending.ItemID != 1 {
		t.Errorf("expected pending action for item 1, got %+v", v.Pending)
	}
}

func TestViewJSON(t *testing.T) {
	s := ready(t, domain.Batch{itemA})
	s.LastErr = errors.New("record action: 500")

	data, err := json.Marshal(Render(s, DefaultConfig()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"phase":"ready"`, `"type":"food"`, `"error":"record action: 500"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}
