package domain

import "fmt"

// ActionKind values double as the backend route segment for a swipe.
type ActionKind string

const (
	ActionReject      ActionKind = "left"
	ActionAccept      ActionKind = "right"
	ActionSuperAccept ActionKind = "super"
)

func ParseActionKind(s string) (ActionKind, error) {
	switch k := ActionKind(s); k {
	case ActionReject, ActionAccept, ActionSuperAccept:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

// Terminal reports whether committing the action ends the swipe session.
func (k ActionKind) Terminal() bool {
	return k == ActionSuperAccept
}

// SwipeAction is a classified decision about one item. It is a value: it is
// either committed exactly once or discarded.
type SwipeAction struct {
	Kind     ActionKind `json:"action"`
	ItemID   int64      `json:"item_id"`
	ItemKind ItemKind   `json:"item_type"`
}

func NewSwipeAction(kind ActionKind, item RecommendationItem) SwipeAction {
	return SwipeAction{Kind: kind, ItemID: item.ID, ItemKind: item.Kind}
}
