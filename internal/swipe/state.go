// Package swipe is the card controller: a finite-state machine that turns
// gestures and button taps into committed swipe decisions, and a runtime
// that executes the machine's effects against the recommender.
package swipe

import (
	"time"

	"github.com/actuallystonmai/food-swipe/internal/domain"
	"github.com/actuallystonmai/food-swipe/internal/gesture"
	"github.com/actuallystonmai/food-swipe/internal/queue"
	"github.com/actuallystonmai/food-swipe/internal/transform"
)

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseDragging
	PhaseCommitting
	PhaseEmpty
	PhaseEnded
)

var phaseNames = [...]string{
	PhaseLoading:    "loading",
	PhaseReady:      "ready",
	PhaseDragging:   "dragging",
	PhaseCommitting: "committing",
	PhaseEmpty:      "empty",
	PhaseEnded:      "ended",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

type Config struct {
	Gesture      gesture.Config
	Transform    transform.Params
	HintDistance float64
	PeekDepth    int

	// SettleDelay lets the exit animation finish before the next card shows.
	SettleDelay   time.Duration
	CommitTimeout time.Duration
	FetchTimeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		Gesture:       gesture.DefaultConfig(),
		Transform:     transform.DefaultParams(),
		HintDistance:  gesture.DefaultHintDistance,
		PeekDepth:     2,
		SettleDelay:   300 * time.Millisecond,
		CommitTimeout: 10 * time.Second,
		FetchTimeout:  10 * time.Second,
	}
}

// State is everything the machine knows. Step takes and returns it by value.
type State struct {
	Phase Phase

	Token          string
	SessionStarted bool

	Queue queue.Queue

	// Sample is the drag in progress; meaningful only while Dragging.
	Sample gesture.Sample

	// Pending is the action being committed; meaningful only while
	// Committing. Resolved is set once the recommender has answered and the
	// card is waiting for the settle delay.
	Pending  domain.SwipeAction
	Resolved bool

	// At most one task is outstanding at a time. Await holds its sequence
	// number; completions carrying any other number are stale.
	Await   uint64
	NextSeq uint64

	LastErr error
}

func Initial() State {
	return State{Phase: PhaseLoading}
}

func (s *State) issue() uint64 {
	s.NextSeq++
	s.Await = s.NextSeq
	return s.Await
}

func (s State) awaiting(seq uint64) bool {
	return seq != 0 && seq == s.Await
}
