package swipe

import (
	"github.com/actuallystonmai/food-swipe/internal/domain"
	"github.com/actuallystonmai/food-swipe/internal/gesture"
)

// Event is an input to the machine: user input or a task completion.
type Event interface {
	event()
}

type (
	Started      struct{}
	SessionBegun struct {
		Seq   uint64
		Token string
		Err   error
	}
	BatchFetched struct {
		Seq   uint64
		Batch domain.Batch
		Err   error
	}

	GestureStarted   struct{ At gesture.Point }
	GestureMoved     struct{ At gesture.Point }
	GestureEnded     struct{}
	GestureCancelled struct{}

	// ActionTriggered is a button tap. It skips gesture interpretation.
	ActionTriggered struct{ Kind domain.ActionKind }

	CommitResolved struct {
		Seq uint64
		Err error
	}
	Settled struct{ Seq uint64 }

	RetryRequested struct{}
	ResetRequested struct{}
)

func (Started) event()          {}
func (SessionBegun) event()     {}
func (BatchFetched) event()     {}
func (GestureStarted) event()   {}
func (GestureMoved) event()     {}
func (GestureEnded) event()     {}
func (GestureCancelled) event() {}
func (ActionTriggered) event()  {}
func (CommitResolved) event()   {}
func (Settled) event()          {}
func (RetryRequested) event()   {}
func (ResetRequested) event()   {}

// Effect is work the runtime must do on the machine's behalf. Effects that
// complete asynchronously carry the sequence number their completion event
// must echo.
type Effect interface {
	effect()
}

type (
	BeginSession struct{ Seq uint64 }
	FetchBatch   struct {
		Seq   uint64
		Token string
	}
	RecordAction struct {
		Seq    uint64
		Token  string
		Action domain.SwipeAction
	}
	ScheduleSettle    struct{ Seq uint64 }
	NavigateToSummary struct{}
	// ResetSession ends the session held by Token and starts a new one.
	ResetSession struct {
		Seq   uint64
		Token string
	}
)

func (BeginSession) effect()      {}
func (FetchBatch) effect()        {}
func (RecordAction) effect()      {}
func (ScheduleSettle) effect()    {}
func (NavigateToSummary) effect() {}
func (ResetSession) effect()      {}
