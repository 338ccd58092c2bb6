package swipe

import (
	"github.com/actuallystonmai/food-swipe/internal/domain"
	"github.com/actuallystonmai/food-swipe/internal/gesture"
)

// Step applies one event. It is pure: the returned effects are the only way
// the machine reaches the outside world. Events that make no sense in the
// current phase are dropped and the state is returned unchanged.
func Step(s State, ev Event, cfg Config) (State, []Effect) {
	switch ev := ev.(type) {
	case Started:
		if s.Phase != PhaseLoading || s.SessionStarted || s.Await != 0 {
			return s, nil
		}
		return s.beginSession()

	case SessionBegun:
		if !s.awaiting(ev.Seq) || s.Phase != PhaseLoading {
			return s, nil
		}
		s.Await = 0
		if ev.Err != nil {
			s.Phase = PhaseEmpty
			s.LastErr = ev.Err
			return s, nil
		}
		s.Token = ev.Token
		s.SessionStarted = true
		return s.fetch()

	case BatchFetched:
		if !s.awaiting(ev.Seq) || s.Phase != PhaseLoading {
			return s, nil
		}
		s.Await = 0
		if ev.Err != nil {
			s.Queue.Replace(nil)
			s.Phase = PhaseEmpty
			s.LastErr = ev.Err
			return s, nil
		}
		s.Queue.Replace(ev.Batch)
		s.LastErr = nil
		if s.Queue.IsExhausted() {
			s.Phase = PhaseEmpty
			return s, nil
		}
		s.Phase = PhaseReady
		return s, nil

	case GestureStarted:
		if s.Phase != PhaseReady {
			return s, nil
		}
		s.Phase = PhaseDragging
		s.Sample = gesture.Begin(ev.At)
		return s, nil

	case GestureMoved:
		if s.Phase != PhaseDragging {
			return s, nil
		}
		s.Sample = s.Sample.MoveTo(ev.At)
		return s, nil

	case GestureCancelled:
		if s.Phase != PhaseDragging {
			return s, nil
		}
		s.Phase = PhaseReady
		s.Sample = gesture.Sample{}
		return s, nil

	case GestureEnded:
		if s.Phase != PhaseDragging {
			return s, nil
		}
		kind, ok := gesture.Interpret(s.Sample, cfg.Gesture).Action()
		s.Sample = gesture.Sample{}
		if !ok {
			// snap back
			s.Phase = PhaseReady
			return s, nil
		}
		return s.commit(kind)

	case ActionTriggered:
		// With no active item there is nothing to record, so taps in Empty
		// are dropped and only a retry leaves it.
		if s.Phase != PhaseReady && s.Phase != PhaseDragging {
			return s, nil
		}
		s.Sample = gesture.Sample{}
		return s.commit(ev.Kind)

	case CommitResolved:
		if !s.awaiting(ev.Seq) || s.Phase != PhaseCommitting || s.Resolved {
			return s, nil
		}
		s.Await = 0
		if ev.Err != nil {
			s.LastErr = ev.Err
		}
		if s.Pending.Kind.Terminal() {
			if ev.Err != nil {
				s.Phase = PhaseReady
				s.Pending = domain.SwipeAction{}
				return s, nil
			}
			s.Phase = PhaseEnded
			return s, []Effect{NavigateToSummary{}}
		}
		// The local advance happens whatever the recommender answered.
		s.Resolved = true
		seq := s.issue()
		return s, []Effect{ScheduleSettle{Seq: seq}}

	case Settled:
		if !s.awaiting(ev.Seq) || s.Phase != PhaseCommitting || !s.Resolved {
			return s, nil
		}
		s.Await = 0
		s.Pending = domain.SwipeAction{}
		s.Resolved = false
		s.Queue.Advance()
		if s.Queue.IsExhausted() {
			return s.fetch()
		}
		s.Phase = PhaseReady
		return s, nil

	case RetryRequested:
		if s.Phase != PhaseEmpty {
			return s, nil
		}
		s.LastErr = nil
		if !s.SessionStarted {
			return s.beginSession()
		}
		return s.fetch()

	case ResetRequested:
		next := State{Phase: PhaseLoading, NextSeq: s.NextSeq}
		seq := next.issue()
		return next, []Effect{ResetSession{Seq: seq, Token: s.Token}}
	}

	return s, nil
}

func (s State) beginSession() (State, []Effect) {
	s.Phase = PhaseLoading
	seq := s.issue()
	return s, []Effect{BeginSession{Seq: seq}}
}

func (s State) fetch() (State, []Effect) {
	s.Phase = PhaseLoading
	seq := s.issue()
	return s, []Effect{FetchBatch{Seq: seq, Token: s.Token}}
}

func (s State) commit(kind domain.ActionKind) (State, []Effect) {
	item, ok := s.Queue.Active()
	if !ok {
		return s, nil
	}
	s.Phase = PhaseCommitting
	s.Pending = domain.NewSwipeAction(kind, item)
	s.Resolved = false
	s.LastErr = nil
	seq := s.issue()
	return s, []Effect{RecordAction{Seq: seq, Token: s.Token, Action: s.Pending}}
}
