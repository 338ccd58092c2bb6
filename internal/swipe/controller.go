package swipe

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/actuallystonmai/food-swipe/internal/domain"
	"github.com/actuallystonmai/food-swipe/internal/logging"
	"github.com/actuallystonmai/food-swipe/internal/metrics"
)

// Remote is the recommender backend.
type Remote interface {
	BeginSession(ctx context.Context, token string) error
	FetchNextBatch(ctx context.Context, token string) (domain.Batch, error)
	RecordAction(ctx context.Context, token string, action domain.SwipeAction) error
	RecordSuperAndSummarize(ctx context.Context, token string) (*domain.Stats, error)
	EndSession(ctx context.Context, token string) error
}

// Identity hands out the persistent session token.
type Identity interface {
	GetOrCreateToken(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

// Navigator receives the one-shot "show the summary" signal.
type Navigator interface {
	NavigateToSummary()
}

type NavigatorFunc func()

func (f NavigatorFunc) NavigateToSummary() { f() }

const eventBuffer = 64

// Controller runs the machine on a single goroutine. Tasks started for
// effects run elsewhere and report back only by posting events, so the
// machine state is never touched concurrently.
type Controller struct {
	cfg      Config
	remote   Remote
	identity Identity
	nav      Navigator
	log      zerolog.Logger

	events chan Event
	done   chan struct{}

	mu      sync.RWMutex
	state   State
	view    View
	subs    map[uint64]chan View
	nextSub uint64
}

func NewController(cfg Config, remote Remote, identity Identity, nav Navigator) *Controller {
	state := Initial()
	return &Controller{
		cfg:      cfg,
		remote:   remote,
		identity: identity,
		nav:      nav,
		log:      logging.WithComponent("controller"),
		events:   make(chan Event, eventBuffer),
		done:     make(chan struct{}),
		state:    state,
		view:     Render(state, cfg),
		subs:     make(map[uint64]chan View),
	}
}

// Run starts the session and processes events until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	defer c.shutdown()

	c.apply(ctx, Started{})
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-c.events:
			c.apply(ctx, ev)
		}
	}
}

// Dispatch queues an event for the loop.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	select {
	case <-c.done:
		return domain.ErrControllerStopped
	default:
	}

	select {
	case c.events <- ev:
		return nil
	case <-c.done:
		return domain.ErrControllerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// Subscribe returns a channel of views. Slow subscribers miss intermediate
// views rather than stall the loop, but always receive the latest one. The
// channel is closed by cancel or when the controller stops.
func (c *Controller) Subscribe(buffer int) (<-chan View, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan View, buffer)

	c.mu.Lock()
	ch <- c.view
	select {
	case <-c.done:
		close(ch)
		c.mu.Unlock()
		return ch, func() {}
	default:
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Summary asks the recommender to close out the current session.
func (c *Controller) Summary(ctx context.Context) (*domain.Stats, error) {
	c.mu.RLock()
	token := c.state.Token
	c.mu.RUnlock()

	if token == "" {
		return nil, domain.ErrSessionNotFound
	}
	return c.remote.RecordSuperAndSummarize(ctx, token)
}

func (c *Controller) apply(ctx context.Context, ev Event) {
	c.mu.RLock()
	prev := c.state
	c.mu.RUnlock()

	next, effects := Step(prev, ev, c.cfg)
	view := Render(next, c.cfg)

	c.mu.Lock()
	c.state = next
	c.view = view
	for _, sub := range c.subs {
		publish(sub, view)
	}
	c.mu.Unlock()

	if next.Phase != prev.Phase {
		metrics.PhaseTransitions.WithLabelValues(prev.Phase.String(), next.Phase.String()).Inc()
		c.log.Debug().
			Str("from", prev.Phase.String()).
			Str("to", next.Phase.String()).
			Int("cursor", next.Queue.Cursor()).
			Msg("[controller] transition")
	}

	for _, eff := range effects {
		c.execute(ctx, eff)
	}
}

// publish delivers v without blocking. A full buffer loses its oldest view
// so the newest one always lands. Only the loop sends, under mu.
func publish(sub chan View, v View) {
	select {
	case sub <- v:
		return
	default:
	}
	select {
	case <-sub:
	default:
	}
	select {
	case sub <- v:
	default:
	}
}

func (c *Controller) execute(ctx context.Context, eff Effect) {
	switch eff := eff.(type) {
	case BeginSession:
		c.task(ctx, c.cfg.FetchTimeout, func(ctx context.Context) Event {
			token, err := c.beginSession(ctx)
			return SessionBegun{Seq: eff.Seq, Token: token, Err: err}
		})

	case FetchBatch:
		c.task(ctx, c.cfg.FetchTimeout, func(ctx context.Context) Event {
			batch, err := c.remote.FetchNextBatch(ctx, eff.Token)
			switch {
			case err != nil:
				metrics.Fetches.WithLabelValues("failure").Inc()
				c.log.Warn().Err(err).Msg("[controller] fetch next batch failed")
			case batch.Empty():
				metrics.Fetches.WithLabelValues("empty").Inc()
			default:
				metrics.Fetches.WithLabelValues("items").Inc()
			}
			metrics.FetchedItems.Observe(float64(len(batch)))
			return BatchFetched{Seq: eff.Seq, Batch: batch, Err: err}
		})

	case RecordAction:
		c.task(ctx, c.cfg.CommitTimeout, func(ctx context.Context) Event {
			err := c.remote.RecordAction(ctx, eff.Token, eff.Action)
			metrics.Commits.WithLabelValues(string(eff.Action.Kind), metrics.Outcome(err)).Inc()
			if err != nil {
				c.log.Warn().Err(err).
					Int64("item_id", eff.Action.ItemID).
					Str("action", string(eff.Action.Kind)).
					Msg("[controller] record action failed")
			}
			return CommitResolved{Seq: eff.Seq, Err: err}
		})

	case ScheduleSettle:
		time.AfterFunc(c.cfg.SettleDelay, func() {
			c.post(ctx, Settled{Seq: eff.Seq})
		})

	case NavigateToSummary:
		metrics.SummaryNavigations.Inc()
		c.log.Info().Msg("[controller] session closed, navigating to summary")
		if c.nav != nil {
			c.nav.NavigateToSummary()
		}

	case ResetSession:
		c.task(ctx, c.cfg.FetchTimeout, func(ctx context.Context) Event {
			if eff.Token != "" {
				if err := c.remote.EndSession(ctx, eff.Token); err != nil {
					c.log.Warn().Err(err).Msg("[controller] end session failed")
				}
			}
			if err := c.identity.ClearToken(ctx); err != nil {
				return SessionBegun{Seq: eff.Seq, Err: err}
			}
			token, err := c.beginSession(ctx)
			return SessionBegun{Seq: eff.Seq, Token: token, Err: err}
		})
	}
}

func (c *Controller) beginSession(ctx context.Context) (string, error) {
	token, err := c.identity.GetOrCreateToken(ctx)
	if err != nil {
		return "", err
	}
	if err := c.remote.BeginSession(ctx, token); err != nil {
		c.log.Warn().Err(err).Msg("[controller] begin session failed")
		return "", err
	}
	return token, nil
}

// task runs fn on its own goroutine with a bounded context and posts the
// resulting event back to the loop.
func (c *Controller) task(ctx context.Context, timeout time.Duration, fn func(context.Context) Event) {
	go func() {
		taskCtx, cancel := ctx, context.CancelFunc(func() {})
		if timeout > 0 {
			taskCtx, cancel = context.WithTimeout(ctx, timeout)
		}
		defer cancel()

		c.post(ctx, fn(taskCtx))
	}()
}

func (c *Controller) post(ctx context.Context, ev Event) {
	select {
	case c.events <- ev:
	case <-ctx.Done():
	case <-c.done:
	}
}

func (c *Controller) shutdown() {
	close(c.done)

	c.mu.Lock()
	defer c.mu.Unlock()
	for id, sub := range c.subs {
		delete(c.subs, id)
		close(sub)
	}
}
