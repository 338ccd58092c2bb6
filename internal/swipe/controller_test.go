package swipe

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/actuallystonmai/food-swipe/internal/domain"
	"github.com/actuallystonmai/food-swipe/internal/gesture"
)

type fakeRemote struct {
	mu       sync.Mutex
	batches  []domain.Batch
	fetchErr error
	recErr   error
	hang     bool

	begun    []string
	ended    []string
	recorded []domain.SwipeAction
	fetches  int
}

func (f *fakeRemote) BeginSession(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.begun = append(f.begun, token)
	return nil
}

func (f *fakeRemote) FetchNextBatch(_ context.Context, _ string) (domain.Batch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if len(f.batches) == 0 {
		return nil, nil
	}
	b := f.batches[0]
	f.batches = f.batches[1:]
	return b, nil
}

func (f *fakeRemote) RecordAction(ctx context.Context, _ string, action domain.SwipeAction) error {
	f.mu.Lock()
	f.recorded = append(f.recorded, action)
	hang, err := f.hang, f.recErr
	f.mu.Unlock()

	if hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (f *fakeRemote) RecordSuperAndSummarize(_ context.Context, token string) (*domain.Stats, error) {
	return &domain.Stats{TotalSwipes: 3, LeftSwipes: 1, RightSwipes: 2, Insights: "likes noodles " + token}, nil
}

func (f *fakeRemote) EndSession(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ended = append(f.ended, token)
	return nil
}

func (f *fakeRemote) snapshot() (recorded []domain.SwipeAction, begun, ended []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.SwipeAction(nil), f.recorded...), append([]string(nil), f.begun...), append([]string(nil), f.ended...)
}

type fakeIdentity struct {
	mu      sync.Mutex
	token   string
	n       int
	cleared int
}

func (f *fakeIdentity) GetOrCreateToken(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.token == "" {
		f.n++
		f.token = fmt.Sprintf("token-%d", f.n)
	}
	return f.token, nil
}

func (f *fakeIdentity) ClearToken(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.cleared++
	return nil
}

type harness struct {
	c        *Controller
	remote   *fakeRemote
	identity *fakeIdentity
	navs     *int
	navMu    *sync.Mutex
	cancel   context.CancelFunc
	stopped  chan struct{}
}

func startController(t *testing.T, remote *fakeRemote, tweak func(*Config)) *harness {
	t.Helper()
	cfg := DefaultConfig()
	cfg.SettleDelay = time.Millisecond
	cfg.CommitTimeout = 50 * time.Millisecond
	if tweak != nil {
		tweak(&cfg)
	}

	var navMu sync.Mutex
	navs := 0
	identity := &fakeIdentity{}
	c := NewController(cfg, remote, identity, NavigatorFunc(func() {
		navMu.Lock()
		navs++
		navMu.Unlock()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = c.Run(ctx)
	}()

	h := &harness{c: c, remote: remote, identity: identity, navs: &navs, navMu: &navMu, cancel: cancel, stopped: stopped}
	t.Cleanup(h.stop)
	return h
}

func (h *harness) stop() {
	h.cancel()
	<-h.stopped
}

func (h *harness) navigations() int {
	h.navMu.Lock()
	defer h.navMu.Unlock()
	return *h.navs
}

func (h *harness) dispatch(t *testing.T, ev Event) {
	t.Helper()
	if err := h.c.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("dispatch %T: %v", ev, err)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func (h *harness) waitPhase(t *testing.T, phase Phase) View {
	t.Helper()
	waitFor(t, "phase "+phase.String(), func() bool { return h.c.View().Phase == phase })
	return h.c.View()
}

func TestControllerSwipeThroughBatch(t *testing.T) {
	remote := &fakeRemote{batches: []domain.Batch{{itemA, itemB}, {itemC}}}
	h := startController(t, remote, nil)

	v := h.waitPhase(t, PhaseReady)
	if v.Active == nil || v.Active.Item.ID != 1 || v.Position != 1 || v.Total != 2 {
		t.Fatalf("unexpected first view %+v", v)
	}
	if len(v.Behind) != 1 || v.Behind[0].Item.ID != 2 {
		t.Errorf("expected item 2 peeking behind, got %+v", v.Behind)
	}

	h.dispatch(t, GestureStarted{At: gesture.Point{X: 200, Y: 200}})
	h.dispatch(t, GestureMoved{At: gesture.Point{X: 50, Y: 190}})
	h.dispatch(t, GestureEnded{})

	waitFor(t, "card 2", func() bool {
		v := h.c.View()
		return v.Phase == PhaseReady && v.Active != nil && v.Active.Item.ID == 2
	})

	h.dispatch(t, ActionTriggered{Kind: domain.ActionAccept})
	waitFor(t, "refill", func() bool {
		v := h.c.View()
		return v.Phase == PhaseReady && v.Active != nil && v.Active.Item.ID == 3
	})

	recorded, begun, _ := remote.snapshot()
	want := []domain.SwipeAction{
		{Kind: domain.ActionReject, ItemID: 1, ItemKind: domain.KindFood},
		{Kind: domain.ActionAccept, ItemID: 2, ItemKind: domain.KindCategory},
	}
	if len(recorded) != len(want) {
		t.Fatalf("expected %d recorded actions, got %+v", len(want), recorded)
	}
	for i := range want {
		if recorded[i] != want[i] {
			t.Errorf("action %d: expected %+v, got %+v", i, want[i], recorded[i])
		}
	}
	if len(begun) != 1 || begun[0] != "token-1" {
		t.Errorf("expected one session for token-1, got %v", begun)
	}
}

func TestControllerSuperNavigatesExactlyOnce(t *testing.T) {
	remote := &fakeRemote{batches: []domain.Batch{{itemA}}}
	h := startController(t, remote, nil)
	h.waitPhase(t, PhaseReady)

	h.dispatch(t, GestureStarted{At: gesture.Point{X: 100, Y: 400}})
	h.dispatch(t, GestureMoved{At: gesture.Point{X: 90, Y: 250}})
	h.dispatch(t, GestureEnded{})
	h.dispatch(t, ActionTriggered{Kind: domain.ActionSuperAccept})

	h.waitPhase(t, PhaseEnded)
	time.Sleep(20 * time.Millisecond)

	if n := h.navigations(); n != 1 {
		t.Errorf("expected one navigation, got %d", n)
	}
	recorded, _, _ := remote.snapshot()
	if len(recorded) != 1 || recorded[0].Kind != domain.ActionSuperAccept || recorded[0].ItemID != 1 {
		t.Errorf("expected a single super action for item 1, got %+v", recorded)
	}

	stats, err := h.c.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if stats.TotalSwipes != 3 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestControllerCommitFailureAdvances(t *testing.T) {
	remote := &fakeRemote{batches: []domain.Batch{{itemA, itemB}}, recErr: errors.New("backend 500")}
	h := startController(t, remote, nil)
	h.waitPhase(t, PhaseReady)

	h.dispatch(t, ActionTriggered{Kind: domain.ActionReject})
	waitFor(t, "advance after failure", func() bool {
		v := h.c.View()
		return v.Phase == PhaseReady && v.Active != nil && v.Active.Item.ID == 2
	})
	if v := h.c.View(); v.Error == "" {
		t.Error("expected the commit failure to be surfaced in the view")
	}
}

func TestControllerHungCommitIsBounded(t *testing.T) {
	remote := &fakeRemote{batches: []domain.Batch{{itemA}}, hang: true}
	h := startController(t, remote, func(cfg *Config) { cfg.CommitTimeout = 20 * time.Millisecond })
	h.waitPhase(t, PhaseReady)

	h.dispatch(t, ActionTriggered{Kind: domain.ActionSuperAccept})
	waitFor(t, "timeout surfaced", func() bool {
		v := h.c.View()
		return v.Phase == PhaseReady && v.Error != ""
	})
	if v := h.c.View(); v.Active == nil || v.Active.Item.ID != 1 {
		t.Errorf("expected item 1 to stay active, got %+v", v.Active)
	}
	if n := h.navigations(); n != 0 {
		t.Errorf("failed super must not navigate, got %d", n)
	}
}

func TestControllerFetchFailureAndRetry(t *testing.T) {
	remote := &fakeRemote{fetchErr: errors.New("connection refused")}
	h := startController(t, remote, nil)

	v := h.waitPhase(t, PhaseEmpty)
	if v.Error == "" {
		t.Error("expected fetch error in view")
	}

	remote.mu.Lock()
	remote.fetchErr = nil
	remote.batches = []domain.Batch{{itemB}}
	remote.mu.Unlock()

	h.dispatch(t, RetryRequested{})
	v = h.waitPhase(t, PhaseReady)
	if v.Active.Item.ID != 2 {
		t.Errorf("expected item 2 after retry, got %d", v.Active.Item.ID)
	}
}

func TestControllerReset(t *testing.T) {
	remote := &fakeRemote{batches: []domain.Batch{{itemA}, {itemB}}}
	h := startController(t, remote, nil)
	h.waitPhase(t, PhaseReady)

	h.dispatch(t, ResetRequested{})
	waitFor(t, "new session", func() bool {
		v := h.c.View()
		return v.Phase == PhaseReady && v.Active != nil && v.Active.Item.ID == 2
	})

	_, begun, ended := remote.snapshot()
	if len(ended) != 1 || ended[0] != "token-1" {
		t.Errorf("expected token-1 to be ended, got %v", ended)
	}
	if len(begun) != 2 || begun[1] != "token-2" {
		t.Errorf("expected a session for token-2, got %v", begun)
	}
}

func TestControllerSubscribe(t *testing.T) {
	remote := &fakeRemote{batches: []domain.Batch{{itemA}}}
	h := startController(t, remote, nil)

	views, cancel := h.c.Subscribe(16)
	defer cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case v := <-views:
			if v.Phase == PhaseReady {
				h.stop()
				for range views {
				}
				if err := h.c.Dispatch(context.Background(), RetryRequested{}); !errors.Is(err, domain.ErrControllerStopped) {
					t.Errorf("expected ErrControllerStopped, got %v", err)
				}
				return
			}
		case <-deadline:
			t.Fatal("never saw a ready view")
		}
	}
}

func TestControllerSummaryWithoutSession(t *testing.T) {
	c := NewController(DefaultConfig(), &fakeRemote{}, &fakeIdentity{}, nil)
	if _, err := c.Summary(context.Background()); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestControllerSlowSubscriberGetsLatestView(t *testing.T) {
	remote := &fakeRemote{batches: []domain.Batch{{itemA, itemB}}}
	h := startController(t, remote, nil)
	h.waitPhase(t, PhaseReady)

	views, cancel := h.c.Subscribe(1)
	defer cancel()

	// Never read while the controller moves through several phases.
	h.dispatch(t, GestureStarted{At: gesture.Point{}})
	h.dispatch(t, GestureMoved{At: gesture.Point{X: 30}})
	h.dispatch(t, GestureCancelled{})
	h.dispatch(t, ActionTriggered{Kind: domain.ActionAccept})
	waitFor(t, "advance to second card", func() bool {
		v := h.c.View()
		return v.Phase == PhaseReady && v.Active != nil && v.Active.Item.ID == itemB.ID
	})

	select {
	case v := <-views:
		if v.Phase != PhaseReady || v.Active == nil || v.Active.Item.ID != itemB.ID {
			t.Errorf("expected the latest view (ready on item %d), got %s %+v", itemB.ID, v.Phase, v.Active)
		}
	case <-time.After(time.Second):
		t.Fatal("no view buffered")
	}
}
