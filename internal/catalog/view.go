package catalog

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period a search must observe before it fetches.
const DefaultDebounce = 500 * time.Millisecond

// Snapshot is the state of a View at one instant.
type Snapshot struct {
	Criteria Criteria
	Result   Result
	// Seq is the sequence number of the request that produced Result.
	Seq     uint64
	Loading bool
}

// View holds the criteria of one listing and refetches on every change.
// Each fetch is tagged with a monotonically increasing sequence number and
// only the response carrying the latest number is applied, so a slow early
// response can never overwrite a newer one. Superseded requests still run to
// completion; their results are dropped.
type View struct {
	fetch    Fetcher
	debounce time.Duration

	mu       sync.Mutex
	criteria Criteria
	issued   uint64
	applied  uint64
	result   Result
	timer    *time.Timer
	// timerGen identifies the armed timer; a callback that lost the race to
	// stopTimerLocked sees a newer value and does nothing.
	timerGen  uint64
	searchCtx context.Context
	wg        sync.WaitGroup

	onChange func(Snapshot)
	onStale  func(seq uint64)
}

// ViewOption configures a View.
type ViewOption func(*View)

// WithDebounce overrides the search quiet period.
func WithDebounce(d time.Duration) ViewOption {
	return func(v *View) { v.debounce = d }
}

// WithOnChange registers a listener invoked after every applied response.
func WithOnChange(fn func(Snapshot)) ViewOption {
	return func(v *View) { v.onChange = fn }
}

// WithOnStale registers a listener invoked for every discarded response.
func WithOnStale(fn func(seq uint64)) ViewOption {
	return func(v *View) { v.onStale = fn }
}

// NewView creates a View starting from initial. No fetch is issued until the
// first mutation or Refresh.
func NewView(fetch Fetcher, initial Criteria, opts ...ViewOption) *View {
	v := &View{fetch: fetch, debounce: DefaultDebounce, criteria: initial.clone()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Update applies mutate to the current criteria and dispatches a fetch.
// It returns the sequence number of that fetch.
func (v *View) Update(ctx context.Context, mutate func(Criteria) Criteria) uint64 {
	v.mu.Lock()
	v.stopTimerLocked()
	v.criteria = mutate(v.criteria)
	seq := v.dispatchLocked(ctx)
	v.mu.Unlock()
	return seq
}

// Refresh refetches with the current criteria.
func (v *View) Refresh(ctx context.Context) uint64 {
	return v.Update(ctx, func(c Criteria) Criteria { return c })
}

// Search records new search text and fetches after the quiet period. Each
// call restarts the period; only the last text typed triggers a fetch.
func (v *View) Search(ctx context.Context, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.stopTimerLocked()
	v.criteria = v.criteria.WithSearch(text)
	v.searchCtx = ctx
	gen := v.timerGen
	v.timer = time.AfterFunc(v.debounce, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.timerGen != gen {
			return
		}
		v.stopTimerLocked()
		v.dispatchLocked(ctx)
	})
}

// Flush dispatches a pending debounced search immediately. It reports
// whether a search was pending.
func (v *View) Flush() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.timer == nil {
		return false
	}
	ctx := v.searchCtx
	v.stopTimerLocked()
	v.dispatchLocked(ctx)
	return true
}

// Snapshot returns the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Snapshot{
		Criteria: v.criteria.clone(),
		Result:   v.result,
		Seq:      v.applied,
		Loading:  v.applied != v.issued || v.timer != nil,
	}
}

// Wait blocks until every dispatched fetch has returned. Pending debounce
// timers are not waited for; call Flush first to include them.
func (v *View) Wait() {
	v.wg.Wait()
}

// Close cancels a pending debounced search.
func (v *View) Close() {
	v.mu.Lock()
	v.stopTimerLocked()
	v.mu.Unlock()
}

func (v *View) stopTimerLocked() {
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	v.timerGen++
	v.searchCtx = nil
}

func (v *View) dispatchLocked(ctx context.Context) uint64 {
	v.issued++
	seq := v.issued
	criteria := v.criteria.clone()

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		res := v.fetch(ctx, criteria)
		v.apply(seq, res)
	}()
	return seq
}

func (v *View) apply(seq uint64, res Result) {
	v.mu.Lock()
	if seq != v.issued {
		v.mu.Unlock()
		if v.onStale != nil {
			v.onStale(seq)
		}
		return
	}
	v.applied = seq
	v.result = res
	snap := Snapshot{Criteria: v.criteria.clone(), Result: res, Seq: seq, Loading: v.timer != nil}
	v.mu.Unlock()

	if v.onChange != nil {
		v.onChange(snap)
	}
}
