package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
	"github.com/custodia-labs/bestiary-cli/internal/core/ports/driven"
)

// fakeClock fires timers synchronously from Advance.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Advance moves time forward, firing due timers in order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	for {
		due := c.nextDueLocked(target)
		if due == nil {
			break
		}
		c.now = due.at
		due.fired = true
		c.mu.Unlock()
		due.f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

func (c *fakeClock) nextDueLocked(target time.Duration) *fakeTimer {
	pending := make([]*fakeTimer, 0, len(c.timers))
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= target {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].at < pending[j].at })
	return pending[0]
}

// fakeSearcher records calls. A gated term blocks until its gate is closed,
// ignoring context cancellation, to model a late network response.
type fakeSearcher struct {
	mu      sync.Mutex
	calls   []string
	results map[string][]domain.Record
	gates   map[string]chan struct{}
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{
		results: make(map[string][]domain.Record),
		gates:   make(map[string]chan struct{}),
	}
}

func (f *fakeSearcher) Search(_ context.Context, term string) []domain.Record {
	f.mu.Lock()
	f.calls = append(f.calls, term)
	gate := f.gates[term]
	res := f.results[term]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return res
}

func (f *fakeSearcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func records(names ...string) []domain.Record {
	out := make([]domain.Record, len(names))
	for i, n := range names {
		out[i] = domain.Record{ID: i + 1, Name: n, Categories: []string{domain.CategoryNormal}}
	}
	return out
}

func newTestStream(t *testing.T, searcher RecordSearcher) (*QueryStream, *fakeClock) {
	t.Helper()
	clock := &fakeClock{}
	s := NewQueryStream(context.Background(), searcher, QueryStreamConfig{
		Debounce: 300 * time.Millisecond,
		Clock:    clock,
	})
	t.Cleanup(s.Close)
	return s, clock
}

func receive(t *testing.T, s *QueryStream) []domain.Record {
	t.Helper()
	select {
	case got := <-s.Results():
		return got.Records
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for results")
		return nil
	}
}

func assertNoDelivery(t *testing.T, s *QueryStream) {
	t.Helper()
	select {
	case got := <-s.Results():
		t.Fatalf("unexpected delivery: %v", got)
	default:
	}
}

func TestNewQueryStream_Defaults(t *testing.T) {
	s := NewQueryStream(context.Background(), newFakeSearcher(), QueryStreamConfig{})
	defer s.Close()

	assert.Equal(t, domain.DefaultDebounce, s.debounce)
	assert.Equal(t, domain.DefaultMinTermLength, s.minLen)
	assert.IsType(t, SystemClock{}, s.clock)
}

func TestQueryStream_DebounceIssuesOnlyLastTerm(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["abc"] = records("abcmon")
	s, clock := newTestStream(t, searcher)

	s.Submit("a")
	clock.Advance(100 * time.Millisecond)
	s.Submit("ab")
	clock.Advance(50 * time.Millisecond)
	s.Submit("abc")

	// t=449: window of "abc" has not elapsed yet.
	clock.Advance(299 * time.Millisecond)
	s.Wait()
	assert.Empty(t, searcher.Calls())
	assertNoDelivery(t, s)

	// t=450
	clock.Advance(time.Millisecond)
	s.Wait()
	assert.Equal(t, []string{"abc"}, searcher.Calls())
	assert.Equal(t, records("abcmon"), receive(t, s))
}

func TestQueryStream_DeliveryCarriesTerm(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["abc"] = records("abcmon")
	s, clock := newTestStream(t, searcher)

	s.Submit("abc")
	clock.Advance(300 * time.Millisecond)
	s.Wait()

	select {
	case got := <-s.Results():
		assert.Equal(t, "abc", got.Term)
		assert.Equal(t, records("abcmon"), got.Records)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for results")
	}
}

func TestQueryStream_RapidTypingScenario(t *testing.T) {
	searcher := newFakeSearcher()
	s, clock := newTestStream(t, searcher)

	for _, term := range []string{"p", "po", "pok", "poke"} {
		s.Submit(term)
		clock.Advance(50 * time.Millisecond)
	}
	clock.Advance(300 * time.Millisecond)
	s.Wait()

	assert.Equal(t, []string{"poke"}, searcher.Calls())
	assert.Empty(t, receive(t, s))
}

func TestQueryStream_UnchangedTermIsNotRequeried(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["abc"] = records("abcmon")
	s, clock := newTestStream(t, searcher)

	s.Submit("abc")
	clock.Advance(300 * time.Millisecond)
	s.Wait()
	require.Equal(t, records("abcmon"), receive(t, s))

	s.Submit("abc")
	clock.Advance(400 * time.Millisecond)
	s.Wait()

	assert.Equal(t, []string{"abc"}, searcher.Calls())
	assertNoDelivery(t, s)
}

func TestQueryStream_LastAcceptedTermNeverResets(t *testing.T) {
	searcher := newFakeSearcher()
	s, clock := newTestStream(t, searcher)

	s.Submit("poke")
	clock.Advance(300 * time.Millisecond)
	s.Wait()
	receive(t, s)

	// Typing something else that never survives the window does not reset it.
	s.Submit("pika")
	clock.Advance(100 * time.Millisecond)
	s.Submit("poke")
	clock.Advance(time.Hour)
	s.Wait()

	assert.Equal(t, []string{"poke"}, searcher.Calls())
}

func TestQueryStream_ChangedTermIsQueriedAgain(t *testing.T) {
	searcher := newFakeSearcher()
	s, clock := newTestStream(t, searcher)

	for _, term := range []string{"ab", "abc", "ab"} {
		s.Submit(term)
		clock.Advance(300 * time.Millisecond)
		s.Wait()
		receive(t, s)
	}

	assert.Equal(t, []string{"ab", "abc", "ab"}, searcher.Calls())
}

func TestQueryStream_SupersededResultIsDiscarded(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["ab"] = records("ab-result")
	searcher.results["abc"] = records("abc-result")
	gate := make(chan struct{})
	searcher.gates["ab"] = gate
	s, clock := newTestStream(t, searcher)

	s.Submit("ab")
	clock.Advance(300 * time.Millisecond)
	require.Eventually(t, func() bool { return len(searcher.Calls()) == 1 }, time.Second, time.Millisecond)

	s.Submit("abc")
	clock.Advance(300 * time.Millisecond)

	assert.Equal(t, records("abc-result"), receive(t, s))

	// "ab" resolves after "abc" and must never reach the consumer.
	close(gate)
	s.Wait()
	assertNoDelivery(t, s)
	assert.Equal(t, []string{"ab", "abc"}, searcher.Calls())
}

func TestQueryStream_SupersessionCancelsContext(t *testing.T) {
	started := make(chan context.Context, 2)
	searcher := searcherFunc(func(ctx context.Context, term string) []domain.Record {
		started <- ctx
		if term == "ab" {
			<-ctx.Done()
		}
		return records(term)
	})
	s, clock := newTestStream(t, searcher)

	s.Submit("ab")
	clock.Advance(300 * time.Millisecond)
	first := <-started

	s.Submit("abc")
	clock.Advance(300 * time.Millisecond)
	<-started

	s.Wait()
	assert.ErrorIs(t, first.Err(), context.Canceled)
	assert.Equal(t, records("abc"), receive(t, s))
}

func TestQueryStream_ShortTermShortCircuits(t *testing.T) {
	searcher := newFakeSearcher()
	s, clock := newTestStream(t, searcher)

	for _, term := range []string{"p", "", "é"} {
		s.Submit(term)
		clock.Advance(300 * time.Millisecond)

		// Delivered synchronously when the window expires.
		select {
		case got := <-s.Results():
			assert.Equal(t, term, got.Term)
			assert.NotNil(t, got.Records)
			assert.Empty(t, got.Records)
		default:
			t.Fatalf("expected immediate empty result for %q", term)
		}
	}

	assert.Empty(t, searcher.Calls())
}

func TestQueryStream_ShortTermSupersedesPendingQuery(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["ab"] = records("ab-result")
	gate := make(chan struct{})
	searcher.gates["ab"] = gate
	s, clock := newTestStream(t, searcher)

	s.Submit("ab")
	clock.Advance(300 * time.Millisecond)
	s.Submit("a")
	clock.Advance(300 * time.Millisecond)

	assert.Empty(t, receive(t, s))

	close(gate)
	s.Wait()
	assertNoDelivery(t, s)
}

func TestQueryStream_FailedSearchDeliversEmptyAndStaysOpen(t *testing.T) {
	calls := 0
	transport := &mockTransport{
		DoFunc: func(_ context.Context, _ driven.Request) ([]byte, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("connection refused")
			}
			return []byte(`[{"id":25,"name":"Pikachu","types":["Electric"]}]`), nil
		},
	}
	s, clock := newTestStream(t, NewRecordGateway(transport))

	s.Submit("pik")
	clock.Advance(300 * time.Millisecond)
	s.Wait()
	got := receive(t, s)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	s.Submit("pika")
	clock.Advance(300 * time.Millisecond)
	s.Wait()
	got = receive(t, s)
	require.Len(t, got, 1)
	assert.Equal(t, "Pikachu", got[0].Name)
}

func TestQueryStream_SlowConsumerGetsLatest(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["ab"] = records("ab-result")
	searcher.results["abc"] = records("abc-result")
	s, clock := newTestStream(t, searcher)

	s.Submit("ab")
	clock.Advance(300 * time.Millisecond)
	s.Wait()
	s.Submit("abc")
	clock.Advance(300 * time.Millisecond)
	s.Wait()

	assert.Equal(t, records("abc-result"), receive(t, s))
	assertNoDelivery(t, s)
}

func TestQueryStream_Flush(t *testing.T) {
	searcher := newFakeSearcher()
	s, clock := newTestStream(t, searcher)

	s.Flush() // nothing held
	s.Submit("bulba")
	s.Flush()
	s.Wait()
	assert.Equal(t, []string{"bulba"}, searcher.Calls())
	receive(t, s)

	// The stopped timer must not promote the term a second time.
	clock.Advance(time.Second)
	s.Wait()
	assert.Equal(t, []string{"bulba"}, searcher.Calls())
}

func TestQueryStream_Close(t *testing.T) {
	searcher := newFakeSearcher()
	s, clock := newTestStream(t, searcher)

	s.Submit("abc")
	s.Close()
	clock.Advance(time.Second)
	s.Wait()

	_, open := <-s.Results()
	assert.False(t, open)
	assert.Empty(t, searcher.Calls())

	// Submitting and closing again after Close are no-ops.
	assert.NotPanics(t, func() {
		s.Submit("abcd")
		s.Close()
	})
}

func TestQueryStream_ResolveAfterCloseIsDropped(t *testing.T) {
	searcher := newFakeSearcher()
	gate := make(chan struct{})
	searcher.gates["abc"] = gate
	s, clock := newTestStream(t, searcher)

	s.Submit("abc")
	clock.Advance(300 * time.Millisecond)
	s.Close()

	assert.NotPanics(t, func() {
		close(gate)
		s.Wait()
	})
}

func TestQueryStream_WithSystemClock(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["char"] = records("Charmander")
	s := NewQueryStream(context.Background(), searcher, QueryStreamConfig{Debounce: 10 * time.Millisecond})
	defer s.Close()

	s.Submit("c")
	s.Submit("ch")
	s.Submit("char")

	assert.Equal(t, records("Charmander"), receive(t, s))
	assert.Equal(t, []string{"char"}, searcher.Calls())
}

type searcherFunc func(ctx context.Context, term string) []domain.Record

func (f searcherFunc) Search(ctx context.Context, term string) []domain.Record {
	return f(ctx, term)
}
