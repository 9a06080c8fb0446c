package services

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
	"github.com/custodia-labs/bestiary-cli/internal/core/ports/driving"
	"github.com/custodia-labs/bestiary-cli/internal/logger"
)

// Ensure QueryStream implements the interface.
var _ driving.SearchStream = (*QueryStream)(nil)

// RecordSearcher is the slice of the gateway QueryStream needs.
type RecordSearcher interface {
	Search(ctx context.Context, term string) []domain.Record
}

// QueryStreamConfig configures a QueryStream.
type QueryStreamConfig struct {
	// Debounce is the quiescence window. Defaults to domain.DefaultDebounce.
	Debounce time.Duration

	// MinTermLength is the shortest term sent to the searcher.
	// Defaults to domain.DefaultMinTermLength.
	MinTermLength int

	// Clock schedules the quiescence timer. Defaults to SystemClock.
	Clock Clock
}

// QueryStream turns raw keystroke terms into search results.
//
// A term is promoted to a query only after the quiescence window passes with
// no newer term. A promoted term equal to the previously accepted one is
// dropped. Each accepted query gets a generation number and only the latest
// generation may deliver, so an older query resolving late is discarded.
// The previously accepted term is never reset.
type QueryStream struct {
	searcher RecordSearcher
	clock    Clock
	debounce time.Duration
	minLen   int

	base context.Context
	out  chan driving.SearchResult

	mu         sync.Mutex
	timer      Timer
	held       string
	submits    uint64
	last       string
	hasLast    bool
	generation uint64
	cancel     context.CancelFunc
	closed     bool

	inflight sync.WaitGroup
}

// NewQueryStream creates a stream that searches through searcher.
// Cancelling ctx cancels in-flight searches but does not close the stream.
func NewQueryStream(ctx context.Context, searcher RecordSearcher, cfg QueryStreamConfig) *QueryStream {
	if cfg.Debounce <= 0 {
		cfg.Debounce = domain.DefaultDebounce
	}
	if cfg.MinTermLength < 1 {
		cfg.MinTermLength = domain.DefaultMinTermLength
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}

	return &QueryStream{
		searcher: searcher,
		clock:    cfg.Clock,
		debounce: cfg.Debounce,
		minLen:   cfg.MinTermLength,
		base:     ctx,
		out:      make(chan driving.SearchResult, 1),
	}
}

// Submit records a raw term and restarts the quiescence window.
func (s *QueryStream) Submit(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.submits++
	seq := s.submits
	s.held = term
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.clock.AfterFunc(s.debounce, func() { s.promote(seq) })
}

// Results delivers one result set per accepted query.
// The channel is closed by Close and never because of a failed search.
func (s *QueryStream) Results() <-chan driving.SearchResult {
	return s.out
}

// Close stops the stream, cancels any in-flight search and closes Results.
func (s *QueryStream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	close(s.out)
}

// promote runs when the quiescence window of submission seq expires.
func (s *QueryStream) promote(seq uint64) {
	s.mu.Lock()

	// A newer submission restarted the window after this timer fired.
	if s.closed || seq != s.submits {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	term := s.held

	if s.hasLast && term == s.last {
		s.mu.Unlock()
		logger.Debug("search %q unchanged, not re-queried", term)
		return
	}
	s.last, s.hasLast = term, true

	s.generation++
	gen := s.generation
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if utf8.RuneCountInString(term) < s.minLen {
		logger.Debug("search %q too short, resolving empty", term)
		s.publishLocked(term, []domain.Record{})
		s.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(s.base)
	s.cancel = cancel
	s.inflight.Add(1)
	s.mu.Unlock()

	logger.Debug("search %q issued (generation %d)", term, gen)
	pending := Go(ctx, func(ctx context.Context) []domain.Record {
		return s.searcher.Search(ctx, term)
	})
	go func() {
		defer s.inflight.Done()
		<-pending.Done()
		records, _ := pending.Value()
		s.resolve(gen, term, records)
	}()
}

// resolve delivers records if gen is still the latest generation.
func (s *QueryStream) resolve(gen uint64, term string, records []domain.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.generation {
		logger.Debug("discarding superseded result (generation %d, latest %d)", gen, s.generation)
		return
	}
	if records == nil {
		records = []domain.Record{}
	}
	s.publishLocked(term, records)
}

// publishLocked hands records to the consumer, replacing an unread older set.
// Only callers holding mu send on out, so the second send cannot block.
func (s *QueryStream) publishLocked(term string, records []domain.Record) {
	res := driving.SearchResult{Term: term, Records: records}
	select {
	case s.out <- res:
		return
	default:
	}
	select {
	case <-s.out:
	default:
	}
	s.out <- res
}

// Flush promotes the held term immediately instead of waiting out the window.
// It is a no-op when no term is held.
func (s *QueryStream) Flush() {
	s.mu.Lock()
	if s.closed || s.timer == nil {
		s.mu.Unlock()
		return
	}
	s.timer.Stop()
	seq := s.submits
	s.mu.Unlock()

	s.promote(seq)
}

// Wait blocks until every dispatched search has resolved.
func (s *QueryStream) Wait() {
	s.inflight.Wait()
}
