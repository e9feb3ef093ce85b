package drill

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/flashdrill/internal/spaced_repetition"
	"github.com/example/flashdrill/pkg/models"
)

var (
	// ErrSessionFinished is returned when answering a session that has no items left
	ErrSessionFinished = errors.New("session finished")
	// ErrUnknownItem is returned for item IDs that are not in the catalog
	ErrUnknownItem = errors.New("unknown item")
)

// ProgressSaver persists a single progress record
type ProgressSaver interface {
	Save(itemID string, p models.ProgressRecord) error
}

// SessionRecorder stores finished sessions
type SessionRecorder interface {
	Create(result *models.SessionResult) error
}

// AnswerResult describes the outcome of one submitted answer
type AnswerResult struct {
	Item     models.Item
	Correct  bool
	Progress models.ProgressRecord
}

// Service owns the catalog and the progress store. Every read-modify-write of
// a progress record happens under its lock, so concurrent handlers never lose
// an update.
type Service struct {
	mu    sync.RWMutex
	items []models.Item
	index map[string]int
	store models.ProgressStore

	saver       ProgressSaver
	sessions    SessionRecorder
	shuffle     Shuffler
	now         func() time.Time
	sessionSize int
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithShuffler replaces the random order of practice rounds
func WithShuffler(sh Shuffler) Option {
	return func(s *Service) { s.shuffle = sh }
}

// WithSessionSize limits how many items a quiz presents; 0 means no limit
func WithSessionSize(n int) Option {
	return func(s *Service) { s.sessionSize = n }
}

// WithSessionRecorder stores every finished session
func WithSessionRecorder(r SessionRecorder) Option {
	return func(s *Service) { s.sessions = r }
}

// NewService creates a service over the catalog and the loaded store.
// saver may be nil, in which case progress only lives in memory.
func NewService(items []models.Item, store models.ProgressStore, saver ProgressSaver, opts ...Option) *Service {
	if store == nil {
		store = make(models.ProgressStore)
	}
	s := &Service{
		store:   store,
		saver:   saver,
		shuffle: defaultShuffler,
		now:     time.Now,
	}
	s.setItems(items)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) setItems(items []models.Item) {
	s.items = make([]models.Item, len(items))
	copy(s.items, items)
	s.index = make(map[string]int, len(items))
	for i, item := range s.items {
		s.index[item.ID] = i
	}
}

// SetItems replaces the catalog, for example after an import. Progress of
// items that left the catalog is kept but ignored.
func (s *Service) SetItems(items []models.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setItems(items)
}

// Items returns a copy of the catalog
func (s *Service) Items() []models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Item looks up a catalog item by ID
func (s *Service) Item(id string) (models.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return models.Item{}, false
	}
	return s.items[i], true
}

// Snapshot returns a copy of the progress store
func (s *Service) Snapshot() models.ProgressStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Clone()
}

func (s *Service) known(id string) bool {
	_, ok := s.index[id]
	return ok
}

// record applies one answer to the item's record and persists it. The
// in-memory store only changes once the record is saved. Callers hold s.mu.
func (s *Service) record(itemID string, isCorrect bool) (models.ProgressRecord, error) {
	if _, ok := s.index[itemID]; !ok {
		return models.ProgressRecord{}, fmt.Errorf("%w: %q", ErrUnknownItem, itemID)
	}

	next := spaced_repetition.Apply(s.store.Get(itemID), isCorrect, s.now())
	if s.saver != nil {
		if err := s.saver.Save(itemID, next); err != nil {
			return models.ProgressRecord{}, err
		}
	}
	s.store[itemID] = next
	return next, nil
}

// StartQuiz begins a session over the catalog in due/priority order
func (s *Service) StartQuiz() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	order := spaced_repetition.OrderForSession(s.items, s.store, now)
	if s.sessionSize > 0 && len(order) > s.sessionSize {
		order = order[:s.sessionSize]
	}
	return newQuizSession(order, now)
}

// StartPractice begins a session over the items that still need practice.
// The session is already done when nothing needs practice.
func (s *Service) StartPractice() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newPracticeSession(spaced_repetition.BuildRemedialSet(s.items, s.store), s.shuffle, s.now())
}

// Submit checks the response against the session's current item, records the
// outcome and advances the session
func (s *Service) Submit(sess *Session, response string) (AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The catalog may have changed since the session started
	sess.prune(s.known)
	id, ok := sess.Current()
	if !ok {
		return AnswerResult{}, ErrSessionFinished
	}
	item := s.items[s.index[id]]

	correct := CheckAnswer(response, item.Answer)
	p, err := s.record(id, correct)
	if err != nil {
		return AnswerResult{}, err
	}
	sess.advance(correct, s.store, s.known)

	return AnswerResult{Item: item, Correct: correct, Progress: p}, nil
}

// Current returns the catalog item the session presents next, skipping items
// that left the catalog; false once the session is done
func (s *Service) Current(sess *Session) (models.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.prune(s.known)
	id, ok := sess.Current()
	if !ok {
		return models.Item{}, false
	}
	return s.items[s.index[id]], true
}

// Finish stores the session in the history when at least one item was answered
func (s *Service) Finish(sess *Session) error {
	s.mu.RLock()
	result := sess.Result(s.now())
	s.mu.RUnlock()

	if s.sessions == nil || result.Answered == 0 {
		return nil
	}
	if err := s.sessions.Create(&result); err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}
	log.Printf("Recorded %s session: %d/%d correct", result.Mode, result.Correct, result.Answered)
	return nil
}

// Report summarizes progress over the catalog
func (s *Service) Report() models.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return spaced_repetition.Report(s.items, s.store)
}

// DueCount returns how many items are due for review now
func (s *Service) DueCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return spaced_repetition.DueCount(s.items, s.store, s.now())
}

// ReviewsDue returns how many reviewed items are due again now. Items that
// were never attempted are left out.
func (s *Service) ReviewsDue() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return spaced_repetition.ReviewsDue(s.items, s.store, s.now())
}
