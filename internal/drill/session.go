package drill

import (
	"time"

	"github.com/example/flashdrill/internal/spaced_repetition"
	"github.com/example/flashdrill/pkg/models"
)

// Session walks the learner through one drill. A quiz session presents a
// fixed ordering computed at start. A practice session keeps a remedial set
// that shrinks after each answer and is reshuffled for every new round.
//
// Sessions are not safe for concurrent use on their own; Service advances
// them under its lock.
type Session struct {
	mode      models.SessionMode
	startedAt time.Time

	queue []string // order of the current round
	pos   int
	total int

	// practice only
	remaining []string
	shuffle   Shuffler
	rounds    int

	answered int
	correct  int
}

func newQuizSession(order []string, startedAt time.Time) *Session {
	return &Session{
		mode:      models.ModeQuiz,
		startedAt: startedAt,
		queue:     order,
		total:     len(order),
	}
}

func newPracticeSession(remedial []string, shuffle Shuffler, startedAt time.Time) *Session {
	s := &Session{
		mode:      models.ModePractice,
		startedAt: startedAt,
		remaining: remedial,
		shuffle:   shuffle,
		total:     len(remedial),
	}
	s.newRound()
	return s
}

func (s *Session) newRound() {
	s.queue = s.shuffle.shuffled(s.remaining)
	s.pos = 0
	if len(s.queue) > 0 {
		s.rounds++
	}
}

// Mode returns whether this is a quiz or a practice session
func (s *Session) Mode() models.SessionMode {
	return s.mode
}

// Current returns the ID of the item to answer next; false once finished
func (s *Session) Current() (string, bool) {
	if s.Done() {
		return "", false
	}
	return s.queue[s.pos], true
}

// Done reports whether the session has no more items
func (s *Session) Done() bool {
	return s.pos >= len(s.queue)
}

// Position returns the 1-based index of the current item within the round
// and the round size
func (s *Session) Position() (int, int) {
	return s.pos + 1, len(s.queue)
}

// Remaining returns how many items are still in the remedial set. For a quiz
// session it is the number of unanswered items.
func (s *Session) Remaining() int {
	if s.mode == models.ModePractice {
		return len(s.remaining)
	}
	return len(s.queue) - s.pos
}

// Round returns the 1-based practice round; always 1 for a quiz
func (s *Session) Round() int {
	if s.mode == models.ModeQuiz {
		return 1
	}
	return s.rounds
}

// advance moves past the current item once its answer was recorded in store.
// known reports whether an item is still in the catalog.
func (s *Session) advance(correct bool, store models.ProgressStore, known func(string) bool) {
	s.answered++
	if correct {
		s.correct++
	}
	s.pos++

	if s.mode == models.ModePractice {
		s.remaining = spaced_repetition.ShrinkRemedialSet(s.remaining, store)
	}
	s.prune(known)
}

// prune drops items of the current round that left the catalog and, in
// practice mode, those that left the remedial set. A practice round that runs
// out starts the next one.
func (s *Session) prune(known func(string) bool) {
	if s.pos > len(s.queue) {
		s.pos = len(s.queue)
	}
	keep := known
	if s.mode == models.ModePractice {
		s.remaining = filterIDs(s.remaining, known)
		keep = func(id string) bool { return contains(s.remaining, id) }
	}
	s.queue = append(s.queue[:s.pos:s.pos], filterIDs(s.queue[s.pos:], keep)...)

	if s.mode == models.ModePractice && s.pos >= len(s.queue) {
		s.newRound()
	}
}

// Result summarizes the session for the history table
func (s *Session) Result(finishedAt time.Time) models.SessionResult {
	return models.SessionResult{
		Mode:       s.mode,
		TotalItems: s.total,
		Answered:   s.answered,
		Correct:    s.correct,
		StartedAt:  s.startedAt,
		FinishedAt: finishedAt,
	}
}

func filterIDs(ids []string, keep func(string) bool) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if keep(id) {
			out = append(out, id)
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
