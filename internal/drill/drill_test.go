package drill

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/flashdrill/pkg/models"
)

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

var catalog = []models.Item{
	{ID: "1", Prompt: "كتاب", Answer: "book"},
	{ID: "2", Prompt: "قلم", Answer: "pen"},
	{ID: "3", Prompt: "باب", Answer: "door"},
}

type memorySaver struct {
	mu    sync.Mutex
	saved map[string]models.ProgressRecord
	err   error
}

func (m *memorySaver) Save(itemID string, p models.ProgressRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.saved == nil {
		m.saved = make(map[string]models.ProgressRecord)
	}
	m.saved[itemID] = p
	return nil
}

type memoryRecorder struct {
	results []models.SessionResult
}

func (m *memoryRecorder) Create(result *models.SessionResult) error {
	result.ID = int64(len(m.results) + 1)
	m.results = append(m.results, *result)
	return nil
}

// identity leaves the order untouched so practice rounds are predictable
func identity([]string) {}

func fixedClock() time.Time { return t0 }

// recordAnswer applies an answer outside of any session
func recordAnswer(svc *Service, id string, correct bool) (models.ProgressRecord, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.record(id, correct)
}

func TestCheckAnswer(t *testing.T) {
	tests := []struct {
		response string
		want     bool
	}{
		{"book", true},
		{"  book\n", true},
		{"Book", false},
		{"books", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CheckAnswer(tt.response, "book"), "response %q", tt.response)
	}
}

func TestDeckWrapsAround(t *testing.T) {
	d := NewDeck(catalog)

	item, ok := d.Current()
	require.True(t, ok)
	assert.Equal(t, "1", item.ID)

	d.Prev()
	item, _ = d.Current()
	assert.Equal(t, "3", item.ID)
	pos, total := d.Position()
	assert.Equal(t, 3, pos)
	assert.Equal(t, 3, total)

	d.Next()
	d.Next()
	item, _ = d.Current()
	assert.Equal(t, "2", item.ID)
}

func TestDeckEmpty(t *testing.T) {
	d := NewDeck(nil)
	d.Next()
	d.Prev()
	_, ok := d.Current()
	assert.False(t, ok)
	pos, total := d.Position()
	assert.Zero(t, pos)
	assert.Zero(t, total)
}

func TestShuffledLeavesInputAlone(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	rnd := rand.New(rand.NewSource(7))
	sh := Shuffler(func(ids []string) {
		rnd.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	})
	out := sh.shuffled(ids)

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)
	sorted := append([]string(nil), out...)
	sort.Strings(sorted)
	assert.Equal(t, ids, sorted)
}

func TestServiceRecordPersistsBeforeCommit(t *testing.T) {
	saver := &memorySaver{}
	svc := NewService(catalog, nil, saver, WithClock(fixedClock))

	p, err := recordAnswer(svc, "1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Repetitions)
	assert.Equal(t, t0.UnixMilli(), p.LastReviewed)
	assert.Equal(t, p, saver.saved["1"])
	assert.Equal(t, p, svc.Snapshot()["1"])

	saver.err = errors.New("disk full")
	_, err = recordAnswer(svc, "1", true)
	require.Error(t, err)
	// The failed write left the store untouched
	assert.Equal(t, 1, svc.Snapshot()["1"].Repetitions)
}

func TestServiceRecordUnknownItem(t *testing.T) {
	svc := NewService(catalog, nil, nil)
	_, err := recordAnswer(svc, "nope", true)
	assert.True(t, errors.Is(err, ErrUnknownItem))
}

func TestServiceSnapshotIsCopy(t *testing.T) {
	svc := NewService(catalog, nil, nil, WithClock(fixedClock))
	snap := svc.Snapshot()
	snap["1"] = models.ProgressRecord{Repetitions: 99}

	_, ok := svc.Snapshot()["1"]
	assert.False(t, ok)
}

func TestServiceConcurrentSubmitsAreNotLost(t *testing.T) {
	svc := NewService(catalog, nil, &memorySaver{}, WithClock(fixedClock))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess := svc.StartQuiz()
			item, ok := svc.Current(sess)
			if !assert.True(t, ok) {
				return
			}
			response := "wrong"
			if i%2 == 0 {
				response = item.Answer
			}
			_, err := svc.Submit(sess, response)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	correct, total := 0, 0
	for _, p := range svc.Snapshot() {
		correct += p.CorrectAttempts
		total += p.CorrectAttempts + p.IncorrectAttempts
	}
	assert.Equal(t, 50, total)
	assert.Equal(t, 25, correct)
}

func TestQuizSession(t *testing.T) {
	store := models.ProgressStore{
		// Mastered and not due for two weeks
		"1": {CorrectAttempts: 3, Repetitions: 3, Interval: 15, EaseFactor: 2.5, LastAttemptCorrect: models.OutcomeCorrect, LastReviewed: t0.UnixMilli()},
		// Missed yesterday
		"3": {CorrectAttempts: 1, IncorrectAttempts: 1, Interval: 1, EaseFactor: 2.3, LastAttemptCorrect: models.OutcomeIncorrect, LastReviewed: t0.AddDate(0, 0, -1).UnixMilli()},
	}
	recorder := &memoryRecorder{}
	svc := NewService(catalog, store, nil, WithClock(fixedClock), WithSessionRecorder(recorder))

	sess := svc.StartQuiz()
	assert.Equal(t, models.ModeQuiz, sess.Mode())

	var order []string
	for !sess.Done() {
		id, ok := sess.Current()
		require.True(t, ok)
		order = append(order, id)

		n, total := sess.Position()
		assert.Equal(t, len(order), n)
		assert.Equal(t, 3, total)

		item, _ := svc.Item(id)
		res, err := svc.Submit(sess, item.Answer)
		require.NoError(t, err)
		assert.True(t, res.Correct)
	}
	assert.Equal(t, []string{"3", "2", "1"}, order)

	_, err := svc.Submit(sess, "book")
	assert.True(t, errors.Is(err, ErrSessionFinished))

	require.NoError(t, svc.Finish(sess))
	require.Len(t, recorder.results, 1)
	assert.Equal(t, models.SessionResult{
		ID: 1, Mode: models.ModeQuiz, TotalItems: 3, Answered: 3, Correct: 3, StartedAt: t0, FinishedAt: t0,
	}, recorder.results[0])
}

func TestQuizSessionSizeLimit(t *testing.T) {
	svc := NewService(catalog, nil, nil, WithClock(fixedClock), WithSessionSize(2))
	sess := svc.StartQuiz()

	_, total := sess.Position()
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, sess.Remaining())
}

func TestFinishSkipsEmptySessions(t *testing.T) {
	recorder := &memoryRecorder{}
	svc := NewService(catalog, nil, nil, WithClock(fixedClock), WithSessionRecorder(recorder))

	require.NoError(t, svc.Finish(svc.StartQuiz()))
	assert.Empty(t, recorder.results)
}

func TestPracticeSessionShrinksUntilEmpty(t *testing.T) {
	store := models.ProgressStore{
		// Two correct answers away from mastery
		"1": {CorrectAttempts: 1, Repetitions: 1, Interval: 1, EaseFactor: 2.5, LastAttemptCorrect: models.OutcomeCorrect, LastReviewed: t0.UnixMilli()},
		// Mastered, so not practiced
		"2": {CorrectAttempts: 3, Repetitions: 3, Interval: 15, EaseFactor: 2.5, LastAttemptCorrect: models.OutcomeCorrect, LastReviewed: t0.UnixMilli()},
		// One correct answer away from mastery
		"3": {CorrectAttempts: 2, Repetitions: 2, Interval: 6, EaseFactor: 2.5, LastAttemptCorrect: models.OutcomeCorrect, LastReviewed: t0.UnixMilli()},
	}
	svc := NewService(catalog, store, nil, WithClock(fixedClock), WithShuffler(identity))

	sess := svc.StartPractice()
	assert.Equal(t, models.ModePractice, sess.Mode())
	assert.Equal(t, 2, sess.Remaining())

	answer := func(response string) AnswerResult {
		res, err := svc.Submit(sess, response)
		require.NoError(t, err)
		return res
	}

	// Round 1: "1" correct (still needs practice), "3" correct (mastered)
	id, _ := sess.Current()
	assert.Equal(t, "1", id)
	answer("book")
	assert.Equal(t, 2, sess.Remaining())

	id, _ = sess.Current()
	assert.Equal(t, "3", id)
	answer("door")
	assert.Equal(t, 1, sess.Remaining())

	// Round 2 only holds "1"; a miss keeps it in the set
	assert.Equal(t, 2, sess.Round())
	id, _ = sess.Current()
	assert.Equal(t, "1", id)
	res := answer("boook")
	assert.False(t, res.Correct)
	assert.Equal(t, 3, sess.Round())

	for i := 0; i < 3; i++ {
		require.False(t, sess.Done())
		answer("book")
	}
	assert.True(t, sess.Done())
	assert.Zero(t, sess.Remaining())

	result := sess.Result(t0)
	assert.Equal(t, 2, result.TotalItems)
	assert.Equal(t, 6, result.Answered)
	assert.Equal(t, 5, result.Correct)
}

func TestPracticeSessionSkipsItemsMasteredMidRound(t *testing.T) {
	store := models.ProgressStore{
		"1": {CorrectAttempts: 2, Repetitions: 2, Interval: 6, EaseFactor: 2.5, LastAttemptCorrect: models.OutcomeCorrect, LastReviewed: t0.UnixMilli()},
		"2": {CorrectAttempts: 2, Repetitions: 2, Interval: 6, EaseFactor: 2.5, LastAttemptCorrect: models.OutcomeCorrect, LastReviewed: t0.UnixMilli()},
		"3": {CorrectAttempts: 3, Repetitions: 3, Interval: 15, EaseFactor: 2.5, LastAttemptCorrect: models.OutcomeCorrect, LastReviewed: t0.UnixMilli()},
	}
	svc := NewService(catalog, store, nil, WithClock(fixedClock), WithShuffler(identity))
	sess := svc.StartPractice()

	// "2" gets mastered outside the session
	_, err := recordAnswer(svc, "2", true)
	require.NoError(t, err)

	_, err = svc.Submit(sess, "book")
	require.NoError(t, err)

	// "1" is mastered now and "2" left the set, so the session is over
	assert.True(t, sess.Done())
}

func TestPracticeSessionNothingToPractice(t *testing.T) {
	store := models.ProgressStore{}
	for _, item := range catalog {
		store[item.ID] = models.ProgressRecord{CorrectAttempts: 3, Repetitions: 3, Interval: 15, EaseFactor: 2.5, LastAttemptCorrect: models.OutcomeCorrect}
	}
	svc := NewService(catalog, store, nil, WithShuffler(identity))

	sess := svc.StartPractice()
	assert.True(t, sess.Done())
	assert.Zero(t, sess.Remaining())
	_, ok := sess.Current()
	assert.False(t, ok)
}

func TestServiceReportAndDueCount(t *testing.T) {
	svc := NewService(catalog, nil, nil, WithClock(fixedClock))
	assert.Equal(t, 3, svc.DueCount())

	_, err := recordAnswer(svc, "1", true)
	require.NoError(t, err)

	summary := svc.Report()
	assert.Equal(t, 3, summary.TotalWords)
	assert.Equal(t, 1, summary.AttemptedWords)
	assert.Equal(t, 2, svc.DueCount())
	assert.Equal(t, 0, svc.ReviewsDue())
	assert.Equal(t, 3, svc.StartPractice().Remaining())
}

func TestSetItemsDropsOldItems(t *testing.T) {
	svc := NewService(catalog, nil, nil, WithClock(fixedClock))
	svc.SetItems(catalog[:1])

	_, ok := svc.Item("2")
	assert.False(t, ok)
	assert.Len(t, svc.Items(), 1)
}

func TestPracticeSessionDropsItemsRemovedFromCatalog(t *testing.T) {
	svc := NewService(catalog, nil, nil, WithClock(fixedClock), WithShuffler(identity))
	sess := svc.StartPractice()
	require.Equal(t, 3, sess.Remaining())

	svc.SetItems(catalog[1:])

	var seen []string
	for !sess.Done() {
		item, ok := svc.Current(sess)
		require.True(t, ok)
		seen = append(seen, item.ID)
		_, err := svc.Submit(sess, item.Answer)
		require.NoError(t, err)
	}

	// Three correct answers in a row master each remaining item
	assert.Equal(t, []string{"2", "3", "2", "3", "2", "3"}, seen)
	assert.Zero(t, sess.Remaining())
	assert.Equal(t, 3, sess.Round())
	_, ok := svc.Current(sess)
	assert.False(t, ok)
}

func TestQuizSessionSkipsItemsRemovedFromCatalog(t *testing.T) {
	svc := NewService(catalog, nil, nil, WithClock(fixedClock))
	sess := svc.StartQuiz()
	svc.SetItems(catalog[:1])

	item, ok := svc.Current(sess)
	require.True(t, ok)
	assert.Equal(t, "1", item.ID)

	_, err := svc.Submit(sess, "book")
	require.NoError(t, err)
	assert.True(t, sess.Done())
	_, err = svc.Submit(sess, "pen")
	assert.True(t, errors.Is(err, ErrSessionFinished))
}
