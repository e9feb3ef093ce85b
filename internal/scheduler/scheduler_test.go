package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reminder struct {
	chatID int64
	count  int
}

type fakeNotifier struct {
	sent []reminder
	err  error
}

func (f *fakeNotifier) SendReminders(chatID int64, count int) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, reminder{chatID, count})
	return nil
}

type fixedDue int

func (d fixedDue) ReviewsDue() int { return int(d) }

func newTestScheduler(n Notifier, due int, start, end, hour int) *Scheduler {
	s := New(n, fixedDue(due), 42, start, end)
	s.now = func() time.Time { return time.Date(2025, 3, 10, hour, 30, 0, 0, time.Local) }
	return s
}

func TestCheckAndSendReminders(t *testing.T) {
	tests := []struct {
		name   string
		due    int
		start  int
		end    int
		hour   int
		expect []reminder
	}{
		{"inside window", 5, 9, 21, 12, []reminder{{42, 5}}},
		{"window edges are inclusive", 2, 9, 21, 21, []reminder{{42, 2}}},
		{"before window", 5, 9, 21, 8, nil},
		{"after window", 5, 9, 21, 22, nil},
		{"nothing due", 0, 9, 21, 12, nil},
		{"wrapping window late", 1, 22, 2, 23, []reminder{{42, 1}}},
		{"wrapping window early", 1, 22, 2, 1, []reminder{{42, 1}}},
		{"wrapping window outside", 1, 22, 2, 12, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &fakeNotifier{}
			newTestScheduler(n, tt.due, tt.start, tt.end, tt.hour).checkAndSendReminders()
			assert.Equal(t, tt.expect, n.sent)
		})
	}
}

func TestRunManualCheckIgnoresWindow(t *testing.T) {
	n := &fakeNotifier{}
	s := newTestScheduler(n, 3, 9, 21, 3)

	require.NoError(t, s.RunManualCheck())
	assert.Equal(t, []reminder{{42, 3}}, n.sent)
}

func TestRunManualCheckReturnsNotifierError(t *testing.T) {
	n := &fakeNotifier{err: errors.New("telegram down")}
	s := newTestScheduler(n, 3, 9, 21, 12)

	assert.Error(t, s.RunManualCheck())
}

func TestStartStop(t *testing.T) {
	s := newTestScheduler(&fakeNotifier{}, 0, 9, 21, 12)
	require.NoError(t, s.Start())
	s.Stop()
}

func TestRemindersAreSentOncePerDay(t *testing.T) {
	n := &fakeNotifier{}
	s := New(n, fixedDue(3), 42, 9, 21)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	for h := 0; h < 48; h++ {
		at := day.Add(time.Duration(h) * time.Hour)
		s.now = func() time.Time { return at }
		s.checkAndSendReminders()
	}
	assert.Equal(t, []reminder{{42, 3}, {42, 3}}, n.sent)
}

func TestFailedReminderIsRetriedNextHour(t *testing.T) {
	n := &fakeNotifier{err: errors.New("telegram down")}
	s := newTestScheduler(n, 2, 9, 21, 10)

	s.checkAndSendReminders()
	assert.Empty(t, n.sent)

	n.err = nil
	s.now = func() time.Time { return time.Date(2025, 3, 10, 11, 30, 0, 0, time.Local) }
	s.checkAndSendReminders()
	s.checkAndSendReminders()
	assert.Equal(t, []reminder{{42, 2}}, n.sent)
}
