package scheduler

import (
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Default notification window, in local hours, inclusive
const (
	DefaultNotificationStartHour = 9
	DefaultNotificationEndHour   = 21
)

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	due       DueCounter
	chatID    int64
	startHour int
	endHour   int
	now       func() time.Time

	mu       sync.Mutex
	lastSent string // date of the last reminder, YYYY-MM-DD
}

// Notifier interface for sending notifications
type Notifier interface {
	SendReminders(chatID int64, count int) error
}

// DueCounter reports how many reviewed items are due again
type DueCounter interface {
	ReviewsDue() int
}

// New creates a scheduler that reminds chatID about due items at most once a
// day, between startHour and endHour
func New(notifier Notifier, due DueCounter, chatID int64, startHour, endHour int) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		notifier:  notifier,
		due:       due,
		chatID:    chatID,
		startHour: startHour,
		endHour:   endHour,
		now:       time.Now,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	// Hourly check for due items
	if _, err := s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders); err != nil {
		return err
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// inWindow reports whether hour falls inside the notification window. A
// window whose end is before its start wraps past midnight.
func (s *Scheduler) inWindow(hour int) bool {
	if s.startHour <= s.endHour {
		return hour >= s.startHour && hour <= s.endHour
	}
	return hour >= s.startHour || hour <= s.endHour
}

// checkAndSendReminders sends the day's reminder when items are due inside
// the notification window
func (s *Scheduler) checkAndSendReminders() {
	now := s.now()
	if !s.inWindow(now.Hour()) {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			now.Hour(), s.startHour, s.endHour)
		return
	}

	s.mu.Lock()
	sentToday := s.lastSent == now.Format("2006-01-02")
	s.mu.Unlock()
	if sentToday {
		return
	}

	if err := s.RunManualCheck(); err != nil {
		log.Printf("Error sending reminder to chat %d: %v", s.chatID, err)
	}
}

// RunManualCheck sends a reminder right away if anything is due,
// ignoring the notification window
func (s *Scheduler) RunManualCheck() error {
	count := s.due.ReviewsDue()
	if count == 0 {
		return nil
	}
	if err := s.notifier.SendReminders(s.chatID, count); err != nil {
		return err
	}

	s.mu.Lock()
	s.lastSent = s.now().Format("2006-01-02")
	s.mu.Unlock()
	return nil
}
