package state

import "time"

// NotificationLevel represents the severity/type of a notification.
type NotificationLevel int

const (
	LevelInfo NotificationLevel = iota
	LevelWarning
	LevelError
)

// notificationTTL is how long a notification stays on screen
const notificationTTL = 4 * time.Second

// Notification represents a single notification message with a severity level.
type Notification struct {
	Level   NotificationLevel
	Message string
	Expires time.Time
}

// NotificationState holds the user-facing notifications, newest first
type NotificationState struct {
	notifications []Notification
	now           func() time.Time
}

// NewNotificationState creates a new NotificationState with no notifications.
func NewNotificationState() *NotificationState {
	return &NotificationState{now: time.Now}
}

// Add shows a notification until it expires
func (s *NotificationState) Add(level NotificationLevel, message string) {
	n := Notification{Level: level, Message: message, Expires: s.now().Add(notificationTTL)}
	s.notifications = append([]Notification{n}, s.notifications...)
}

// Expire drops notifications past their lifetime and reports whether any went
func (s *NotificationState) Expire() bool {
	now := s.now()
	kept := s.notifications[:0]
	for _, n := range s.notifications {
		if now.Before(n.Expires) {
			kept = append(kept, n)
		}
	}
	removed := len(kept) != len(s.notifications)
	s.notifications = kept
	return removed
}

// Clear removes all notifications.
func (s *NotificationState) Clear() {
	s.notifications = nil
}

// All returns all current notifications.
func (s *NotificationState) All() []Notification {
	return s.notifications
}

// HasAny returns true if there are any notifications.
func (s *NotificationState) HasAny() bool {
	return len(s.notifications) > 0
}
