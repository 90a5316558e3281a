// Package session holds the per-browser UI session state: the active view,
// one transient success toast, and one reminder notification. None of it is
// persisted; a reload starts back at the dashboard.
package session

import (
	"sync"
	"time"
)

// View identifies a screen in the web client
type View string

const (
	ViewDashboard   View = "dashboard"
	ViewChatbot     View = "chatbot"
	ViewMedications View = "medications"
	ViewVitals      View = "vitals"
	ViewAllergies   View = "allergies"
	ViewReports     View = "reports"
)

// Valid reports whether v names a known view
func (v View) Valid() bool {
	switch v {
	case ViewDashboard, ViewChatbot, ViewMedications, ViewVitals, ViewAllergies, ViewReports:
		return true
	}
	return false
}

// Event describes a session state change pushed to the UI
type Event struct {
	Kind         string `json:"kind"` // toast, notification, view
	Toast        string `json:"toast,omitempty"`
	Notification string `json:"notification,omitempty"`
	View         View   `json:"view,omitempty"`
}

// Listener receives session events, e.g. a websocket hub
type Listener func(Event)

// Session tracks the active view and transient feedback strings
type Session struct {
	mu           sync.Mutex
	activeView   View
	toast        string
	notification string
	toastTimer   *time.Timer
	toastTTL     time.Duration
	listener     Listener
}

// New creates a session starting at the dashboard
func New() *Session {
	return &Session{
		activeView: ViewDashboard,
		toastTTL:   3 * time.Second,
	}
}

// WithToastTTL overrides the toast auto-clear delay (tests shorten it)
func (s *Session) WithToastTTL(ttl time.Duration) *Session {
	s.toastTTL = ttl
	return s
}

// SetListener registers the event sink. At most one listener is supported.
func (s *Session) SetListener(l Listener) {
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()
}

// ActiveView returns the current view
func (s *Session) ActiveView() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeView
}

// SetActiveView replaces the active view. Plain assignment: no history
// stack, no navigation guards.
func (s *Session) SetActiveView(v View) {
	s.mu.Lock()
	s.activeView = v
	l := s.listener
	s.mu.Unlock()

	if l != nil {
		l(Event{Kind: "view", View: v})
	}
}

// Toast returns the current success toast, empty when cleared
func (s *Session) Toast() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toast
}

// ShowToast sets the success toast and arms its auto-clear timer. A newer
// toast supersedes a pending one: the old timer is stopped, never queued.
func (s *Session) ShowToast(msg string) {
	s.mu.Lock()
	if s.toastTimer != nil {
		s.toastTimer.Stop()
	}
	s.toast = msg
	s.toastTimer = time.AfterFunc(s.toastTTL, s.clearToast)
	l := s.listener
	s.mu.Unlock()

	if l != nil {
		l(Event{Kind: "toast", Toast: msg})
	}
}

func (s *Session) clearToast() {
	s.mu.Lock()
	s.toast = ""
	s.toastTimer = nil
	s.mu.Unlock()
}

// Notification returns the current reminder notification, empty when none
func (s *Session) Notification() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notification
}

// SetNotification replaces the reminder notification. It persists until
// dismissed or replaced by a newer one.
func (s *Session) SetNotification(msg string) {
	s.mu.Lock()
	s.notification = msg
	l := s.listener
	s.mu.Unlock()

	if l != nil {
		l(Event{Kind: "notification", Notification: msg})
	}
}

// DismissNotification clears the reminder notification
func (s *Session) DismissNotification() {
	s.mu.Lock()
	s.notification = ""
	s.mu.Unlock()
}
