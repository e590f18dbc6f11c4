package tui

import (
	"sync"

	"github.com/muurk/ceph-telemetry/internal/wizard"
)

// Notification is one message shown on the status line
type Notification struct {
	Kind    wizard.NotificationKind
	Message string
}

// Presenter collects the wizard's presentation side effects. Wizard actions
// run inside tea.Cmd goroutines, so everything is buffered under a mutex and
// drained by the model when the action's result message arrives.
type Presenter struct {
	mu            sync.Mutex
	notifications []Notification
	noticeVisible bool
	landing       bool
}

// NewPresenter returns a presenter with the disabled notice in the given state
func NewPresenter(noticeVisible bool) *Presenter {
	return &Presenter{noticeVisible: noticeVisible}
}

// Notify implements wizard.Notifier
func (p *Presenter) Notify(kind wizard.NotificationKind, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications = append(p.notifications, Notification{Kind: kind, Message: message})
}

// SetDisabledNoticeVisible implements wizard.Notifier
func (p *Presenter) SetDisabledNoticeVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.noticeVisible = visible
}

// NavigateLanding implements wizard.Navigator
func (p *Presenter) NavigateLanding() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.landing = true
}

// NoticeVisible reports whether the disabled notice is shown
func (p *Presenter) NoticeVisible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.noticeVisible
}

// drain returns and clears the buffered notifications and landing request
func (p *Presenter) drain() ([]Notification, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	notes := p.notifications
	landing := p.landing
	p.notifications = nil
	p.landing = false
	return notes, landing
}
