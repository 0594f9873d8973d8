package service

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
	"github.com/99minutos/ims-console/internal/metrics"
)

const (
	DefaultDisplay = 2 * time.Second
	DefaultFade    = 700 * time.Millisecond
)

// NotifierOptions configures every notifier created for a view.
type NotifierOptions struct {
	Display   time.Duration
	Fade      time.Duration
	Sink      ports.NotificationSink
	Scheduler ports.Scheduler
}

// Notifier shows one transient notification at a time for a single view.
// A newer Show replaces the current notification and cancels its timers.
type Notifier struct {
	view      string
	displayed time.Duration
	fading    time.Duration
	sink      ports.NotificationSink
	sched     ports.Scheduler
	log       zerolog.Logger

	mu      sync.Mutex
	gen     uint64
	current   *domain.Notification
	onDismiss func()
	timer     *time.Timer
	closed    bool
}

// NewNotifier returns a notifier owned by view. Zero durations take the defaults.
func NewNotifier(view string, opts NotifierOptions, log zerolog.Logger) *Notifier {
	if opts.Display <= 0 {
		opts.Display = DefaultDisplay
	}
	if opts.Fade <= 0 {
		opts.Fade = DefaultFade
	}
	return &Notifier{
		view:      view,
		displayed: opts.Display,
		fading:    opts.Fade,
		sink:      opts.Sink,
		sched:     opts.Scheduler,
		log:       log,
	}
}

// Show makes message visible now. onDismiss, if set, runs once the
// notification has faded out and been removed, unless it was replaced or
// the notifier was closed first.
func (n *Notifier) Show(message string, kind domain.Kind, onDismiss func()) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.stopLocked()
	n.gen++
	gen := n.gen
	note := domain.Notification{Message: message, Kind: kind, Phase: domain.PhaseVisible}
	n.current = &note
	n.onDismiss = onDismiss
	n.timer = time.AfterFunc(n.displayed, func() {
		n.post(func() { n.fade(gen, onDismiss) })
	})
	n.mu.Unlock()

	metrics.NotificationsShownTotal.WithLabelValues(n.view, string(kind)).Inc()
	n.log.Debug().Str("view", n.view).Str("kind", string(kind)).Msg(message)
	if n.sink != nil {
		n.sink.Shown(n.view, note)
	}
}

// Current returns the notification on screen, if any.
func (n *Notifier) Current() (domain.Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return domain.Notification{}, false
	}
	return *n.current, true
}

// Close stops all pending timers. Nothing scheduled by this notifier runs afterwards.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.stopLocked()
	n.current, n.onDismiss = nil, nil
}

// Dismiss removes the current notification without waiting for the fade
// and runs its onDismiss. It reports whether anything was on screen.
func (n *Notifier) Dismiss() bool {
	n.mu.Lock()
	if n.closed || n.current == nil {
		n.mu.Unlock()
		return false
	}
	n.stopLocked()
	n.gen++
	onDismiss := n.onDismiss
	n.current, n.onDismiss = nil, nil
	n.mu.Unlock()

	if n.sink != nil {
		n.sink.Dismissed(n.view)
	}
	if onDismiss != nil {
		n.post(func() {
			n.mu.Lock()
			closed := n.closed
			n.mu.Unlock()
			if !closed {
				onDismiss()
			}
		})
	}
	return true
}

func (n *Notifier) fade(gen uint64, onDismiss func()) {
	n.mu.Lock()
	if n.closed || gen != n.gen || n.current == nil {
		n.mu.Unlock()
		return
	}
	n.current.Phase = domain.PhaseFading
	note := *n.current
	n.timer = time.AfterFunc(n.fading, func() {
		n.post(func() { n.dismiss(gen, onDismiss) })
	})
	n.mu.Unlock()

	if n.sink != nil {
		n.sink.Shown(n.view, note)
	}
}

func (n *Notifier) dismiss(gen uint64, onDismiss func()) {
	n.mu.Lock()
	if n.closed || gen != n.gen {
		n.mu.Unlock()
		return
	}
	n.current, n.onDismiss = nil, nil
	n.timer = nil
	n.mu.Unlock()

	if n.sink != nil {
		n.sink.Dismissed(n.view)
	}
	if onDismiss != nil {
		onDismiss()
	}
}

func (n *Notifier) stopLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Notifier) post(fn func()) {
	if n.sched == nil {
		fn()
		return
	}
	n.sched.Post(n.view, fn)
}
