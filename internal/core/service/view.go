package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
)

// ViewDeps are the collaborators shared by every view controller.
type ViewDeps struct {
	Session   *SessionStore
	Navigator ports.Navigator
	Notify    NotifierOptions
	Logger    zerolog.Logger
	Now       func() time.Time
}

// view is embedded by every controller. It owns the notifier, the mounted
// flag and the lock guarding the controller state.
type view struct {
	name       string
	session    *SessionStore
	nav        ports.Navigator
	notifyOpts NotifierOptions
	log        zerolog.Logger
	now        func() time.Time

	mu       sync.Mutex
	notifier *Notifier
	closed   bool
}

func newView(name string, deps ViewDeps) *view {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	log := deps.Logger.With().Str("view", name).Logger()
	return &view{
		name:       name,
		session:    deps.Session,
		nav:        deps.Navigator,
		notifyOpts: deps.Notify,
		log:        log,
		now:        now,
		notifier:   NewNotifier(name, deps.Notify, log),
	}
}

// Name identifies the view in logs, metrics and notifications.
func (v *view) Name() string { return v.name }

// Notification returns the notification currently shown by the view.
func (v *view) Notification() (domain.Notification, bool) {
	return v.current().Current()
}

// Dismiss closes the notification early, as a click on it would, and runs
// whatever follows its dismissal.
func (v *view) Dismiss() bool {
	return v.current().Dismiss()
}

// Close unmounts the view. Pending notifications are cancelled and results
// of calls still in flight are discarded.
func (v *view) Close() {
	v.mu.Lock()
	v.closed = true
	n := v.notifier
	v.mu.Unlock()
	n.Close()
}

// reopen mounts a previously closed view with a fresh notifier.
func (v *view) reopen() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		v.closed = false
		v.notifier = NewNotifier(v.name, v.notifyOpts, v.log)
	}
}

func (v *view) current() *Notifier {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.notifier
}

func (v *view) show(msg string, kind domain.Kind) {
	v.current().Show(msg, kind, nil)
}

// showThen navigates to route once the notification has been dismissed.
func (v *view) showThen(msg string, kind domain.Kind, route string) {
	v.current().Show(msg, kind, func() {
		if v.nav != nil {
			v.nav.Navigate(route)
		}
	})
}

// fail reports err to the user and returns it unchanged.
func (v *view) fail(err error, fallback string) error {
	if errors.Is(err, domain.ErrViewClosed) {
		return err
	}
	if errors.Is(err, domain.ErrValidation) {
		v.log.Debug().Err(err).Msg("input rejected")
	} else {
		v.log.Warn().Err(err).Msg("action failed")
	}
	v.show(domain.MessageOf(err, fallback), domain.KindError)
	return err
}

// authorize returns the bearer token, or sends the user to the login
// screen once loginMsg has been dismissed.
func (v *view) authorize(ctx context.Context, loginMsg string) (string, error) {
	tok, err := v.session.Token(ctx)
	if err != nil {
		v.showThen(loginMsg, domain.KindError, domain.RouteLogin)
		return "", err
	}
	return tok, nil
}

// commit applies fn to the view state unless the view was closed meanwhile.
func (v *view) commit(fn func()) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return domain.ErrViewClosed
	}
	fn()
	return nil
}

// matches reports whether any field contains term, ignoring case.
func matches(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
