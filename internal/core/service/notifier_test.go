package service

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/ims-console/internal/core/domain"
)

// --- Stubs ---

type recordingSink struct {
	mu        sync.Mutex
	shown     []domain.Notification
	dismissed int
}

func (s *recordingSink) Shown(_ string, n domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = append(s.shown, n)
}

func (s *recordingSink) Dismissed(string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dismissed++
}

func (s *recordingSink) snapshot() ([]domain.Notification, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Notification(nil), s.shown...), s.dismissed
}

func fastNotifier(sink *recordingSink) *Notifier {
	return NewNotifier("test", NotifierOptions{
		Display: 20 * time.Millisecond,
		Fade:    10 * time.Millisecond,
		Sink:    sink,
	}, zerolog.Nop())
}

func waitOrFail(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

// --- Tests ---

func TestNotifier_ShowFadeDismiss(t *testing.T) {
	sink := &recordingSink{}
	n := fastNotifier(sink)
	done := make(chan struct{})

	n.Show("Saved!", domain.KindSuccess, func() { close(done) })

	cur, ok := n.Current()
	if !ok || cur.Message != "Saved!" || cur.Phase != domain.PhaseVisible {
		t.Fatalf("expected visible notification, got %+v (%v)", cur, ok)
	}

	waitOrFail(t, done, "dismissal")

	if _, ok := n.Current(); ok {
		t.Error("notification should be removed after dismissal")
	}
	shown, dismissed := sink.snapshot()
	if len(shown) != 2 || shown[0].Phase != domain.PhaseVisible || shown[1].Phase != domain.PhaseFading {
		t.Errorf("expected visible then fading, got %+v", shown)
	}
	if dismissed != 1 {
		t.Errorf("expected one dismissal, got %d", dismissed)
	}
}

func TestNotifier_NewestWins(t *testing.T) {
	sink := &recordingSink{}
	n := fastNotifier(sink)
	firstCalled := make(chan struct{}, 1)
	second := make(chan struct{})

	n.Show("first", domain.KindError, func() { firstCalled <- struct{}{} })
	n.Show("second", domain.KindSuccess, func() { close(second) })

	if cur, _ := n.Current(); cur.Message != "second" {
		t.Fatalf("expected newest notification, got %q", cur.Message)
	}
	waitOrFail(t, second, "second dismissal")

	select {
	case <-firstCalled:
		t.Error("replaced notification must not run its dismissal callback")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNotifier_CloseCancelsCallbacks(t *testing.T) {
	n := fastNotifier(&recordingSink{})
	called := make(chan struct{}, 1)

	n.Show("bye", domain.KindSuccess, func() { called <- struct{}{} })
	n.Close()

	select {
	case <-called:
		t.Fatal("callback fired after close")
	case <-time.After(80 * time.Millisecond):
	}
	if _, ok := n.Current(); ok {
		t.Error("closed notifier should show nothing")
	}

	n.Show("ignored", domain.KindError, nil)
	if _, ok := n.Current(); ok {
		t.Error("Show after Close must be a no-op")
	}
}

func TestNotifier_DefaultsApplied(t *testing.T) {
	n := NewNotifier("v", NotifierOptions{}, zerolog.Nop())
	if n.displayed != DefaultDisplay || n.fading != DefaultFade {
		t.Errorf("unexpected durations %v/%v", n.displayed, n.fading)
	}
}

func TestNotifier_DismissRunsCallbackEarly(t *testing.T) {
	sink := &recordingSink{}
	n := NewNotifier("test", NotifierOptions{Display: time.Hour, Fade: time.Hour, Sink: sink}, zerolog.Nop())
	done := make(chan struct{})

	n.Show("Login successful!", domain.KindSuccess, func() { close(done) })
	if !n.Dismiss() {
		t.Fatal("Dismiss should report a visible notification")
	}
	waitOrFail(t, done, "early dismissal")

	if _, ok := n.Current(); ok {
		t.Error("notification should be gone after Dismiss")
	}
	if _, dismissed := sink.snapshot(); dismissed != 1 {
		t.Errorf("expected one dismissal, got %d", dismissed)
	}
	if n.Dismiss() {
		t.Error("second Dismiss has nothing to remove")
	}
}

func TestNotifier_DismissAfterCloseIsNoop(t *testing.T) {
	n := fastNotifier(&recordingSink{})
	called := make(chan struct{}, 1)

	n.Show("bye", domain.KindSuccess, func() { called <- struct{}{} })
	n.Close()
	if n.Dismiss() {
		t.Fatal("closed notifier has nothing to dismiss")
	}
	select {
	case <-called:
		t.Fatal("callback fired after close")
	case <-time.After(50 * time.Millisecond):
	}
}
