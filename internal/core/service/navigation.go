package service

import (
	"sync"

	"github.com/rs/zerolog"
)

// Navigation tracks the route the user is on. It implements ports.Navigator.
type Navigation struct {
	log zerolog.Logger

	mu      sync.RWMutex
	route   string
	waiters []chan string
}

func NewNavigation(start string, log zerolog.Logger) *Navigation {
	return &Navigation{route: start, log: log}
}

// Navigate moves to route and wakes every Wait caller.
func (n *Navigation) Navigate(route string) {
	n.mu.Lock()
	n.route = route
	waiters := n.waiters
	n.waiters = nil
	n.mu.Unlock()

	n.log.Info().Str("route", route).Msg("navigate")
	for _, w := range waiters {
		w <- route
		close(w)
	}
}

// Route returns the current route.
func (n *Navigation) Route() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.route
}

// Next returns a channel that receives the route of the next navigation.
func (n *Navigation) Next() <-chan string {
	ch := make(chan string, 1)
	n.mu.Lock()
	n.waiters = append(n.waiters, ch)
	n.mu.Unlock()
	return ch
}
