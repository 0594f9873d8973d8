package ports

import "github.com/99minutos/ims-console/internal/core/domain"

// NotificationSink renders notifications as they change. Dismissed is called
// once the notification has been removed.
type NotificationSink interface {
	Shown(view string, n domain.Notification)
	Dismissed(view string)
}

// Navigator moves the user to another screen.
type Navigator interface {
	Navigate(route string)
}

// Scheduler runs callbacks in order for a given key.
type Scheduler interface {
	Post(key string, fn func())
}
