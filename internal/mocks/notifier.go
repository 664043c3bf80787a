package mocks

import (
	"sync"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/notify"
)

// Notifier records notifications instead of delivering them.
type Notifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (n *Notifier) Notify(x notify.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, x)
}

func (n *Notifier) All() []notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Notification(nil), n.sent...)
}

func (n *Notifier) Kinds() []models.NotificationKind {
	var out []models.NotificationKind
	for _, x := range n.All() {
		out = append(out, x.Kind)
	}
	return out
}
