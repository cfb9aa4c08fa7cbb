package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ostvang/leaguedesk/internal/domain/notification"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	items map[string]notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{items: make(map[string]notification.Notification)}
}

func (r *NotificationRepository) Create(_ context.Context, n notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[n.ID]; exists {
		return fmt.Errorf("notification %s already exists", n.ID)
	}
	r.items[n.ID] = n
	return nil
}

func (r *NotificationRepository) ListByUser(_ context.Context, userID string) ([]notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []notification.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *NotificationRepository) ListUnreadByUser(_ context.Context, userID string, types []notification.Type) ([]notification.Notification, error) {
	wanted := make(map[notification.Type]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []notification.Notification
	for _, n := range r.items {
		if n.UserID != userID || n.Read {
			continue
		}
		if len(wanted) > 0 && !wanted[n.Type] {
			continue
		}
		out = append(out, n)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, userID, notificationID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[notificationID]
	if !ok || n.UserID != userID {
		return false, nil
	}
	if n.Read {
		return true, nil
	}

	n.Read = true
	r.items[notificationID] = n
	return true, nil
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, userID string, f notification.Filter) (int, error) {
	wanted := make(map[notification.Type]bool, len(f.Types))
	for _, t := range f.Types {
		wanted[t] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for id, n := range r.items {
		if n.UserID != userID || n.Read {
			continue
		}
		if len(wanted) > 0 && !wanted[n.Type] {
			continue
		}
		if f.TeamID != "" && n.TeamID != f.TeamID {
			continue
		}
		if f.ReferKey != "" {
			value, _ := n.Payload[f.ReferKey].(string)
			if value != f.ReferValue {
				continue
			}
		}

		n.Read = true
		r.items[id] = n
		count++
	}

	return count, nil
}

func (r *NotificationRepository) DeleteAllByUser(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for id, n := range r.items {
		if n.UserID == userID {
			delete(r.items, id)
			count++
		}
	}

	return count, nil
}
