package service

import (
	"flicklog/internal/models"
	"flicklog/internal/repository"
	"flicklog/internal/ws"
)

// NotifyService persists notifications and pushes them to any open
// notification-feed connections.
type NotifyService struct {
	repo *repository.NotificationRepository
	hub  *ws.Hub
}

func NewNotifyService(repo *repository.NotificationRepository, hub *ws.Hub) *NotifyService {
	return &NotifyService{repo: repo, hub: hub}
}

// Deliver writes the notification if the dedup ledger has no matching row.
// Returns whether a new notification was actually created; duplicates are
// silently dropped and not re-pushed.
func (s *NotifyService) Deliver(n *models.Notification) (bool, error) {
	created, err := s.repo.CreateIfAbsent(n)
	if err != nil || !created {
		return false, err
	}
	if s.hub != nil {
		s.hub.BroadcastToUser(n.UserID, map[string]interface{}{
			"type":         "notification",
			"notification": n,
		})
	}
	return true, nil
}
