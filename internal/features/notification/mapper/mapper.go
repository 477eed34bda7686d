package mapper

import "jucai-fund-backend/internal/features/notification/models"

func ToNotificationResponse(n *models.Notification) *models.NotificationResponse {
	return &models.NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Type:      n.Type,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func ToNotificationResponses(list []*models.Notification) []*models.NotificationResponse {
	out := make([]*models.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, ToNotificationResponse(n))
	}
	return out
}
