package models

import (
	"time"

	"jucai-fund-backend/internal/common/pagination"
)

// Известные типы уведомлений. Набор открытый, хранится как строка.
const (
	TypeSystem      = "system"
	TypeTransaction = "transaction"
	TypeMessage     = "message"
)

type Notification struct {
	ID        int64
	UserID    int64
	Title     string
	Content   string
	Type      string
	Read      bool
	CreatedAt time.Time
}

// ListFilter выборка уведомлений пользователя; nil означает "без фильтра"
type ListFilter struct {
	UserID int64
	Read   *bool
	Type   *string
	pagination.Params
}

// NotificationResponse представляет уведомление
// @Description Уведомление пользователя
type NotificationResponse struct {
	ID        int64     `json:"id" example:"1"`
	Title     string    `json:"title" example:"Withdrawal request submitted"`
	Content   string    `json:"content"`
	Type      string    `json:"type" example:"transaction"`
	Read      bool      `json:"read" example:"false"`
	CreatedAt time.Time `json:"created_at"`
}

// MarkReadRequest тело запроса массовой отметки
type MarkReadRequest struct {
	NotificationIDs []int64 `json:"notification_ids" example:"1,2,3"`
}

// MarkReadResponse подтверждение массовой отметки
type MarkReadResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Notifications marked as read"`
	Updated int64  `json:"updated" example:"2"`
}
