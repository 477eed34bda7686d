package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusInactive = 0
	StatusActive   = 1
)

// User представляет учетную запись вместе с балансом
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
	Phone        *string
	CreatedAt    time.Time
	LastLogin    *time.Time
	Status       int
	Balance      decimal.Decimal
}

// UserResponse представляет публичную информацию о пользователе
// @Description Публичная информация о пользователе
type UserResponse struct {
	ID        int64      `json:"id" example:"1"`
	Username  string     `json:"username" example:"alice"`
	Email     string     `json:"email" example:"alice@x.com"`
	Phone     *string    `json:"phone" example:"13800138000"`
	CreatedAt time.Time  `json:"created_at" example:"2024-03-15T14:30:00Z"`
	LastLogin *time.Time `json:"last_login" example:"2024-03-16T09:00:00Z"`
	Status    int        `json:"status" example:"1"`
	Balance   float64    `json:"balance" example:"50"`
}

// RegisterRequest тело запроса регистрации
type RegisterRequest struct {
	Username string  `json:"username" example:"alice"`
	Password string  `json:"password" example:"secret1"`
	Email    string  `json:"email" example:"alice@x.com"`
	Phone    *string `json:"phone,omitempty" example:"13800138000"`
}

// LoginRequest тело запроса входа
type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"secret1"`
}

// LoginResponse токен доступа и данные пользователя
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type" example:"bearer"`
	ExpiresAt   time.Time     `json:"expires_at"`
	User        *UserResponse `json:"user"`
}

// UpdateUserRequest частичное обновление учетной записи.
// Отсутствующее поле не меняется.
type UpdateUserRequest struct {
	Email *string `json:"email,omitempty" example:"alice@new.com"`
	Phone *string `json:"phone,omitempty" example:"13900139000"`
}
