package models

import (
	"time"

	"github.com/shopspring/decimal"

	"jucai-fund-backend/internal/common/pagination"
)

// Статусы заявки. Переход из pending выполняется вне этого сервиса.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Withdrawal struct {
	ID          int64
	UserID      int64
	Amount      decimal.Decimal
	Status      string
	BankAccount string
	BankName    string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

type ListFilter struct {
	UserID int64
	Status *string
	pagination.Params
}

// CreateWithdrawalRequest тело заявки на вывод; amount принимает число или строку
type CreateWithdrawalRequest struct {
	Amount      decimal.Decimal `json:"amount" swaggertype:"number" example:"10.5"`
	BankAccount string          `json:"bank_account" example:"6222020200001234567"`
	BankName    string          `json:"bank_name" example:"ICBC"`
}

// WithdrawalResponse представляет заявку на вывод
// @Description Заявка на вывод средств
type WithdrawalResponse struct {
	ID          int64      `json:"id" example:"1"`
	Amount      float64    `json:"amount" example:"10.5"`
	Status      string     `json:"status" example:"pending"`
	BankAccount string     `json:"bank_account" example:"6222020200001234567"`
	BankName    string     `json:"bank_name" example:"ICBC"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at"`
}
