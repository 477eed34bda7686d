package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	apperrors "jucai-fund-backend/internal/common/errors"
)

const (
	// Ограничения для учетных данных
	MinUsernameLength = 3
	MaxUsernameLength = 20
	MinPasswordLength = 6

	MaxEmailLength = 100
	MaxPhoneLength = 20

	MinRiskLevel     = 1
	MaxRiskLevel     = 5
	DefaultRiskLevel = 3

	// Ограничения колонок профиля и выводов
	MaxAvatarLength      = 255
	MaxRealNameLength    = 50
	MaxIDCardLength      = 20
	MaxBankAccountLength = 50
	MaxBankNameLength    = 100
	MaxAddressLength     = 255
	MaxTitleLength       = 200
	MaxTypeLength        = 20

	// Денежные колонки NUMERIC(24, 8)
	AmountScale = 8
)

var maxAmount = decimal.New(1, 24-AmountScale)

var (
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	emailRegex    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// ValidateUsername проверяет имя пользователя: 3-20 символов, буквы, цифры, подчеркивание
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return apperrors.NewValidationError("username",
			fmt.Sprintf("must be between %d and %d characters", MinUsernameLength, MaxUsernameLength))
	}
	if !usernameRegex.MatchString(username) {
		return apperrors.NewValidationError("username", "must contain only letters, digits and underscores")
	}
	return nil
}

// ValidatePassword проверяет только минимальную длину пароля
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return apperrors.NewValidationError("password",
			fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	return nil
}

// ValidateEmail проверяет формат email
func ValidateEmail(email string) error {
	if len(email) > MaxEmailLength {
		return apperrors.NewValidationError("email",
			fmt.Sprintf("cannot exceed %d characters", MaxEmailLength))
	}
	if !emailRegex.MatchString(email) {
		return apperrors.NewValidationError("email", "invalid email format")
	}
	return nil
}

// ValidatePhone проверяет длину телефона
func ValidatePhone(phone string) error {
	if utf8.RuneCountInString(phone) > MaxPhoneLength {
		return apperrors.NewValidationError("phone",
			fmt.Sprintf("cannot exceed %d characters", MaxPhoneLength))
	}
	return nil
}

// ValidateRiskLevel проверяет уровень риска (1-5)
func ValidateRiskLevel(level int) error {
	if level < MinRiskLevel || level > MaxRiskLevel {
		return apperrors.NewValidationError("risk_level",
			fmt.Sprintf("must be between %d and %d", MinRiskLevel, MaxRiskLevel))
	}
	return nil
}

// ValidateAmount проверяет, что сумма положительная и помещается в NUMERIC(24, 8)
// без округления
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.NewValidationError("amount", "must be greater than zero")
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return apperrors.NewValidationError("amount",
			fmt.Sprintf("cannot have more than %d decimal places", AmountScale))
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return apperrors.NewValidationError("amount", "is too large")
	}
	return nil
}

// ValidateRequired проверяет непустое строковое поле с ограничением длины
func ValidateRequired(field, value string, maxLength int) error {
	if value == "" {
		return apperrors.NewValidationError(field, "cannot be empty")
	}
	if maxLength > 0 && utf8.RuneCountInString(value) > maxLength {
		return apperrors.NewValidationError(field,
			fmt.Sprintf("cannot exceed %d characters", maxLength))
	}
	return nil
}

// ValidateMaxLength проверяет только верхнюю границу длины, пустое значение допустимо
func ValidateMaxLength(field, value string, maxLength int) error {
	if utf8.RuneCountInString(value) > maxLength {
		return apperrors.NewValidationError(field,
			fmt.Sprintf("cannot exceed %d characters", maxLength))
	}
	return nil
}

// ValidatePositiveID проверяет идентификатор
func ValidatePositiveID(field string, id int64) error {
	if id <= 0 {
		return apperrors.NewValidationError(field, "must be a positive integer")
	}
	return nil
}
