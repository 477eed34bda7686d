package models

// SuccessResponse простое подтверждение операции
// @Description Подтверждение операции
type SuccessResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Logged out"`
}
