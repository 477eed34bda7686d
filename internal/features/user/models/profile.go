package models

// Profile личные данные пользователя, создается лениво
type Profile struct {
	ID          int64
	UserID      int64
	Avatar      *string
	RealName    *string
	IDCard      *string
	BankAccount *string
	BankName    *string
	Address     *string
	RiskLevel   int
}

// ProfileResponse представляет профиль пользователя
// @Description Личный профиль пользователя
type ProfileResponse struct {
	ID          int64   `json:"id" example:"1"`
	UserID      int64   `json:"user_id" example:"1"`
	Avatar      *string `json:"avatar"`
	RealName    *string `json:"real_name" example:"Alice Zhang"`
	IDCard      *string `json:"id_card"`
	BankAccount *string `json:"bank_account" example:"6222020200001234567"`
	BankName    *string `json:"bank_name" example:"ICBC"`
	Address     *string `json:"address"`
	RiskLevel   int     `json:"risk_level" example:"3"`
}

// UpdateProfileRequest частичное обновление профиля.
// nil означает "не менять", пустая строка очищает значение.
type UpdateProfileRequest struct {
	Avatar      *string `json:"avatar,omitempty"`
	RealName    *string `json:"real_name,omitempty"`
	IDCard      *string `json:"id_card,omitempty"`
	BankAccount *string `json:"bank_account,omitempty"`
	BankName    *string `json:"bank_name,omitempty"`
	Address     *string `json:"address,omitempty"`
	RiskLevel   *int    `json:"risk_level,omitempty" example:"4"`
}
