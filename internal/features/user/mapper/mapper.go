package mapper

import "jucai-fund-backend/internal/features/user/models"

// ToUserResponse maps User model to UserResponse DTO
func ToUserResponse(user *models.User) *models.UserResponse {
	return &models.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
		LastLogin: user.LastLogin,
		Status:    user.Status,
		Balance:   user.Balance.InexactFloat64(),
	}
}

// ToProfileResponse maps Profile model to ProfileResponse DTO
func ToProfileResponse(p *models.Profile) *models.ProfileResponse {
	return &models.ProfileResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Avatar:      p.Avatar,
		RealName:    p.RealName,
		IDCard:      p.IDCard,
		BankAccount: p.BankAccount,
		BankName:    p.BankName,
		Address:     p.Address,
		RiskLevel:   p.RiskLevel,
	}
}

// ApplyProfilePatch copies every non-nil field of req onto p.
func ApplyProfilePatch(p *models.Profile, req *models.UpdateProfileRequest) {
	if req.Avatar != nil {
		p.Avatar = req.Avatar
	}
	if req.RealName != nil {
		p.RealName = req.RealName
	}
	if req.IDCard != nil {
		p.IDCard = req.IDCard
	}
	if req.BankAccount != nil {
		p.BankAccount = req.BankAccount
	}
	if req.BankName != nil {
		p.BankName = req.BankName
	}
	if req.Address != nil {
		p.Address = req.Address
	}
	if req.RiskLevel != nil {
		p.RiskLevel = *req.RiskLevel
	}
}
