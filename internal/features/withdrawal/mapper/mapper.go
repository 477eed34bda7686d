package mapper

import "jucai-fund-backend/internal/features/withdrawal/models"

func ToWithdrawalResponse(w *models.Withdrawal) *models.WithdrawalResponse {
	return &models.WithdrawalResponse{
		ID:          w.ID,
		Amount:      w.Amount.InexactFloat64(),
		Status:      w.Status,
		BankAccount: w.BankAccount,
		BankName:    w.BankName,
		CreatedAt:   w.CreatedAt,
		ProcessedAt: w.ProcessedAt,
	}
}

func ToWithdrawalResponses(list []*models.Withdrawal) []*models.WithdrawalResponse {
	out := make([]*models.WithdrawalResponse, 0, len(list))
	for _, w := range list {
		out = append(out, ToWithdrawalResponse(w))
	}
	return out
}
