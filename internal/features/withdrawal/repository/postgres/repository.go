package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"jucai-fund-backend/internal/features/withdrawal/models"
	"jucai-fund-backend/internal/features/withdrawal/repository"
	"jucai-fund-backend/internal/platform/postgres"
)

const withdrawalColumns = `id, user_id, amount, status, bank_account, bank_name, created_at, processed_at`

type withdrawalRepository struct {
	db postgres.DBTX
}

func NewWithdrawalRepository(db postgres.DBTX) repository.WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) Create(ctx context.Context, w *models.Withdrawal) error {
	query := `
		INSERT INTO withdrawals (user_id, amount, status, bank_account, bank_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := postgres.Executor(ctx, r.db).QueryRowContext(ctx, query,
		w.UserID, w.Amount, w.Status, w.BankAccount, w.BankName,
	).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return nil
}

func (r *withdrawalRepository) List(ctx context.Context, filter models.ListFilter) ([]*models.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE user_id = $1`
	args := []any{filter.UserID}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := postgres.Executor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	defer rows.Close()

	list := make([]*models.Withdrawal, 0)
	for rows.Next() {
		var (
			w           models.Withdrawal
			processedAt sql.NullTime
		)
		if err := rows.Scan(&w.ID, &w.UserID, &w.Amount, &w.Status, &w.BankAccount, &w.BankName,
			&w.CreatedAt, &processedAt); err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal: %w", err)
		}
		if processedAt.Valid {
			t := processedAt.Time
			w.ProcessedAt = &t
		}
		list = append(list, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate withdrawals: %w", err)
	}
	return list, nil
}
