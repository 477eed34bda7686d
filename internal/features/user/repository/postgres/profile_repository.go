package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jucai-fund-backend/internal/common/validation"
	"jucai-fund-backend/internal/features/user/models"
	"jucai-fund-backend/internal/features/user/repository"
	"jucai-fund-backend/internal/platform/postgres"
)

type profileRepository struct {
	db postgres.DBTX
}

func NewProfileRepository(db postgres.DBTX) repository.ProfileRepository {
	return &profileRepository{db: db}
}

// GetOrCreate вставляет профиль по умолчанию, если его нет, и читает строку.
// ON CONFLICT делает конкурентное создание безопасным.
func (r *profileRepository) GetOrCreate(ctx context.Context, userID int64) (*models.Profile, bool, error) {
	exec := postgres.Executor(ctx, r.db)

	result, err := exec.ExecContext(ctx, `
		INSERT INTO personal_profiles (user_id, risk_level)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, validation.DefaultRiskLevel)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create profile: %w", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	var (
		p                                                     models.Profile
		avatar, realName, idCard, bankAccount, bankName, addr sql.NullString
	)
	err = exec.QueryRowContext(ctx, `
		SELECT id, user_id, avatar, real_name, id_card, bank_account, bank_name, address, risk_level
		FROM personal_profiles
		WHERE user_id = $1
	`, userID).Scan(&p.ID, &p.UserID, &avatar, &realName, &idCard, &bankAccount, &bankName, &addr, &p.RiskLevel)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, repository.ErrProfileNotFound
		}
		return nil, false, fmt.Errorf("failed to get profile: %w", err)
	}

	p.Avatar = nullable(avatar)
	p.RealName = nullable(realName)
	p.IDCard = nullable(idCard)
	p.BankAccount = nullable(bankAccount)
	p.BankName = nullable(bankName)
	p.Address = nullable(addr)

	return &p, inserted > 0, nil
}

// Update сохраняет все поля профиля
func (r *profileRepository) Update(ctx context.Context, p *models.Profile) error {
	result, err := postgres.Executor(ctx, r.db).ExecContext(ctx, `
		UPDATE personal_profiles
		SET avatar = $2, real_name = $3, id_card = $4, bank_account = $5,
			bank_name = $6, address = $7, risk_level = $8
		WHERE user_id = $1
	`, p.UserID, p.Avatar, p.RealName, p.IDCard, p.BankAccount, p.BankName, p.Address, p.RiskLevel)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrProfileNotFound
	}
	return nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
