package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"jucai-fund-backend/internal/common/validation"
	"jucai-fund-backend/internal/features/user/models"
	"jucai-fund-backend/internal/features/user/repository"
	"jucai-fund-backend/internal/platform/memory"
)

// UserRepository keeps users in process memory. Exported so tests and local
// runs can adjust balances, which no API operation does.
type UserRepository struct {
	mu    sync.RWMutex
	users map[int64]*models.User
	seq   memory.Sequence
	clock *memory.Clock
}

func NewUserRepository(clock *memory.Clock) *UserRepository {
	if clock == nil {
		clock = memory.NewClock(nil)
	}
	return &UserRepository{users: make(map[int64]*models.User), clock: clock}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func copyUser(u *models.User) *models.User {
	c := *u
	if u.Phone != nil {
		p := *u.Phone
		c.Phone = &p
	}
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username {
			return repository.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}

	user.ID = r.seq.Next()
	user.CreatedAt = r.clock.Now()
	r.users[user.ID] = copyUser(user)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return copyUser(u), nil
}

// GetByIDForUpdate relies on the memory Transactor for isolation.
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r *UserRepository) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *UserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}

	updated := copyUser(user)
	stored.Email = updated.Email
	stored.Phone = updated.Phone
	stored.Status = updated.Status
	return nil
}

func (r *UserRepository) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	t := at
	u.LastLogin = &t
	return nil
}

func (r *UserRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

// SetBalance overwrites a user's balance.
func (r *UserRepository) SetBalance(id int64, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Balance = balance
	return nil
}

type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[int64]*models.Profile
	seq      memory.Sequence
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[int64]*models.Profile)}
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyProfile(p *models.Profile) *models.Profile {
	c := *p
	c.Avatar = copyString(p.Avatar)
	c.RealName = copyString(p.RealName)
	c.IDCard = copyString(p.IDCard)
	c.BankAccount = copyString(p.BankAccount)
	c.BankName = copyString(p.BankName)
	c.Address = copyString(p.Address)
	return &c
}

func (r *ProfileRepository) GetOrCreate(_ context.Context, userID int64) (*models.Profile, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.profiles[userID]; ok {
		return copyProfile(p), false, nil
	}
	p := &models.Profile{
		ID:        r.seq.Next(),
		UserID:    userID,
		RiskLevel: validation.DefaultRiskLevel,
	}
	r.profiles[userID] = p
	return copyProfile(p), true, nil
}

func (r *ProfileRepository) Update(_ context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.profiles[p.UserID]
	if !ok {
		return repository.ErrProfileNotFound
	}
	updated := copyProfile(p)
	updated.ID = stored.ID
	r.profiles[p.UserID] = updated
	return nil
}
