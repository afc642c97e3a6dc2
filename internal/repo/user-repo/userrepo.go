package userrepo

import (
	"context"
	"errors"

	"github.com/GlebRadaev/ordermart/internal/domain"
	"github.com/GlebRadaev/ordermart/internal/pg"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (repo *Repository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, email, balance, created_at
		FROM users
		WHERE id = $1
	`
	var user domain.User
	err := repo.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Email, &user.Balance, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		zap.L().Error("can't find user", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (repo *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (email, balance)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := repo.db.QueryRow(ctx, query, user.Email, user.Balance).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		zap.L().Error("can't save user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

// UpdateBalance overwrites the balance. It is the administrative path and
// does not enforce a floor.
func (repo *Repository) UpdateBalance(ctx context.Context, id string, balance int64) (*domain.User, error) {
	query := `
		UPDATE users
		SET balance = $1
		WHERE id = $2
		RETURNING id, email, balance, created_at
	`
	var user domain.User
	err := repo.db.QueryRow(ctx, query, balance, id).Scan(&user.ID, &user.Email, &user.Balance, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		zap.L().Error("can't update user balance", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// ConditionalDebit subtracts amount in one statement guarded by
// balance >= amount. It reports false when the guard did not hold.
func (repo *Repository) ConditionalDebit(ctx context.Context, id string, amount int64) (bool, error) {
	query := `
		UPDATE users
		SET balance = balance - $1
		WHERE id = $2 AND balance >= $1
	`
	tag, err := repo.db.Exec(ctx, query, amount, id)
	if err != nil {
		zap.L().Error("can't debit user balance", zap.String("user_id", id), zap.Int64("amount", amount), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
