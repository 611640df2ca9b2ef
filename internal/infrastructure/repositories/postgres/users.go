package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
	apperrors "github.com/folio-service/folio_service/pkg/errors"
)

const userColumns = `id, username, password_hash, created_at`

func (s *Store) CreateUser(ctx context.Context, user *entities.User) (err error) {
	ctx, done := s.trace(ctx, "INSERT", "users")
	defer func() { done(err) }()

	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err = s.db.QueryRowxContext(ctx, query, user.Username, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("username already taken").WithDetail("username", user.Username)
		}
		return s.storeError(err, "create_user")
	}

	s.logger.Debug("User created", zap.Int64("user_id", user.ID))
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (_ *entities.User, err error) {
	ctx, done := s.trace(ctx, "SELECT", "users")
	defer func() { done(err) }()

	user := &entities.User{}
	err = s.db.GetContext(ctx, user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("user", id)
	}
	if err != nil {
		return nil, s.storeError(err, "get_user")
	}
	return user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (_ *entities.User, err error) {
	ctx, done := s.trace(ctx, "SELECT", "users")
	defer func() { done(err) }()

	user := &entities.User{}
	err = s.db.GetContext(ctx, user, `SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER($1)`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("user", username)
	}
	if err != nil {
		return nil, s.storeError(err, "get_user_by_username")
	}
	return user, nil
}

// DeleteUser removes the user, its portfolios and everything they own in one transaction
func (s *Store) DeleteUser(ctx context.Context, id int64) (err error) {
	ctx, done := s.trace(ctx, "DELETE", "users")
	defer func() { done(err) }()

	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		owned := `SELECT id FROM portfolios WHERE user_id = $1`
		if _, err := tx.ExecContext(ctx, `DELETE FROM investments WHERE portfolio_id IN (`+owned+`)`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM performance_snapshots WHERE portfolio_id IN (`+owned+`)`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM portfolios WHERE user_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		return requireAffected(res, "user", id)
	})
	if err != nil {
		return s.storeError(err, "delete_user")
	}

	s.logger.Info("User deleted", zap.Int64("user_id", id))
	return nil
}
