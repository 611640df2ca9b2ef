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

const portfolioColumns = `id, user_id, name, risk_level, created_at`

func (s *Store) ListPortfolios(ctx context.Context) (_ []*entities.Portfolio, err error) {
	ctx, done := s.trace(ctx, "SELECT", "portfolios")
	defer func() { done(err) }()

	portfolios := []*entities.Portfolio{}
	if err = s.db.SelectContext(ctx, &portfolios, `SELECT `+portfolioColumns+` FROM portfolios ORDER BY id`); err != nil {
		return nil, s.storeError(err, "list_portfolios")
	}
	return portfolios, nil
}

func (s *Store) ListPortfoliosByUser(ctx context.Context, userID int64) (_ []*entities.Portfolio, err error) {
	ctx, done := s.trace(ctx, "SELECT", "portfolios")
	defer func() { done(err) }()

	portfolios := []*entities.Portfolio{}
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE user_id = $1 ORDER BY id`
	if err = s.db.SelectContext(ctx, &portfolios, query, userID); err != nil {
		return nil, s.storeError(err, "list_portfolios_by_user")
	}
	return portfolios, nil
}

func (s *Store) GetPortfolio(ctx context.Context, id int64) (_ *entities.Portfolio, err error) {
	ctx, done := s.trace(ctx, "SELECT", "portfolios")
	defer func() { done(err) }()

	portfolio := &entities.Portfolio{}
	err = s.db.GetContext(ctx, portfolio, `SELECT `+portfolioColumns+` FROM portfolios WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("portfolio", id)
	}
	if err != nil {
		return nil, s.storeError(err, "get_portfolio")
	}
	return portfolio, nil
}

func (s *Store) CreatePortfolio(ctx context.Context, portfolio *entities.Portfolio) (err error) {
	ctx, done := s.trace(ctx, "INSERT", "portfolios")
	defer func() { done(err) }()

	query := `
		INSERT INTO portfolios (user_id, name, risk_level)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err = s.db.QueryRowxContext(ctx, query, portfolio.UserID, portfolio.Name, portfolio.RiskLevel).
		Scan(&portfolio.ID, &portfolio.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("user", portfolio.UserID)
		}
		return s.storeError(err, "create_portfolio")
	}

	s.logger.Debug("Portfolio created", zap.Int64("portfolio_id", portfolio.ID))
	return nil
}

func (s *Store) UpdatePortfolio(ctx context.Context, portfolio *entities.Portfolio) (err error) {
	ctx, done := s.trace(ctx, "UPDATE", "portfolios")
	defer func() { done(err) }()

	query := `
		UPDATE portfolios SET user_id = $2, name = $3, risk_level = $4
		WHERE id = $1
		RETURNING created_at`

	err = s.db.QueryRowxContext(ctx, query, portfolio.ID, portfolio.UserID, portfolio.Name, portfolio.RiskLevel).
		Scan(&portfolio.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperrors.NewNotFoundError("portfolio", portfolio.ID)
	case isForeignKeyViolation(err):
		return apperrors.NewNotFoundError("user", portfolio.UserID)
	case err != nil:
		return s.storeError(err, "update_portfolio")
	}
	return nil
}

// DeletePortfolio removes the portfolio with its investments and snapshots in one transaction
func (s *Store) DeletePortfolio(ctx context.Context, id int64) (err error) {
	ctx, done := s.trace(ctx, "DELETE", "portfolios")
	defer func() { done(err) }()

	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM investments WHERE portfolio_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM performance_snapshots WHERE portfolio_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM portfolios WHERE id = $1`, id)
		if err != nil {
			return err
		}
		return requireAffected(res, "portfolio", id)
	})
	if err != nil {
		return s.storeError(err, "delete_portfolio")
	}

	s.logger.Info("Portfolio deleted", zap.Int64("portfolio_id", id))
	return nil
}
