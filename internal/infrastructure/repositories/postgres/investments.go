package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/folio-service/folio_service/internal/domain/entities"
	apperrors "github.com/folio-service/folio_service/pkg/errors"
)

const investmentColumns = `id, portfolio_id, name, symbol, type, shares, purchase_price, current_price, purchase_date`

func (s *Store) GetInvestments(ctx context.Context, portfolioID int64) (_ []*entities.Investment, err error) {
	ctx, done := s.trace(ctx, "SELECT", "investments")
	defer func() { done(err) }()

	investments := []*entities.Investment{}
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE portfolio_id = $1 ORDER BY id`
	if err = s.db.SelectContext(ctx, &investments, query, portfolioID); err != nil {
		return nil, s.storeError(err, "get_investments")
	}
	return investments, nil
}

func (s *Store) GetInvestment(ctx context.Context, id int64) (_ *entities.Investment, err error) {
	ctx, done := s.trace(ctx, "SELECT", "investments")
	defer func() { done(err) }()

	investment := &entities.Investment{}
	err = s.db.GetContext(ctx, investment, `SELECT `+investmentColumns+` FROM investments WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("investment", id)
	}
	if err != nil {
		return nil, s.storeError(err, "get_investment")
	}
	return investment, nil
}

func (s *Store) CreateInvestment(ctx context.Context, inv *entities.Investment) (err error) {
	ctx, done := s.trace(ctx, "INSERT", "investments")
	defer func() { done(err) }()

	query := `
		INSERT INTO investments (
			portfolio_id, name, symbol, type, shares, purchase_price, current_price, purchase_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err = s.db.QueryRowxContext(ctx, query,
		inv.PortfolioID,
		inv.Name,
		inv.Symbol,
		inv.Type,
		inv.Shares,
		inv.PurchasePrice,
		inv.CurrentPrice,
		inv.PurchaseDate,
	).Scan(&inv.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("portfolio", inv.PortfolioID)
		}
		return s.storeError(err, "create_investment")
	}
	return nil
}

func (s *Store) UpdateInvestment(ctx context.Context, inv *entities.Investment) (err error) {
	ctx, done := s.trace(ctx, "UPDATE", "investments")
	defer func() { done(err) }()

	query := `
		UPDATE investments SET
			portfolio_id = $2, name = $3, symbol = $4, type = $5,
			shares = $6, purchase_price = $7, current_price = $8, purchase_date = $9
		WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query,
		inv.ID,
		inv.PortfolioID,
		inv.Name,
		inv.Symbol,
		inv.Type,
		inv.Shares,
		inv.PurchasePrice,
		inv.CurrentPrice,
		inv.PurchaseDate,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("portfolio", inv.PortfolioID)
		}
		return s.storeError(err, "update_investment")
	}
	if err = requireAffected(res, "investment", inv.ID); err != nil {
		return s.storeError(err, "update_investment")
	}
	return nil
}

func (s *Store) DeleteInvestment(ctx context.Context, id int64) (err error) {
	ctx, done := s.trace(ctx, "DELETE", "investments")
	defer func() { done(err) }()

	res, err := s.db.ExecContext(ctx, `DELETE FROM investments WHERE id = $1`, id)
	if err != nil {
		return s.storeError(err, "delete_investment")
	}
	if err = requireAffected(res, "investment", id); err != nil {
		return s.storeError(err, "delete_investment")
	}
	return nil
}
