package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"

	"github.com/folio-service/folio_service/internal/domain/entities"
)

func (s *Store) UpsertPriceClose(ctx context.Context, pc *entities.PriceClose) (err error) {
	ctx, done := s.trace(ctx, "INSERT", "price_closes")
	defer func() { done(err) }()

	query := `
		INSERT INTO price_closes (symbol, trade_date, close)
		VALUES ($1, $2::date, $3)
		ON CONFLICT (symbol, trade_date) DO UPDATE SET close = EXCLUDED.close
		RETURNING trade_date`

	var tradeDate time.Time
	err = s.db.QueryRowxContext(ctx, query, pc.Symbol, pc.TradeDate.UTC().Format(dayLayout), pc.Close).Scan(&tradeDate)
	if err != nil {
		return s.storeError(err, "upsert_price_close")
	}
	pc.TradeDate = utcDay(tradeDate)
	return nil
}

func (s *Store) GetPriceCloses(ctx context.Context, symbol string) (_ []*entities.PriceClose, err error) {
	ctx, done := s.trace(ctx, "SELECT", "price_closes")
	defer func() { done(err) }()

	closes := []*entities.PriceClose{}
	query := `SELECT symbol, trade_date, close FROM price_closes WHERE symbol = $1 ORDER BY trade_date`
	if err = s.db.SelectContext(ctx, &closes, query, symbol); err != nil {
		return nil, s.storeError(err, "get_price_closes")
	}
	for _, pc := range closes {
		pc.TradeDate = utcDay(pc.TradeDate)
	}
	return closes, nil
}

// PreviousCloses loads, in one query, the latest close strictly before the given day per symbol
func (s *Store) PreviousCloses(ctx context.Context, symbols []string, before time.Time) (_ map[string]entities.PriceClose, err error) {
	out := make(map[string]entities.PriceClose, len(symbols))
	if len(symbols) == 0 {
		return out, nil
	}

	ctx, done := s.trace(ctx, "SELECT", "price_closes")
	defer func() { done(err) }()

	query := `
		SELECT DISTINCT ON (symbol) symbol, trade_date, close
		FROM price_closes
		WHERE symbol = ANY($1) AND trade_date < $2::date
		ORDER BY symbol, trade_date DESC`

	rows := []entities.PriceClose{}
	if err = s.db.SelectContext(ctx, &rows, query, pq.Array(symbols), before.UTC().Format(dayLayout)); err != nil {
		return nil, s.storeError(err, "previous_closes")
	}
	for _, pc := range rows {
		pc.TradeDate = utcDay(pc.TradeDate)
		out[pc.Symbol] = pc
	}
	return out, nil
}

// utcDay reinterprets a DATE column value as midnight UTC of the same calendar day
func utcDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
