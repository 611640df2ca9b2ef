package repositories

import (
	"context"
	"time"

	"github.com/folio-service/folio_service/internal/domain/entities"
)

// SummaryReader is the read contract the aggregation engine needs from the store.
// GetPortfolio returns a not-found AppError when the portfolio does not exist.
type SummaryReader interface {
	GetPortfolio(ctx context.Context, id int64) (*entities.Portfolio, error)
	GetInvestments(ctx context.Context, portfolioID int64) ([]*entities.Investment, error)
	GetPerformanceSnapshots(ctx context.Context, portfolioID int64) ([]*entities.PerformanceSnapshot, error)
}

// PriceReader supplies previous closing prices for daily change valuation
type PriceReader interface {
	// PreviousCloses returns, per symbol, the most recent close strictly before the given day.
	// Symbols without history are absent from the result.
	PreviousCloses(ctx context.Context, symbols []string, before time.Time) (map[string]entities.PriceClose, error)
}

// UserRepository defines user persistence
type UserRepository interface {
	CreateUser(ctx context.Context, user *entities.User) error
	GetUser(ctx context.Context, id int64) (*entities.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
	// DeleteUser removes the user and cascades to its portfolios
	DeleteUser(ctx context.Context, id int64) error
}

// PortfolioRepository defines portfolio persistence
type PortfolioRepository interface {
	ListPortfolios(ctx context.Context) ([]*entities.Portfolio, error)
	ListPortfoliosByUser(ctx context.Context, userID int64) ([]*entities.Portfolio, error)
	GetPortfolio(ctx context.Context, id int64) (*entities.Portfolio, error)
	CreatePortfolio(ctx context.Context, portfolio *entities.Portfolio) error
	UpdatePortfolio(ctx context.Context, portfolio *entities.Portfolio) error
	// DeletePortfolio removes the portfolio with its investments and snapshots atomically
	DeletePortfolio(ctx context.Context, id int64) error
}

// InvestmentRepository defines investment persistence
type InvestmentRepository interface {
	GetInvestments(ctx context.Context, portfolioID int64) ([]*entities.Investment, error)
	GetInvestment(ctx context.Context, id int64) (*entities.Investment, error)
	CreateInvestment(ctx context.Context, investment *entities.Investment) error
	UpdateInvestment(ctx context.Context, investment *entities.Investment) error
	DeleteInvestment(ctx context.Context, id int64) error
}

// PerformanceRepository defines append-only snapshot persistence
type PerformanceRepository interface {
	GetPerformanceSnapshots(ctx context.Context, portfolioID int64) ([]*entities.PerformanceSnapshot, error)
	GetPerformanceSnapshotsBetween(ctx context.Context, portfolioID int64, from, to time.Time) ([]*entities.PerformanceSnapshot, error)
	// AppendPerformanceSnapshot returns a conflict AppError when the timestamp is already taken
	AppendPerformanceSnapshot(ctx context.Context, snapshot *entities.PerformanceSnapshot) error
}

// PriceRepository defines closing price persistence
type PriceRepository interface {
	PriceReader
	UpsertPriceClose(ctx context.Context, close *entities.PriceClose) error
	GetPriceCloses(ctx context.Context, symbol string) ([]*entities.PriceClose, error)
}

// Store is the full entity store exposed to use-case services
type Store interface {
	UserRepository
	PortfolioRepository
	InvestmentRepository
	PerformanceRepository
	PriceRepository
	Ping(ctx context.Context) error
	Close() error
}
