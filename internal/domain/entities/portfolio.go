package entities

import (
	"time"
)

// RiskLevel is the risk tag assigned to a portfolio
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "Low"
	RiskLevelModerate RiskLevel = "Moderate"
	RiskLevelHigh     RiskLevel = "High"
)

// RiskLevels lists the accepted risk levels
var RiskLevels = []RiskLevel{RiskLevelLow, RiskLevelModerate, RiskLevelHigh}

// IsValid reports whether r is a known risk level
func (r RiskLevel) IsValid() bool {
	for _, level := range RiskLevels {
		if r == level {
			return true
		}
	}
	return false
}

// Portfolio is a named collection of investments owned by a user
type Portfolio struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	RiskLevel RiskLevel `json:"risk_level" db:"risk_level"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PortfolioUpdate carries a partial portfolio update; nil fields are left unchanged
type PortfolioUpdate struct {
	Name      *string
	RiskLevel *RiskLevel
	UserID    *int64
}

// Apply copies the set fields onto p
func (u PortfolioUpdate) Apply(p *Portfolio) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.RiskLevel != nil {
		p.RiskLevel = *u.RiskLevel
	}
	if u.UserID != nil {
		p.UserID = *u.UserID
	}
}
