package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSample is one computed price for a pool.
type PriceSample struct {
	PoolID      string          `json:"pool_id"`
	Label       string          `json:"label"`
	PoolAddress string          `json:"pool_address"`
	Model       PoolModel       `json:"model"`
	Value       decimal.Decimal `json:"value"`
	Timestamp   time.Time       `json:"timestamp"`
	State       PoolState       `json:"state"`
}
