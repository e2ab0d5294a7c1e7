package model

import (
	"fmt"
	"strings"
)

// PoolModel selects the price derivation used for a pool.
type PoolModel string

const (
	// ModelReserveRatio prices a constant-product pair from getReserves.
	ModelReserveRatio PoolModel = "reserve-ratio"
	// ModelTick prices a concentrated-liquidity pool from slot0.tick.
	ModelTick PoolModel = "tick"
	// ModelSqrtPrice prices a concentrated-liquidity pool from slot0.sqrtPriceX96.
	ModelSqrtPrice PoolModel = "sqrt-price"
)

// ParsePoolModel normalizes a model name from configuration.
func ParsePoolModel(input string) (PoolModel, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "reserve-ratio", "reserves", "v2":
		return ModelReserveRatio, nil
	case "tick", "v3":
		return ModelTick, nil
	case "sqrt-price", "sqrtpricex96":
		return ModelSqrtPrice, nil
	default:
		return "", fmt.Errorf("unsupported pool model: %q", input)
	}
}

// UsesSlot0 reports whether the model reads slot0 instead of getReserves.
func (m PoolModel) UsesSlot0() bool {
	return m == ModelTick || m == ModelSqrtPrice
}

// PoolDescriptor describes one tracked pool.
type PoolDescriptor struct {
	ID                string    `json:"id"`
	Label             string    `json:"label"`
	Address           string    `json:"address"`
	Model             PoolModel `json:"model"`
	BaseAsset         string    `json:"base_asset,omitempty"`
	BaseDecimals      uint8     `json:"base_decimals"`
	QuoteDecimals     uint8     `json:"quote_decimals"`
	DecimalAdjustment int       `json:"decimal_adjustment"`
	DisplayDecimals   int       `json:"display_decimals"`
}

// TokenMeta is the ERC20 metadata of one side of a pool.
type TokenMeta struct {
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
	Symbol   string `json:"symbol,omitempty"`
	Name     string `json:"name,omitempty"`
}

// DisplaySymbol falls back to the address when the token has no symbol.
func (t TokenMeta) DisplaySymbol() string {
	if t.Symbol != "" {
		return t.Symbol
	}
	return t.Address
}
