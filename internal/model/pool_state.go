package model

import "math/big"

// PoolReserves is the decoded getReserves/token0 read of a constant-product pair.
type PoolReserves struct {
	Reserve0           *big.Int `json:"reserve0"`
	Reserve1           *big.Int `json:"reserve1"`
	BlockTimestampLast uint32   `json:"block_timestamp_last"`
	Token0             string   `json:"token0"`
	Token0IsBase       bool     `json:"token0_is_base"`
}

// BaseQuote returns the reserves ordered as (base, quote).
func (r PoolReserves) BaseQuote() (*big.Int, *big.Int) {
	if r.Token0IsBase {
		return r.Reserve0, r.Reserve1
	}
	return r.Reserve1, r.Reserve0
}

// PoolTick is the decoded slot0 read of a concentrated-liquidity pool.
type PoolTick struct {
	SqrtPriceX96 *big.Int `json:"sqrt_price_x96"`
	Tick         int32    `json:"tick"`
}

// PoolState holds whichever raw read the pool model needs.
type PoolState struct {
	Reserves *PoolReserves `json:"reserves,omitempty"`
	Slot0    *PoolTick     `json:"slot0,omitempty"`
}
