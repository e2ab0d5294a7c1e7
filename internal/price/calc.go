// Package price derives spot prices from raw pool state.
//
// Two pool models are supported. Constant-product pairs are priced from their
// reserves with exact integer arithmetic. Concentrated-liquidity pools are priced
// from slot0, either from the tick in float64 (1.0001^tick) or exactly from
// sqrtPriceX96. The float tick path carries roughly 1e-15 relative error, so the
// tick and sqrt-price results for the same pool differ in the last digits.
package price

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"priceScope/internal/model"
)

const (
	MinTick = -887272
	MaxTick = 887272

	// reserveScale is the number of fractional digits kept by the final division.
	reserveScale = 18
	// sqrtPriceScale is larger because tick pools often quote tiny prices.
	sqrtPriceScale = 30
)

var (
	lnTickBase = math.Log(1.0001)
	q192       = new(big.Int).Lsh(big.NewInt(1), 192)
)

// ReserveRatioPrice returns quote-per-base from a pair's reserves:
//
//	price = (quoteReserve * 10^baseDecimals) / (baseReserve * 10^quoteDecimals)
//
// Products are computed on big.Int; only the final division produces a decimal.
func ReserveRatioPrice(reserves model.PoolReserves, baseDecimals, quoteDecimals uint8) (decimal.Decimal, error) {
	base, quote := reserves.BaseQuote()
	if base == nil || quote == nil {
		return decimal.Decimal{}, fmt.Errorf("%w: missing reserve", ErrInvalidReserves)
	}
	if base.Sign() < 0 || quote.Sign() < 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: negative reserve", ErrInvalidReserves)
	}
	if base.Sign() == 0 {
		return decimal.Decimal{}, fmt.Errorf("base reserve is zero: %w", ErrDivisionByZero)
	}

	num := new(big.Int).Mul(quote, pow10(int(baseDecimals)))
	den := new(big.Int).Mul(base, pow10(int(quoteDecimals)))

	return decimal.NewFromBigInt(num, 0).DivRound(decimal.NewFromBigInt(den, 0), reserveScale), nil
}

// TickPrice returns 1.0001^tick * 10^decimalAdjustment.
//
// The power is evaluated as exp(tick * ln(1.0001)); at the int24 tick bounds the
// base price stays within [2.9e-39, 3.4e38], well inside float64 range.
func TickPrice(tick int32, decimalAdjustment int) (decimal.Decimal, error) {
	if tick < MinTick || tick > MaxTick {
		return decimal.Decimal{}, fmt.Errorf("tick %d: %w", tick, ErrTickOutOfRange)
	}

	basePrice := math.Exp(float64(tick) * lnTickBase)
	value := basePrice * math.Pow10(decimalAdjustment)
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return decimal.Decimal{}, fmt.Errorf("tick %d adjustment %d: %w", tick, decimalAdjustment, ErrNonFinite)
	}

	return decimal.NewFromFloat(value), nil
}

// SqrtPriceX96Price returns (sqrtPriceX96 / 2^96)^2 * 10^decimalAdjustment exactly.
func SqrtPriceX96Price(sqrtPriceX96 *big.Int, decimalAdjustment int) (decimal.Decimal, error) {
	if sqrtPriceX96 == nil || sqrtPriceX96.Sign() <= 0 {
		return decimal.Decimal{}, ErrInvalidSqrtPrice
	}

	num := new(big.Int).Mul(sqrtPriceX96, sqrtPriceX96)
	den := new(big.Int).Set(q192)
	if decimalAdjustment >= 0 {
		num.Mul(num, pow10(decimalAdjustment))
	} else {
		den.Mul(den, pow10(-decimalAdjustment))
	}

	return decimal.NewFromBigInt(num, 0).DivRound(decimal.NewFromBigInt(den, 0), sqrtPriceScale), nil
}

func pow10(exp int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
}
