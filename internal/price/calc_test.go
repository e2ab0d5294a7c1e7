package price

import (
	"math"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"priceScope/internal/model"
)

func units(amount int64, decimals int) *big.Int {
	return new(big.Int).Mul(big.NewInt(amount), pow10(decimals))
}

func TestReserveRatioPriceEthUsdt(t *testing.T) {
	reserves := model.PoolReserves{
		Reserve0:     units(3000, 18),
		Reserve1:     units(9_000_000, 6),
		Token0IsBase: true,
	}

	got, err := ReserveRatioPrice(reserves, 18, 6)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(3000)), "got %s", got)
	assert.Equal(t, "3000.00", got.StringFixed(2))
}

func TestReserveRatioPriceToken1IsBase(t *testing.T) {
	swapped := model.PoolReserves{
		Reserve0:     units(9_000_000, 6),
		Reserve1:     units(3000, 18),
		Token0IsBase: false,
	}

	got, err := ReserveRatioPrice(swapped, 18, 6)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(3000)), "got %s", got)
}

func TestReserveRatioPriceKeepsFraction(t *testing.T) {
	reserves := model.PoolReserves{
		Reserve0:     units(3, 18),
		Reserve1:     units(10, 6),
		Token0IsBase: true,
	}

	got, err := ReserveRatioPrice(reserves, 18, 6)
	require.NoError(t, err)
	assert.Equal(t, "3.333333333333333333", got.String())
}

func TestReserveRatioPriceScalesLinearly(t *testing.T) {
	base := units(2, 18)
	unit, err := ReserveRatioPrice(model.PoolReserves{Reserve0: base, Reserve1: units(5, 6), Token0IsBase: true}, 18, 6)
	require.NoError(t, err)
	require.True(t, unit.Equal(decimal.RequireFromString("2.5")), "got %s", unit)

	for k := int64(1); k <= 50; k += 7 {
		reserves := model.PoolReserves{
			Reserve0:     base,
			Reserve1:     units(5*k, 6),
			Token0IsBase: true,
		}
		got, err := ReserveRatioPrice(reserves, 18, 6)
		require.NoError(t, err)
		assert.True(t, got.Equal(unit.Mul(decimal.NewFromInt(k))), "k=%d got %s", k, got)
	}
}

func TestReserveRatioPriceNonNegative(t *testing.T) {
	values := []int64{1, 7, 1_000, 123_456_789, math.MaxInt64}
	decimals := []uint8{0, 6, 8, 18}
	for _, a := range values {
		for _, b := range values {
			for _, bd := range decimals {
				for _, qd := range decimals {
					reserves := model.PoolReserves{
						Reserve0:     big.NewInt(a),
						Reserve1:     big.NewInt(b),
						Token0IsBase: true,
					}
					got, err := ReserveRatioPrice(reserves, bd, qd)
					require.NoError(t, err)
					assert.False(t, got.IsNegative(), "a=%d b=%d bd=%d qd=%d", a, b, bd, qd)
				}
			}
		}
	}
}

func TestReserveRatioPriceZeroBase(t *testing.T) {
	reserves := model.PoolReserves{
		Reserve0:     big.NewInt(0),
		Reserve1:     units(9_000_000, 6),
		Token0IsBase: true,
	}

	_, err := ReserveRatioPrice(reserves, 18, 6)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDivisionByZero)
	assert.ErrorIs(t, err, ErrArithmetic)
}

func TestReserveRatioPriceInvalidReserves(t *testing.T) {
	_, err := ReserveRatioPrice(model.PoolReserves{Reserve0: big.NewInt(1)}, 18, 6)
	assert.ErrorIs(t, err, ErrInvalidReserves)

	_, err = ReserveRatioPrice(model.PoolReserves{Reserve0: big.NewInt(1), Reserve1: big.NewInt(-1), Token0IsBase: true}, 18, 6)
	assert.ErrorIs(t, err, ErrInvalidReserves)
}

func TestTickPriceZeroTick(t *testing.T) {
	got, err := TickPrice(0, 12)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.New(1, 12)), "got %s", got)
	assert.Equal(t, "1000000000000", got.String())
}

func TestTickPriceMonotonic(t *testing.T) {
	prev, err := TickPrice(MinTick, 12)
	require.NoError(t, err)
	require.True(t, prev.IsPositive())

	for tick := int32(MinTick + 997); tick <= MaxTick; tick += 997 {
		got, err := TickPrice(tick, 12)
		require.NoError(t, err)
		require.True(t, got.GreaterThan(prev), "tick %d: %s <= %s", tick, got, prev)
		prev = got
	}

	left, _ := TickPrice(-1, 0)
	mid, _ := TickPrice(0, 0)
	right, _ := TickPrice(1, 0)
	assert.True(t, left.LessThan(mid))
	assert.True(t, mid.LessThan(right))
}

func TestTickPriceBounds(t *testing.T) {
	_, err := TickPrice(MaxTick, 0)
	require.NoError(t, err)
	_, err = TickPrice(MinTick, -12)
	require.NoError(t, err)

	_, err = TickPrice(MaxTick+1, 0)
	assert.ErrorIs(t, err, ErrTickOutOfRange)
	_, err = TickPrice(MinTick-1, 0)
	assert.ErrorIs(t, err, ErrTickOutOfRange)

	_, err = TickPrice(MaxTick, 300)
	assert.ErrorIs(t, err, ErrNonFinite)
	assert.ErrorIs(t, err, ErrArithmetic)
}

func TestTickPriceNegativeAdjustment(t *testing.T) {
	got, err := TickPrice(0, -6)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.New(1, -6)), "got %s", got)
}

func TestSqrtPriceX96Price(t *testing.T) {
	q96 := new(big.Int).Lsh(big.NewInt(1), 96)

	got, err := SqrtPriceX96Price(q96, 0)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(1)), "got %s", got)

	got, err = SqrtPriceX96Price(q96, 12)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.New(1, 12)), "got %s", got)

	got, err = SqrtPriceX96Price(q96, -6)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.New(1, -6)), "got %s", got)

	_, err = SqrtPriceX96Price(big.NewInt(0), 0)
	assert.ErrorIs(t, err, ErrInvalidSqrtPrice)
	_, err = SqrtPriceX96Price(nil, 0)
	assert.ErrorIs(t, err, ErrInvalidSqrtPrice)
}

func TestSqrtPriceAgreesWithTickWithinTolerance(t *testing.T) {
	const tick = 1000
	ratio := math.Pow(1.0001, tick)
	f := new(big.Float).SetFloat64(math.Sqrt(ratio))
	f.Mul(f, new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), 96)))
	sqrtPrice, _ := f.Int(nil)

	exact, err := SqrtPriceX96Price(sqrtPrice, 12)
	require.NoError(t, err)
	approx, err := TickPrice(tick, 12)
	require.NoError(t, err)

	relErr := exact.Sub(approx).Abs().Div(approx)
	assert.True(t, relErr.LessThan(decimal.New(1, -9)), "relative error %s", relErr)
}
