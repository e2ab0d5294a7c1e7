package postgres

import (
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"priceScope/internal/model"
)

func TestSampleRowReserves(t *testing.T) {
	reserve0, _ := new(big.Int).SetString("3000000000000000000000", 10)
	sample := model.PriceSample{
		PoolID:    "eth",
		Value:     decimal.NewFromInt(3000),
		Timestamp: time.Unix(1700000000, 0).UTC(),
		State: model.PoolState{Reserves: &model.PoolReserves{
			Reserve0:           reserve0,
			Reserve1:           big.NewInt(9_000_000_000_000),
			BlockTimestampLast: 1699999999,
		}},
	}

	row := sampleRow(sample)
	if row.reserve0 == nil || *row.reserve0 != "3000000000000000000000" {
		t.Fatalf("reserve0 mismatch: %v", row.reserve0)
	}
	if row.reserve1 == nil || *row.reserve1 != "9000000000000" {
		t.Fatalf("reserve1 mismatch: %v", row.reserve1)
	}
	if row.blockTimestamp == nil || *row.blockTimestamp != 1699999999 {
		t.Fatalf("timestamp mismatch: %v", row.blockTimestamp)
	}
	if row.tick != nil || row.sqrtPrice != nil {
		t.Fatalf("slot0 columns should be null")
	}
}

func TestSampleRowSlot0(t *testing.T) {
	sample := model.PriceSample{
		PoolID: "eno",
		State:  model.PoolState{Slot0: &model.PoolTick{SqrtPriceX96: big.NewInt(79228162514264337), Tick: -207243}},
	}

	row := sampleRow(sample)
	if row.tick == nil || *row.tick != -207243 {
		t.Fatalf("tick mismatch: %v", row.tick)
	}
	if row.sqrtPrice == nil || *row.sqrtPrice != "79228162514264337" {
		t.Fatalf("sqrt price mismatch: %v", row.sqrtPrice)
	}
	if row.reserve0 != nil || row.blockTimestamp != nil {
		t.Fatalf("reserve columns should be null")
	}
}
