package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"priceScope/internal/model"
)

func testSamples() []model.PriceSample {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []model.PriceSample{
		{
			PoolID:    "eth",
			Label:     "ETH",
			Model:     model.ModelReserveRatio,
			Value:     decimal.NewFromInt(3000),
			Timestamp: at,
			State: model.PoolState{Reserves: &model.PoolReserves{
				Reserve0:     big.NewInt(10),
				Reserve1:     big.NewInt(20),
				Token0IsBase: true,
			}},
		},
		{
			PoolID:    "eno",
			Label:     "ENO",
			Model:     model.ModelTick,
			Value:     decimal.RequireFromString("0.00012345"),
			Timestamp: at,
			State:     model.PoolState{Slot0: &model.PoolTick{SqrtPriceX96: big.NewInt(1), Tick: -90000}},
		},
	}
}

func TestJsonlStorageAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "samples.jsonl")
	store := NewJsonlStorage(path)

	ctx := context.Background()
	if err := store.PutSamples(ctx, testSamples()); err != nil {
		t.Fatalf("put samples: %v", err)
	}
	if err := store.PutSamples(ctx, testSamples()[:1]); err != nil {
		t.Fatalf("put samples: %v", err)
	}
	if err := store.PutSamples(ctx, nil); err != nil {
		t.Fatalf("put empty: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()

	var decoded []model.PriceSample
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var sample model.PriceSample
		if err := json.Unmarshal(scanner.Bytes(), &sample); err != nil {
			t.Fatalf("unmarshal line: %v", err)
		}
		decoded = append(decoded, sample)
	}
	if len(decoded) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(decoded))
	}
	if decoded[0].PoolID != "eth" || !decoded[0].Value.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("first sample mismatch: %+v", decoded[0])
	}
	if decoded[1].State.Slot0 == nil || decoded[1].State.Slot0.Tick != -90000 {
		t.Fatalf("second sample slot0 mismatch: %+v", decoded[1].State)
	}
}
