package dex

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"priceScope/internal/model"
)

func setTokenMeta(t *testing.T, caller *fakeCaller) {
	t.Helper()
	erc20, err := ERC20ABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	tokens := []struct {
		address  common.Address
		decimals uint8
		symbol   string
	}{
		{testWETH, 18, "WETH"},
		{testUSDT, 6, "USDT"},
	}
	for _, token := range tokens {
		if err := caller.set(token.address, erc20, "decimals", token.decimals); err != nil {
			t.Fatalf("pack decimals: %v", err)
		}
		if err := caller.set(token.address, erc20, "symbol", token.symbol); err != nil {
			t.Fatalf("pack symbol: %v", err)
		}
	}
}

func TestInspectPoolDetectsSlot0Pool(t *testing.T) {
	poolABI, err := V3PoolABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	caller := newFakeCaller()
	setTokenMeta(t, caller)
	for method, value := range map[string]interface{}{"token0": testWETH, "token1": testUSDT} {
		if err := caller.set(testPool, poolABI, method, value); err != nil {
			t.Fatalf("pack %s: %v", method, err)
		}
	}
	if err := caller.set(testPool, poolABI, "fee", big.NewInt(500)); err != nil {
		t.Fatalf("pack fee: %v", err)
	}
	sqrtPrice := new(big.Int).Lsh(big.NewInt(1), 96)
	if err := caller.set(testPool, poolABI, "slot0", sqrtPrice, big.NewInt(-100), uint16(0), uint16(1), uint16(1), uint8(0), true); err != nil {
		t.Fatalf("pack slot0: %v", err)
	}

	info, err := InspectPool(context.Background(), caller, testPool, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if info.Model != model.ModelTick {
		t.Fatalf("model mismatch: %s", info.Model)
	}
	if info.Fee != 500 {
		t.Fatalf("fee mismatch: %d", info.Fee)
	}
	if info.State.Slot0 == nil || info.State.Slot0.Tick != -100 {
		t.Fatalf("slot0 mismatch: %+v", info.State)
	}
	if info.Token0.Symbol != "WETH" || info.Token1.Symbol != "USDT" {
		t.Fatalf("token meta mismatch: %+v %+v", info.Token0, info.Token1)
	}

	desc := info.Descriptor("weth", "WETH")
	if desc.DecimalAdjustment != 12 {
		t.Fatalf("decimal adjustment mismatch: %d", desc.DecimalAdjustment)
	}
}

func TestInspectPoolFallsBackToReserves(t *testing.T) {
	parsed := mustPairABI(t)
	caller := newFakeCaller()
	setTokenMeta(t, caller)
	for method, value := range map[string]interface{}{"token0": testWETH, "token1": testUSDT} {
		if err := caller.set(testPair, parsed, method, value); err != nil {
			t.Fatalf("pack %s: %v", method, err)
		}
	}
	reserve0, _ := new(big.Int).SetString("2000000000000000000", 10)
	if err := caller.set(testPair, parsed, "getReserves", reserve0, big.NewInt(6_000_000_000), uint32(1)); err != nil {
		t.Fatalf("pack getReserves: %v", err)
	}

	info, err := InspectPool(context.Background(), caller, testPair, NewTokenMetaCache(), nil)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if info.Model != model.ModelReserveRatio {
		t.Fatalf("model mismatch: %s", info.Model)
	}
	if info.State.Reserves == nil || !info.State.Reserves.Token0IsBase {
		t.Fatalf("reserves mismatch: %+v", info.State)
	}

	desc := info.Descriptor("eth", "ETH")
	if desc.BaseAsset != testWETH.Hex() || desc.BaseDecimals != 18 || desc.QuoteDecimals != 6 {
		t.Fatalf("descriptor mismatch: %+v", desc)
	}
}

func TestInspectPoolRejectsNonPool(t *testing.T) {
	caller := newFakeCaller()
	if _, err := InspectPool(context.Background(), caller, testUSDT, nil, nil); err == nil {
		t.Fatalf("expected error for address without pool methods")
	}
}
