package dex

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"priceScope/internal/model"
)

// FetchReserves reads getReserves and token0 of a pair concurrently and marks
// whether token0 is baseAsset.
func FetchReserves(ctx context.Context, caller Caller, pair, baseAsset common.Address) (model.PoolReserves, error) {
	parsed, err := PairABI()
	if err != nil {
		return model.PoolReserves{}, fmt.Errorf("parse pair abi: %w", err)
	}

	var reserves []interface{}
	var token0 common.Address

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		values, err := callMethod(gctx, caller, pair, parsed, "getReserves", nil)
		if err != nil {
			return err
		}
		reserves = values
		return nil
	})
	g.Go(func() error {
		values, err := callMethod(gctx, caller, pair, parsed, "token0", nil)
		if err != nil {
			return err
		}
		addr, err := asAddress(values[0])
		if err != nil {
			return fmt.Errorf("token0: %w", err)
		}
		token0 = addr
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.PoolReserves{}, err
	}

	if len(reserves) != 3 {
		return model.PoolReserves{}, fmt.Errorf("getReserves: %w: %d outputs", ErrDecode, len(reserves))
	}
	reserve0, err := asBigInt(reserves[0])
	if err != nil {
		return model.PoolReserves{}, fmt.Errorf("reserve0: %w", err)
	}
	reserve1, err := asBigInt(reserves[1])
	if err != nil {
		return model.PoolReserves{}, fmt.Errorf("reserve1: %w", err)
	}
	ts, err := asUint32(reserves[2])
	if err != nil {
		return model.PoolReserves{}, fmt.Errorf("blockTimestampLast: %w", err)
	}

	return model.PoolReserves{
		Reserve0:           reserve0,
		Reserve1:           reserve1,
		BlockTimestampLast: ts,
		Token0:             token0.Hex(),
		Token0IsBase:       token0 == baseAsset,
	}, nil
}

// FetchSlot0 reads the price fields of a pool's slot0.
func FetchSlot0(ctx context.Context, caller Caller, pool common.Address) (model.PoolTick, error) {
	parsed, err := V3PoolABI()
	if err != nil {
		return model.PoolTick{}, fmt.Errorf("parse pool abi: %w", err)
	}

	values, err := callMethod(ctx, caller, pool, parsed, "slot0", nil)
	if err != nil {
		return model.PoolTick{}, err
	}
	if len(values) < 2 {
		return model.PoolTick{}, fmt.Errorf("slot0: %w: %d outputs", ErrDecode, len(values))
	}

	sqrtPrice, err := asBigInt(values[0])
	if err != nil {
		return model.PoolTick{}, fmt.Errorf("sqrtPriceX96: %w", err)
	}
	tickInt, err := asBigInt(values[1])
	if err != nil {
		return model.PoolTick{}, fmt.Errorf("tick: %w", err)
	}
	tick, err := int24FromBig(tickInt)
	if err != nil {
		return model.PoolTick{}, fmt.Errorf("tick: %w", err)
	}

	return model.PoolTick{SqrtPriceX96: sqrtPrice, Tick: tick}, nil
}

// FetchPoolState reads the raw state the pool's model needs.
func FetchPoolState(ctx context.Context, caller Caller, pool model.PoolDescriptor) (model.PoolState, error) {
	if !common.IsHexAddress(pool.Address) {
		return model.PoolState{}, fmt.Errorf("invalid pool address: %s", pool.Address)
	}
	address := common.HexToAddress(pool.Address)

	switch {
	case pool.Model == model.ModelReserveRatio:
		if !common.IsHexAddress(pool.BaseAsset) {
			return model.PoolState{}, fmt.Errorf("invalid base asset: %q", pool.BaseAsset)
		}
		reserves, err := FetchReserves(ctx, caller, address, common.HexToAddress(pool.BaseAsset))
		if err != nil {
			return model.PoolState{}, err
		}
		return model.PoolState{Reserves: &reserves}, nil
	case pool.Model.UsesSlot0():
		slot0, err := FetchSlot0(ctx, caller, address)
		if err != nil {
			return model.PoolState{}, err
		}
		return model.PoolState{Slot0: &slot0}, nil
	default:
		return model.PoolState{}, fmt.Errorf("unsupported pool model: %q", pool.Model)
	}
}

// FetchPairTokens reads token0 and token1. The selectors are shared by V2 pairs
// and V3 pools.
func FetchPairTokens(ctx context.Context, caller Caller, pool common.Address) (common.Address, common.Address, error) {
	parsed, err := PairABI()
	if err != nil {
		return common.Address{}, common.Address{}, fmt.Errorf("parse pair abi: %w", err)
	}

	values, err := callMethod(ctx, caller, pool, parsed, "token0", nil)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	token0, err := asAddress(values[0])
	if err != nil {
		return common.Address{}, common.Address{}, fmt.Errorf("token0: %w", err)
	}

	values, err = callMethod(ctx, caller, pool, parsed, "token1", nil)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	token1, err := asAddress(values[0])
	if err != nil {
		return common.Address{}, common.Address{}, fmt.Errorf("token1: %w", err)
	}

	return token0, token1, nil
}

// FetchPoolFee reads a V3 pool's fee tier in hundredths of a bip.
func FetchPoolFee(ctx context.Context, caller Caller, pool common.Address) (uint32, error) {
	parsed, err := V3PoolABI()
	if err != nil {
		return 0, fmt.Errorf("parse pool abi: %w", err)
	}
	values, err := callMethod(ctx, caller, pool, parsed, "fee", nil)
	if err != nil {
		return 0, err
	}
	fee, err := asUint32(values[0])
	if err != nil {
		return 0, fmt.Errorf("fee: %w", err)
	}
	return fee, nil
}
