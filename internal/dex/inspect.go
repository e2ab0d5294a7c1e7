package dex

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"priceScope/internal/model"
)

// InspectPool probes an unknown pool: slot0 marks a concentrated-liquidity
// pool, getReserves a constant-product pair. Token metadata goes through cache.
func InspectPool(ctx context.Context, caller Caller, pool common.Address, cache *TokenMetaCache, logger *zap.Logger) (model.PoolInfo, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = NewTokenMetaCache()
	}
	info := model.PoolInfo{Address: pool.Hex()}

	token0, token1, err := FetchPairTokens(ctx, caller, pool)
	if err != nil {
		return info, fmt.Errorf("pool tokens: %w", err)
	}

	slot0, slot0Err := FetchSlot0(ctx, caller, pool)
	switch {
	case slot0Err == nil:
		info.Model = model.ModelTick
		info.State.Slot0 = &slot0
		fee, err := FetchPoolFee(ctx, caller, pool)
		if err != nil {
			logger.Debug("pool fee unavailable", zap.String("pool", pool.Hex()), zap.Error(err))
		}
		info.Fee = fee
	case ctx.Err() != nil:
		return info, ctx.Err()
	default:
		reserves, err := FetchReserves(ctx, caller, pool, token0)
		if err != nil {
			return info, fmt.Errorf("pool exposes neither slot0 (%v) nor getReserves: %w", slot0Err, err)
		}
		info.Model = model.ModelReserveRatio
		info.State.Reserves = &reserves
	}

	if info.Token0, err = cache.Lookup(ctx, caller, token0, logger); err != nil {
		return info, fmt.Errorf("token0 metadata: %w", err)
	}
	if info.Token1, err = cache.Lookup(ctx, caller, token1, logger); err != nil {
		return info, fmt.Errorf("token1 metadata: %w", err)
	}

	return info, nil
}
