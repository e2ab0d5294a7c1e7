package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"

	"priceScope/internal/model"
)

// poolEntry is the config file shape of one pool.
type poolEntry struct {
	ID                string `mapstructure:"id"`
	Label             string `mapstructure:"label"`
	Address           string `mapstructure:"address"`
	Model             string `mapstructure:"model"`
	BaseAsset         string `mapstructure:"base-asset"`
	BaseDecimals      *int   `mapstructure:"base-decimals"`
	QuoteDecimals     *int   `mapstructure:"quote-decimals"`
	DecimalAdjustment int    `mapstructure:"decimal-adjustment"`
	DisplayDecimals   *int   `mapstructure:"display-decimals"`
}

// DefaultPools are the ETH/USDT pair and the ENO/USDT pool on Arbitrum One.
func DefaultPools() []model.PoolDescriptor {
	return []model.PoolDescriptor{
		{
			ID:              "eth",
			Label:           "ETH",
			Address:         "0x905dfCD5649217c42684f23958568e533C711Aa3",
			Model:           model.ModelReserveRatio,
			BaseAsset:       "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1",
			BaseDecimals:    18,
			QuoteDecimals:   6,
			DisplayDecimals: 2,
		},
		{
			ID:                "eno",
			Label:             "ENO",
			Address:           "0xe5ba76eb3d51f523c80ec6af77c46d0aca82f3e0",
			Model:             model.ModelTick,
			DecimalAdjustment: 12,
			DisplayDecimals:   8,
		},
	}
}

func loadPools(v *viper.Viper) ([]model.PoolDescriptor, error) {
	if !v.IsSet("pools") {
		return DefaultPools(), nil
	}

	var entries []poolEntry
	if err := v.UnmarshalKey("pools", &entries); err != nil {
		return nil, fmt.Errorf("decode pools: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("pools list is empty")
	}

	pools := make([]model.PoolDescriptor, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for i, entry := range entries {
		pool, err := entry.descriptor()
		if err != nil {
			return nil, fmt.Errorf("pools[%d]: %w", i, err)
		}
		if _, ok := seen[pool.ID]; ok {
			return nil, fmt.Errorf("pools[%d]: duplicate id %q", i, pool.ID)
		}
		seen[pool.ID] = struct{}{}
		pools = append(pools, pool)
	}
	return pools, nil
}

func (e poolEntry) descriptor() (model.PoolDescriptor, error) {
	address := strings.TrimSpace(e.Address)
	if !common.IsHexAddress(address) {
		return model.PoolDescriptor{}, fmt.Errorf("invalid address %q", e.Address)
	}
	poolModel, err := model.ParsePoolModel(e.Model)
	if err != nil {
		return model.PoolDescriptor{}, err
	}

	label := strings.TrimSpace(e.Label)
	id := strings.ToLower(strings.TrimSpace(e.ID))
	if id == "" {
		id = strings.ToLower(label)
	}
	if id == "" {
		return model.PoolDescriptor{}, fmt.Errorf("id or label is required")
	}
	if label == "" {
		label = strings.ToUpper(id)
	}

	pool := model.PoolDescriptor{
		ID:                id,
		Label:             label,
		Address:           address,
		Model:             poolModel,
		DecimalAdjustment: e.DecimalAdjustment,
		DisplayDecimals:   intOr(e.DisplayDecimals, 2),
	}
	if pool.DisplayDecimals < 0 {
		return model.PoolDescriptor{}, fmt.Errorf("display-decimals must not be negative")
	}

	if poolModel == model.ModelReserveRatio {
		baseAsset := strings.TrimSpace(e.BaseAsset)
		if !common.IsHexAddress(baseAsset) {
			return model.PoolDescriptor{}, fmt.Errorf("invalid base-asset %q", e.BaseAsset)
		}
		pool.BaseAsset = baseAsset
		if pool.BaseDecimals, err = decimalsOr(e.BaseDecimals, 18, "base-decimals"); err != nil {
			return model.PoolDescriptor{}, err
		}
		if pool.QuoteDecimals, err = decimalsOr(e.QuoteDecimals, 18, "quote-decimals"); err != nil {
			return model.PoolDescriptor{}, err
		}
	}

	return pool, nil
}

func filterPools(pools []model.PoolDescriptor, only []string) ([]model.PoolDescriptor, error) {
	if len(only) == 0 {
		return pools, nil
	}
	byID := make(map[string]model.PoolDescriptor, len(pools))
	for _, pool := range pools {
		byID[pool.ID] = pool
	}
	out := make([]model.PoolDescriptor, 0, len(only))
	for _, id := range only {
		pool, ok := byID[strings.ToLower(id)]
		if !ok {
			return nil, fmt.Errorf("unknown pool id %q", id)
		}
		out = append(out, pool)
	}
	return out, nil
}

func intOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func decimalsOr(value *int, fallback uint8, key string) (uint8, error) {
	if value == nil {
		return fallback, nil
	}
	if *value < 0 || *value > 77 {
		return 0, fmt.Errorf("%s out of range: %d", key, *value)
	}
	return uint8(*value), nil
}
