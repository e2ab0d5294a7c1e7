package model

// PoolInfo is what an on-chain probe learns about a pool address.
type PoolInfo struct {
	Address string    `json:"address"`
	Model   PoolModel `json:"model"`
	Token0  TokenMeta `json:"token0"`
	Token1  TokenMeta `json:"token1"`
	// Fee is in hundredths of a bip and only set for slot0 pools.
	Fee   uint32    `json:"fee,omitempty"`
	State PoolState `json:"state"`
}

// Descriptor derives a pool entry that prices token0 in units of token1.
func (p PoolInfo) Descriptor(id, label string) PoolDescriptor {
	desc := PoolDescriptor{
		ID:              id,
		Label:           label,
		Address:         p.Address,
		Model:           p.Model,
		DisplayDecimals: 8,
	}
	if p.Model == ModelReserveRatio {
		desc.BaseAsset = p.Token0.Address
		desc.BaseDecimals = p.Token0.Decimals
		desc.QuoteDecimals = p.Token1.Decimals
		return desc
	}
	desc.DecimalAdjustment = int(p.Token0.Decimals) - int(p.Token1.Decimals)
	return desc
}
