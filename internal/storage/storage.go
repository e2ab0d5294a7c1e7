package storage

import (
	"context"

	"priceScope/internal/model"
)

// Sink receives the samples of every successful cycle.
type Sink interface {
	Name() string
	PutSamples(ctx context.Context, samples []model.PriceSample) error
}
