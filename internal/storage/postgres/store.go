package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"priceScope/internal/model"
)

// Schema creates the tables the store writes to.
const Schema = `
CREATE TABLE IF NOT EXISTS pools (
	pool_id            TEXT PRIMARY KEY,
	label              TEXT NOT NULL,
	pool_address       TEXT NOT NULL,
	model              TEXT NOT NULL,
	base_asset         TEXT,
	base_decimals      SMALLINT NOT NULL,
	quote_decimals     SMALLINT NOT NULL,
	decimal_adjustment INTEGER NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS price_samples (
	id                   BIGSERIAL PRIMARY KEY,
	pool_id              TEXT NOT NULL REFERENCES pools (pool_id),
	sampled_at           TIMESTAMPTZ NOT NULL,
	price                NUMERIC NOT NULL,
	reserve0             NUMERIC,
	reserve1             NUMERIC,
	block_timestamp_last BIGINT,
	tick                 INTEGER,
	sqrt_price_x96       NUMERIC
);

CREATE INDEX IF NOT EXISTS price_samples_pool_time ON price_samples (pool_id, sampled_at DESC);
`

// Store provides Postgres persistence for price samples.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Name() string { return "postgres" }

// EnsureSchema applies Schema.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// UpsertPools inserts or updates pool descriptors.
func (s *Store) UpsertPools(ctx context.Context, pools []model.PoolDescriptor) error {
	if len(pools) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, pool := range pools {
		batch.Queue(`
			INSERT INTO pools (
				pool_id, label, pool_address, model, base_asset, base_decimals, quote_decimals, decimal_adjustment, created_at, updated_at
			) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, now(), now())
			ON CONFLICT (pool_id)
			DO UPDATE SET
				label = EXCLUDED.label,
				pool_address = EXCLUDED.pool_address,
				model = EXCLUDED.model,
				base_asset = EXCLUDED.base_asset,
				base_decimals = EXCLUDED.base_decimals,
				quote_decimals = EXCLUDED.quote_decimals,
				decimal_adjustment = EXCLUDED.decimal_adjustment,
				updated_at = now()
		`,
			pool.ID,
			pool.Label,
			pool.Address,
			string(pool.Model),
			pool.BaseAsset,
			int16(pool.BaseDecimals),
			int16(pool.QuoteDecimals),
			int32(pool.DecimalAdjustment),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range pools {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// PutSamples inserts one row per sample.
func (s *Store) PutSamples(ctx context.Context, samples []model.PriceSample) error {
	if len(samples) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, sample := range samples {
		row := sampleRow(sample)
		batch.Queue(`
			INSERT INTO price_samples (
				pool_id, sampled_at, price, reserve0, reserve1, block_timestamp_last, tick, sqrt_price_x96
			) VALUES ($1, $2, $3::numeric, $4::numeric, $5::numeric, $6, $7, $8::numeric)
		`,
			sample.PoolID,
			sample.Timestamp,
			sample.Value.String(),
			row.reserve0,
			row.reserve1,
			row.blockTimestamp,
			row.tick,
			row.sqrtPrice,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range samples {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

type sampleColumns struct {
	reserve0       *string
	reserve1       *string
	blockTimestamp *int64
	tick           *int32
	sqrtPrice      *string
}

func sampleRow(sample model.PriceSample) sampleColumns {
	var cols sampleColumns
	if r := sample.State.Reserves; r != nil {
		if r.Reserve0 != nil {
			v := r.Reserve0.String()
			cols.reserve0 = &v
		}
		if r.Reserve1 != nil {
			v := r.Reserve1.String()
			cols.reserve1 = &v
		}
		ts := int64(r.BlockTimestampLast)
		cols.blockTimestamp = &ts
	}
	if s0 := sample.State.Slot0; s0 != nil {
		tick := s0.Tick
		cols.tick = &tick
		if s0.SqrtPriceX96 != nil {
			v := s0.SqrtPriceX96.String()
			cols.sqrtPrice = &v
		}
	}
	return cols
}
