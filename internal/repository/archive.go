package repository

import (
	"context"
	"fmt"
	"time"

	"MarketBrief/internal/domain/models"
	"MarketBrief/pkg/clickhouse"
	"MarketBrief/pkg/logger"
	"MarketBrief/pkg/util"
)

// Schema statements are idempotent; InitSchema runs them on startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS snapshot_quotes (
		as_of DateTime,
		day Date,
		symbol String,
		last Float64,
		prev Float64,
		pct Float64
	) ENGINE = ReplacingMergeTree
	PARTITION BY toYYYYMM(day)
	ORDER BY (day, symbol)`,
	`CREATE TABLE IF NOT EXISTS pulse_items (
		as_of DateTime,
		day Date,
		key String,
		title String,
		label String,
		delta_pct Float64,
		value Float64,
		time_period String
	) ENGINE = ReplacingMergeTree
	PARTITION BY toYYYYMM(day)
	ORDER BY (day, key)`,
}

// ClickHouseArchive persists daily snapshots and pulse items for later
// analysis. Writes are row-at-a-time inside one transaction; volumes are a
// few dozen rows per day.
type ClickHouseArchive struct {
	client *clickhouse.Client
	log    *logger.Logger
}

func NewClickHouseArchive(ctx context.Context, client *clickhouse.Client, log *logger.Logger) (*ClickHouseArchive, error) {
	if err := client.InitSchema(ctx, schemaStatements); err != nil {
		return nil, fmt.Errorf("archive schema: %w", err)
	}
	return &ClickHouseArchive{client: client, log: log}, nil
}

func (a *ClickHouseArchive) SaveSnapshotRows(ctx context.Context, asOf string, tickers map[string]models.TickerQuote) error {
	if len(tickers) == 0 {
		return nil
	}
	ts := util.ParseTimeDefault(asOf, time.Now().UTC())
	day := util.DayKey(ts)

	tx, err := a.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("archive begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO snapshot_quotes (as_of, day, symbol, last, prev, pct) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("archive prepare: %w", err)
	}
	defer stmt.Close()

	for symbol, q := range tickers {
		if _, err := stmt.ExecContext(ctx, ts, day, symbol, q.Last, q.Prev, q.Pct); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("archive insert %s: %w", symbol, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("archive commit: %w", err)
	}

	a.log.Debug("snapshot archived", logger.Int("rows", len(tickers)), logger.String("day", day))
	return nil
}

func (a *ClickHouseArchive) SavePulseItems(ctx context.Context, items []models.RiskPulseItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := a.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("archive begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO pulse_items (as_of, day, key, title, label, delta_pct, value, time_period) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("archive prepare: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		ts := util.ParseTimeDefault(item.AsOf, time.Now().UTC())
		if _, err := stmt.ExecContext(ctx, ts, util.DayKey(ts), item.Key, item.Title, item.Label,
			item.DeltaPct, item.Value, item.TimePeriod); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("archive insert %s: %w", item.Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("archive commit: %w", err)
	}
	return nil
}
