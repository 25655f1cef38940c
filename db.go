package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// sqliteStore is the local SummaryStore backend. Both tables are
// append-only; "latest" means highest rowid, i.e. insertion order.
type sqliteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*sqliteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS order_details (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id    TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		currency    TEXT NOT NULL,
		total_major TEXT NOT NULL,
		week_label  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_order_details_week ON order_details(week_label);

	CREATE TABLE IF NOT EXISTS weekly_summaries (
		id                    INTEGER PRIMARY KEY AUTOINCREMENT,
		week_label            TEXT NOT NULL UNIQUE,
		start_date            TEXT NOT NULL,
		end_date              TEXT NOT NULL,
		total_revenue_dkk     TEXT NOT NULL,
		total_revenue_usd     TEXT NOT NULL,
		total_revenue_eur     TEXT NOT NULL,
		order_count           INTEGER NOT NULL,
		dkk_orders            INTEGER NOT NULL,
		usd_orders            INTEGER NOT NULL,
		eur_orders            INTEGER NOT NULL,
		prev_week_revenue_dkk TEXT,
		total_revenue_gbp     TEXT NOT NULL,
		gbp_orders            INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func (s *sqliteStore) AppendOrderRows(ctx context.Context, orders []Order, weekLabel string) error {
	if len(orders) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO order_details (order_id, created_at, currency, total_major, week_label)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range orders {
		_, err := stmt.ExecContext(ctx,
			o.ID, o.CreatedAt.UTC().Format(time.RFC3339),
			orderRowCurrency(o), orderRowTotalMajor(o).String(), weekLabel,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) AppendSummary(ctx context.Context, summary WeeklySummary) error {
	var prev sql.NullString
	if summary.PrevWeekRevenueDKK != nil {
		prev = sql.NullString{String: summary.PrevWeekRevenueDKK.String(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO weekly_summaries
		 (week_label, start_date, end_date, total_revenue_dkk, total_revenue_usd, total_revenue_eur,
		  order_count, dkk_orders, usd_orders, eur_orders, prev_week_revenue_dkk, total_revenue_gbp, gbp_orders)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.WeekLabel,
		summary.StartDate.UTC().Format(time.RFC3339),
		summary.EndDate.UTC().Format(time.RFC3339),
		summary.TotalRevenueDKK.String(),
		summary.TotalRevenueUSD.String(),
		summary.TotalRevenueEUR.String(),
		summary.OrderCount,
		summary.DKKOrders,
		summary.USDOrders,
		summary.EUROrders,
		prev,
		summary.TotalRevenueGBP.String(),
		summary.GBPOrders,
	)
	return err
}

const summaryColumns = `week_label, start_date, end_date, total_revenue_dkk, total_revenue_usd, total_revenue_eur,
	order_count, dkk_orders, usd_orders, eur_orders, prev_week_revenue_dkk, total_revenue_gbp, gbp_orders`

func (s *sqliteStore) SummaryByLabel(ctx context.Context, label string) (*WeeklySummary, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+summaryColumns+` FROM weekly_summaries WHERE week_label = ?`, label)
	return scanSummary(row)
}

func (s *sqliteStore) LatestSummary(ctx context.Context) (*WeeklySummary, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+summaryColumns+` FROM weekly_summaries ORDER BY id DESC LIMIT 1`)
	return scanSummary(row)
}

func scanSummary(row *sql.Row) (*WeeklySummary, error) {
	var summary WeeklySummary
	var startDate, endDate string
	var totalDKK, totalUSD, totalEUR, totalGBP string
	var prev sql.NullString

	err := row.Scan(
		&summary.WeekLabel, &startDate, &endDate,
		&totalDKK, &totalUSD, &totalEUR,
		&summary.OrderCount, &summary.DKKOrders, &summary.USDOrders, &summary.EUROrders,
		&prev, &totalGBP, &summary.GBPOrders,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if summary.StartDate, err = time.Parse(time.RFC3339, startDate); err != nil {
		return nil, fmt.Errorf("parsing start_date %q: %w", startDate, err)
	}
	if summary.EndDate, err = time.Parse(time.RFC3339, endDate); err != nil {
		return nil, fmt.Errorf("parsing end_date %q: %w", endDate, err)
	}

	if summary.TotalRevenueDKK, err = decimal.NewFromString(totalDKK); err != nil {
		return nil, fmt.Errorf("parsing total_revenue_dkk %q: %w", totalDKK, err)
	}
	if summary.TotalRevenueUSD, err = decimal.NewFromString(totalUSD); err != nil {
		return nil, fmt.Errorf("parsing total_revenue_usd %q: %w", totalUSD, err)
	}
	if summary.TotalRevenueEUR, err = decimal.NewFromString(totalEUR); err != nil {
		return nil, fmt.Errorf("parsing total_revenue_eur %q: %w", totalEUR, err)
	}
	if summary.TotalRevenueGBP, err = decimal.NewFromString(totalGBP); err != nil {
		return nil, fmt.Errorf("parsing total_revenue_gbp %q: %w", totalGBP, err)
	}

	if prev.Valid {
		prevRevenue, err := decimal.NewFromString(prev.String)
		if err != nil {
			return nil, fmt.Errorf("parsing prev_week_revenue_dkk %q: %w", prev.String, err)
		}
		summary.PrevWeekRevenueDKK = &prevRevenue
	}

	return &summary, nil
}
