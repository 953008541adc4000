package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event LedgerEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, session_id, timestamp, event_type, actor_id, year, week, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.SessionID, event.Timestamp, event.EventType, event.ActorID,
		event.Year, event.Week, string(payloadBytes),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// ---------------------------------------------------------
// SQLiteWeekRepository
// ---------------------------------------------------------

type SQLiteWeekRepository struct {
	db *sql.DB
}

func NewSQLiteWeekRepository(db *sql.DB) *SQLiteWeekRepository {
	return &SQLiteWeekRepository{db: db}
}

func (r *SQLiteWeekRepository) RecordWeek(ctx context.Context, rec WeekRecord) error {
	query := `
		INSERT INTO weeks (session_id, year, week, income, maintenance, net, capital)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, year, week) DO UPDATE SET
			income=excluded.income,
			maintenance=excluded.maintenance,
			net=excluded.net,
			capital=excluded.capital
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.SessionID, rec.Year, rec.Week, rec.Income, rec.Maintenance, rec.Net, rec.Capital,
	)
	if err != nil {
		return fmt.Errorf("failed to record week: %w", err)
	}
	return nil
}

func (r *SQLiteWeekRepository) ReviewYear(ctx context.Context, sessionID string, year int) (*YearReview, error) {
	review := &YearReview{}
	query := `SELECT COUNT(*), COALESCE(SUM(income), 0), COALESCE(SUM(maintenance), 0) FROM weeks WHERE session_id = ? AND year = ?`
	if err := r.db.QueryRowContext(ctx, query, sessionID, year).Scan(&review.Weeks, &review.TotalIncome, &review.TotalMaintenance); err != nil {
		return nil, err
	}
	if review.Weeks == 0 {
		return review, nil
	}

	best, err := r.pickWeek(ctx, `ORDER BY net DESC, week ASC`, sessionID, year)
	if err != nil {
		return nil, err
	}
	worst, err := r.pickWeek(ctx, `ORDER BY net ASC, week ASC`, sessionID, year)
	if err != nil {
		return nil, err
	}
	review.BestWeek = best
	review.WorstWeek = worst
	return review, nil
}

func (r *SQLiteWeekRepository) pickWeek(ctx context.Context, order string, sessionID string, year int) (*WeekRecord, error) {
	query := `SELECT session_id, year, week, income, maintenance, net, capital FROM weeks WHERE session_id = ? AND year = ? ` + order + ` LIMIT 1`
	var w WeekRecord
	err := r.db.QueryRowContext(ctx, query, sessionID, year).Scan(
		&w.SessionID, &w.Year, &w.Week, &w.Income, &w.Maintenance, &w.Net, &w.Capital,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}
