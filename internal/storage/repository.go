// Package storage persists the record types behind the projection and
// analysis services in SQLite. Money columns hold whole won, dates are
// stored as RFC 3339 text.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"nestegg/internal/category"
	"nestegg/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("storage: not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateTransaction stores a transaction and returns its assigned ID.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", fmt.Errorf("validate transaction: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, category, amount, memo, date, is_recurring, recurring_day, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, string(t.Category), t.Amount, t.Memo,
		t.Date.UTC().Format(time.RFC3339), boolToInt(t.IsRecurring), t.RecurringDay,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("create transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("transaction insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"user_id", t.UserID,
		"category", t.Category,
		"amount", t.Amount)

	return strconv.FormatInt(id, 10), nil
}

// ListTransactions returns a user's transactions dated on or after since,
// newest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string, since time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, category, amount, memo, date, is_recurring, recurring_day
		FROM transactions
		WHERE user_id = ? AND date >= ?
		ORDER BY date DESC, id DESC`,
		userID, since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t         core.Transaction
			id        int64
			cat       string
			date      string
			recurring int64
		)
		if err := rows.Scan(&id, &t.UserID, &cat, &t.Amount, &t.Memo, &date, &recurring, &t.RecurringDay); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.ID = strconv.FormatInt(id, 10)
		t.Category = category.Category(cat)
		t.IsRecurring = recurring != 0
		t.Date, err = time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", date, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// CreateGoal stores a goal and returns its assigned ID.
func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (string, error) {
	if err := g.Validate(); err != nil {
		return "", fmt.Errorf("validate goal: %w", err)
	}

	var targetDate sql.NullString
	if g.TargetDate != nil {
		targetDate = sql.NullString{String: g.TargetDate.UTC().Format(time.RFC3339), Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (user_id, name, type, target_amount, current_amount, target_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.UserID, g.Name, string(g.Type), g.TargetAmount, g.CurrentAmount, targetDate,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("create goal: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("goal insert id: %w", err)
	}

	slog.InfoContext(ctx, "Goal saved", "id", id, "user_id", g.UserID, "name", g.Name)

	return strconv.FormatInt(id, 10), nil
}

// ListGoals returns all of a user's goals, oldest first.
func (r *SQLiteRepository) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, type, target_amount, current_amount, target_date, created_at
		FROM goals
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		var (
			g          core.Goal
			id         int64
			goalType   string
			targetDate sql.NullString
			createdAt  string
		)
		if err := rows.Scan(&id, &g.UserID, &g.Name, &goalType, &g.TargetAmount, &g.CurrentAmount, &targetDate, &createdAt); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.ID = strconv.FormatInt(id, 10)
		g.Type = core.GoalType(goalType)
		if targetDate.Valid {
			d, err := time.Parse(time.RFC3339, targetDate.String)
			if err != nil {
				return nil, fmt.Errorf("parse goal target date %q: %w", targetDate.String, err)
			}
			g.TargetDate = &d
		}
		g.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse goal created at %q: %w", createdAt, err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return out, nil
}

// CreateAsset stores a holding and returns its assigned ID.
func (r *SQLiteRepository) CreateAsset(ctx context.Context, a core.Asset) (string, error) {
	if a.UserID == "" {
		return "", core.ErrEmptyUserID
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO assets (user_id, type, name, amount, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.UserID, string(a.Type), a.Name, a.Amount,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("create asset: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("asset insert id: %w", err)
	}

	return strconv.FormatInt(id, 10), nil
}

// ListAssets returns all of a user's holdings.
func (r *SQLiteRepository) ListAssets(ctx context.Context, userID string) ([]core.Asset, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, type, name, amount
		FROM assets
		WHERE user_id = ?
		ORDER BY id ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var out []core.Asset
	for rows.Next() {
		var (
			a         core.Asset
			id        int64
			assetType string
		)
		if err := rows.Scan(&id, &a.UserID, &assetType, &a.Name, &a.Amount); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		a.ID = strconv.FormatInt(id, 10)
		a.Type = core.AssetType(assetType)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	return out, nil
}

// UpsertProfile stores or replaces a user's simulation profile.
func (r *SQLiteRepository) UpsertProfile(ctx context.Context, p core.Profile) error {
	if p.UserID == "" {
		return core.ErrEmptyUserID
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, monthly_income, monthly_expense, current_age, retirement_age, monthly_pension, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			monthly_income = excluded.monthly_income,
			monthly_expense = excluded.monthly_expense,
			current_age = excluded.current_age,
			retirement_age = excluded.retirement_age,
			monthly_pension = excluded.monthly_pension,
			updated_at = excluded.updated_at`,
		p.UserID, p.MonthlyIncome, p.MonthlyExpense, p.CurrentAge, p.RetirementAge, p.MonthlyPension,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	slog.InfoContext(ctx, "Profile saved", "user_id", p.UserID)
	return nil
}

// GetProfile returns a user's profile or ErrNotFound.
func (r *SQLiteRepository) GetProfile(ctx context.Context, userID string) (core.Profile, error) {
	var p core.Profile
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, monthly_income, monthly_expense, current_age, retirement_age, monthly_pension
		FROM profiles
		WHERE user_id = ?`,
		userID).Scan(&p.UserID, &p.MonthlyIncome, &p.MonthlyExpense, &p.CurrentAge, &p.RetirementAge, &p.MonthlyPension)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Profile{}, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// SaveSnapshot stores a serialized projection result for a user.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, userID string, horizonYears int, payload []byte) error {
	if userID == "" {
		return core.ErrEmptyUserID
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO snapshots (user_id, horizon_years, payload, created_at)
		VALUES (?, ?, ?, ?)`,
		userID, horizonYears, string(payload),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot saved",
		"user_id", userID,
		"horizon_years", horizonYears,
		"payload_bytes", len(payload))
	return nil
}

// LatestSnapshot returns the newest stored projection for a user, or
// ErrNotFound when none has been computed yet.
func (r *SQLiteRepository) LatestSnapshot(ctx context.Context, userID string) ([]byte, time.Time, error) {
	var (
		payload   string
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT payload, created_at
		FROM snapshots
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		userID).Scan(&payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, fmt.Errorf("snapshot for %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("latest snapshot: %w", err)
	}

	at, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("parse snapshot created at %q: %w", createdAt, err)
	}
	return []byte(payload), at, nil
}

// ListActiveUsers returns every user that has a profile, the population
// the nightly snapshot job walks.
func (r *SQLiteRepository) ListActiveUsers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM profiles ORDER BY user_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
