package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"nestegg/internal/category"
	"nestegg/internal/core"
)

func testRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nestegg.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	date := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	id, err := repo.CreateTransaction(ctx, core.Transaction{
		UserID:   "user-1",
		Category: category.Food,
		Amount:   -45_000,
		Memo:     "점심",
		Date:     date,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if id == "" {
		t.Fatal("empty id")
	}

	got, err := repo.ListTransactions(ctx, "user-1", date.AddDate(0, -1, 0))
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("transactions = %d, want 1", len(got))
	}
	tx := got[0]
	if tx.ID != id || tx.Category != category.Food || tx.Amount != -45_000 || tx.Memo != "점심" {
		t.Errorf("round trip mismatch: %+v", tx)
	}
	if !tx.Date.Equal(date) {
		t.Errorf("date = %v, want %v", tx.Date, date)
	}
}

func TestListTransactionsWindowAndOrder(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for _, d := range []time.Time{
		time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	} {
		if _, err := repo.CreateTransaction(ctx, core.Transaction{
			UserID: "user-1", Category: category.Food, Amount: -10_000, Date: d,
		}); err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}

	got, err := repo.ListTransactions(ctx, "user-1", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("transactions = %d, want 2", len(got))
	}
	if !got[0].Date.After(got[1].Date) {
		t.Error("expected newest first")
	}
}

func TestCreateTransactionValidates(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.CreateTransaction(context.Background(), core.Transaction{
		UserID: "user-1", Category: category.Food, Date: time.Now(),
	})
	if !errors.Is(err, core.ErrZeroAmount) {
		t.Errorf("err = %v, want ErrZeroAmount", err)
	}
}

func TestGoalRoundTrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	target := time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC)
	id, err := repo.CreateGoal(ctx, core.Goal{
		UserID:        "user-1",
		Name:          "아파트 매매",
		Type:          core.GoalSavings,
		TargetAmount:  300_000_000,
		CurrentAmount: 100_000_000,
		TargetDate:    &target,
	})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	if _, err := repo.CreateGoal(ctx, core.Goal{
		UserID: "user-1", Name: "날짜없음", Type: core.GoalSavings, TargetAmount: 1_000_000,
	}); err != nil {
		t.Fatalf("CreateGoal without date: %v", err)
	}

	got, err := repo.ListGoals(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("goals = %d, want 2", len(got))
	}
	if got[0].ID != id || got[0].TargetDate == nil || !got[0].TargetDate.Equal(target) {
		t.Errorf("goal round trip mismatch: %+v", got[0])
	}
	if got[1].TargetDate != nil {
		t.Errorf("expected nil target date, got %v", got[1].TargetDate)
	}
}

func TestAssetRoundTrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateAsset(ctx, core.Asset{
		UserID: "user-1", Type: core.AssetRealEstate, Name: "아파트", Amount: 300_000_000,
	}); err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}

	got, err := repo.ListAssets(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(got) != 1 || got[0].Type != core.AssetRealEstate || got[0].Amount != 300_000_000 {
		t.Errorf("asset round trip mismatch: %+v", got)
	}
}

func TestProfileUpsert(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if _, err := repo.GetProfile(ctx, "user-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	p := core.Profile{UserID: "user-1", MonthlyIncome: 3_000_000, MonthlyExpense: 2_000_000, CurrentAge: 35, RetirementAge: 65}
	if err := repo.UpsertProfile(ctx, p); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}

	p.MonthlyIncome = 3_500_000
	if err := repo.UpsertProfile(ctx, p); err != nil {
		t.Fatalf("UpsertProfile update: %v", err)
	}

	got, err := repo.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.MonthlyIncome != 3_500_000 {
		t.Errorf("MonthlyIncome = %d, want updated 3500000", got.MonthlyIncome)
	}

	users, err := repo.ListActiveUsers(ctx)
	if err != nil {
		t.Fatalf("ListActiveUsers: %v", err)
	}
	if len(users) != 1 || users[0] != "user-1" {
		t.Errorf("users = %v", users)
	}
}

func TestSnapshotLatestWins(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if _, _, err := repo.LatestSnapshot(ctx, "user-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	if err := repo.SaveSnapshot(ctx, "user-1", 30, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := repo.SaveSnapshot(ctx, "user-1", 30, []byte(`{"v":2}`)); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	payload, at, err := repo.LatestSnapshot(ctx, "user-1")
	if err != nil {
		t.Fatalf("LatestSnapshot: %v", err)
	}
	if string(payload) != `{"v":2}` {
		t.Errorf("payload = %s, want second write", payload)
	}
	if at.IsZero() {
		t.Error("created at not set")
	}
}
