package services

import (
	"context"
	"testing"

	"wallet/internal/drafts"
	"wallet/internal/events"
	"wallet/internal/models"
	"wallet/internal/money"
	"wallet/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("simple_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		rec := &events.Recorder{}
		svc := NewTransactionService(db, rec)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		tx, err := svc.Save(ctx, user.ID, drafts.SimpleExpense{
			Header: drafts.Header{Name: "Coffee", Note: "flat white", CategoryID: &cat.ID},
			Amount: 450,
			Date:   day(2024, 7, 2),
		})
		testutil.AssertNoError(t, err)

		if tx.TotalAmount != 450 || len(tx.Entries) != 1 {
			t.Fatalf("unexpected transaction %+v", tx)
		}
		e := tx.Entries[0]
		if e.Amount != -450 || e.Period != "202407" || e.Description != "flat white" {
			t.Errorf("unexpected entry %+v", e)
		}
		if e.CategoryID == nil || *e.CategoryID != cat.ID {
			t.Error("entry should carry the category")
		}

		got := rec.Events()
		if len(got) != 1 || got[0].Type != events.TransactionCreated || got[0].TransactionID != tx.ID {
			t.Errorf("unexpected events %+v", got)
		}
	})

	t.Run("income", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.Save(ctx, user.ID, drafts.Income{
			Header: drafts.Header{Name: "Salary"},
			Amount: 520000,
			Date:   day(2024, 7, 5),
		})
		testutil.AssertNoError(t, err)
		if tx.Entries[0].Amount != 520000 {
			t.Errorf("income amount should be positive, got %s", tx.Entries[0].Amount)
		}
	})

	t.Run("installment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.Save(ctx, user.ID, drafts.Installment{
			Header:    drafts.Header{Name: "Laptop"},
			Amount:    100000,
			Count:     3,
			StartDate: day(2024, 1, 31),
		})
		testutil.AssertNoError(t, err)

		stored, err := svc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertNoError(t, err)
		if len(stored.Entries) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(stored.Entries))
		}
		wantAmounts := []money.Cents{-33334, -33333, -33333}
		wantPeriods := []string{"202401", "202402", "202403"}
		for i, e := range stored.Entries {
			if e.Installment != i+1 || e.Amount != wantAmounts[i] || e.Period != wantPeriods[i] {
				t.Errorf("entry %d: got installment=%d amount=%s period=%s", i, e.Installment, e.Amount, e.Period)
			}
		}
		if stored.Entries[1].ReferenceDate.Day() != 29 {
			t.Errorf("february installment should clamp to the 29th, got %v", stored.Entries[1].ReferenceDate)
		}
		if stored.Entries[2].Name != "Laptop (3/3)" {
			t.Errorf("unexpected label %q", stored.Entries[2].Name)
		}
	})

	t.Run("unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		rec := &events.Recorder{}
		svc := NewTransactionService(db, rec)
		user := testutil.CreateTestUser(t, db)
		foreign := testutil.CreateTestCategory(t, db, testutil.CreateTestUser(t, db).ID)

		_, err := svc.Save(ctx, user.ID, drafts.SimpleExpense{
			Header: drafts.Header{Name: "Lunch", CategoryID: &foreign.ID},
			Amount: 1000,
			Date:   day(2024, 7, 2),
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

		var count int64
		db.Model(&models.Entry{}).Count(&count)
		if count != 0 {
			t.Errorf("expected no entries after failed save, got %d", count)
		}
		if len(rec.Events()) != 0 {
			t.Error("no event should be published for a failed save")
		}
	})

	t.Run("invalid_draft", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Save(ctx, user.ID, drafts.SimpleExpense{Header: drafts.Header{Name: "Zero"}, Date: day(2024, 7, 2)})
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")

		_, err = svc.Save(ctx, user.ID, drafts.Installment{
			Header: drafts.Header{Name: "One"}, Amount: 100, Count: 1, StartDate: day(2024, 7, 2),
		})
		testutil.AssertAppError(t, err, "INVALID_INSTALLMENT_COUNT")

		_, err = svc.Save(ctx, user.ID, nil)
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})
}

func TestGetTransactionByID_OtherUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db, nil)

	owner := testutil.CreateTestUser(t, db)
	tx := testutil.CreateTestExpense(t, db, owner.ID, 100, day(2024, 1, 1))

	_, err := svc.GetTransactionByID(testutil.CreateTestUser(t, db).ID, tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("header_propagates_to_entries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		rec := &events.Recorder{}
		svc := NewTransactionService(db, rec)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		tx := testutil.CreateTestInstallment(t, db, user.ID, 9000, 3, day(2024, 2, 10))

		updated, err := svc.UpdateTransaction(ctx, user.ID, tx.ID, TransactionUpdate{
			Name:       strPtr("Sofa"),
			Note:       strPtr("living room"),
			CategoryID: &cat.ID,
		})
		testutil.AssertNoError(t, err)

		if updated.Name != "Sofa" || updated.TotalAmount != 9000 {
			t.Errorf("unexpected transaction %+v", updated)
		}

		stored, err := svc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertNoError(t, err)
		for i, e := range stored.Entries {
			if want := drafts.EntryName(models.EntryTypeInstallment, "Sofa", i+1, 3); e.Name != want {
				t.Errorf("entry %d: expected name %q, got %q", i, want, e.Name)
			}
			if e.Description != "living room" {
				t.Errorf("entry %d: expected note on entry, got %q", i, e.Description)
			}
			if e.CategoryID == nil || *e.CategoryID != cat.ID {
				t.Errorf("entry %d: category not propagated", i)
			}
		}

		got := rec.Events()
		if len(got) != 2 || got[1].Type != events.TransactionUpdated {
			t.Errorf("expected created then updated events, got %+v", got)
		}
	})

	t.Run("clear_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		tx, err := svc.Save(ctx, user.ID, drafts.SimpleExpense{
			Header: drafts.Header{Name: "Taxi", CategoryID: &cat.ID}, Amount: 2500, Date: day(2024, 4, 4),
		})
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateTransaction(ctx, user.ID, tx.ID, TransactionUpdate{CategoryID: strPtr("")})
		testutil.AssertNoError(t, err)
		if updated.CategoryID != nil || updated.Entries[0].CategoryID != nil {
			t.Error("expected category to be cleared")
		}
	})

	t.Run("entries_recompute_total_and_period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)
		user := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestInstallment(t, db, user.ID, 9000, 3, day(2024, 2, 10))

		updated, err := svc.UpdateTransaction(ctx, user.ID, tx.ID, TransactionUpdate{
			Entries: []drafts.Line{
				{Amount: -5000, ReferenceDate: day(2024, 3, 1)},
				{Amount: -2500, ReferenceDate: day(2024, 4, 1)},
				{Amount: -2500, ReferenceDate: day(2024, 5, 1)},
			},
		})
		testutil.AssertNoError(t, err)

		if updated.TotalAmount != 10000 {
			t.Errorf("expected total 100.00, got %s", updated.TotalAmount)
		}
		if !updated.ReferenceDate.Equal(day(2024, 3, 1)) {
			t.Errorf("expected reference date to follow the first entry, got %v", updated.ReferenceDate)
		}

		stored, err := svc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertNoError(t, err)
		if stored.Entries[0].Period != "202403" || stored.Entries[2].Period != "202405" {
			t.Errorf("periods not recomputed: %s %s", stored.Entries[0].Period, stored.Entries[2].Period)
		}
		for _, e := range stored.Entries {
			if e.TotalAmount != 10000 {
				t.Errorf("entry %d: expected total_amount 100.00, got %s", e.Installment, e.TotalAmount)
			}
		}
	})

	t.Run("entry_count_mismatch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)
		user := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestInstallment(t, db, user.ID, 9000, 3, day(2024, 2, 10))

		_, err := svc.UpdateTransaction(ctx, user.ID, tx.ID, TransactionUpdate{
			Entries: []drafts.Line{{Amount: -9000, ReferenceDate: day(2024, 2, 10)}},
		})
		testutil.AssertAppError(t, err, "ENTRY_COUNT_MISMATCH")
	})

	t.Run("sign_mismatch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)
		user := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestExpense(t, db, user.ID, 1000, day(2024, 2, 10))

		_, err := svc.UpdateTransaction(ctx, user.ID, tx.ID, TransactionUpdate{
			Entries: []drafts.Line{{Amount: 1000, ReferenceDate: day(2024, 2, 10)}},
		})
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)
		user := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestExpense(t, db, user.ID, 1000, day(2024, 2, 10))

		_, err := svc.UpdateTransaction(ctx, user.ID, tx.ID, TransactionUpdate{Name: strPtr("  ")})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, nil)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateTransaction(ctx, user.ID, "01900000-0000-7000-8000-000000000000", TransactionUpdate{Name: strPtr("x")})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	rec := &events.Recorder{}
	svc := NewTransactionService(db, rec)
	entries := NewEntryService(db)
	user := testutil.CreateTestUser(t, db)

	tx := testutil.CreateTestInstallment(t, db, user.ID, 6000, 2, day(2024, 8, 1))
	keep := testutil.CreateTestExpense(t, db, user.ID, 700, day(2024, 8, 2))

	testutil.AssertNoError(t, svc.DeleteTransaction(ctx, user.ID, tx.ID))

	result, err := entries.ListEntries(user.ID, EntryQuery{})
	testutil.AssertNoError(t, err)
	remaining := result.Items("entries")
	if len(remaining) != 1 || remaining[0].TransactionID != keep.ID {
		t.Errorf("expected only the other transaction's entry to remain, got %+v", remaining)
	}

	var softDeleted int64
	db.Unscoped().Model(&models.Entry{}).Where("transaction_id = ? AND deleted_at IS NOT NULL", tx.ID).Count(&softDeleted)
	if softDeleted != 2 {
		t.Errorf("expected 2 soft-deleted entries, got %d", softDeleted)
	}

	got := rec.Events()
	if len(got) != 1 || got[0].Type != events.TransactionDeleted || got[0].Entries != 2 {
		t.Errorf("unexpected events %+v", got)
	}

	t.Run("second_delete_not_found", func(t *testing.T) {
		err := svc.DeleteTransaction(ctx, user.ID, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}
