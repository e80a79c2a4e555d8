package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"wallet/internal/drafts"
	"wallet/internal/models"
	"wallet/internal/money"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d.%s@test.com", nextID(), strings.ToLower(gofakeit.FirstName()))
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with a unique name and a random color.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("%s %d", gofakeit.Word(), nextID()),
		Color:  gofakeit.HexColor(),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestDraft builds and stores the transaction a draft expands to.
func CreateTestDraft(t *testing.T, db *gorm.DB, userID string, d drafts.TransactionDraft) *models.Transaction {
	t.Helper()

	tx, err := drafts.Build(userID, d)
	if err != nil {
		t.Fatalf("failed to build test draft: %v", err)
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestExpense stores a simple expense of amount cents on date.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string, amount money.Cents, date time.Time) *models.Transaction {
	t.Helper()
	return CreateTestDraft(t, db, userID, drafts.SimpleExpense{
		Header: drafts.Header{Name: gofakeit.ProductName()},
		Amount: amount,
		Date:   date,
	})
}

// CreateTestIncome stores an income of amount cents on date.
func CreateTestIncome(t *testing.T, db *gorm.DB, userID string, amount money.Cents, date time.Time) *models.Transaction {
	t.Helper()
	return CreateTestDraft(t, db, userID, drafts.Income{
		Header: drafts.Header{Name: gofakeit.JobTitle()},
		Amount: amount,
		Date:   date,
	})
}

// CreateTestInstallment stores an installment plan of count months starting on start.
func CreateTestInstallment(t *testing.T, db *gorm.DB, userID string, amount money.Cents, count int, start time.Time) *models.Transaction {
	t.Helper()
	return CreateTestDraft(t, db, userID, drafts.Installment{
		Header:    drafts.Header{Name: gofakeit.ProductName()},
		Amount:    amount,
		Count:     count,
		StartDate: start,
	})
}
