package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wallet/internal/drafts"
	apperrors "wallet/internal/errors"
	"wallet/internal/events"
	"wallet/internal/logger"
	"wallet/internal/models"
	"wallet/internal/money"
)

// transactionService saves drafts and keeps each transaction's entries in step.
type transactionService struct {
	db        *gorm.DB
	publisher events.Publisher
}

// NewTransactionService creates a new TransactionServicer. A nil publisher
// discards events.
func NewTransactionService(db *gorm.DB, publisher events.Publisher) TransactionServicer {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &transactionService{
		db:        db,
		publisher: publisher,
	}
}

// Save expands the draft into entries and stores them with the transaction.
func (s *transactionService) Save(ctx context.Context, userID string, draft drafts.TransactionDraft) (*models.Transaction, error) {
	if draft == nil {
		return nil, apperrors.ErrInvalidTransactionType
	}
	result, err := drafts.Build(userID, draft)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if result.CategoryID != nil {
			if _, err := findCategory(tx, userID, *result.CategoryID); err != nil {
				return err
			}
		}
		if err := tx.Create(result).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TransactionCreated, result)
	return result, nil
}

// GetTransactionByID retrieves a transaction with its entries in installment order.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	return loadTransaction(s.db, userID, transactionID)
}

func loadTransaction(db *gorm.DB, userID, transactionID string) (*models.Transaction, error) {
	var tx models.Transaction
	err := db.
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment ASC")
		}).
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tx, nil
}

// UpdateTransaction edits the header of a transaction and, optionally, every
// entry's amount and date. Name, note and category are copied onto the
// entries, installment labels are rebuilt and the total is recomputed.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, update TransactionUpdate) (*models.Transaction, error) {
	var result *models.Transaction
	err := s.db.Transaction(func(db *gorm.DB) error {
		tx, err := loadTransaction(db, userID, transactionID)
		if err != nil {
			return err
		}

		header := drafts.Header{Name: tx.Name, Note: tx.Note, CategoryID: tx.CategoryID}
		if update.Name != nil {
			header.Name = strings.TrimSpace(*update.Name)
		}
		if update.Note != nil {
			header.Note = *update.Note
		}
		if update.CategoryID != nil {
			if *update.CategoryID == "" {
				header.CategoryID = nil
			} else {
				if _, err := findCategory(db, userID, *update.CategoryID); err != nil {
					return err
				}
				id := *update.CategoryID
				header.CategoryID = &id
			}
		}
		if err := drafts.ValidateHeader(header); err != nil {
			return err
		}
		if update.Entries != nil {
			if len(update.Entries) != len(tx.Entries) {
				return apperrors.WithMessage(apperrors.ErrEntryCountMismatch,
					"expected one entry per installment")
			}
			if err := drafts.ValidateLines(tx.Type, update.Entries); err != nil {
				return err
			}
		}

		tx.Name = header.Name
		tx.Note = header.Note
		tx.CategoryID = header.CategoryID

		var total money.Cents
		for i := range tx.Entries {
			e := &tx.Entries[i]
			if update.Entries != nil {
				e.Amount = update.Entries[i].Amount
				e.ReferenceDate = update.Entries[i].ReferenceDate
			}
			e.Name = drafts.EntryName(tx.Type, header.Name, e.Installment, e.TotalInstallments)
			e.Description = header.Note
			e.CategoryID = header.CategoryID
			total += e.Amount.Abs()
		}
		tx.TotalAmount = total
		if len(tx.Entries) > 0 {
			tx.ReferenceDate = tx.Entries[0].ReferenceDate
		}

		if err := db.Omit(clause.Associations).Save(tx).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for i := range tx.Entries {
			tx.Entries[i].TotalAmount = total
			if err := db.Save(&tx.Entries[i]).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		result = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TransactionUpdated, result)
	return result, nil
}

// DeleteTransaction soft-deletes a transaction and all of its entries.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	var deleted *models.Transaction
	err := s.db.Transaction(func(db *gorm.DB) error {
		tx, err := loadTransaction(db, userID, transactionID)
		if err != nil {
			return err
		}
		if err := db.Where("transaction_id = ?", tx.ID).Delete(&models.Entry{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := db.Delete(tx).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		deleted = tx
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.TransactionDeleted, deleted)
	return nil
}

// publish is called after commit. Failures are only logged.
func (s *transactionService) publish(ctx context.Context, t events.Type, tx *models.Transaction) {
	if err := s.publisher.Publish(ctx, events.NewTransactionEvent(t, tx)); err != nil {
		logger.Get().Warnw("failed to publish event",
			"type", t,
			"transaction_id", tx.ID,
			"error", err,
		)
	}
}
