package database

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayhub/booking-backend/internal/models"
)

func TestTransactionRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)

	tx := &models.PaymentTransaction{
		BookingID: "bk-1",
		UserID:    "user-1",
		SessionID: "cs_test_123",
		Amount:    300,
		Currency:  "usd",
		Status:    models.TransactionPending,
		Metadata: models.TransactionMetadata{
			models.MetadataKeyBookingID: "bk-1",
		},
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO payment_transactions`)).
		WithArgs(sqlmock.AnyArg(), tx.BookingID, tx.UserID, tx.SessionID,
			tx.Amount, tx.Currency, tx.Status, tx.Metadata,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(tx)
	require.NoError(t, err)
	assert.NotEmpty(t, tx.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_GetBySessionID(t *testing.T) {
	t.Run("found with metadata", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTransactionRepository(db)

		now := time.Now().UTC()
		rows := sqlmock.NewRows([]string{
			"id", "booking_id", "user_id", "session_id", "amount", "currency",
			"payment_status", "metadata", "created_at", "updated_at",
		}).AddRow("tx-1", "bk-1", "user-1", "cs_test_123", 300.0, "usd",
			"pending", []byte(`{"booking_id":"bk-1","user_id":"user-1"}`), now, now)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).
			WithArgs("cs_test_123").
			WillReturnRows(rows)

		tx, err := repo.GetBySessionID("cs_test_123")
		require.NoError(t, err)
		require.NotNil(t, tx)
		assert.Equal(t, models.TransactionPending, tx.Status)
		assert.Equal(t, "bk-1", tx.Metadata[models.MetadataKeyBookingID])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown session returns nil without error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTransactionRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).
			WithArgs("cs_unknown").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		tx, err := repo.GetBySessionID("cs_unknown")
		require.NoError(t, err)
		assert.Nil(t, tx)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_MarkTerminalIfPending(t *testing.T) {
	t.Run("pending transaction transitions once", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTransactionRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE payment_transactions`)).
			WithArgs(models.TransactionPaid, sqlmock.AnyArg(), "cs_test_123").
			WillReturnResult(sqlmock.NewResult(0, 1))

		updated, err := repo.MarkTerminalIfPending("cs_test_123", models.TransactionPaid)
		require.NoError(t, err)
		assert.True(t, updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("terminal transaction is never overwritten", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTransactionRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE payment_transactions`)).
			WithArgs(models.TransactionFailed, sqlmock.AnyArg(), "cs_test_123").
			WillReturnResult(sqlmock.NewResult(0, 0))

		updated, err := repo.MarkTerminalIfPending("cs_test_123", models.TransactionFailed)
		require.NoError(t, err)
		assert.False(t, updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects non-terminal target status", func(t *testing.T) {
		db, _ := newMockDB(t)
		repo := NewTransactionRepository(db)

		_, err := repo.MarkTerminalIfPending("cs_test_123", models.TransactionPending)
		assert.Error(t, err)
	})
}
