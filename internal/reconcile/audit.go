package reconcile

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VerificationRecord is one resolved payment return, kept for support
// lookups when a patient asks what happened to their payment.
type VerificationRecord struct {
	SessionID         string
	Outcome           string
	PaymentStatus     string
	AppointmentStatus string
	AppointmentPaid   bool
	UserID            string
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AuditStore persists verification records.
type AuditStore struct {
	pool execer
}

func NewAuditStore(pool *pgxpool.Pool) *AuditStore {
	if pool == nil {
		panic("reconcile: pgx pool required")
	}
	return &AuditStore{pool: pool}
}

func newAuditStoreWithExec(exec execer) *AuditStore {
	if exec == nil {
		panic("reconcile: exec required")
	}
	return &AuditStore{pool: exec}
}

// Record inserts a verification record.
func (s *AuditStore) Record(ctx context.Context, rec VerificationRecord) error {
	query := `
		INSERT INTO payment_verifications (session_id, outcome, payment_status, appointment_status, appointment_paid, user_id)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
	`
	if _, err := s.pool.Exec(ctx, query,
		rec.SessionID, rec.Outcome, rec.PaymentStatus, rec.AppointmentStatus, rec.AppointmentPaid, rec.UserID,
	); err != nil {
		return fmt.Errorf("reconcile: record verification: %w", err)
	}
	return nil
}
