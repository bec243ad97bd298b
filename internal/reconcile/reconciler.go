package reconcile

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/docassist/platform/internal/appointments"
	"github.com/docassist/platform/internal/session"
	"github.com/docassist/platform/internal/upstream"
	"github.com/docassist/platform/pkg/logging"
)

var reconcileTracer = otel.Tracer("docassist.internal.reconcile")

// User-facing messages for each resolved state.
const (
	msgUnverified = "Thanks for your visit. If you completed a payment, your appointment will appear in your appointments list shortly."
	msgProcessing = "Your payment is being processed. Your appointment will be confirmed shortly; check your appointments list in a moment."
	msgConfirmed  = "Appointment confirmed. Your payment was received and your appointment is booked."
	msgFailed     = "We could not verify your payment right now. Please check your appointments list, or try this page again."
)

// Reconciler resolves the authoritative state of a payment return.
type Reconciler struct {
	client *upstream.Client
	audit  *AuditStore
	logger *logging.Logger
	now    func() time.Time
}

// NewReconciler creates a reconciler. The audit store is optional; a
// nil store disables the audit trail.
func NewReconciler(client *upstream.Client, audit *AuditStore, logger *logging.Logger) *Reconciler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Reconciler{
		client: client,
		audit:  audit,
		logger: logger,
		now:    time.Now,
	}
}

// Resolve classifies a payment return. Authentication is optional: an
// anonymous visitor still gets a verified outcome, only without the
// appointment detail lookup. Resolving the same session id twice
// against an unchanged backend yields the same classification.
func (r *Reconciler) Resolve(ctx context.Context, sess session.Session, sessionID string) Outcome {
	ctx, span := reconcileTracer.Start(ctx, "reconcile.Resolve")
	defer span.End()

	if sessionID == "" {
		span.SetAttributes(attribute.String("reconcile.state", StateUnverified.String()))
		return Outcome{State: StateUnverified, Message: msgUnverified}
	}
	span.SetAttributes(attribute.String("reconcile.session_id", sessionID))

	verify, err := r.client.VerifyPayment(ctx, sessionID)
	if err != nil {
		r.logger.Error("payment verification failed", "session_id", sessionID, "error", err)
		out := Outcome{State: StateFailed, SessionID: sessionID, Message: msgFailed}
		r.record(ctx, sess, out)
		span.SetAttributes(attribute.String("reconcile.state", out.State.String()))
		return out
	}

	out := Outcome{
		SessionID:         sessionID,
		PaymentStatus:     verify.PaymentStatus,
		AppointmentStatus: verify.AppointmentStatus,
		AppointmentPaid:   verify.AppointmentPaid,
	}

	// Both signals must agree before the return reads as success.
	if verify.PaymentStatus == "paid" && verify.AppointmentPaid {
		out.State = StateConfirmed
		out.Message = msgConfirmed
		out.Appointment = r.lookupDetail(ctx, sess)
	} else {
		out.State = StateProcessing
		out.Message = msgProcessing
	}

	r.record(ctx, sess, out)
	span.SetAttributes(attribute.String("reconcile.state", out.State.String()))
	return out
}

// lookupDetail attaches the soonest upcoming appointment for
// authenticated visitors. Anonymous visitors never trigger a protected
// fetch, and failures only cost the detail.
func (r *Reconciler) lookupDetail(ctx context.Context, sess session.Session) *appointments.Appointment {
	if !sess.Authenticated {
		return nil
	}
	raws, err := r.client.ListAppointments(ctx, sess)
	if err != nil {
		r.logger.Warn("appointment detail lookup failed", "error", err)
		return nil
	}
	soonest := appointments.UpcomingSoonest(appointments.FromRawList(raws), r.now(), 1)
	if len(soonest) == 0 {
		return nil
	}
	return &soonest[0]
}

func (r *Reconciler) record(ctx context.Context, sess session.Session, out Outcome) {
	if r.audit == nil {
		return
	}
	if err := r.audit.Record(ctx, VerificationRecord{
		SessionID:         out.SessionID,
		Outcome:           out.State.String(),
		PaymentStatus:     out.PaymentStatus,
		AppointmentStatus: out.AppointmentStatus,
		AppointmentPaid:   out.AppointmentPaid,
		UserID:            sess.UserID,
	}); err != nil {
		r.logger.Warn("failed to record verification", "session_id", out.SessionID, "error", err)
	}
}
