package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/docassist/platform/internal/session"
	"github.com/docassist/platform/pkg/logging"
)

var upstreamTracer = otel.Tracer("docassist.internal.upstream")

const defaultTimeout = 20 * time.Second

// Client talks to the external appointment record store. The store is the
// sole arbiter of appointment and payment state; this client never caches
// or infers status on its own.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a record store client.
func NewClient(baseURL string, timeout time.Duration, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// WithBaseURL overrides the record store base URL (for testing).
func (c *Client) WithBaseURL(baseURL string) *Client {
	if baseURL != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
	return c
}

// BookAppointment submits a booking and returns the processor checkout
// session. A returned URL means the booking was initiated, nothing more:
// the store may have created a pending record, and payment has not happened.
func (c *Client) BookAppointment(ctx context.Context, sess session.Session, req BookRequest) (*CheckoutSession, error) {
	ctx, span := upstreamTracer.Start(ctx, "upstream.book_appointment")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("docassist.doctor_id", req.DoctorID),
		attribute.String("docassist.date", req.Date),
	)

	var out CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/appointments", sess, req, &out); err != nil {
		return nil, err
	}
	if out.CheckoutURL == "" {
		return nil, fmt.Errorf("upstream: booking response missing checkout url")
	}
	return &out, nil
}

// VerifyPayment fetches the authoritative state for a payment session.
// The endpoint is public upstream; no token is attached, so callers
// arriving from an external redirect without a session can still verify.
func (c *Client) VerifyPayment(ctx context.Context, sessionID string) (*VerifyResult, error) {
	ctx, span := upstreamTracer.Start(ctx, "upstream.verify_payment")
	defer span.End()
	span.SetAttributes(attribute.String("docassist.session_id", sessionID))

	var out VerifyResult
	if err := c.do(ctx, http.MethodGet, "/payments/verify/"+sessionID, session.Anonymous(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAppointments returns the calling user's raw appointment records.
func (c *Client) ListAppointments(ctx context.Context, sess session.Session) ([]RawAppointment, error) {
	ctx, span := upstreamTracer.Start(ctx, "upstream.list_appointments")
	defer span.End()

	var out []RawAppointment
	if err := c.do(ctx, http.MethodGet, "/appointments", sess, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAllAppointments returns every appointment record (admin scope).
func (c *Client) ListAllAppointments(ctx context.Context, sess session.Session) ([]RawAppointment, error) {
	ctx, span := upstreamTracer.Start(ctx, "upstream.list_all_appointments")
	defer span.End()

	var out []RawAppointment
	if err := c.do(ctx, http.MethodGet, "/appointments/all", sess, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CancelAppointment cancels one appointment and returns the updated record.
func (c *Client) CancelAppointment(ctx context.Context, sess session.Session, appointmentID string) (*RawAppointment, error) {
	ctx, span := upstreamTracer.Start(ctx, "upstream.cancel_appointment")
	defer span.End()
	span.SetAttributes(attribute.String("docassist.appointment_id", appointmentID))

	var out RawAppointment
	if err := c.do(ctx, http.MethodPost, "/appointments/"+appointmentID+"/cancel", sess, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDoctors returns the doctor catalog.
func (c *Client) ListDoctors(ctx context.Context) ([]RawDoctor, error) {
	ctx, span := upstreamTracer.Start(ctx, "upstream.list_doctors")
	defer span.End()

	var out []RawDoctor
	if err := c.do(ctx, http.MethodGet, "/doctors", session.Anonymous(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDoctor returns one doctor record.
func (c *Client) GetDoctor(ctx context.Context, doctorID string) (*RawDoctor, error) {
	ctx, span := upstreamTracer.Start(ctx, "upstream.get_doctor")
	defer span.End()
	span.SetAttributes(attribute.String("docassist.doctor_id", doctorID))

	var out RawDoctor
	if err := c.do(ctx, http.MethodGet, "/doctors/"+doctorID, session.Anonymous(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, sess session.Session, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("upstream: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("upstream: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if sess.Authenticated && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    readErrorDetail(resp.Body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("upstream: decode response: %w", err)
	}
	return nil
}

// readErrorDetail extracts the backend-provided message from an error body.
// The record store uses "detail"; "error" and "message" are accepted for
// forward compatibility.
func readErrorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64*1024))
	if err != nil {
		return ""
	}
	var parsed struct {
		Detail  string `json:"detail"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return ""
	}
	switch {
	case parsed.Detail != "":
		return parsed.Detail
	case parsed.Error != "":
		return parsed.Error
	default:
		return parsed.Message
	}
}
