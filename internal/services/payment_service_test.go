package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bassy1992/tailsandtrails-sub000/internal/domain"
	"github.com/bassy1992/tailsandtrails-sub000/internal/domain/models"
	"github.com/bassy1992/tailsandtrails-sub000/internal/gateway"
	"github.com/bassy1992/tailsandtrails-sub000/internal/repositories"
	"github.com/bassy1992/tailsandtrails-sub000/internal/session"

	"github.com/DATA-DOG/go-sqlmock"
)

type statusStep struct {
	status models.PaymentStatus
	err    error
}

type fakeGateway struct {
	createRes   gateway.CreateResult
	createErr   error
	createCalls int

	statusSeq   []statusStep
	statusCalls int

	completeRes   gateway.CompleteResult
	completeErr   error
	completeCalls int
}

func (f *fakeGateway) Create(ctx context.Context, req gateway.CreateRequest) (gateway.CreateResult, error) {
	f.createCalls++
	return f.createRes, f.createErr
}

func (f *fakeGateway) Status(ctx context.Context, reference string) (gateway.StatusResult, error) {
	step := f.statusSeq[len(f.statusSeq)-1]
	if f.statusCalls < len(f.statusSeq) {
		step = f.statusSeq[f.statusCalls]
	}
	f.statusCalls++
	if step.err != nil {
		return gateway.StatusResult{}, step.err
	}
	return gateway.StatusResult{Reference: reference, Status: step.status, RawStatus: string(step.status)}, nil
}

func (f *fakeGateway) Complete(ctx context.Context, reference string) (gateway.CompleteResult, error) {
	f.completeCalls++
	return f.completeRes, f.completeErr
}

func instantWait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func intentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "reference", "booking_reference", "amount", "currency", "provider",
		"phone_number", "account_name", "status", "redirect_url", "failure_reason",
		"created_at", "updated_at",
	})
}

func expectIntentLookup(mock sqlmock.Sqlmock, reference, status string) {
	mock.ExpectQuery("SELECT id").WithArgs(reference).
		WillReturnRows(intentRows().AddRow(
			1, reference, "TNT-1", 1200.0, "GHS", "mtn",
			"0244000000", "Ama Mensah", status, "", "", "", ""))
}

func newPaymentService(t *testing.T, gw PaymentGateway) (PaymentService, sqlmock.Sqlmock, *session.MemoryStore, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	mock.MatchExpectationsInOrder(false)

	store := session.NewMemoryStore()
	svc := PaymentService{
		PaymentRepo: repositories.PaymentRepository{DB: db},
		BookingRepo: repositories.BookingRepository{DB: db},
		Gateway:     gw,
		Sessions:    store,
		Policy:      PollPolicy{Interval: time.Millisecond, MaxAttempts: 5, Deadline: time.Minute},
		Wait:        instantWait,
	}
	return svc, mock, store, func() { _ = db.Close() }
}

func TestInitiateValidationShortCircuits(t *testing.T) {
	gw := &fakeGateway{}
	svc, _, _, cleanup := newPaymentService(t, gw)
	defer cleanup()

	cases := []models.PaymentRequest{
		{PhoneNumber: "0244000000", AccountName: "Ama", Amount: 100},                          // no provider
		{Provider: "paypal", PhoneNumber: "0244000000", AccountName: "Ama", Amount: 100},      // unknown provider
		{Provider: "mtn", AccountName: "Ama", Amount: 100},                                    // no phone
		{Provider: "mtn", PhoneNumber: "0244000000", Amount: 100},                             // no account name
		{Provider: "mtn", PhoneNumber: "0244000000", AccountName: "Ama", Amount: 0},           // no amount
	}
	for i, req := range cases {
		if _, err := svc.Initiate(context.Background(), req); !domain.IsValidation(err) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
	if gw.createCalls != 0 {
		t.Fatalf("validation failures must never reach the gateway, got %d calls", gw.createCalls)
	}
}

func TestInitiateHostedCheckoutSkipsPolling(t *testing.T) {
	gw := &fakeGateway{createRes: gateway.CreateResult{RedirectURL: "https://checkout.momo.example.com/xyz"}}
	svc, mock, store, cleanup := newPaymentService(t, gw)
	defer cleanup()

	mock.ExpectExec("INSERT INTO payment_intents").
		WillReturnResult(sqlmock.NewResult(1, 1))

	res, err := svc.Initiate(context.Background(), models.PaymentRequest{
		BookingRef: "TNT-1", Amount: 1200, Currency: "GHS",
		Provider: "mtn", PhoneNumber: "024 400 0000", AccountName: "Ama Mensah",
	})
	if err != nil {
		t.Fatalf("initiate failed: %v", err)
	}
	if res.RedirectURL == "" || res.Verifying {
		t.Fatalf("hosted checkout should redirect without verification: %+v", res)
	}
	if _, ok := store.Get(session.KeyPaymentReference); !ok {
		t.Fatalf("reference should be stored for the callback handoff")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyNeverResolvesTerminatesAfterBudget(t *testing.T) {
	gw := &fakeGateway{statusSeq: []statusStep{{status: models.PaymentPending}}}
	svc, mock, _, cleanup := newPaymentService(t, gw)
	defer cleanup()

	expectIntentLookup(mock, "PAY-1", "pending")
	expectIntentLookup(mock, "PAY-1", "pending")
	mock.ExpectExec("UPDATE payment_intents").
		WillReturnResult(sqlmock.NewResult(0, 1))

	out, err := svc.Verify(context.Background(), "PAY-1")
	if err != nil {
		t.Fatalf("verify must not error on exhaustion: %v", err)
	}
	if !out.TimedOut || out.Confirmed {
		t.Fatalf("expected timeout outcome, got %+v", out)
	}
	if out.Attempts != 5 {
		t.Fatalf("expected bounded attempts (5), got %d", out.Attempts)
	}
	if gw.statusCalls != 5 {
		t.Fatalf("polling must stop at the attempt budget, got %d calls", gw.statusCalls)
	}
	if out.Message == "" {
		t.Fatalf("timeout must carry a user-visible message")
	}
}

func TestVerifySuccessConfirmsExactlyOnce(t *testing.T) {
	gw := &fakeGateway{statusSeq: []statusStep{
		{status: models.PaymentPending},
		{status: models.PaymentProcessing},
		{status: models.PaymentSuccessful},
	}}
	svc, mock, store, cleanup := newPaymentService(t, gw)
	defer cleanup()

	store.Put(session.KeyPaymentReference, "PAY-2", 0)

	expectIntentLookup(mock, "PAY-2", "pending")    // Verify entry
	expectIntentLookup(mock, "PAY-2", "pending")    // processing transition guard
	expectIntentLookup(mock, "PAY-2", "processing") // success transition guard
	mock.ExpectExec("UPDATE payment_intents").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE payment_intents").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))

	out, err := svc.Verify(context.Background(), "PAY-2")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !out.Confirmed || out.Status != models.PaymentSuccessful {
		t.Fatalf("expected confirmed success, got %+v", out)
	}
	if out.Attempts != 3 {
		t.Fatalf("expected success on attempt 3, got %d", out.Attempts)
	}

	// stored reference cleared, completed payment handoff recorded
	if _, ok := store.Get(session.KeyPaymentReference); ok {
		t.Fatalf("success must clear the stored reference")
	}
	if ref, ok := store.Get(session.KeyCompletedPaymentData); !ok || ref != "PAY-2" {
		t.Fatalf("completed payment handoff missing, got %q ok=%v", ref, ok)
	}

	// a late repeat Verify sees the terminal intent and must not re-confirm
	expectIntentLookup(mock, "PAY-2", "successful")
	again, err := svc.Verify(context.Background(), "PAY-2")
	if err != nil {
		t.Fatalf("repeat verify failed: %v", err)
	}
	if again.Confirmed || !again.AlreadyTerminal {
		t.Fatalf("duplicate confirmation must not fire: %+v", again)
	}
	if gw.statusCalls != 3 {
		t.Fatalf("terminal intent must not be polled again, got %d calls", gw.statusCalls)
	}
}

func TestVerifyTransportErrorsAreTransient(t *testing.T) {
	gw := &fakeGateway{statusSeq: []statusStep{
		{err: fmt.Errorf("connection reset")},
		{err: fmt.Errorf("gateway 502")},
		{status: models.PaymentSuccessful},
	}}
	svc, mock, _, cleanup := newPaymentService(t, gw)
	defer cleanup()

	expectIntentLookup(mock, "PAY-3", "pending")
	expectIntentLookup(mock, "PAY-3", "pending")
	expectIntentLookup(mock, "PAY-3", "processing")
	mock.ExpectExec("UPDATE payment_intents").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE payment_intents").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))

	out, err := svc.Verify(context.Background(), "PAY-3")
	if err != nil {
		t.Fatalf("transient errors must not surface: %v", err)
	}
	if !out.Confirmed || out.Attempts != 3 {
		t.Fatalf("expected recovery on attempt 3, got %+v", out)
	}
}

func TestVerifyFailedKeepsStoredReference(t *testing.T) {
	gw := &fakeGateway{statusSeq: []statusStep{{status: models.PaymentFailed}}}
	svc, mock, store, cleanup := newPaymentService(t, gw)
	defer cleanup()

	store.Put(session.KeyPaymentReference, "PAY-4", 0)

	expectIntentLookup(mock, "PAY-4", "pending")
	expectIntentLookup(mock, "PAY-4", "pending")
	expectIntentLookup(mock, "PAY-4", "processing")
	mock.ExpectExec("UPDATE payment_intents").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE payment_intents").WillReturnResult(sqlmock.NewResult(0, 1))

	out, err := svc.Verify(context.Background(), "PAY-4")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if out.Status != models.PaymentFailed || out.Confirmed {
		t.Fatalf("expected failed terminal outcome, got %+v", out)
	}

	// user may have authorized out-of-band; the reference stays for retry
	if _, ok := store.Get(session.KeyPaymentReference); !ok {
		t.Fatalf("failed payment must not auto-clear the stored reference")
	}
}

func TestVerifyHonorsCancellation(t *testing.T) {
	gw := &fakeGateway{statusSeq: []statusStep{{status: models.PaymentPending}}}
	svc, mock, _, cleanup := newPaymentService(t, gw)
	defer cleanup()

	expectIntentLookup(mock, "PAY-5", "pending")
	expectIntentLookup(mock, "PAY-5", "pending")
	mock.ExpectExec("UPDATE payment_intents").WillReturnResult(sqlmock.NewResult(0, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := svc.Verify(ctx, "PAY-5")
	if err != nil {
		t.Fatalf("cancellation must degrade to a timeout outcome: %v", err)
	}
	if !out.TimedOut {
		t.Fatalf("expected timed-out outcome on cancellation, got %+v", out)
	}
	if gw.statusCalls > 1 {
		t.Fatalf("cancelled session should stop scheduling polls, got %d", gw.statusCalls)
	}
}

func TestCompleteFailureIsNotSynthesizedAsSuccess(t *testing.T) {
	gw := &fakeGateway{completeErr: fmt.Errorf("completion endpoint down")}
	svc, mock, store, cleanup := newPaymentService(t, gw)
	defer cleanup()

	store.Put(session.KeyPaymentReference, "PAY-6", 0)
	expectIntentLookup(mock, "PAY-6", "pending")

	_, err := svc.Complete(context.Background(), "")
	if err == nil {
		t.Fatalf("completion failure must surface, not synthesize success")
	}
	if _, ok := store.Get(session.KeyCompletedPaymentData); ok {
		t.Fatalf("no completed-payment record may exist after a failed completion")
	}
}

func TestCompleteAfterFailedFlipsIntent(t *testing.T) {
	gw := &fakeGateway{completeRes: gateway.CompleteResult{Reference: "PAY-10", Status: "successful"}}
	svc, mock, store, cleanup := newPaymentService(t, gw)
	defer cleanup()

	// the poll gave up, but the user authorized out-of-band afterwards
	expectIntentLookup(mock, "PAY-10", "failed")
	expectIntentLookup(mock, "PAY-10", "failed")
	mock.ExpectExec("UPDATE payment_intents").
		WithArgs("successful", "", "PAY-10").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))

	out, err := svc.Complete(context.Background(), "PAY-10")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if !out.Confirmed || out.Status != models.PaymentSuccessful {
		t.Fatalf("expected confirmed success, got %+v", out)
	}
	if ref, ok := store.Get(session.KeyCompletedPaymentData); !ok || ref != "PAY-10" {
		t.Fatalf("completed payment handoff missing, got %q ok=%v", ref, ok)
	}

	// the intent write must have gone through; a paid booking with a failed
	// intent would contradict the status endpoint and the confirmation chain
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("intent must flip to successful alongside the booking: %v", err)
	}
}

func TestVerifyExhaustionReportsWithoutTrailingWait(t *testing.T) {
	gw := &fakeGateway{statusSeq: []statusStep{{status: models.PaymentPending}}}
	svc, mock, _, cleanup := newPaymentService(t, gw)
	defer cleanup()

	waits := 0
	svc.Wait = func(ctx context.Context, d time.Duration) error {
		waits++
		return nil
	}

	expectIntentLookup(mock, "PAY-11", "pending")
	expectIntentLookup(mock, "PAY-11", "pending")
	mock.ExpectExec("UPDATE payment_intents").WillReturnResult(sqlmock.NewResult(0, 1))

	out, err := svc.Verify(context.Background(), "PAY-11")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !out.TimedOut || out.Attempts != 5 {
		t.Fatalf("expected exhaustion after 5 attempts, got %+v", out)
	}
	if waits != 4 {
		t.Fatalf("no sleep after the final attempt: expected 4 waits, got %d", waits)
	}
}

func TestCompleteUsesLastKnownReference(t *testing.T) {
	gw := &fakeGateway{completeRes: gateway.CompleteResult{Reference: "PAY-7", Status: "successful"}}
	svc, mock, store, cleanup := newPaymentService(t, gw)
	defer cleanup()

	store.Put(session.KeyPaymentReference, "PAY-7", 0)

	expectIntentLookup(mock, "PAY-7", "pending")
	expectIntentLookup(mock, "PAY-7", "pending")
	mock.ExpectExec("UPDATE payment_intents").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))

	out, err := svc.Complete(context.Background(), "")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if !out.Confirmed {
		t.Fatalf("expected confirmation, got %+v", out)
	}
	if gw.completeCalls != 1 {
		t.Fatalf("expected one completion call, got %d", gw.completeCalls)
	}
}
