package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bassy1992/tailsandtrails-sub000/internal/domain"
	"github.com/bassy1992/tailsandtrails-sub000/internal/domain/models"
	"github.com/bassy1992/tailsandtrails-sub000/internal/gateway"
	"github.com/bassy1992/tailsandtrails-sub000/internal/repositories"
	"github.com/bassy1992/tailsandtrails-sub000/internal/session"
	"github.com/bassy1992/tailsandtrails-sub000/internal/utils"
)

// PaymentGateway is the slice of the mobile-money client the service needs.
type PaymentGateway interface {
	Create(ctx context.Context, req gateway.CreateRequest) (gateway.CreateResult, error)
	Status(ctx context.Context, reference string) (gateway.StatusResult, error)
	Complete(ctx context.Context, reference string) (gateway.CompleteResult, error)
}

var momoProviders = map[string]bool{
	"mtn":        true,
	"vodafone":   true,
	"airteltigo": true,
}

// PollPolicy bounds a verification session. Polls are strictly sequential on
// a fixed interval; there is no backoff.
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts int
	Deadline    time.Duration
}

func (p PollPolicy) withDefaults() PollPolicy {
	if p.Interval <= 0 {
		p.Interval = 3 * time.Second
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 40
	}
	if p.Deadline <= 0 {
		p.Deadline = 5 * time.Minute
	}
	return p
}

// PaymentService drives the payment flow:
// details -> processing -> verifying -> {successful | failed/cancelled | timeout}.
// Cancellation is explicit: every blocking step takes a context, so callers
// stop a polling session deterministically instead of relying on a UI
// lifecycle to abandon timers.
type PaymentService struct {
	PaymentRepo repositories.PaymentRepository
	BookingRepo repositories.BookingRepository
	Gateway     PaymentGateway
	Sessions    session.Store
	Policy      PollPolicy
	RequestID   string

	// Wait is overridable in tests; defaults to a context-aware sleep.
	Wait func(ctx context.Context, d time.Duration) error
}

// InitiateResult is the outcome of payment creation. Exactly one of
// RedirectURL (gateway-hosted checkout, no polling) or Reference (poll it)
// is meaningful.
type InitiateResult struct {
	Reference   string `json:"reference,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Verifying   bool   `json:"verifying"`
}

// Initiate validates the payment details locally, then posts a payment
// intent to the gateway. Validation failures never reach the network.
func (s PaymentService) Initiate(ctx context.Context, req models.PaymentRequest) (InitiateResult, error) {
	if err := validatePaymentRequest(req); err != nil {
		return InitiateResult{}, err
	}

	reference := utils.NewReference("PAY")
	res, err := s.Gateway.Create(ctx, gateway.CreateRequest{
		Reference:   reference,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Provider:    strings.ToLower(strings.TrimSpace(req.Provider)),
		PhoneNumber: utils.NormalizePhone(req.PhoneNumber),
		AccountName: utils.NormalizeSpace(req.AccountName),
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "payment", "initiate", "gateway create failed: "+err.Error())
		return InitiateResult{}, err
	}

	if res.Reference != "" {
		reference = res.Reference
	}

	intent := models.PaymentIntent{
		Reference:   reference,
		BookingRef:  strings.TrimSpace(req.BookingRef),
		Amount:      req.Amount,
		Currency:    req.Currency,
		Provider:    strings.ToLower(strings.TrimSpace(req.Provider)),
		PhoneNumber: utils.NormalizePhone(req.PhoneNumber),
		AccountName: utils.NormalizeSpace(req.AccountName),
		Status:      models.PaymentPending,
		RedirectURL: res.RedirectURL,
	}
	if _, err := s.PaymentRepo.Create(intent); err != nil {
		return InitiateResult{}, domain.InternalError{Msg: "failed to record payment intent", Err: err}
	}

	// keep the active reference for callback/confirmation handoff either way
	if s.Sessions != nil {
		s.Sessions.Put(session.KeyPaymentReference, reference, 30*time.Minute)
	}

	if res.RedirectURL != "" {
		utils.LogEvent(s.RequestID, "payment", "initiate", "hosted checkout redirect issued")
		return InitiateResult{Reference: reference, RedirectURL: res.RedirectURL}, nil
	}

	utils.LogEvent(s.RequestID, "payment", "initiate", "reference issued, verification pending")
	return InitiateResult{Reference: reference, Verifying: true}, nil
}

func validatePaymentRequest(req models.PaymentRequest) error {
	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	if provider == "" {
		return domain.ValidationError{Field: "provider", Msg: "provider is required"}
	}
	if !momoProviders[provider] {
		return domain.ValidationError{Field: "provider", Msg: "unknown mobile-money provider"}
	}
	if utils.NormalizePhone(req.PhoneNumber) == "" {
		return domain.ValidationError{Field: "phone_number", Msg: "phone number is required"}
	}
	if strings.TrimSpace(req.AccountName) == "" {
		return domain.ValidationError{Field: "account_name", Msg: "account name is required"}
	}
	if req.Amount <= 0 {
		return domain.ValidationError{Field: "amount", Msg: "amount must be positive"}
	}
	return nil
}

// PollOutcome is the terminal result of one verification session.
type PollOutcome struct {
	Status          models.PaymentStatus `json:"status"`
	Attempts        int                  `json:"attempts"`
	TimedOut        bool                 `json:"timed_out"`
	Confirmed       bool                 `json:"confirmed"`
	AlreadyTerminal bool                 `json:"already_terminal"`
	Message         string               `json:"message"`
}

// Verify polls the gateway status endpoint until a terminal status, the
// attempt budget, or the deadline. Polls never overlap: each one is issued
// only after the previous response or error resolved. Transport errors are
// transient and consume attempts. The outcome is always non-crashing; an
// exhausted budget yields a timeout outcome, not an error.
func (s PaymentService) Verify(ctx context.Context, reference string) (PollOutcome, error) {
	intent, err := s.PaymentRepo.GetByReference(reference)
	if err != nil {
		return PollOutcome{}, err
	}

	// a terminal intent is done; a repeat Verify must not re-confirm
	if intent.Status.IsTerminal() {
		return PollOutcome{
			Status:          intent.Status,
			AlreadyTerminal: true,
			Message:         terminalMessage(intent.Status),
		}, nil
	}

	policy := s.Policy.withDefaults()
	ctx, cancel := context.WithTimeout(ctx, policy.Deadline)
	defer cancel()

	started := time.Now()
	outcome := PollOutcome{Status: models.PaymentProcessing}

	_ = s.PaymentRepo.UpdateStatus(reference, models.PaymentProcessing, "")

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		outcome.Attempts = attempt

		res, err := s.Gateway.Status(ctx, reference)
		switch {
		case err != nil:
			// transient: retry on the same fixed interval until the budget runs out
			utils.LogEvent(s.RequestID, "payment", "verify",
				fmt.Sprintf("attempt %d transport error: %v", attempt, err))

		case res.Status == models.PaymentSuccessful:
			if err := s.confirmSuccess(reference, intent.BookingRef); err != nil {
				return PollOutcome{}, err
			}
			outcome.Status = models.PaymentSuccessful
			outcome.Confirmed = true
			outcome.Message = "Payment confirmed."
			return outcome, nil

		case res.Status == models.PaymentFailed || res.Status == models.PaymentCancelled:
			// terminal for this attempt; the stored reference is kept because
			// the user may still authorize out-of-band and retry completion
			_ = s.PaymentRepo.UpdateStatus(reference, res.Status, res.Message)
			outcome.Status = res.Status
			outcome.Message = terminalMessage(res.Status)
			return outcome, nil

		default:
			outcome.Status = res.Status
			outcome.Message = utils.HumanElapsed(time.Since(started))
		}

		// the last attempt reports exhaustion immediately, no trailing sleep
		if attempt == policy.MaxAttempts {
			break
		}
		if waitErr := s.wait(ctx, policy.Interval); waitErr != nil {
			return s.timeoutOutcome(outcome), nil
		}
	}

	return s.timeoutOutcome(outcome), nil
}

func (s PaymentService) timeoutOutcome(outcome PollOutcome) PollOutcome {
	outcome.TimedOut = true
	outcome.Message = "We could not confirm your payment in time. If you were charged, please contact support with your reference."
	utils.LogEvent(s.RequestID, "payment", "verify", "verification session exhausted")
	return outcome
}

// confirmSuccess applies the success side effects exactly once. The intent
// flips first and gates everything else: if that write is rejected, no
// booking update or session handoff happens and no confirmation is reported.
func (s PaymentService) confirmSuccess(reference, bookingRef string) error {
	if err := s.PaymentRepo.UpdateStatus(reference, models.PaymentSuccessful, ""); err != nil {
		utils.LogEvent(s.RequestID, "payment", "confirm", "intent update rejected: "+err.Error())
		return err
	}
	if bookingRef != "" {
		if err := s.BookingRepo.UpdatePaymentStatus(bookingRef, "paid"); err != nil {
			utils.LogEvent(s.RequestID, "payment", "confirm", "booking update warning: "+err.Error())
		}
	}
	if s.Sessions != nil {
		s.Sessions.Delete(session.KeyPaymentReference)
		s.Sessions.Put(session.KeyCompletedPaymentData, reference, time.Hour)
	}
	return nil
}

func terminalMessage(status models.PaymentStatus) string {
	switch status {
	case models.PaymentSuccessful:
		return "Payment confirmed."
	case models.PaymentCancelled:
		return "Payment was cancelled. You can try again."
	default:
		return "Payment failed. You can try again."
	}
}

// Complete finalizes a payment via the gateway completion endpoint using the
// last known reference. A completion failure is surfaced as an error; no
// success record is synthesized locally.
func (s PaymentService) Complete(ctx context.Context, reference string) (PollOutcome, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" && s.Sessions != nil {
		reference, _ = s.Sessions.Get(session.KeyPaymentReference)
	}
	if reference == "" {
		return PollOutcome{}, domain.ValidationError{Field: "reference", Msg: "no payment reference to complete"}
	}

	intent, err := s.PaymentRepo.GetByReference(reference)
	if err != nil {
		return PollOutcome{}, err
	}
	if intent.Status == models.PaymentSuccessful {
		return PollOutcome{Status: intent.Status, AlreadyTerminal: true, Message: terminalMessage(intent.Status)}, nil
	}

	res, err := s.Gateway.Complete(ctx, reference)
	if err != nil {
		utils.LogEvent(s.RequestID, "payment", "complete", "gateway completion failed: "+err.Error())
		return PollOutcome{}, err
	}

	status := models.ParsePaymentStatus(res.Status)
	if status != models.PaymentSuccessful {
		_ = s.PaymentRepo.UpdateStatus(reference, status, res.Message)
		return PollOutcome{Status: status, Message: terminalMessage(status)}, nil
	}

	if err := s.confirmSuccess(reference, intent.BookingRef); err != nil {
		return PollOutcome{}, err
	}
	return PollOutcome{Status: models.PaymentSuccessful, Confirmed: true, Message: terminalMessage(status)}, nil
}

func (s PaymentService) wait(ctx context.Context, d time.Duration) error {
	if s.Wait != nil {
		return s.Wait(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
