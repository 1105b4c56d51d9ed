package handlers

import (
	"sync"

	intconfig "github.com/bassy1992/tailsandtrails-sub000/internal/config"
	"github.com/bassy1992/tailsandtrails-sub000/internal/gateway"
	"github.com/bassy1992/tailsandtrails-sub000/internal/services"
	"github.com/bassy1992/tailsandtrails-sub000/internal/session"
)

var (
	depsMu     sync.RWMutex
	momoClient services.PaymentGateway
	sessions   session.Store
	pollPolicy services.PollPolicy
	jwtSecret  []byte
)

// Configure wires the external collaborators once at startup. Tests may call
// it again with fakes.
func Configure(env intconfig.Env) {
	depsMu.Lock()
	defer depsMu.Unlock()

	momoClient = gateway.NewClient(env.GatewayBaseURL, env.GatewayAPIKey)
	sessions = session.NewMemoryStore()
	pollPolicy = services.PollPolicy{
		Interval:    env.PollInterval,
		MaxAttempts: env.PollMaxAttempts,
		Deadline:    env.PollDeadline,
	}
	jwtSecret = []byte(env.JWTSecret)
}

func paymentDeps() (services.PaymentGateway, session.Store, services.PollPolicy) {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return momoClient, sessions, pollPolicy
}

func authSecret() []byte {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return jwtSecret
}
