// Package payments simulates the membership payment flow: plan selection,
// gateway verification with a configurable failure probability, and a
// persisted ledger of processed payments.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tverdon/backline/internal/store"
)

const ledgerKey = "backline:payments"

var (
	ErrVerificationFailed   = errors.New("payment not found or amount mismatch")
	ErrMissingTransactionID = errors.New("transaction id is required")
	ErrMissingMember        = errors.New("member name is required")
	ErrUnknownMethod        = errors.New("unknown payment method")
)

// Method is the payment channel a member pays through.
type Method string

const (
	MethodMTN    Method = "mtn"
	MethodAirtel Method = "airtel"
	MethodBank   Method = "bank"
	MethodCard   Method = "card"
)

// requiresTransactionID reports whether the member must supply a gateway
// transaction id up front. Card payments get one from the gateway itself.
func (m Method) requiresTransactionID() bool {
	switch m {
	case MethodMTN, MethodAirtel, MethodBank:
		return true
	default:
		return false
	}
}

func (m Method) valid() bool {
	switch m {
	case MethodMTN, MethodAirtel, MethodBank, MethodCard:
		return true
	}
	return false
}

// Status is the outcome recorded for a processed payment.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Plan is a membership tier.
type Plan struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Amount      int64  `json:"amount"` // UGX
	Period      string `json:"period"`
	Description string `json:"description"`
}

var plans = map[string]Plan{
	"weekly": {
		Type:        "weekly",
		Name:        "Weekly Pass",
		Amount:      150_000,
		Period:      "week",
		Description: "10 hours of studio time, basic mixing for 2 tracks",
	},
	"monthly": {
		Type:        "monthly",
		Name:        "Monthly Pro",
		Amount:      500_000,
		Period:      "month",
		Description: "50 hours of studio time, unlimited mixing sessions",
	},
	"yearly": {
		Type:        "yearly",
		Name:        "Yearly Elite",
		Amount:      5_000_000,
		Period:      "year",
		Description: "600 hours of studio time, unlimited mixing & mastering",
	},
}

// PlanByType resolves a plan type, falling back to the monthly tier for
// anything unrecognised.
func PlanByType(planType string) Plan {
	if p, ok := plans[strings.ToLower(strings.TrimSpace(planType))]; ok {
		return p
	}
	return plans["monthly"]
}

// Plans lists the membership tiers in ascending price order.
func Plans() []Plan {
	return []Plan{plans["weekly"], plans["monthly"], plans["yearly"]}
}

// ChargeRequest describes one membership payment to process.
type ChargeRequest struct {
	Member        string
	Email         string
	Phone         string
	PlanType      string
	Method        Method
	TransactionID string
}

// Payment is one ledger entry.
type Payment struct {
	ID            string    `json:"id"`
	Reference     string    `json:"reference"`
	Member        string    `json:"member"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Plan          string    `json:"plan"`
	Amount        int64     `json:"amount"`
	Method        Method    `json:"method"`
	TransactionID string    `json:"transactionId"`
	Status        Status    `json:"status"`
	ProcessedAt   time.Time `json:"processedAt"`
}

// Processor verifies membership payments against a simulated gateway and
// records every attempt in the store.
type Processor struct {
	mu       sync.Mutex
	store    *store.Store
	payments []Payment

	rng         *rand.Rand
	wait        func(context.Context, time.Duration) error
	failureRate float64
	minDelay    time.Duration
	maxDelay    time.Duration
}

// Option configures a Processor.
type Option func(*Processor)

// WithRand fixes the verification randomness, for tests.
func WithRand(rng *rand.Rand) Option {
	return func(p *Processor) { p.rng = rng }
}

// WithWait replaces the gateway delay, for tests.
func WithWait(wait func(context.Context, time.Duration) error) Option {
	return func(p *Processor) { p.wait = wait }
}

// WithFailureRate sets the probability that a mobile or bank verification
// fails. Values outside [0, 1] are clamped.
func WithFailureRate(rate float64) Option {
	return func(p *Processor) { p.failureRate = min(1, max(0, rate)) }
}

// WithDelayBounds sets the simulated gateway latency window.
func WithDelayBounds(lo, hi time.Duration) Option {
	return func(p *Processor) {
		if lo > hi {
			lo, hi = hi, lo
		}
		p.minDelay, p.maxDelay = lo, hi
	}
}

func NewProcessor(st *store.Store, opts ...Option) *Processor {
	p := &Processor{
		store:       st,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		failureRate: 0.2,
		minDelay:    2 * time.Second,
		maxDelay:    3 * time.Second,
	}
	p.wait = sleepWait
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func sleepWait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Charge runs one payment through the gateway. The attempt is recorded in
// the ledger whether it verifies or not; a failed verification returns
// ErrVerificationFailed alongside the failed entry.
func (p *Processor) Charge(ctx context.Context, req ChargeRequest) (Payment, error) {
	if strings.TrimSpace(req.Member) == "" {
		return Payment{}, ErrMissingMember
	}
	if !req.Method.valid() {
		return Payment{}, fmt.Errorf("%w: %q", ErrUnknownMethod, req.Method)
	}
	if req.Method.requiresTransactionID() && strings.TrimSpace(req.TransactionID) == "" {
		return Payment{}, ErrMissingTransactionID
	}

	plan := PlanByType(req.PlanType)

	p.mu.Lock()
	delay := p.minDelay
	if span := p.maxDelay - p.minDelay; span > 0 {
		delay += time.Duration(p.rng.Int63n(int64(span)))
	}
	verified := req.Method == MethodCard || p.rng.Float64() >= p.failureRate
	p.mu.Unlock()

	if err := p.wait(ctx, delay); err != nil {
		return Payment{}, err
	}

	pay := Payment{
		ID:            uuid.NewString(),
		Reference:     newReference(),
		Member:        strings.TrimSpace(req.Member),
		Email:         strings.TrimSpace(req.Email),
		Phone:         strings.TrimSpace(req.Phone),
		Plan:          plan.Type,
		Amount:        plan.Amount,
		Method:        req.Method,
		TransactionID: req.TransactionID,
		Status:        StatusCompleted,
		ProcessedAt:   time.Now(),
	}
	if req.Method == MethodCard {
		pay.TransactionID = fmt.Sprintf("CARD_%d", time.Now().UnixMilli())
	}
	if !verified {
		pay.Status = StatusFailed
	}

	if err := p.record(pay); err != nil {
		return Payment{}, err
	}
	if !verified {
		return pay, ErrVerificationFailed
	}
	return pay, nil
}

// Payments returns the ledger, oldest first.
func (p *Processor) Payments() ([]Payment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.refresh(); err != nil {
		return nil, err
	}
	out := make([]Payment, len(p.payments))
	copy(out, p.payments)
	return out, nil
}

// Revenue sums the completed payments.
func (p *Processor) Revenue() (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.refresh(); err != nil {
		return 0, err
	}
	var total int64
	for _, pay := range p.payments {
		if pay.Status == StatusCompleted {
			total += pay.Amount
		}
	}
	return total, nil
}

func (p *Processor) record(pay Payment) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.refresh(); err != nil {
		return err
	}
	p.payments = append(p.payments, pay)
	raw, err := json.Marshal(p.payments)
	if err != nil {
		return fmt.Errorf("encode payment ledger: %w", err)
	}
	return p.store.Write(ledgerKey, string(raw))
}

func (p *Processor) refresh() error {
	raw, ok, err := p.store.Read(ledgerKey)
	if err != nil {
		return err
	}
	if !ok {
		p.payments = nil
		return nil
	}
	var entries []Payment
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Error("payment ledger corrupt, starting empty", "err", err)
		entries = nil
	}
	p.payments = entries
	return nil
}

func newReference() string {
	ms := fmt.Sprintf("%d", time.Now().UnixMilli())
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return "MEM" + ms
}
