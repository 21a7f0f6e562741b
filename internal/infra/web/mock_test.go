//go:build !integration

package web_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"pluxo-backend/internal/domain"
	"pluxo-backend/internal/domain/model"
	"pluxo-backend/internal/domain/ports/adapter"
	"pluxo-backend/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// ---- in-memory repositories ----

type memPaymentRepo struct {
	mu    sync.Mutex
	store map[string]*model.Payment
}

var _ repository.PaymentRepository = (*memPaymentRepo)(nil)

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{store: make(map[string]*model.Payment)}
}

func (m *memPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPaymentRepo) SetExternalID(ctx context.Context, tx repository.Tx, id, externalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.ExternalID = &externalID
	return nil
}

func (m *memPaymentRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.store[id]; ok {
		p.Status = status
	}
	return nil
}

func (m *memPaymentRepo) ClaimFinished(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok || p.Status == model.PaymentStatusFinished {
		return false, nil
	}
	p.Status = model.PaymentStatusFinished
	return true, nil
}

func (m *memPaymentRepo) MarkFailedIfPending(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok || p.Status != model.PaymentStatusPending {
		return false, nil
	}
	p.Status = model.PaymentStatusFailed
	return true, nil
}

func (m *memPaymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Payment
	for _, p := range m.store {
		if p.Status == model.PaymentStatusPending && p.CreatedAt.Before(olderThan) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memSubscriptionRepo struct {
	mu    sync.Mutex
	store map[string]*model.Subscription
}

var _ repository.SubscriptionRepository = (*memSubscriptionRepo)(nil)

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{store: make(map[string]*model.Subscription)}
}

func (m *memSubscriptionRepo) Upsert(ctx context.Context, tx repository.Tx, sub *model.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.store[sub.UserID] = &cp
	return nil
}

func (m *memSubscriptionRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[userID]
	if !ok || !s.Active || !s.EndsAt.After(time.Now()) {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSubscriptionRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Subscription
	for _, s := range m.store {
		if s.Active {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memSubscriptionRepo) Deactivate(ctx context.Context, tx repository.Tx, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.store[userID]; ok {
		s.Active = false
	}
	return nil
}

func (m *memSubscriptionRepo) DeactivateExpired(ctx context.Context, tx repository.Tx) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	now := time.Now()
	for _, s := range m.store {
		if s.Active && !s.EndsAt.After(now) {
			s.Active = false
			n++
		}
	}
	return n, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	store map[string]*model.User
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[string]*model.User)}
}

func (m *memUserRepo) put(u *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
}

func (m *memUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.User
	for _, u := range m.store {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memUserRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store), nil
}

// ---- gateway, tx manager, limiter, counter ----

type stubGateway struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

var _ adapter.PaymentGateway = (*stubGateway)(nil)

func (g *stubGateway) Name() string { return "nowpayments" }

func (g *stubGateway) CreateInvoice(ctx context.Context, req adapter.InvoiceRequest) (*adapter.Invoice, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.fail {
		return nil, domain.ErrGatewayUnavailable
	}
	return &adapter.Invoice{ExternalID: "900001", CheckoutURL: "https://nowpayments.io/payment?payment_id=900001"}, nil
}

type mockTxManager struct{}

var _ repository.TransactionManager = (*mockTxManager)(nil)

func (m *mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

// stubLimiter denies everything after `limit` calls, no Redis involved.
type stubLimiter struct {
	mu    sync.Mutex
	seen  map[string]int
	limit int
}

func newStubLimiter(limit int) *stubLimiter {
	return &stubLimiter{seen: make(map[string]int), limit: limit}
}

func (l *stubLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[key]++
	max := l.limit
	if max == 0 {
		max = limit
	}
	if l.seen[key] > max {
		return false, window, nil
	}
	return true, 0, nil
}

type memSequenceCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMemSequenceCounter() *memSequenceCounter {
	return &memSequenceCounter{counts: make(map[string]int64)}
}

func (m *memSequenceCounter) Next(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.counts[userID]
	m.counts[userID] = n + 1
	return n, nil
}
