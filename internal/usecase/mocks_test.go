// File: internal/usecase/mocks_test.go
package usecase_test

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

func farFuture() time.Time { return time.Now().Add(24 * time.Hour) }

// newTestLogger creates a silent zerolog.Logger so test output stays clean.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// ---- Mock PaymentRepository ----

type MockPaymentRepo struct {
	mu    sync.Mutex
	store map[string]*model.Payment

	SaveFunc          func(ctx context.Context, tx repository.Tx, p *model.Payment) error
	FindByIDFunc      func(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error)
	SetExternalIDFunc func(ctx context.Context, tx repository.Tx, id, externalID string) error
	UpdateStatusFunc  func(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus) error
	ClaimFinishedFunc func(ctx context.Context, tx repository.Tx, id string) (bool, error)
}

var _ repository.PaymentRepository = (*MockPaymentRepo)(nil)

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{store: make(map[string]*model.Payment)}
}

func (m *MockPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MockPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPaymentRepo) SetExternalID(ctx context.Context, tx repository.Tx, id, externalID string) error {
	if m.SetExternalIDFunc != nil {
		return m.SetExternalIDFunc(ctx, tx, id, externalID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.ExternalID = &externalID
	return nil
}

func (m *MockPaymentRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.store[id]; ok {
		p.Status = status
		p.UpdatedAt = time.Now()
	}
	// zero rows matched is not an error
	return nil
}

func (m *MockPaymentRepo) ClaimFinished(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	if m.ClaimFinishedFunc != nil {
		return m.ClaimFinishedFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok || p.Status == model.PaymentStatusFinished {
		return false, nil
	}
	p.Status = model.PaymentStatusFinished
	p.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockPaymentRepo) MarkFailedIfPending(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok || p.Status != model.PaymentStatusPending {
		return false, nil
	}
	p.Status = model.PaymentStatusFailed
	p.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockPaymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Payment
	for _, p := range m.store {
		if p.Status == model.PaymentStatusPending && p.CreatedAt.Before(olderThan) {
			cp := *p
			out = append(out, &cp)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// ---- Mock SubscriptionRepository ----

type MockSubscriptionRepo struct {
	mu    sync.Mutex
	store map[string]*model.Subscription // keyed by UserID

	UpsertFunc           func(ctx context.Context, tx repository.Tx, sub *model.Subscription) error
	FindActiveByUserFunc func(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error)
}

var _ repository.SubscriptionRepository = (*MockSubscriptionRepo)(nil)

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{store: make(map[string]*model.Subscription)}
}

func (m *MockSubscriptionRepo) Upsert(ctx context.Context, tx repository.Tx, sub *model.Subscription) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, sub)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.store[sub.UserID] = &cp
	return nil
}

func (m *MockSubscriptionRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	if m.FindActiveByUserFunc != nil {
		return m.FindActiveByUserFunc(ctx, tx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[userID]
	if !ok || !s.Active || !s.EndsAt.After(time.Now()) {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockSubscriptionRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.Subscription, error) {
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

func (m *MockSubscriptionRepo) Deactivate(ctx context.Context, tx repository.Tx, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.store[userID]; ok {
		s.Active = false
	}
	return nil
}

func (m *MockSubscriptionRepo) DeactivateExpired(ctx context.Context, tx repository.Tx) (int64, error) {
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

// ---- Mock UserRepository ----

type MockUserRepo struct {
	mu    sync.Mutex
	store map[string]*model.User

	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{store: make(map[string]*model.User)}
}

func (m *MockUserRepo) Put(u *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
}

func (m *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.User
	for _, u := range m.store {
		cp := *u
		out = append(out, &cp)
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockUserRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store), nil
}

// ---- Mock PaymentGateway ----

type MockPaymentGateway struct {
	mu    sync.Mutex
	Calls []adapter.InvoiceRequest

	CreateInvoiceFunc func(ctx context.Context, req adapter.InvoiceRequest) (*adapter.Invoice, error)
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() string { return "mock-gateway" }

func (m *MockPaymentGateway) CreateInvoice(ctx context.Context, req adapter.InvoiceRequest) (*adapter.Invoice, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.mu.Unlock()
	if m.CreateInvoiceFunc != nil {
		return m.CreateInvoiceFunc(ctx, req)
	}
	return &adapter.Invoice{ExternalID: "ext-1", CheckoutURL: "https://pay.example/ext-1"}, nil
}

// ---- Mock TransactionManager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

// WithTx runs the callback immediately with NoTX unless a test overrides it.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// ---- Mock SequenceCounter ----

type MockSequenceCounter struct {
	mu     sync.Mutex
	counts map[string]int64

	NextFunc func(ctx context.Context, userID string) (int64, error)
}

func NewMockSequenceCounter() *MockSequenceCounter {
	return &MockSequenceCounter{counts: make(map[string]int64)}
}

func (m *MockSequenceCounter) Next(ctx context.Context, userID string) (int64, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.counts[userID]
	m.counts[userID] = n + 1
	return n, nil
}
