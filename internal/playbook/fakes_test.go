package playbook

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	apperrors "playbook-engine/internal/common/errors"
	"playbook-engine/internal/models"
)

// memPlaybookStore mirrors the store's reconcile semantics for tests: a
// single guarded write keyed by id, NotFound for unknown ids.
type memPlaybookStore struct {
	mu      sync.Mutex
	records map[string]*models.Playbook
}

func newMemPlaybookStore() *memPlaybookStore {
	return &memPlaybookStore{records: make(map[string]*models.Playbook)}
}

func (m *memPlaybookStore) Create(ctx context.Context, p *models.Playbook) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.records[p.ID] = &cp
	return nil
}

func (m *memPlaybookStore) GetByID(ctx context.Context, id string) (*models.Playbook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.records[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("playbook", id)
	}
	cp := *p
	return &cp, nil
}

func (m *memPlaybookStore) GetForUser(ctx context.Context, id, userID string) (*models.Playbook, error) {
	p, err := m.GetByID(ctx, id)
	if err != nil || p.UserID != userID {
		return nil, apperrors.NewNotFoundError("playbook", id)
	}
	return p, nil
}

func (m *memPlaybookStore) ListByUser(ctx context.Context, userID string) ([]models.Playbook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Playbook
	for _, p := range m.records {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPlaybookStore) ListAll(ctx context.Context, limit int) ([]models.Playbook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Playbook
	for _, p := range m.records {
		if len(out) >= limit {
			break
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *memPlaybookStore) CountPendingByUser(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, p := range m.records {
		if p.UserID == userID && p.Status == models.PlaybookStatusPending {
			count++
		}
	}
	return count, nil
}

func (m *memPlaybookStore) Reconcile(ctx context.Context, id string, status models.PlaybookStatus, content json.RawMessage) (models.PlaybookStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.records[id]
	if !ok || status == models.PlaybookStatusPending {
		return "", apperrors.NewNotFoundError("playbook", id)
	}
	prior := p.Status
	p.Status = status
	p.Content = content
	p.UpdatedAt = time.Now()
	return prior, nil
}

func (m *memPlaybookStore) FailPendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var reaped int64
	for _, p := range m.records {
		if p.Status == models.PlaybookStatusPending && p.CreatedAt.Before(cutoff) {
			p.Status = models.PlaybookStatusFailed
			p.Content = json.RawMessage(`{"error":"generation timed out"}`)
			p.UpdatedAt = time.Now()
			reaped++
		}
	}
	return reaped, nil
}

func (m *memPlaybookStore) DeleteForUser(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.records[id]
	if !ok || p.UserID != userID {
		return apperrors.NewNotFoundError("playbook", id)
	}
	delete(m.records, id)
	return nil
}

type memUserStore struct {
	users map[string]*models.User
}

func (m *memUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user", id)
	}
	return u, nil
}

func (m *memUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user", email)
}

type memStakeholderStore struct {
	stakeholders map[string]*models.Stakeholder
}

func (m *memStakeholderStore) Create(ctx context.Context, s *models.Stakeholder) error {
	m.stakeholders[s.ID] = s
	return nil
}

func (m *memStakeholderStore) GetForUser(ctx context.Context, id, userID string) (*models.Stakeholder, error) {
	s, ok := m.stakeholders[id]
	if !ok || s.UserID != userID {
		return nil, apperrors.NewNotFoundError("stakeholder", id)
	}
	return s, nil
}

func (m *memStakeholderStore) ListByUser(ctx context.Context, userID string) ([]models.Stakeholder, error) {
	var out []models.Stakeholder
	for _, s := range m.stakeholders {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memStakeholderStore) Update(ctx context.Context, s *models.Stakeholder) error {
	existing, ok := m.stakeholders[s.ID]
	if !ok || existing.UserID != s.UserID {
		return apperrors.NewNotFoundError("stakeholder", s.ID)
	}
	m.stakeholders[s.ID] = s
	return nil
}

func (m *memStakeholderStore) DeleteForUser(ctx context.Context, id, userID string) error {
	s, ok := m.stakeholders[id]
	if !ok || s.UserID != userID {
		return apperrors.NewNotFoundError("stakeholder", id)
	}
	delete(m.stakeholders, id)
	return nil
}

type memSubscriptionStore struct {
	subs map[string]*models.Subscription
}

func (m *memSubscriptionStore) GetByUserID(ctx context.Context, userID string) (*models.Subscription, error) {
	return m.subs[userID], nil
}

func (m *memSubscriptionStore) Upsert(ctx context.Context, sub *models.Subscription) error {
	if m.subs == nil {
		m.subs = make(map[string]*models.Subscription)
	}
	m.subs[sub.UserID] = sub
	return nil
}

func (m *memSubscriptionStore) UpdateStatusByCustomer(ctx context.Context, customerID string, status models.SubscriptionStatus) error {
	for _, sub := range m.subs {
		if sub.StripeCustomerID == customerID {
			sub.Status = status
			return nil
		}
	}
	return apperrors.NewNotFoundError("subscription", customerID)
}
