package api

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	apperrors "playbook-engine/internal/common/errors"
	"playbook-engine/internal/models"
)

type fakePlaybookStore struct {
	mu      sync.Mutex
	records map[string]*models.Playbook
}

func newFakePlaybookStore() *fakePlaybookStore {
	return &fakePlaybookStore{records: make(map[string]*models.Playbook)}
}

func (f *fakePlaybookStore) Create(ctx context.Context, p *models.Playbook) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.records[p.ID] = &cp
	return nil
}

func (f *fakePlaybookStore) GetByID(ctx context.Context, id string) (*models.Playbook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.records[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("playbook", id)
	}
	cp := *p
	return &cp, nil
}

func (f *fakePlaybookStore) GetForUser(ctx context.Context, id, userID string) (*models.Playbook, error) {
	p, err := f.GetByID(ctx, id)
	if err != nil || p.UserID != userID {
		return nil, apperrors.NewNotFoundError("playbook", id)
	}
	return p, nil
}

func (f *fakePlaybookStore) ListByUser(ctx context.Context, userID string) ([]models.Playbook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Playbook
	for _, p := range f.records {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePlaybookStore) ListAll(ctx context.Context, limit int) ([]models.Playbook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Playbook
	for _, p := range f.records {
		if len(out) >= limit {
			break
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePlaybookStore) CountPendingByUser(ctx context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.records {
		if p.UserID == userID && p.Status == models.PlaybookStatusPending {
			n++
		}
	}
	return n, nil
}

func (f *fakePlaybookStore) Reconcile(ctx context.Context, id string, status models.PlaybookStatus, content json.RawMessage) (models.PlaybookStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.records[id]
	if !ok || status == models.PlaybookStatusPending {
		return "", apperrors.NewNotFoundError("playbook", id)
	}
	prior := p.Status
	p.Status = status
	p.Content = content
	p.UpdatedAt = time.Now()
	return prior, nil
}

func (f *fakePlaybookStore) FailPendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.records {
		if p.Status == models.PlaybookStatusPending && p.CreatedAt.Before(cutoff) {
			p.Status = models.PlaybookStatusFailed
			n++
		}
	}
	return n, nil
}

func (f *fakePlaybookStore) DeleteForUser(ctx context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.records[id]
	if !ok || p.UserID != userID {
		return apperrors.NewNotFoundError("playbook", id)
	}
	delete(f.records, id)
	return nil
}

type fakeUserStore struct {
	users map[string]*models.User
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user", id)
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user", email)
}

type fakeStakeholderStore struct {
	mu           sync.Mutex
	stakeholders map[string]*models.Stakeholder
}

func (f *fakeStakeholderStore) Create(ctx context.Context, s *models.Stakeholder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stakeholders[s.ID] = s
	return nil
}

func (f *fakeStakeholderStore) GetForUser(ctx context.Context, id, userID string) (*models.Stakeholder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stakeholders[id]
	if !ok || s.UserID != userID {
		return nil, apperrors.NewNotFoundError("stakeholder", id)
	}
	return s, nil
}

func (f *fakeStakeholderStore) ListByUser(ctx context.Context, userID string) ([]models.Stakeholder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Stakeholder
	for _, s := range f.stakeholders {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStakeholderStore) Update(ctx context.Context, s *models.Stakeholder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.stakeholders[s.ID]
	if !ok || existing.UserID != s.UserID {
		return apperrors.NewNotFoundError("stakeholder", s.ID)
	}
	f.stakeholders[s.ID] = s
	return nil
}

func (f *fakeStakeholderStore) DeleteForUser(ctx context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stakeholders[id]
	if !ok || s.UserID != userID {
		return apperrors.NewNotFoundError("stakeholder", id)
	}
	delete(f.stakeholders, id)
	return nil
}

type fakeMeetingGoalStore struct {
	goals map[string]*models.MeetingGoal
}

func (f *fakeMeetingGoalStore) Create(ctx context.Context, g *models.MeetingGoal) error {
	f.goals[g.ID] = g
	return nil
}

func (f *fakeMeetingGoalStore) ListByUser(ctx context.Context, userID string) ([]models.MeetingGoal, error) {
	var out []models.MeetingGoal
	for _, g := range f.goals {
		if g.UserID == userID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeMeetingGoalStore) DeleteForUser(ctx context.Context, id, userID string) error {
	g, ok := f.goals[id]
	if !ok || g.UserID != userID {
		return apperrors.NewNotFoundError("meeting goal", id)
	}
	delete(f.goals, id)
	return nil
}

type fakeOptionStore struct {
	options map[string]*models.DropdownOption
}

func (f *fakeOptionStore) ListByCategory(ctx context.Context, category string) ([]models.DropdownOption, error) {
	var out []models.DropdownOption
	for _, o := range f.options {
		if o.Category == category {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOptionStore) Create(ctx context.Context, o *models.DropdownOption) error {
	f.options[o.ID] = o
	return nil
}

func (f *fakeOptionStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.options[id]; !ok {
		return apperrors.NewNotFoundError("option", id)
	}
	delete(f.options, id)
	return nil
}

type fakeSubscriptionStore struct {
	subs map[string]*models.Subscription
}

func (f *fakeSubscriptionStore) GetByUserID(ctx context.Context, userID string) (*models.Subscription, error) {
	return f.subs[userID], nil
}

func (f *fakeSubscriptionStore) Upsert(ctx context.Context, sub *models.Subscription) error {
	f.subs[sub.UserID] = sub
	return nil
}

func (f *fakeSubscriptionStore) UpdateStatusByCustomer(ctx context.Context, customerID string, status models.SubscriptionStatus) error {
	for _, sub := range f.subs {
		if sub.StripeCustomerID == customerID {
			sub.Status = status
			return nil
		}
	}
	return apperrors.NewNotFoundError("subscription", customerID)
}
