package store

import (
	"context"
	"sort"
	"sync"

	"accountd/internal/models"
)

// Memory is an in-memory Store used by service and handler tests. It applies
// the same uniqueness rules as the gorm implementation. Transaction runs fn
// directly; there is no rollback.
type Memory struct {
	mu sync.Mutex

	accounts   map[int64]models.UserAccount
	byExternal map[string]int64
	orgs       map[string]models.Organization

	memberships map[int64]models.Membership

	nextAccountID    int64
	nextMembershipID int64
}

func NewMemory() *Memory {
	return &Memory{
		accounts:    make(map[int64]models.UserAccount),
		byExternal:  make(map[string]int64),
		orgs:        make(map[string]models.Organization),
		memberships: make(map[int64]models.Membership),
	}
}

func (m *Memory) Accounts() Accounts           { return (*memAccounts)(m) }
func (m *Memory) Organizations() Organizations { return (*memOrganizations)(m) }
func (m *Memory) Memberships() Memberships     { return (*memMemberships)(m) }

func (m *Memory) Transaction(_ context.Context, fn func(Store) error) error {
	return fn(m)
}

type memAccounts Memory

func (r *memAccounts) FindByExternalID(_ context.Context, externalUserID string) (*models.UserAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byExternal[externalUserID]
	if !ok {
		return nil, ErrNotFound
	}
	account := r.accounts[id]
	return &account, nil
}

func (r *memAccounts) FindByID(_ context.Context, id int64) (*models.UserAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &account, nil
}

func (r *memAccounts) Save(_ context.Context, account *models.UserAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account.ID == 0 {
		if _, exists := r.byExternal[account.ExternalUserID]; exists {
			return ErrDuplicate
		}
		r.nextAccountID++
		account.ID = r.nextAccountID
	}
	r.accounts[account.ID] = *account
	r.byExternal[account.ExternalUserID] = account.ID
	return nil
}

type memOrganizations Memory

func (r *memOrganizations) FindByID(_ context.Context, id string) (*models.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	org, ok := r.orgs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &org, nil
}

func (r *memOrganizations) Create(_ context.Context, org *models.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orgs[org.ID]; exists {
		return ErrDuplicate
	}
	r.orgs[org.ID] = *org
	return nil
}

func (r *memOrganizations) List(_ context.Context) ([]models.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	orgs := make([]models.Organization, 0, len(r.orgs))
	for _, org := range r.orgs {
		orgs = append(orgs, org)
	}
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].ID < orgs[j].ID })
	return orgs, nil
}

type memMemberships Memory

func (r *memMemberships) ListByUser(_ context.Context, userID int64) ([]models.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Membership
	for _, m := range r.memberships {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memMemberships) ListByOrganization(_ context.Context, orgID string) ([]models.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Membership
	for _, m := range r.memberships {
		if m.OrganizationID == orgID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memMemberships) FindByUserAndOrganization(_ context.Context, userID int64, orgID string) (*models.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.memberships {
		if m.UserID == userID && m.OrganizationID == orgID {
			return &m, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memMemberships) Create(_ context.Context, m *models.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.memberships {
		if existing.UserID == m.UserID && existing.OrganizationID == m.OrganizationID {
			return ErrDuplicate
		}
	}
	r.nextMembershipID++
	m.ID = r.nextMembershipID
	r.memberships[m.ID] = *m
	return nil
}
