package services

import (
	"context"
	"sort"
	"sync"

	"ecopulse/models"

	"github.com/google/uuid"
)

// memStore is an in-memory ProfileStore with the same copy-out and
// version-check semantics as GormProfileStore.
type memStore struct {
	mu       sync.Mutex
	profiles map[string]*models.EcoProfile

	// beforeSave runs under no lock before each Save; returning an error
	// aborts the save with it.
	beforeSave func(p *models.EcoProfile) error
	// listErr, when set, is returned by List.
	listErr error

	saves int
	lists int
}

func newMemStore() *memStore {
	return &memStore{profiles: make(map[string]*models.EcoProfile)}
}

func (m *memStore) put(p *models.EcoProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ExternalUserID] = p.Clone()
}

func (m *memStore) get(id string) *models.EcoProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[id].Clone()
}

func (m *memStore) GetByExternalID(_ context.Context, externalUserID string) (*models.EcoProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[externalUserID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return p.Clone(), nil
}

func (m *memStore) Save(_ context.Context, p *models.EcoProfile) error {
	if m.beforeSave != nil {
		if err := m.beforeSave(p); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	cur, ok := m.profiles[p.ExternalUserID]
	if !ok {
		return ErrUserNotFound
	}
	if cur.Version != p.Version {
		return ErrVersionConflict
	}
	p.Version++
	m.profiles[p.ExternalUserID] = p.Clone()
	return nil
}

func (m *memStore) List(_ context.Context) ([]*models.EcoProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*models.EcoProfile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EcoStats.TotalPoints != out[j].EcoStats.TotalPoints {
			return out[i].EcoStats.TotalPoints > out[j].EcoStats.TotalPoints
		}
		return out[i].ExternalUserID < out[j].ExternalUserID
	})
	return out, nil
}

func (m *memStore) Register(_ context.Context, externalUserID, name, email string) (*models.EcoProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.profiles[externalUserID]; ok {
		p.Name, p.Email = name, email
		return p.Clone(), nil
	}
	p := &models.EcoProfile{
		ID:               uuid.NewString(),
		ExternalUserID:   externalUserID,
		Name:             name,
		Email:            email,
		RecentActivities: []models.Activity{},
		Badges:           models.DefaultBadges(),
		CurrentChallenge: models.DefaultChallenge(),
	}
	m.profiles[externalUserID] = p
	return p.Clone(), nil
}

// memCache is an in-memory LeaderboardCache.
type memCache struct {
	mu          sync.Mutex
	entries     []models.LeaderboardEntry
	total       int
	ok          bool
	sets        int
	invalidated int
}

func (c *memCache) Get(context.Context) ([]models.LeaderboardEntry, int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ok {
		return nil, 0, false, nil
	}
	return append([]models.LeaderboardEntry(nil), c.entries...), c.total, true, nil
}

func (c *memCache) Set(_ context.Context, entries []models.LeaderboardEntry, total int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append([]models.LeaderboardEntry(nil), entries...)
	c.total = total
	c.ok = true
	c.sets++
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ok = false
	c.entries = nil
	c.invalidated++
	return nil
}
