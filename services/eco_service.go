package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ecopulse/models"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// defaultWriteAttempts bounds the re-read/re-apply loop on version conflicts.
const defaultWriteAttempts = 3

// dashboardActivities is how many recent activities the API returns.
const dashboardActivities = 5

// ActivityResult is returned after an activity has been logged.
type ActivityResult struct {
	EcoStats         models.EcoStats   `json:"ecoStats"`
	RecentActivities []models.Activity `json:"recentActivities"`
	Badges           []models.Badge    `json:"badges"`
	NewBadges        []string          `json:"newBadges,omitempty"`
}

// Dashboard is the per-user overview.
type Dashboard struct {
	EcoStats         models.EcoStats   `json:"ecoStats"`
	RecentActivities []models.Activity `json:"recentActivities"`
	Badges           []models.Badge    `json:"badges"`
	CurrentChallenge *models.Challenge `json:"currentChallenge"`
}

// EcoService orchestrates every read-modify-write of a profile. It always
// mutates a private copy and only returns it once the store accepted it.
type EcoService struct {
	Store  ProfileStore
	Engine *StreakEngine
	Filler FillerProvider   // nil disables leaderboard backfill
	Cache  LeaderboardCache // nil ranks on every request

	// WriteAttempts is how often a conflicting write is retried in total.
	WriteAttempts int

	now func() time.Time
}

func NewEcoService(store ProfileStore, engine *StreakEngine, filler FillerProvider, cache LeaderboardCache) *EcoService {
	if engine == nil {
		engine = NewStreakEngine(nil)
	}
	return &EcoService{
		Store:  store,
		Engine: engine,
		Filler: filler,
		Cache:  cache,

		WriteAttempts: defaultWriteAttempts,
		now:           time.Now,
	}
}

// WithClock replaces the time source; used by tests and the snapshot command.
func (s *EcoService) WithClock(now func() time.Time) *EcoService {
	s.now = now
	return s
}

// mutate loads the profile, applies fn to a copy and saves it, retrying the
// whole cycle when another writer got there first.
func (s *EcoService) mutate(ctx context.Context, userID string, fn func(p *models.EcoProfile, now time.Time) error) (*models.EcoProfile, error) {
	attempts := s.WriteAttempts
	if attempts < 1 {
		attempts = defaultWriteAttempts
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		stored, err := s.Store.GetByExternalID(ctx, userID)
		if err != nil {
			return nil, err
		}
		p := stored.Clone()
		if err := fn(p, s.now()); err != nil {
			return nil, err
		}

		err = s.Store.Save(ctx, p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, err
		}
		ProfileWriteConflicts.Inc()
		log.Printf("[ECO] version conflict for %s (attempt %d/%d)", userID, attempt, attempts)
		lastErr = err
	}
	return nil, lastErr
}

// LogActivity records an eco action: totals, recent log, both streaks and
// badge unlocks, persisted in one write.
func (s *EcoService) LogActivity(ctx context.Context, userID string, in models.ActivityInput) (*ActivityResult, error) {
	if err := ValidateActivity(in); err != nil {
		return nil, err
	}

	var (
		awarded []string
		act     models.Activity
	)
	p, err := s.mutate(ctx, userID, func(p *models.EcoProfile, now time.Time) error {
		NormalizeProfile(p)
		if err := CheckTotals(p.EcoStats, in); err != nil {
			return err
		}
		act = ApplyActivity(p, in, now)
		s.Engine.RecordDaily(&p.EcoStats, now)
		s.Engine.RecordWeekly(&p.EcoStats, now)
		p.Badges, awarded = EvaluateBadges(p.EcoStats, p.Badges, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	ActivitiesLogged.WithLabelValues(categoryMetricLabel(act.Category)).Inc()
	recordBadges(awarded)
	if len(awarded) > 0 {
		log.Printf("[ECO] 🏅 %s earned %s", userID, strings.Join(awarded, ", "))
	}
	s.invalidateLeaderboard(ctx)

	return &ActivityResult{
		EcoStats:         p.EcoStats,
		RecentActivities: TopActivities(p, dashboardActivities),
		Badges:           p.Badges,
		NewBadges:        awarded,
	}, nil
}

// GetDashboard refreshes the weekly streak and badges, persists the result
// and returns the overview.
func (s *EcoService) GetDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	var awarded []string
	p, err := s.mutate(ctx, userID, func(p *models.EcoProfile, now time.Time) error {
		NormalizeProfile(p)
		s.Engine.RefreshWeekly(&p.EcoStats, now)
		p.Badges, awarded = EvaluateBadges(p.EcoStats, p.Badges, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	recordBadges(awarded)

	return &Dashboard{
		EcoStats:         p.EcoStats,
		RecentActivities: TopActivities(p, dashboardActivities),
		Badges:           p.Badges,
		CurrentChallenge: p.CurrentChallenge,
	}, nil
}

// UpdateChallenge joins, leaves or sets progress on the standing challenge.
func (s *EcoService) UpdateChallenge(ctx context.Context, userID string, upd models.ChallengeUpdate) (*models.Challenge, error) {
	p, err := s.mutate(ctx, userID, func(p *models.EcoProfile, _ time.Time) error {
		NormalizeProfile(p)
		ApplyChallengeUpdate(p.CurrentChallenge, upd)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.CurrentChallenge, nil
}

// GetLeaderboard returns the ranked board with currentUserID flagged. An
// empty currentUserID flags nobody.
func (s *EcoService) GetLeaderboard(ctx context.Context, currentUserID string) (*models.LeaderboardResponse, error) {
	entries, total, err := s.rankedLeaderboard(ctx)
	if err != nil {
		return nil, err
	}
	return &models.LeaderboardResponse{
		Leaderboard: MarkCurrentUser(entries, currentUserID),
		TotalUsers:  total,
	}, nil
}

func (s *EcoService) rankedLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, int, error) {
	if s.Cache != nil {
		entries, total, ok, err := s.Cache.Get(ctx)
		if err != nil {
			log.Printf("[ECO] leaderboard cache read failed: %v", err)
		} else if ok {
			return entries, total, nil
		}
	}

	entries, total, err := s.buildLeaderboard(ctx)
	if err != nil {
		return nil, 0, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, entries, total); err != nil {
			log.Printf("[ECO] leaderboard cache write failed: %v", err)
		}
	}
	return entries, total, nil
}

func (s *EcoService) buildLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, int, error) {
	profiles, err := s.Store.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	timer := prometheus.NewTimer(LeaderboardBuildSeconds)
	defer timer.ObserveDuration()

	entries, total := RankProfiles(profiles, s.now(), s.Engine, s.Filler)
	return entries, total, nil
}

func (s *EcoService) invalidateLeaderboard(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil {
		log.Printf("[ECO] leaderboard cache invalidation failed: %v", err)
	}
}

// RegisterProfile creates the eco profile for a newly registered user. It is
// idempotent: an existing profile only gets its name and email refreshed.
func (s *EcoService) RegisterProfile(ctx context.Context, externalUserID, name, email string) (*models.EcoProfile, error) {
	externalUserID = strings.TrimSpace(externalUserID)
	name = strings.TrimSpace(name)
	if externalUserID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidProfile)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}

	p, err := s.Store.Register(ctx, externalUserID, name, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	s.invalidateLeaderboard(ctx)
	return p, nil
}

// SnapshotLeaderboard ranks every profile from the store, bypassing the
// cache, and stamps the result with the current week.
func (s *EcoService) SnapshotLeaderboard(ctx context.Context) (*models.LeaderboardSnapshot, error) {
	entries, total, err := s.buildLeaderboard(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &models.LeaderboardSnapshot{
		ID:          uuid.NewString(),
		WeekStart:   s.Engine.WeekStart(now),
		GeneratedAt: now,
		Leaderboard: entries,
		TotalUsers:  total,
	}, nil
}
