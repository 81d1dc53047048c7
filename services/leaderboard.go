package services

import (
	"math"
	"sort"
	"time"

	"ecopulse/models"
	"ecopulse/utils"
)

const (
	// MinLeaderboardSize is the real-user count below which the filler kicks in.
	MinLeaderboardSize = 10
	// MaxLeaderboardSize caps the entries returned to clients.
	MaxLeaderboardSize = 20
)

// FillerProvider supplies placeholder entries for a sparse leaderboard. It
// receives the ranked real entries and must never return an entry that would
// outrank one of them.
type FillerProvider interface {
	Fill(real []models.LeaderboardEntry) []models.LeaderboardEntry
}

// SyntheticUser is one placeholder row of the filler catalog.
type SyntheticUser struct {
	Name         string
	Points       int64
	WeeklyStreak int
}

// DefaultSyntheticUsers is the catalog shown on the community page.
var DefaultSyntheticUsers = []SyntheticUser{
	{Name: "EcoWarrior42", Points: 1245, WeeklyStreak: 7},
	{Name: "GreenThumb", Points: 1120, WeeklyStreak: 6},
	{Name: "SustainableSam", Points: 980, WeeklyStreak: 6},
	{Name: "ClimateCrusader", Points: 875, WeeklyStreak: 5},
	{Name: "RecycleQueen", Points: 820, WeeklyStreak: 4},
	{Name: "SolarSister", Points: 790, WeeklyStreak: 4},
	{Name: "EcoExplorer", Points: 745, WeeklyStreak: 3},
	{Name: "PlanetPal", Points: 680, WeeklyStreak: 2},
}

// SyntheticFiller backfills from a fixed catalog, skipping names that collide
// with real users and clamping points below the weakest real user.
type SyntheticFiller struct {
	Catalog []SyntheticUser
}

// NewSyntheticFiller creates a filler over DefaultSyntheticUsers.
func NewSyntheticFiller() *SyntheticFiller {
	return &SyntheticFiller{Catalog: DefaultSyntheticUsers}
}

// Fill implements FillerProvider.
func (f *SyntheticFiller) Fill(real []models.LeaderboardEntry) []models.LeaderboardEntry {
	taken := make(map[string]bool, len(real))
	var lowest int64
	for i, e := range real {
		taken[utils.FoldName(e.Name)] = true
		if i == 0 || e.Points < lowest {
			lowest = e.Points
		}
	}

	out := make([]models.LeaderboardEntry, 0, len(f.Catalog))
	for _, su := range f.Catalog {
		if taken[utils.FoldName(su.Name)] {
			continue
		}
		pts := su.Points
		if len(real) > 0 {
			if ceiling := lowest - 100 - 50*int64(len(out)); pts > ceiling {
				pts = ceiling
			}
		}
		out = append(out, models.LeaderboardEntry{
			Name:             su.Name,
			Points:           pts,
			WeeklyStreak:     su.WeeklyStreak,
			CO2Saved:         float64(pts) / 10,
			WaterSaved:       float64(pts) / 5,
			EnergySaved:      float64(pts) / 15,
			ActivitiesLogged: int64(math.Floor(float64(pts) / 20)),
			IsSynthetic:      true,
		})
	}
	return out
}

// RankProfiles builds the viewer-independent leaderboard: real users with
// their on-read weekly streak, optionally backfilled, ranked by points and
// truncated. The second value is the combined count before truncation.
func RankProfiles(profiles []*models.EcoProfile, now time.Time, engine *StreakEngine, filler FillerProvider) ([]models.LeaderboardEntry, int) {
	entries := make([]models.LeaderboardEntry, 0, len(profiles))
	for _, p := range profiles {
		st := p.EcoStats
		entries = append(entries, models.LeaderboardEntry{
			Name:             p.Name,
			Points:           st.TotalPoints,
			WeeklyStreak:     engine.CurrentWeekly(st, now).Streak,
			CO2Saved:         st.CO2Saved,
			WaterSaved:       st.WaterSaved,
			EnergySaved:      st.EnergySaved,
			ActivitiesLogged: st.ActivitiesLogged,
			UserID:           p.ExternalUserID,
		})
	}
	sortByPoints(entries)

	if filler != nil && len(entries) < MinLeaderboardSize {
		entries = append(entries, filler.Fill(entries)...)
		sortByPoints(entries)
	}

	total := len(entries)
	for i := range entries {
		entries[i].Rank = i + 1
	}
	if len(entries) > MaxLeaderboardSize {
		entries = entries[:MaxLeaderboardSize]
	}
	return entries, total
}

// MarkCurrentUser returns a copy of entries with the viewer's row flagged.
func MarkCurrentUser(entries []models.LeaderboardEntry, userID string) []models.LeaderboardEntry {
	out := make([]models.LeaderboardEntry, len(entries))
	copy(out, entries)
	if userID == "" {
		return out
	}
	for i := range out {
		out[i].IsCurrentUser = !out[i].IsSynthetic && out[i].UserID == userID
	}
	return out
}

// BuildLeaderboard ranks profiles and flags the current user.
func BuildLeaderboard(profiles []*models.EcoProfile, currentUserID string, now time.Time, engine *StreakEngine, filler FillerProvider) models.LeaderboardResponse {
	entries, total := RankProfiles(profiles, now, engine, filler)
	return models.LeaderboardResponse{
		Leaderboard: MarkCurrentUser(entries, currentUserID),
		TotalUsers:  total,
	}
}

func sortByPoints(entries []models.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
}
