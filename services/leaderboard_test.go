package services

import (
	"fmt"
	"testing"

	"ecopulse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileWithPoints(id, name string, points int64) *models.EcoProfile {
	return &models.EcoProfile{
		ID:             "id-" + id,
		ExternalUserID: id,
		Name:           name,
		EcoStats:       models.EcoStats{TotalPoints: points},
	}
}

func TestRankProfilesWithoutBackfill(t *testing.T) {
	var profiles []*models.EcoProfile
	for i := 0; i < 12; i++ {
		profiles = append(profiles, profileWithPoints(fmt.Sprintf("u%02d", i), fmt.Sprintf("User %d", i), int64(i*10)))
	}
	// tie with u05 (50 points); listed later, so ranked later
	profiles = append(profiles, profileWithPoints("tie", "Tie", 50))

	entries, total := RankProfiles(profiles, oct(20, 12), utcEngine(), NewSyntheticFiller())
	assert.Equal(t, 13, total)
	require.Len(t, entries, 13)

	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
		assert.False(t, e.IsSynthetic)
		if i > 0 {
			assert.GreaterOrEqual(t, entries[i-1].Points, e.Points)
		}
	}
	assert.Equal(t, "u11", entries[0].UserID)

	var tieOrder []string
	for _, e := range entries {
		if e.Points == 50 {
			tieOrder = append(tieOrder, e.UserID)
		}
	}
	assert.Equal(t, []string{"u05", "tie"}, tieOrder)
}

func TestRankProfilesBackfillClampsBelowRealUsers(t *testing.T) {
	profiles := []*models.EcoProfile{
		profileWithPoints("a", "Alice", 500),
		profileWithPoints("b", "Bob", 300),
	}

	entries, total := RankProfiles(profiles, oct(20, 12), utcEngine(), NewSyntheticFiller())
	assert.Equal(t, 10, total)
	require.Len(t, entries, 10)

	assert.Equal(t, "Alice", entries[0].Name)
	assert.Equal(t, "Bob", entries[1].Name)

	wantPoints := []int64{200, 150, 100, 50, 0, -50, -100, -150}
	for i, e := range entries[2:] {
		assert.True(t, e.IsSynthetic)
		assert.Equal(t, wantPoints[i], e.Points, e.Name)
		assert.Equal(t, i+3, e.Rank)
		assert.Less(t, e.Points, int64(300))
	}

	first := entries[2]
	assert.Equal(t, "EcoWarrior42", first.Name)
	assert.Equal(t, 7, first.WeeklyStreak)
	assert.InDelta(t, 20.0, first.CO2Saved, 1e-9)
	assert.InDelta(t, 40.0, first.WaterSaved, 1e-9)
	assert.InDelta(t, 200.0/15, first.EnergySaved, 1e-9)
	assert.Equal(t, int64(10), first.ActivitiesLogged)
}

func TestSyntheticFillerKeepsCatalogPointsWhenBelowCeiling(t *testing.T) {
	real := []models.LeaderboardEntry{{Name: "Whale", Points: 5000}}
	out := NewSyntheticFiller().Fill(real)
	require.Len(t, out, len(DefaultSyntheticUsers))
	for i, e := range out {
		assert.Equal(t, DefaultSyntheticUsers[i].Points, e.Points)
	}
}

func TestSyntheticFillerSkipsCollidingNames(t *testing.T) {
	real := []models.LeaderboardEntry{
		{Name: "green thumb", Points: 2000},
		{Name: "Planet-Pal!", Points: 1500},
	}
	out := NewSyntheticFiller().Fill(real)
	require.Len(t, out, len(DefaultSyntheticUsers)-2)
	for _, e := range out {
		assert.NotEqual(t, "GreenThumb", e.Name)
		assert.NotEqual(t, "PlanetPal", e.Name)
	}
	// clamp index counts only the entries actually emitted
	assert.Equal(t, "EcoWarrior42", out[0].Name)
	assert.Equal(t, int64(1245), out[0].Points)
	assert.Equal(t, "SustainableSam", out[1].Name)
	assert.Equal(t, int64(980), out[1].Points)
}

func TestRankProfilesNoRealUsers(t *testing.T) {
	entries, total := RankProfiles(nil, oct(20, 12), utcEngine(), NewSyntheticFiller())
	assert.Equal(t, len(DefaultSyntheticUsers), total)
	require.Len(t, entries, len(DefaultSyntheticUsers))
	assert.Equal(t, int64(1245), entries[0].Points)
	assert.Equal(t, int64(680), entries[len(entries)-1].Points)
}

func TestRankProfilesNilFillerDisablesBackfill(t *testing.T) {
	entries, total := RankProfiles([]*models.EcoProfile{profileWithPoints("a", "Alice", 10)}, oct(20, 12), utcEngine(), nil)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Rank)
}

func TestRankProfilesTruncatesToMax(t *testing.T) {
	var profiles []*models.EcoProfile
	for i := 0; i < 25; i++ {
		profiles = append(profiles, profileWithPoints(fmt.Sprintf("u%02d", i), fmt.Sprintf("User %d", i), int64(1000-i)))
	}
	entries, total := RankProfiles(profiles, oct(20, 12), utcEngine(), NewSyntheticFiller())
	assert.Equal(t, 25, total)
	assert.Len(t, entries, MaxLeaderboardSize)
	assert.Equal(t, MaxLeaderboardSize, entries[len(entries)-1].Rank)
}

func TestRankProfilesUsesOnReadWeeklyStreak(t *testing.T) {
	e := utcEngine()
	p := profileWithPoints("a", "Alice", 100)
	e.RecordWeekly(&p.EcoStats, oct(23, 10))
	e.RecordWeekly(&p.EcoStats, oct(24, 10))
	require.Equal(t, 2, p.EcoStats.WeeklyStreak)

	entries, _ := RankProfiles([]*models.EcoProfile{p}, oct(26, 10), e, nil)
	assert.Equal(t, 0, entries[0].WeeklyStreak)
	assert.Equal(t, 2, p.EcoStats.WeeklyStreak, "ranking must not write back")
}

func TestBuildLeaderboardMarksCurrentUser(t *testing.T) {
	profiles := []*models.EcoProfile{
		profileWithPoints("a", "Alice", 500),
		profileWithPoints("b", "Bob", 300),
	}
	resp := BuildLeaderboard(profiles, "b", oct(20, 12), utcEngine(), NewSyntheticFiller())
	assert.Equal(t, 10, resp.TotalUsers)

	var flagged []string
	for _, e := range resp.Leaderboard {
		if e.IsCurrentUser {
			flagged = append(flagged, e.Name)
		}
	}
	assert.Equal(t, []string{"Bob"}, flagged)
}

func TestMarkCurrentUserDoesNotShareBacking(t *testing.T) {
	entries := []models.LeaderboardEntry{{Name: "Alice", UserID: "a"}, {Name: "Bob", UserID: "b"}}
	marked := MarkCurrentUser(entries, "a")
	assert.True(t, marked[0].IsCurrentUser)
	assert.False(t, entries[0].IsCurrentUser)

	anon := MarkCurrentUser(entries, "")
	for _, e := range anon {
		assert.False(t, e.IsCurrentUser)
	}
}
