package services

import (
	"testing"

	"ecopulse/models"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func propertyParams() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return parameters
}

// Totals never decrease and the activity counter grows by exactly one per log.
func TestPropertyCountersAreMonotonic(t *testing.T) {
	properties := gopter.NewProperties(propertyParams())

	properties.Property("counters never decrease", prop.ForAll(
		func(points []int64) bool {
			e := utcEngine()
			p := &models.EcoProfile{}
			NormalizeProfile(p)
			for i, pts := range points {
				before := p.EcoStats
				in := models.ActivityInput{
					Name:   "act",
					Points: pts,
					Impact: models.Impact{CO2: float64(pts) / 10, Water: float64(pts % 7), Energy: float64(pts) / 3},
				}
				if ValidateActivity(in) != nil {
					return false
				}
				now := oct(18, 0).AddDate(0, 0, i/3)
				ApplyActivity(p, in, now)
				e.RecordDaily(&p.EcoStats, now)
				e.RecordWeekly(&p.EcoStats, now)

				s := p.EcoStats
				if s.TotalPoints < before.TotalPoints || s.CO2Saved < before.CO2Saved ||
					s.WaterSaved < before.WaterSaved || s.EnergySaved < before.EnergySaved {
					return false
				}
				if s.ActivitiesLogged != before.ActivitiesLogged+1 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(0, 500)),
	))

	properties.TestingRun(t)
}

// The recent log holds min(n, 10) entries, newest first.
func TestPropertyRecentLogIsBounded(t *testing.T) {
	properties := gopter.NewProperties(propertyParams())

	properties.Property("recent activities are capped and ordered", prop.ForAll(
		func(n int) bool {
			p := &models.EcoProfile{}
			for i := 0; i < n; i++ {
				ApplyActivity(p, models.ActivityInput{Name: "a", Points: int64(i)}, oct(20, 0))
			}
			want := n
			if want > models.MaxRecentActivities {
				want = models.MaxRecentActivities
			}
			if len(p.RecentActivities) != want {
				return false
			}
			for i, a := range p.RecentActivities {
				if a.Points != int64(n-1-i) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}

// Once earned, a badge stays earned with its original date.
func TestPropertyBadgesNeverUnearn(t *testing.T) {
	properties := gopter.NewProperties(propertyParams())

	properties.Property("earned badges persist", prop.ForAll(
		func(waters []float64, streaks []int) bool {
			badges := models.DefaultBadges()
			for i := 0; i < len(waters) && i < len(streaks); i++ {
				prev := badges
				stats := models.EcoStats{WaterSaved: waters[i], StreakDays: streaks[i]}
				badges, _ = EvaluateBadges(stats, prev, oct(18, 0).AddDate(0, 0, i))
				for j := range prev {
					if prev[j].Earned && (!badges[j].Earned || !badges[j].EarnedDate.Equal(*prev[j].EarnedDate)) {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 100)),
		gen.SliceOf(gen.IntRange(0, 10)),
	))

	properties.TestingRun(t)
}

// The weekly streak is between 0 and the number of days elapsed in the week.
func TestPropertyWeeklyStreakIsBounded(t *testing.T) {
	properties := gopter.NewProperties(propertyParams())

	properties.Property("weekly streak stays within the week", prop.ForAll(
		func(gaps []int) bool {
			e := utcEngine()
			var s models.EcoStats
			day := oct(18, 9)
			for _, g := range gaps {
				day = day.AddDate(0, 0, g)
				e.RecordWeekly(&s, day)
				e.RecordDaily(&s, day)

				elapsed := int(e.Day(day).Sub(e.WeekStart(day)).Hours()/24) + 1
				if s.WeeklyStreak < 1 || s.WeeklyStreak > elapsed || s.WeeklyStreak > 7 {
					return false
				}
				if s.StreakDays < 1 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.TestingRun(t)
}
