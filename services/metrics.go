package services

import (
	"ecopulse/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ActivitiesLogged = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ecopulse_activities_logged_total",
	Help: "Activities logged, by category.",
}, []string{"category"})

var BadgesEarned = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ecopulse_badges_earned_total",
	Help: "Badges unlocked, by badge name.",
}, []string{"badge"})

var ProfileWriteConflicts = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ecopulse_profile_write_conflicts_total",
	Help: "Optimistic-lock conflicts on profile writes.",
})

var LeaderboardBuildSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "ecopulse_leaderboard_build_seconds",
	Help:    "Time spent ranking the leaderboard on a cache miss.",
	Buckets: prometheus.DefBuckets,
})

func recordBadges(names []string) {
	for _, n := range names {
		BadgesEarned.WithLabelValues(n).Inc()
	}
}

// metricCategories are the category labels exported as-is; every other
// client-chosen category is counted under "Other".
var metricCategories = map[string]bool{
	utils.DefaultCategory: true,
	"Transport":           true,
	"Energy":              true,
	"Water":               true,
	"Food":                true,
	"Waste":               true,
	"Shopping":            true,
}

func categoryMetricLabel(category string) string {
	if metricCategories[category] {
		return category
	}
	return "Other"
}
