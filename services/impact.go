package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"ecopulse/models"
	"ecopulse/utils"
)

const (
	// MaxActivityPoints caps the points a single activity can award.
	MaxActivityPoints = 10_000
	// MaxActivityImpact caps each impact value (kg, liters, kWh) of a single activity.
	MaxActivityImpact = 1_000_000.0
)

// ValidateActivity rejects payloads that would break the monotonic counters.
func ValidateActivity(in models.ActivityInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidActivity)
	}
	if in.Points < 0 || in.Points > MaxActivityPoints {
		return fmt.Errorf("%w: points must be between 0 and %d", ErrInvalidActivity, MaxActivityPoints)
	}
	for _, v := range []float64{in.Impact.CO2, in.Impact.Water, in.Impact.Energy} {
		if math.IsNaN(v) || v < 0 || v > MaxActivityImpact {
			return fmt.Errorf("%w: impact values must be between 0 and %g", ErrInvalidActivity, MaxActivityImpact)
		}
	}
	return nil
}

// CheckTotals reports whether adding in to stats keeps every counter finite
// and non-decreasing. It must pass before ApplyActivity mutates anything.
func CheckTotals(stats models.EcoStats, in models.ActivityInput) error {
	if stats.TotalPoints > math.MaxInt64-in.Points || stats.ActivitiesLogged == math.MaxInt64 {
		return fmt.Errorf("%w: point total would overflow", ErrInvalidActivity)
	}
	sums := []float64{
		stats.CO2Saved + in.Impact.CO2,
		stats.WaterSaved + in.Impact.Water,
		stats.EnergySaved + in.Impact.Energy,
	}
	for _, v := range sums {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("%w: impact total would overflow", ErrInvalidActivity)
		}
	}
	return nil
}

// ApplyActivity folds a validated activity into the profile's totals and
// prepends it to the bounded recent-activity log.
func ApplyActivity(p *models.EcoProfile, in models.ActivityInput, now time.Time) models.Activity {
	p.EcoStats.TotalPoints += in.Points
	p.EcoStats.CO2Saved += in.Impact.CO2
	p.EcoStats.WaterSaved += in.Impact.Water
	p.EcoStats.EnergySaved += in.Impact.Energy
	p.EcoStats.ActivitiesLogged++

	act := models.Activity{
		Name:      strings.TrimSpace(in.Name),
		Category:  utils.CategoryLabel(in.Category),
		Points:    in.Points,
		Impact:    in.Impact,
		Timestamp: now,
	}

	recent := make([]models.Activity, 0, models.MaxRecentActivities)
	recent = append(recent, act)
	for _, a := range p.RecentActivities {
		if len(recent) == models.MaxRecentActivities {
			break
		}
		recent = append(recent, a)
	}
	p.RecentActivities = recent
	return act
}

// TopActivities returns at most n of the most recent activities.
func TopActivities(p *models.EcoProfile, n int) []models.Activity {
	if len(p.RecentActivities) <= n {
		return append([]models.Activity{}, p.RecentActivities...)
	}
	return append([]models.Activity{}, p.RecentActivities[:n]...)
}
