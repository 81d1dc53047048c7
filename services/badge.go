package services

import (
	"time"

	"ecopulse/models"
)

// EvaluateBadges checks every catalog rule against the stats and returns the
// updated badge list plus the names of badges earned by this call. Earned
// badges are never revoked.
func EvaluateBadges(stats models.EcoStats, badges []models.Badge, now time.Time) ([]models.Badge, []string) {
	out := make([]models.Badge, len(badges))
	copy(out, badges)

	var awarded []string
	for _, trigger := range models.BadgeCatalog {
		for i := range out {
			b := &out[i]
			if b.Name != trigger.Name || b.Earned {
				continue
			}
			if meetsThreshold(stats, trigger.Threshold) {
				earnedAt := now
				b.Earned = true
				b.EarnedDate = &earnedAt
				awarded = append(awarded, b.Name)
			}
		}
	}
	return out, awarded
}

func meetsThreshold(stats models.EcoStats, req map[string]float64) bool {
	if len(req) == 0 {
		return false
	}
	for key, required := range req {
		switch key {
		case models.ThresholdWaterSaved:
			if stats.WaterSaved < required {
				return false
			}
		case models.ThresholdCO2Saved:
			if stats.CO2Saved < required {
				return false
			}
		case models.ThresholdEnergySaved:
			if stats.EnergySaved < required {
				return false
			}
		case models.ThresholdActivitiesLogged:
			if float64(stats.ActivitiesLogged) < required {
				return false
			}
		case models.ThresholdStreakDays:
			if float64(stats.StreakDays) < required {
				return false
			}
		default: // unknown rule keys never unlock anything
			return false
		}
	}
	return true
}
