package models

import (
	"time"
)

// Badge is a profile's copy of a catalog badge.
type Badge struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Earned      bool       `json:"earned"`
	EarnedDate  *time.Time `json:"earnedDate"`
}

// BadgeType: static rule config for a badge
type BadgeType struct {
	Name        string
	Description string
	Threshold   map[string]float64 // e.g., {"water_saved": 50}
}

// Threshold keys understood by the badge evaluator.
const (
	ThresholdWaterSaved       = "water_saved"
	ThresholdCO2Saved         = "co2_saved"
	ThresholdEnergySaved      = "energy_saved"
	ThresholdActivitiesLogged = "activities_logged"
	ThresholdStreakDays       = "streak_days"
)

// BadgeCatalog is the fixed set of badges every profile carries.
var BadgeCatalog = []BadgeType{
	{
		Name:        "Water Warrior",
		Description: "Saved 50+ liters of water",
		Threshold:   map[string]float64{ThresholdWaterSaved: 50},
	},
	{
		Name:        "Carbon Cutter",
		Description: "Reduced CO₂ by 5+ kg",
		Threshold:   map[string]float64{ThresholdCO2Saved: 5},
	},
	{
		Name:        "Energy Saver",
		Description: "Saved 5+ kWh energy",
		Threshold:   map[string]float64{ThresholdEnergySaved: 5},
	},
	{
		Name:        "Eco Champion",
		Description: "Logged 10+ activities",
		Threshold:   map[string]float64{ThresholdActivitiesLogged: 10},
	},
	{
		Name:        "Green Guru",
		Description: "7+ day streak",
		Threshold:   map[string]float64{ThresholdStreakDays: 7},
	},
}

// DefaultBadges returns a fresh, unearned copy of the catalog.
func DefaultBadges() []Badge {
	badges := make([]Badge, 0, len(BadgeCatalog))
	for _, bt := range BadgeCatalog {
		badges = append(badges, Badge{Name: bt.Name, Description: bt.Description})
	}
	return badges
}
