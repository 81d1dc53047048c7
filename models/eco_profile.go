package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxRecentActivities bounds the per-profile activity log.
const MaxRecentActivities = 10

// EcoStats holds the cumulative impact counters and streak state for a profile.
type EcoStats struct {
	TotalPoints      int64   `json:"totalPoints" gorm:"default:0"`
	CO2Saved         float64 `json:"co2Saved" gorm:"default:0"`    // kg
	WaterSaved       float64 `json:"waterSaved" gorm:"default:0"`  // liters
	EnergySaved      float64 `json:"energySaved" gorm:"default:0"` // kWh
	ActivitiesLogged int64   `json:"activitiesLogged" gorm:"default:0"`

	// Daily streak
	StreakDays       int        `json:"streakDays" gorm:"default:0"`
	LastActivityDate *time.Time `json:"lastActivityDate"`

	// Weekly streak, weeks start on Sunday
	WeeklyStreak        int         `json:"weeklyStreak" gorm:"default:0"`
	CurrentWeekStart    *time.Time  `json:"currentWeekStart"`
	WeeklyActivityDates []time.Time `json:"weeklyActivityDates" gorm:"type:jsonb;serializer:json"`
}

// EcoProfile is the per-user document: identity plus all eco-tracking state.
type EcoProfile struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // gateway identity
	Name           string `gorm:"not null" json:"name"`
	Email          string `json:"email,omitempty"`

	EcoStats         EcoStats   `gorm:"embedded" json:"ecoStats"`
	RecentActivities []Activity `gorm:"type:jsonb;serializer:json" json:"recentActivities"`
	Badges           []Badge    `gorm:"type:jsonb;serializer:json" json:"badges"`
	CurrentChallenge *Challenge `gorm:"type:jsonb;serializer:json" json:"currentChallenge"`

	// Version is bumped on every successful write (optimistic locking).
	Version int64 `gorm:"not null;default:0" json:"-"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Clone returns a deep copy so callers can mutate freely without touching
// a value that another goroutine (or a store) still holds.
func (p *EcoProfile) Clone() *EcoProfile {
	if p == nil {
		return nil
	}
	out := *p

	out.EcoStats.LastActivityDate = cloneTime(p.EcoStats.LastActivityDate)
	out.EcoStats.CurrentWeekStart = cloneTime(p.EcoStats.CurrentWeekStart)
	if p.EcoStats.WeeklyActivityDates != nil {
		out.EcoStats.WeeklyActivityDates = append([]time.Time(nil), p.EcoStats.WeeklyActivityDates...)
	}

	if p.RecentActivities != nil {
		out.RecentActivities = append([]Activity(nil), p.RecentActivities...)
	}
	if p.Badges != nil {
		out.Badges = make([]Badge, len(p.Badges))
		for i, b := range p.Badges {
			b.EarnedDate = cloneTime(b.EarnedDate)
			out.Badges[i] = b
		}
	}
	if p.CurrentChallenge != nil {
		c := *p.CurrentChallenge
		out.CurrentChallenge = &c
	}
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
