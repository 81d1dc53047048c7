package models

import "time"

// LeaderboardEntry represents a user's position on the leaderboard
type LeaderboardEntry struct {
	Rank             int     `json:"rank"`
	Name             string  `json:"name"`
	Points           int64   `json:"points"`
	WeeklyStreak     int     `json:"weeklyStreak"`
	CO2Saved         float64 `json:"co2Saved"`
	WaterSaved       float64 `json:"waterSaved"`
	EnergySaved      float64 `json:"energySaved"`
	ActivitiesLogged int64   `json:"activitiesLogged"`
	IsCurrentUser    bool    `json:"isCurrentUser"`
	IsSynthetic      bool    `json:"isSynthetic,omitempty"`

	UserID string `json:"-"` // external id of a real entry, never sent to clients
}

// LeaderboardResponse is the API response for leaderboards
type LeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	TotalUsers  int                `json:"totalUsers"`
}

// LeaderboardSnapshot is the archived form of a weekly leaderboard.
type LeaderboardSnapshot struct {
	ID          string             `json:"id"`
	WeekStart   time.Time          `json:"weekStart"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	TotalUsers  int                `json:"totalUsers"`
}
