package models

import "time"

// Impact is the environmental saving carried by a single activity.
type Impact struct {
	CO2    float64 `json:"co2"`    // kg
	Water  float64 `json:"water"`  // liters
	Energy float64 `json:"energy"` // kWh
}

// Activity is an immutable entry in a profile's recent-activity log.
type Activity struct {
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Points    int64     `json:"points"`
	Impact    Impact    `json:"impact"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityInput is what a client submits when logging an activity.
type ActivityInput struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Points   int64  `json:"points"`
	Impact   Impact `json:"impact"`
}
