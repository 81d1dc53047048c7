package models

import "github.com/gosimple/slug"

// DefaultChallengeGoal is applied whenever a challenge is found with no goal.
const DefaultChallengeGoal = 3

const defaultChallengeTitle = "🚴 Car-Free Commute"

// Challenge is the single standing weekly challenge a user can join.
type Challenge struct {
	ID       string `json:"id"` // slug of the title
	Title    string `json:"title"`
	Joined   bool   `json:"joined"`
	Progress int    `json:"progress"`
	Goal     int    `json:"goal"`
}

// DefaultChallenge returns the challenge every new profile starts with.
func DefaultChallenge() *Challenge {
	return &Challenge{
		ID:    slug.Make(defaultChallengeTitle),
		Title: defaultChallengeTitle,
		Goal:  DefaultChallengeGoal,
	}
}

// ChallengeUpdate carries the optional fields of a challenge update request.
type ChallengeUpdate struct {
	Joined   *bool `json:"joined"`
	Progress *int  `json:"progress"`
}
