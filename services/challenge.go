package services

import "ecopulse/models"

// JoinChallenge marks the challenge joined. A fresh join with no progress
// starts at 1 so the UI shows movement; joining twice is a no-op.
func JoinChallenge(c *models.Challenge) {
	if c.Joined {
		return
	}
	c.Joined = true
	if c.Progress == 0 {
		c.Progress = 1
	}
}

// LeaveChallenge clears the joined flag and keeps the recorded progress.
func LeaveChallenge(c *models.Challenge) {
	c.Joined = false
}

// SetChallengeProgress overwrites progress. It is not checked against Goal.
func SetChallengeProgress(c *models.Challenge, n int) {
	c.Progress = n
}

// ApplyChallengeUpdate applies joined before progress.
func ApplyChallengeUpdate(c *models.Challenge, upd models.ChallengeUpdate) {
	if upd.Joined != nil {
		if *upd.Joined {
			JoinChallenge(c)
		} else {
			LeaveChallenge(c)
		}
	}
	if upd.Progress != nil {
		SetChallengeProgress(c, *upd.Progress)
	}
	healChallenge(c)
}

func healChallenge(c *models.Challenge) {
	if c.Goal <= 0 {
		c.Goal = models.DefaultChallengeGoal
	}
}
