package services

import "ecopulse/models"

// NormalizeProfile applies the self-healing defaults every read and write path
// relies on: the badge catalog, the standing challenge with a non-zero goal,
// and non-nil collections. It reports whether anything was filled in.
func NormalizeProfile(p *models.EcoProfile) bool {
	changed := false

	if len(p.Badges) == 0 {
		p.Badges = models.DefaultBadges()
		changed = true
	} else {
		// profiles created before a catalog entry existed get it appended
		have := make(map[string]bool, len(p.Badges))
		for _, b := range p.Badges {
			have[b.Name] = true
		}
		for _, bt := range models.BadgeCatalog {
			if !have[bt.Name] {
				p.Badges = append(p.Badges, models.Badge{Name: bt.Name, Description: bt.Description})
				changed = true
			}
		}
	}

	if p.CurrentChallenge == nil {
		p.CurrentChallenge = models.DefaultChallenge()
		changed = true
	} else if p.CurrentChallenge.Goal <= 0 {
		healChallenge(p.CurrentChallenge)
		changed = true
	}

	if p.RecentActivities == nil {
		p.RecentActivities = []models.Activity{}
	}
	if len(p.RecentActivities) > models.MaxRecentActivities {
		p.RecentActivities = p.RecentActivities[:models.MaxRecentActivities]
		changed = true
	}
	return changed
}
