package services

import (
	"time"

	"ecopulse/models"
)

const dayLayout = "2006-01-02"

// StreakEngine computes the daily streak and the Sunday-anchored weekly
// streak. All calendar arithmetic happens in loc.
type StreakEngine struct {
	loc *time.Location
}

// NewStreakEngine creates an engine for the given location (nil = time.Local).
func NewStreakEngine(loc *time.Location) *StreakEngine {
	if loc == nil {
		loc = time.Local
	}
	return &StreakEngine{loc: loc}
}

// Location returns the engine's calendar location.
func (e *StreakEngine) Location() *time.Location { return e.loc }

// Day truncates t to local midnight.
func (e *StreakEngine) Day(t time.Time) time.Time {
	t = t.In(e.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, e.loc)
}

// WeekStart returns the Sunday on or before t.
func (e *StreakEngine) WeekStart(t time.Time) time.Time {
	d := e.Day(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func (e *StreakEngine) dayKey(t time.Time) string {
	return t.In(e.loc).Format(dayLayout)
}

func (e *StreakEngine) sameDay(a, b time.Time) bool {
	return e.dayKey(a) == e.dayKey(b)
}

// daysBetween counts calendar days from a to b, ignoring DST shifts.
func (e *StreakEngine) daysBetween(a, b time.Time) int {
	a, b = a.In(e.loc), b.In(e.loc)
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua) / (24 * time.Hour))
}

// RecordDaily advances the consecutive-day streak for an activity logged at now.
func (e *StreakEngine) RecordDaily(s *models.EcoStats, now time.Time) {
	today := e.Day(now)
	if s.LastActivityDate == nil {
		s.StreakDays = 1
	} else {
		switch diff := e.daysBetween(*s.LastActivityDate, today); {
		case diff == 1:
			s.StreakDays++
		case diff > 1:
			s.StreakDays = 1
		}
	}
	s.LastActivityDate = &today
}

// WeeklyState is the derived weekly streak for one reference day.
type WeeklyState struct {
	Streak    int
	WeekStart time.Time
	Dates     []time.Time
}

// RecordWeekly is the on-write mode of the weekly streak: it registers today
// as an active day and rescans the week.
func (e *StreakEngine) RecordWeekly(s *models.EcoStats, now time.Time) {
	today := e.Day(now)
	weekStart := e.WeekStart(today)

	if s.CurrentWeekStart == nil || !e.sameDay(*s.CurrentWeekStart, weekStart) {
		s.WeeklyStreak = 1
		s.CurrentWeekStart = &weekStart
		s.WeeklyActivityDates = []time.Time{today}
		return
	}

	for _, d := range s.WeeklyActivityDates {
		if e.sameDay(d, today) {
			return
		}
	}

	s.WeeklyActivityDates = append(s.WeeklyActivityDates, today)
	s.WeeklyStreak = e.weekScan(s.WeeklyActivityDates, weekStart, today)
}

// CurrentWeekly is the on-read mode of the weekly streak. It never mutates s.
func (e *StreakEngine) CurrentWeekly(s models.EcoStats, now time.Time) WeeklyState {
	today := e.Day(now)
	weekStart := e.WeekStart(today)

	if s.CurrentWeekStart != nil && e.sameDay(*s.CurrentWeekStart, weekStart) {
		return WeeklyState{
			Streak:    s.WeeklyStreak,
			WeekStart: weekStart,
			Dates:     append([]time.Time(nil), s.WeeklyActivityDates...),
		}
	}

	weekEnd := weekStart.AddDate(0, 0, 6)
	var dates []time.Time
	for _, d := range s.WeeklyActivityDates {
		day := e.Day(d)
		if !day.Before(weekStart) && !day.After(weekEnd) {
			dates = append(dates, day)
		}
	}
	return WeeklyState{
		Streak:    e.weekScan(dates, weekStart, today),
		WeekStart: weekStart,
		Dates:     dates,
	}
}

// RefreshWeekly applies CurrentWeekly to s and reports whether anything changed.
func (e *StreakEngine) RefreshWeekly(s *models.EcoStats, now time.Time) bool {
	if s.CurrentWeekStart != nil && e.sameDay(*s.CurrentWeekStart, e.WeekStart(now)) {
		return false
	}
	ws := e.CurrentWeekly(*s, now)
	s.WeeklyStreak = ws.Streak
	s.CurrentWeekStart = &ws.WeekStart
	s.WeeklyActivityDates = ws.Dates
	return true
}

// weekScan walks Sunday..today. A present day extends the run; an absent day
// before today resets it. Today's own absence never breaks the run.
func (e *StreakEngine) weekScan(dates []time.Time, weekStart, today time.Time) int {
	present := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		present[e.dayKey(d)] = struct{}{}
	}

	count := 0
	for d := weekStart; !d.After(today); d = d.AddDate(0, 0, 1) {
		if _, ok := present[e.dayKey(d)]; ok {
			count++
		} else if d.Before(today) {
			count = 0
		}
	}
	return count
}
