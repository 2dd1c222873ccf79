// Package model contains domain records passed between layers.
package model

import (
	"sort"
	"strings"
	"time"
)

// Progress represents a team's best known achievement. Exactly one
// Progress exists per TeamKey; the ledger mutates it in place when a
// higher level is accepted.
type Progress struct {
	ID        string    // unique record id
	TeamName  string    // display casing from the most recent accepted submission
	TeamKey   string    // normalized identity, see TeamKey()
	Level     int       // highest level proven by a valid secret
	Timestamp time.Time // instant of the submission that set Level
}

// Feedback captures a team's rating of the event. One Feedback exists
// per TeamKey; resubmitting overwrites rating, comments and level.
type Feedback struct {
	ID        string
	TeamName  string
	TeamKey   string
	Level     int // level of the secret presented alongside the rating
	Rating    int // 1..5
	Comments  string
	Timestamp time.Time
}

// TeamKey normalizes a team name into its case-insensitive identity key.
func TeamKey(teamName string) string {
	return strings.ToLower(strings.TrimSpace(teamName))
}

// SortProgress orders records for leaderboard display: level descending,
// then earliest timestamp first so the team that reached a level first
// ranks above a later arrival, then TeamKey ascending as a final total
// tie-break.
func SortProgress(records []Progress) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.TeamKey < b.TeamKey
	})
}

// SortFeedback orders feedback most recent first. There is no rank
// semantic for feedback.
func SortFeedback(records []Feedback) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.TeamKey < b.TeamKey
	})
}
