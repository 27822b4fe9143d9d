// Package model defines the player statistics the card is built from.
package model

import (
	"fmt"
	"math"
	"slices"
)

// Game modes accepted by the osu! API.
const (
	ModeOsu    = "osu"
	ModeTaiko  = "taiko"
	ModeFruits = "fruits"
	ModeMania  = "mania"
)

// Modes lists every accepted game mode.
var Modes = []string{ModeOsu, ModeTaiko, ModeFruits, ModeMania}

// IsMode reports whether mode is an accepted game mode.
func IsMode(mode string) bool {
	return slices.Contains(Modes, mode)
}

// UserStats is a read-only snapshot of one player's profile for a mode.
type UserStats struct {
	UserID      int
	Username    string
	CountryCode string
	PP          float64
	GlobalRank  int
	CountryRank int
}

// LeaderboardEntry is one row of the performance ranking.
type LeaderboardEntry struct {
	Username    string
	CountryCode string
	PP          float64
	GlobalRank  int
}

// DerivedMetrics compares a player against a milestone entry.
// Both values may be negative when the player is ahead of the milestone.
type DerivedMetrics struct {
	// RankDifference is user rank minus milestone rank.
	RankDifference int
	// PPGap is milestone pp minus user pp.
	PPGap float64
}

// ComputeMetrics derives the comparison fields for a player and milestone.
func ComputeMetrics(user UserStats, milestone LeaderboardEntry) DerivedMetrics {
	return DerivedMetrics{
		RankDifference: user.GlobalRank - milestone.GlobalRank,
		PPGap:          milestone.PP - user.PP,
	}
}

// Milestone returns the last entry of a ranking page, used as the comparison target.
// ok is false when the page holds fewer than minEntries rows.
func Milestone(entries []LeaderboardEntry, minEntries int) (LeaderboardEntry, bool) {
	if len(entries) == 0 || len(entries) < minEntries {
		return LeaderboardEntry{}, false
	}
	return entries[len(entries)-1], true
}

// Card is everything drawn onto the stats image.
type Card struct {
	User      UserStats
	Milestone LeaderboardEntry
	Metrics   DerivedMetrics
	Headline  string
}

// NewCard builds a Card and computes its metrics.
func NewCard(user UserStats, milestone LeaderboardEntry, headline string) Card {
	return Card{
		User:      user,
		Milestone: milestone,
		Metrics:   ComputeMetrics(user, milestone),
		Headline:  headline,
	}
}

// Labels returns the nine card lines, column by column, top to bottom.
// pp values are truncated toward zero.
func (c Card) Labels() [9]string {
	return [9]string{
		fmt.Sprintf("%s (%s)", c.User.Username, c.User.CountryCode),
		fmt.Sprintf("Rank: #%d", c.User.GlobalRank),
		fmt.Sprintf("%dPP", truncate(c.User.PP)),

		c.Headline,
		fmt.Sprintf("%dPP diff", truncate(c.Metrics.PPGap)),
		fmt.Sprintf("Rank Difference: %d", c.Metrics.RankDifference),

		fmt.Sprintf("Catch rank #%d", c.Milestone.GlobalRank),
		fmt.Sprintf("%s (%s)", c.Milestone.Username, c.Milestone.CountryCode),
		fmt.Sprintf("%dPP", truncate(c.Milestone.PP)),
	}
}

func truncate(v float64) int64 {
	return int64(math.Trunc(v))
}
