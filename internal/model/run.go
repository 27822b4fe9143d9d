package model

import "time"

// Run outcomes.
const (
	RunSucceeded = "success"
	RunFailed    = "failed"
)

// Run records one execution of the generation pipeline.
type Run struct {
	ID         string      `json:"id"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Outcome    string      `json:"outcome"`
	Stage      string      `json:"stage,omitempty"`
	Error      string      `json:"error,omitempty"`
	Summary    *RunSummary `json:"summary,omitempty"`
}

// RunSummary holds the numbers drawn by a successful run.
type RunSummary struct {
	Username       string  `json:"username"`
	CountryCode    string  `json:"country_code"`
	PP             float64 `json:"pp"`
	GlobalRank     int     `json:"global_rank"`
	CountryRank    int     `json:"country_rank"`
	MilestoneName  string  `json:"milestone_name"`
	MilestoneRank  int     `json:"milestone_rank"`
	MilestonePP    float64 `json:"milestone_pp"`
	RankDifference int     `json:"rank_difference"`
	PPGap          float64 `json:"pp_gap"`
}

// Summary flattens a card into a RunSummary.
func (c Card) Summary() *RunSummary {
	return &RunSummary{
		Username:       c.User.Username,
		CountryCode:    c.User.CountryCode,
		PP:             c.User.PP,
		GlobalRank:     c.User.GlobalRank,
		CountryRank:    c.User.CountryRank,
		MilestoneName:  c.Milestone.Username,
		MilestoneRank:  c.Milestone.GlobalRank,
		MilestonePP:    c.Milestone.PP,
		RankDifference: c.Metrics.RankDifference,
		PPGap:          c.Metrics.PPGap,
	}
}

// Status is the view of recent runs exposed over HTTP.
type Status struct {
	LastRun     *Run `json:"last_run"`
	LastSuccess *Run `json:"last_success"`
}
