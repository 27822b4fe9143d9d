package osu

import (
	"context"
	"fmt"
	"strconv"

	"github.com/osustats/osustats/internal/metrics"
	"github.com/osustats/osustats/internal/model"
)

type country struct {
	Code string `json:"code"`
}

type userResponse struct {
	ID          int     `json:"id"`
	Username    string  `json:"username"`
	CountryCode string  `json:"country_code"`
	Country     country `json:"country"`
	Statistics  *struct {
		PP          float64 `json:"pp"`
		GlobalRank  *int    `json:"global_rank"`
		CountryRank *int    `json:"country_rank"`
	} `json:"statistics"`
}

// User fetches a player's profile and statistics for a game mode.
// GET /users/{user}/{mode}
func (c *Client) User(ctx context.Context, token string, userID int, mode string) (*model.UserStats, error) {
	var resp userResponse
	if err := c.getJSON(ctx, metrics.EndpointUser, token, nil, &resp, "users", strconv.Itoa(userID), mode); err != nil {
		return nil, err
	}

	if resp.Statistics == nil {
		return nil, fmt.Errorf("%w: user %d has no statistics", ErrMalformedResponse, userID)
	}
	if resp.Statistics.GlobalRank == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrUnranked)
	}

	stats := &model.UserStats{
		UserID:      resp.ID,
		Username:    resp.Username,
		CountryCode: countryCode(resp.Country, resp.CountryCode),
		PP:          resp.Statistics.PP,
		GlobalRank:  *resp.Statistics.GlobalRank,
	}
	if resp.Statistics.CountryRank != nil {
		stats.CountryRank = *resp.Statistics.CountryRank
	}

	return stats, nil
}

// countryCode prefers the nested country object and falls back to the flat field.
func countryCode(c country, flat string) string {
	if c.Code != "" {
		return c.Code
	}
	return flat
}
