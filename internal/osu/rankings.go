package osu

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/osustats/osustats/internal/metrics"
	"github.com/osustats/osustats/internal/model"
)

type rankingRow struct {
	PP         float64 `json:"pp"`
	GlobalRank *int    `json:"global_rank"`
	User       struct {
		Username    string  `json:"username"`
		CountryCode string  `json:"country_code"`
		Country     country `json:"country"`
	} `json:"user"`
}

type rankingsResponse struct {
	Ranking *[]rankingRow `json:"ranking"`
}

// Rankings fetches one page of the performance leaderboard for a mode.
// GET /rankings/{mode}/performance?cursor[page]={page}&limit={limit}
func (c *Client) Rankings(ctx context.Context, token, mode string, page, limit int) ([]model.LeaderboardEntry, error) {
	query := url.Values{
		"cursor[page]": {strconv.Itoa(page)},
		"limit":        {strconv.Itoa(limit)},
	}

	var resp rankingsResponse
	if err := c.getJSON(ctx, metrics.EndpointRankings, token, query, &resp, "rankings", mode, "performance"); err != nil {
		return nil, err
	}
	if resp.Ranking == nil {
		return nil, ErrRankingMissing
	}

	rows := *resp.Ranking
	// The last row is the comparison target and must carry a rank.
	if n := len(rows); n > 0 && rows[n-1].GlobalRank == nil {
		return nil, fmt.Errorf("%w: last leaderboard row has no global_rank", ErrMalformedResponse)
	}

	entries := make([]model.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entry := model.LeaderboardEntry{
			Username:    row.User.Username,
			CountryCode: countryCode(row.User.Country, row.User.CountryCode),
			PP:          row.PP,
		}
		if row.GlobalRank != nil {
			entry.GlobalRank = *row.GlobalRank
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
