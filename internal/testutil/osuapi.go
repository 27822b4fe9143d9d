package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// DefaultUserID is the player the fake API knows about.
const DefaultUserID = 14337744

// FakeAPI is an httptest server that mimics the osu! endpoints used by the generator.
// Set the exported fields before issuing requests.
type FakeAPI struct {
	Server *httptest.Server

	// Status overrides; zero means 200.
	TokenStatus    int
	UserStatus     int
	RankingsStatus int

	// AccessToken is returned by the token endpoint.
	AccessToken string
	// User is the JSON object served for DefaultUserID.
	User map[string]any
	// RankingRows is the number of leaderboard rows served.
	RankingRows int
	// OmitRanking drops the "ranking" key from the leaderboard response.
	OmitRanking bool
	// UnrankedLastRow serves the last leaderboard row with a null global_rank.
	UnrankedLastRow bool

	mu        sync.Mutex
	calls     map[string]int
	tokenForm url.Values
	basicUser string
	basicPass string
	lastQuery url.Values
	lastAuth  string
}

// NewFakeAPI starts a fake osu! API and closes it when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		AccessToken: "test-access-token",
		User:        DefaultUserJSON(),
		RankingRows: 50,
		calls:       make(map[string]int),
	}

	r := chi.NewRouter()
	r.Post("/oauth/token", f.handleToken)
	r.Get("/api/v2/users/{user}/{mode}", f.handleUser)
	r.Get("/api/v2/rankings/{mode}/performance", f.handleRankings)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// TokenURL returns the token endpoint URL.
func (f *FakeAPI) TokenURL() string {
	return f.Server.URL + "/oauth/token"
}

// BaseURL returns the API v2 base URL.
func (f *FakeAPI) BaseURL() string {
	return f.Server.URL + "/api/v2"
}

// Calls returns how many requests an endpoint ("token", "user", "rankings") received.
func (f *FakeAPI) Calls(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[endpoint]
}

// TokenForm returns the form body of the last token request.
func (f *FakeAPI) TokenForm() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenForm
}

// BasicAuth returns the basic auth credentials of the last token request.
func (f *FakeAPI) BasicAuth() (string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.basicUser, f.basicPass
}

// LastQuery returns the query of the last leaderboard request.
func (f *FakeAPI) LastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery
}

// LastAuthorization returns the Authorization header of the last API read.
func (f *FakeAPI) LastAuthorization() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuth
}

func (f *FakeAPI) record(endpoint string, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[endpoint]++
	if endpoint != "token" {
		f.lastAuth = r.Header.Get("Authorization")
	}
}

func (f *FakeAPI) handleToken(w http.ResponseWriter, r *http.Request) {
	f.record("token", r)
	_ = r.ParseForm()
	user, pass, _ := r.BasicAuth()

	f.mu.Lock()
	f.tokenForm = r.PostForm
	f.basicUser, f.basicPass = user, pass
	f.mu.Unlock()

	if f.TokenStatus != 0 && f.TokenStatus != http.StatusOK {
		writeFakeJSON(w, f.TokenStatus, map[string]string{
			"error":             "invalid_client",
			"error_description": "Client authentication failed",
		})
		return
	}

	writeFakeJSON(w, http.StatusOK, map[string]any{
		"token_type":   "Bearer",
		"expires_in":   86400,
		"access_token": f.AccessToken,
	})
}

func (f *FakeAPI) handleUser(w http.ResponseWriter, r *http.Request) {
	f.record("user", r)

	if f.UserStatus != 0 && f.UserStatus != http.StatusOK {
		writeFakeJSON(w, f.UserStatus, map[string]string{"error": "upstream failure"})
		return
	}
	if chi.URLParam(r, "user") != fmt.Sprint(DefaultUserID) {
		writeFakeJSON(w, http.StatusNotFound, map[string]string{"error": "null"})
		return
	}

	writeFakeJSON(w, http.StatusOK, f.User)
}

func (f *FakeAPI) handleRankings(w http.ResponseWriter, r *http.Request) {
	f.record("rankings", r)

	f.mu.Lock()
	f.lastQuery = r.URL.Query()
	f.mu.Unlock()

	if f.RankingsStatus != 0 && f.RankingsStatus != http.StatusOK {
		writeFakeJSON(w, f.RankingsStatus, map[string]string{"error": "upstream failure"})
		return
	}
	if f.OmitRanking {
		writeFakeJSON(w, http.StatusOK, map[string]any{"total": 10000})
		return
	}

	page := testPage(f.RankingRows)
	rows := make([]map[string]any, 0, len(page))
	for i, e := range page {
		var rank any = e.GlobalRank
		if f.UnrankedLastRow && i == len(page)-1 {
			rank = nil
		}
		rows = append(rows, map[string]any{
			"pp":          e.PP,
			"global_rank": rank,
			"user": map[string]any{
				"username":     e.Username,
				"country_code": e.CountryCode,
				"country":      map[string]string{"code": e.CountryCode, "name": "United States"},
			},
		})
	}

	writeFakeJSON(w, http.StatusOK, map[string]any{
		"ranking": rows,
		"cursor":  map[string]int{"page": 21},
		"total":   10000,
	})
}

// DefaultUserJSON returns the user payload served by the fake API.
func DefaultUserJSON() map[string]any {
	return map[string]any{
		"id":           DefaultUserID,
		"username":     "Wormsniffer",
		"country_code": "NL",
		"country":      map[string]string{"code": "NL", "name": "Netherlands"},
		"statistics": map[string]any{
			"pp":           4500.87,
			"global_rank":  1432,
			"country_rank": 20,
		},
	}
}

func writeFakeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
