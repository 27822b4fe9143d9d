package testutil

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/osustats/osustats/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// Background dimensions used by WriteBackground.
const (
	BackgroundWidth  = 890
	BackgroundHeight = 200
)

// WriteBackground writes a plain white PNG into dir and returns its path.
func WriteBackground(t testing.TB, dir string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, BackgroundWidth, BackgroundHeight))
	for x := 0; x < BackgroundWidth; x++ {
		for y := 0; y < BackgroundHeight; y++ {
			img.Set(x, y, color.White)
		}
	}

	path := filepath.Join(dir, "bg.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create background: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode background: %v", err)
	}
	return path
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser returns user stats matching the fake API's default user.
func NewTestUser(t testing.TB) model.UserStats {
	t.Helper()
	return model.UserStats{
		UserID:      DefaultUserID,
		Username:    "Wormsniffer",
		CountryCode: "NL",
		PP:          4500.87,
		GlobalRank:  1432,
		CountryRank: 20,
	}
}

// NewTestPage returns n leaderboard rows ranked from 1001-n up to 1000.
// The last row mirrors the fake API's default milestone.
func NewTestPage(t testing.TB, n int) []model.LeaderboardEntry {
	t.Helper()
	return testPage(n)
}

func testPage(n int) []model.LeaderboardEntry {
	page := make([]model.LeaderboardEntry, n)
	for i := range page {
		rank := 1000 - n + 1 + i
		page[i] = model.LeaderboardEntry{
			Username:    fmt.Sprintf("player%d", rank),
			CountryCode: "US",
			PP:          4700.2 + float64(n-1-i),
			GlobalRank:  rank,
		}
	}
	if n > 0 {
		page[n-1].Username = "Milestone"
	}
	return page
}
