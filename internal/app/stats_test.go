package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"nevado_reviews/internal/domain"
)

func sampleOverview() domain.StatsOverview {
	oldest := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	newest := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return domain.StatsOverview{
		TotalReviews:   20,
		AverageRating:  4.7,
		BookingCount:   8,
		AirbnbCount:    9,
		DirectCount:    3,
		FiveStar:       14,
		FourStar:       4,
		ThreeStar:      1,
		TwoStar:        1,
		FourPlus:       18,
		WithPhotos:     6,
		WithResponses:  11,
		OldestReviewAt: &oldest,
		NewestReviewAt: &newest,
	}
}

func TestPublicStatsShape(t *testing.T) {
	repo := &fakeStatsRepo{overview: sampleOverview()}
	svc := NewStatsService(repo, newFakeReviewRepo(), nil, time.Minute)

	out, err := svc.Public(context.Background())
	if err != nil {
		t.Fatalf("Public: %v", err)
	}
	if out.Stats.TotalReviews != 20 || out.Stats.AverageRating != 4.7 {
		t.Fatalf("overview mismatch: %+v", out.Stats)
	}
	if out.Stats.PlatformBreakdown != (PlatformCounts{Booking: 8, Airbnb: 9, Direct: 3}) {
		t.Fatalf("platform breakdown mismatch: %+v", out.Stats.PlatformBreakdown)
	}
	if out.Stats.RatingBreakdown.FiveStar != 14 || out.Stats.RatingBreakdown.FourPlus != 18 {
		t.Fatalf("rating breakdown mismatch: %+v", out.Stats.RatingBreakdown)
	}
	if len(out.TopCountries) != 1 || out.TopCountries[0].Country != "Chile" {
		t.Fatalf("top countries mismatch: %+v", out.TopCountries)
	}
	if len(out.RecentHighlights) != 1 {
		t.Fatalf("highlights mismatch: %+v", out.RecentHighlights)
	}
}

func TestPublicStatsCached(t *testing.T) {
	repo := &fakeStatsRepo{overview: sampleOverview()}
	cache := newFakeCache()
	svc := NewStatsService(repo, newFakeReviewRepo(), cache, time.Minute)

	if _, err := svc.Public(context.Background()); err != nil {
		t.Fatalf("first Public: %v", err)
	}
	out, err := svc.Public(context.Background())
	if err != nil {
		t.Fatalf("second Public: %v", err)
	}
	if repo.overviewCalls != 1 {
		t.Fatalf("second read must come from cache, store hit %d times", repo.overviewCalls)
	}
	if out.Stats.TotalReviews != 20 {
		t.Fatalf("cached payload mismatch: %+v", out.Stats)
	}
}

func TestAdminStatsShape(t *testing.T) {
	repo := &fakeStatsRepo{overview: sampleOverview()}
	svc := NewStatsService(repo, newFakeReviewRepo(), nil, time.Minute)

	out, err := svc.Admin(context.Background())
	if err != nil {
		t.Fatalf("Admin: %v", err)
	}
	if out.Overview.TotalPhotos != 6 || out.Overview.TotalResponses != 11 {
		t.Fatalf("overview mismatch: %+v", out.Overview)
	}
	if out.Overview.DateRange.Oldest == nil || out.Overview.DateRange.Newest == nil {
		t.Fatal("date range must be populated")
	}
	dist := out.RatingDistribution
	if dist.FiveStar != 14 || dist.FourStar != 4 || dist.ThreeStar != 1 || dist.TwoStar != 1 || dist.OneStar != 0 {
		t.Fatalf("rating distribution mismatch: %+v", dist)
	}
	if len(out.PlatformBreakdown) != 1 || len(out.CountryBreakdown) != 1 || len(out.MonthlyTrends) != 1 {
		t.Fatalf("breakdowns mismatch: %+v", out)
	}
}

func TestExportCSV(t *testing.T) {
	reviews := newFakeReviewRepo()
	reviews.reviews["r1"] = domain.Review{
		ID:         "r1",
		GuestName:  "Guilherme",
		Country:    "Brasil",
		Flag:       "🇧🇷",
		Rating:     5,
		ReviewText: "Excelente, la cabaña tiene una vista única al volcán.",
		Platform:   domain.PlatformBooking,
		StayDate:   strPtr("2026-01-15"),
		GuestCount: 4,
		CreatedAt:  time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC),
		IsActive:   true,
	}
	svc := NewStatsService(&fakeStatsRepo{}, reviews, nil, time.Minute)
	svc.now = func() time.Time { return time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC) }

	var buf bytes.Buffer
	filename, err := svc.ExportCSV(context.Background(), &buf)
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if filename != "estadisticas-resenas-2026-08-28.csv" {
		t.Fatalf("unexpected filename %q", filename)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d", len(rows))
	}
	if rows[0][0] != "Nombre Huésped" || rows[0][3] != "Calificación" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "Guilherme" || rows[1][3] != "5" {
		t.Fatalf("unexpected row: %v", rows[1])
	}
	// Empty optionals serialize as empty cells, not "null".
	if rows[1][9] != "" {
		t.Fatalf("nil host response should be empty, got %q", rows[1][9])
	}
}

func TestExportCSVStoreError(t *testing.T) {
	reviews := newFakeReviewRepo()
	reviews.failAll = true
	svc := NewStatsService(&fakeStatsRepo{}, reviews, nil, time.Minute)

	var buf bytes.Buffer
	if _, err := svc.ExportCSV(context.Background(), &buf); err == nil {
		t.Fatal("expected store error")
	}
	if buf.Len() != 0 {
		t.Fatal("no bytes may be written on failure")
	}
}
