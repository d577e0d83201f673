package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"nevado_reviews/internal/domain"
)

type StatsService struct {
	repo     domain.StatsRepository
	reviews  domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewStatsService(repo domain.StatsRepository, reviews domain.ReviewRepository, cache domain.Cache, ttl time.Duration) *StatsService {
	return &StatsService{repo: repo, reviews: reviews, cache: cache, cacheTTL: ttl, now: time.Now}
}

// Response shapes mirror the site's existing consumers; field names are part
// of the contract.

type PlatformCounts struct {
	Booking int `json:"booking"`
	Airbnb  int `json:"airbnb"`
	Direct  int `json:"direct"`
}

type PublicStats struct {
	Stats struct {
		TotalReviews      int            `json:"totalReviews"`
		AverageRating     float64        `json:"averageRating"`
		PlatformBreakdown PlatformCounts `json:"platformBreakdown"`
		RatingBreakdown   struct {
			FiveStar int `json:"fiveStar"`
			FourPlus int `json:"fourPlus"`
		} `json:"ratingBreakdown"`
		PhotosCount int `json:"photosCount"`
	} `json:"stats"`
	TopCountries     []domain.CountryCount    `json:"topCountries"`
	RecentHighlights []domain.ReviewHighlight `json:"recentHighlights"`
	LastUpdated      time.Time                `json:"lastUpdated"`
}

type AdminStats struct {
	Overview struct {
		TotalReviews   int     `json:"totalReviews"`
		AverageRating  float64 `json:"averageRating"`
		TotalPhotos    int     `json:"totalPhotos"`
		TotalResponses int     `json:"totalResponses"`
		DateRange      struct {
			Oldest *time.Time `json:"oldest"`
			Newest *time.Time `json:"newest"`
		} `json:"dateRange"`
	} `json:"overview"`
	RatingDistribution struct {
		FiveStar  int `json:"fiveStar"`
		FourStar  int `json:"fourStar"`
		ThreeStar int `json:"threeStar"`
		TwoStar   int `json:"twoStar"`
		OneStar   int `json:"oneStar"`
	} `json:"ratingDistribution"`
	PlatformBreakdown []domain.PlatformStat    `json:"platformBreakdown"`
	CountryBreakdown  []domain.CountryStat     `json:"countryBreakdown"`
	MonthlyTrends     []domain.MonthStat       `json:"monthlyTrends"`
	RecentActivity    []domain.ReviewHighlight `json:"recentActivity"`
	GeneratedAt       time.Time                `json:"generatedAt"`
}

func (s *StatsService) Public(ctx context.Context) (PublicStats, error) {
	var out PublicStats
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, statsCacheKey, &out); ok {
			return out, nil
		}
	}

	o, err := s.repo.Overview(ctx)
	if err != nil {
		return PublicStats{}, err
	}
	countries, err := s.repo.TopCountries(ctx, 10)
	if err != nil {
		return PublicStats{}, err
	}
	highlights, err := s.repo.RecentReviews(ctx, 4, 5)
	if err != nil {
		return PublicStats{}, err
	}

	out.Stats.TotalReviews = o.TotalReviews
	out.Stats.AverageRating = o.AverageRating
	out.Stats.PlatformBreakdown = PlatformCounts{Booking: o.BookingCount, Airbnb: o.AirbnbCount, Direct: o.DirectCount}
	out.Stats.RatingBreakdown.FiveStar = o.FiveStar
	out.Stats.RatingBreakdown.FourPlus = o.FourPlus
	out.Stats.PhotosCount = o.WithPhotos
	out.TopCountries = countries
	out.RecentHighlights = highlights
	out.LastUpdated = s.now().UTC()

	if s.cache != nil {
		_ = s.cache.Set(ctx, statsCacheKey, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

func (s *StatsService) Admin(ctx context.Context) (AdminStats, error) {
	o, err := s.repo.Overview(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	platforms, err := s.repo.PlatformBreakdown(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	countries, err := s.repo.CountryBreakdown(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	months, err := s.repo.MonthlyTrends(ctx, 12)
	if err != nil {
		return AdminStats{}, err
	}
	recent, err := s.repo.RecentReviews(ctx, 0, 10)
	if err != nil {
		return AdminStats{}, err
	}

	var out AdminStats
	out.Overview.TotalReviews = o.TotalReviews
	out.Overview.AverageRating = o.AverageRating
	out.Overview.TotalPhotos = o.WithPhotos
	out.Overview.TotalResponses = o.WithResponses
	out.Overview.DateRange.Oldest = o.OldestReviewAt
	out.Overview.DateRange.Newest = o.NewestReviewAt
	out.RatingDistribution.FiveStar = o.FiveStar
	out.RatingDistribution.FourStar = o.FourStar
	out.RatingDistribution.ThreeStar = o.ThreeStar
	out.RatingDistribution.TwoStar = o.TwoStar
	out.RatingDistribution.OneStar = o.OneStar
	out.PlatformBreakdown = platforms
	out.CountryBreakdown = countries
	out.MonthlyTrends = months
	out.RecentActivity = recent
	out.GeneratedAt = s.now().UTC()
	return out, nil
}

var exportHeader = []string{
	"Nombre Huésped", "País", "Bandera", "Calificación", "Texto Reseña",
	"Plataforma", "Fecha Estadía", "Duración", "Número Huéspedes",
	"Respuesta Anfitrión", "URL Foto", "Fecha Creación",
}

// ExportCSV streams every active review as CSV and returns the filename the
// response should carry.
func (s *StatsService) ExportCSV(ctx context.Context, w io.Writer) (string, error) {
	reviews, err := s.reviews.ListAllActive(ctx)
	if err != nil {
		return "", err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return "", err
	}
	for _, rv := range reviews {
		row := []string{
			rv.GuestName,
			rv.Country,
			rv.Flag,
			strconv.Itoa(rv.Rating),
			rv.ReviewText,
			rv.Platform,
			deref(rv.StayDate),
			deref(rv.StayDuration),
			strconv.Itoa(rv.GuestCount),
			deref(rv.HostResponse),
			deref(rv.PhotoURL),
			rv.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return "", err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("estadisticas-resenas-%s.csv", s.now().UTC().Format("2006-01-02"))
	return filename, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
