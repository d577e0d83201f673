package domain

import (
	"context"
	"io"
	"time"
)

type ReviewRepository interface {
	// Write paths
	Insert(ctx context.Context, r Review) error
	Update(ctx context.Context, r Review) error
	SoftDelete(ctx context.Context, id string, now time.Time) error

	// Read paths (active rows only)
	Get(ctx context.Context, id string) (ReviewDetail, error)
	List(ctx context.Context, q ReviewsQuery) ([]Review, int, error)
	ListAllActive(ctx context.Context) ([]Review, error)
}

type PhotoRepository interface {
	InsertPhoto(ctx context.Context, p Photo) error
	GetPhoto(ctx context.Context, id string) (Photo, error)
	DeletePhoto(ctx context.Context, id string) error

	// Denormalized pointers written into review rows the photo service
	// does not otherwise own.
	LinkReview(ctx context.Context, reviewID, url, key string, now time.Time) error
	UnlinkReview(ctx context.Context, reviewID string, now time.Time) error
}

type ConfigRepository interface {
	AllConfig(ctx context.Context) ([]ConfigEntry, error)
	GetConfig(ctx context.Context, key string) (ConfigEntry, error)
	UpsertConfig(ctx context.Context, e ConfigEntry) error
	DeleteConfig(ctx context.Context, key string) error
}

type StatsRepository interface {
	Overview(ctx context.Context) (StatsOverview, error)
	TopCountries(ctx context.Context, limit int) ([]CountryCount, error)
	CountryBreakdown(ctx context.Context) ([]CountryStat, error)
	PlatformBreakdown(ctx context.Context) ([]PlatformStat, error)
	MonthlyTrends(ctx context.Context, months int) ([]MonthStat, error)
	RecentReviews(ctx context.Context, minRating, limit int) ([]ReviewHighlight, error)
}

// BlobStore is the key-addressed photo byte store.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (url string, err error)
	Remove(ctx context.Context, key string) error
}

// CounterStore tracks per-IP request windows for rate limiting.
type CounterStore interface {
	Get(ctx context.Context, key string) (Window, bool, error)
	Put(ctx context.Context, key string, w Window, ttl time.Duration) error
}

// Window is the rate-limit state kept per client IP.
type Window struct {
	Requests    int   `json:"requests"`
	WindowStart int64 `json:"windowStart"` // unix millis
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Queries & pagination

type ReviewsQuery struct {
	Page      int
	Limit     int
	Platform  string // "" or "all" means any
	MinRating int    // 0 means any
	Country   string // "" or "all" means any
}

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}
