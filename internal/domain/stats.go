package domain

import "time"

// Aggregate read models. Averages arrive pre-rounded to one decimal by the
// stats queries.

type StatsOverview struct {
	TotalReviews   int
	AverageRating  float64
	BookingCount   int
	AirbnbCount    int
	DirectCount    int
	FiveStar       int
	FourStar       int
	ThreeStar      int
	TwoStar        int
	OneStar        int
	FourPlus       int
	WithPhotos     int
	WithResponses  int
	OldestReviewAt *time.Time
	NewestReviewAt *time.Time
}

// CountryCount is the public top-countries row; CountryStat adds the
// admin-only aggregates.
type CountryCount struct {
	Country string `json:"country"`
	Flag    string `json:"flag"`
	Count   int    `json:"count"`
}

type CountryStat struct {
	Country       string  `json:"country"`
	Flag          string  `json:"flag"`
	Count         int     `json:"count"`
	AvgRating     float64 `json:"avgRating"`
	FiveStarCount int     `json:"fiveStarCount"`
}

type PlatformStat struct {
	Platform      string  `json:"platform"`
	Count         int     `json:"count"`
	AvgRating     float64 `json:"avgRating"`
	FiveStarCount int     `json:"fiveStarCount"`
	PhotosCount   int     `json:"photosCount"`
}

type MonthStat struct {
	Month     string  `json:"month"` // YYYY-MM
	Count     int     `json:"count"`
	AvgRating float64 `json:"avgRating"`
}

// ReviewHighlight is the trimmed review row embedded in stats responses.
type ReviewHighlight struct {
	ID         string    `json:"id"`
	GuestName  string    `json:"guestName"`
	Country    string    `json:"country"`
	Flag       string    `json:"flag"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"reviewText"`
	Platform   string    `json:"platform"`
	CreatedAt  time.Time `json:"createdAt"`
	PhotoURL   *string   `json:"photoUrl,omitempty"`
}
