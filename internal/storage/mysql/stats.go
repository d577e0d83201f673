package mysql

import (
	"context"
	"database/sql"

	"nevado_reviews/internal/domain"
)

func (r *Repo) Overview(ctx context.Context) (domain.StatsOverview, error) {
	row := r.db.QueryRowContext(ctx, statsOverviewSQL)

	var o domain.StatsOverview
	var oldest, newest sql.NullTime
	if err := row.Scan(
		&o.TotalReviews, &o.AverageRating,
		&o.BookingCount, &o.AirbnbCount, &o.DirectCount,
		&o.FiveStar, &o.FourStar, &o.ThreeStar, &o.TwoStar, &o.OneStar,
		&o.FourPlus, &o.WithPhotos, &o.WithResponses,
		&oldest, &newest,
	); err != nil {
		return domain.StatsOverview{}, err
	}
	if oldest.Valid {
		t := oldest.Time
		o.OldestReviewAt = &t
	}
	if newest.Valid {
		t := newest.Time
		o.NewestReviewAt = &t
	}
	return o, nil
}

func (r *Repo) TopCountries(ctx context.Context, limit int) ([]domain.CountryCount, error) {
	rows, err := r.db.QueryContext(ctx, topCountriesSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CountryCount
	for rows.Next() {
		var c domain.CountryCount
		if err := rows.Scan(&c.Country, &c.Flag, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) CountryBreakdown(ctx context.Context) ([]domain.CountryStat, error) {
	rows, err := r.db.QueryContext(ctx, countryBreakdownSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CountryStat
	for rows.Next() {
		var c domain.CountryStat
		if err := rows.Scan(&c.Country, &c.Flag, &c.Count, &c.AvgRating, &c.FiveStarCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) PlatformBreakdown(ctx context.Context) ([]domain.PlatformStat, error) {
	rows, err := r.db.QueryContext(ctx, platformBreakdownSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PlatformStat
	for rows.Next() {
		var p domain.PlatformStat
		if err := rows.Scan(&p.Platform, &p.Count, &p.AvgRating, &p.FiveStarCount, &p.PhotosCount); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) MonthlyTrends(ctx context.Context, months int) ([]domain.MonthStat, error) {
	rows, err := r.db.QueryContext(ctx, monthlyTrendsSQL, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MonthStat
	for rows.Next() {
		var m domain.MonthStat
		if err := rows.Scan(&m.Month, &m.Count, &m.AvgRating); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) RecentReviews(ctx context.Context, minRating, limit int) ([]domain.ReviewHighlight, error) {
	rows, err := r.db.QueryContext(ctx, recentReviewsSQL, minRating, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ReviewHighlight
	for rows.Next() {
		var h domain.ReviewHighlight
		var photoURL sql.NullString
		if err := rows.Scan(&h.ID, &h.GuestName, &h.Country, &h.Flag, &h.Rating,
			&h.ReviewText, &h.Platform, &h.CreatedAt, &photoURL); err != nil {
			return nil, err
		}
		h.PhotoURL = nullToPtr(photoURL)
		out = append(out, h)
	}
	return out, rows.Err()
}
