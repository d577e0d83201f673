package app

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"nevado_reviews/internal/domain"
)

// statsCacheKey is shared by every service that mutates review rows; any
// write drops the cached public aggregate.
const statsCacheKey = "stats:public"

// FallbackFunc supplies the sample reviews served when the store is
// unreachable on list reads, so the public site keeps rendering.
type FallbackFunc func() []domain.Review

type ReviewService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	fallback FallbackFunc
	now      func() time.Time
}

func NewReviewService(repo domain.ReviewRepository, cache domain.Cache, fallback FallbackFunc) *ReviewService {
	return &ReviewService{repo: repo, cache: cache, fallback: fallback, now: time.Now}
}

type CreateReviewInput struct {
	GuestName    string  `json:"guestName"`
	Country      string  `json:"country"`
	Flag         string  `json:"flag"`
	Rating       int     `json:"rating"`
	ReviewText   string  `json:"reviewText"`
	Platform     string  `json:"platform"`
	StayDate     *string `json:"stayDate"`
	StayDuration *string `json:"stayDuration"`
	GuestCount   int     `json:"guestCount"`
	HostResponse *string `json:"hostResponse"`
	PhotoURL     *string `json:"photoUrl"`
	PhotoKey     *string `json:"photoKey"`
}

func (s *ReviewService) Create(ctx context.Context, in CreateReviewInput) (domain.Review, error) {
	var v []string
	if utf8.RuneCountInString(strings.TrimSpace(in.GuestName)) < 2 {
		v = append(v, "Nombre del huésped es requerido y debe tener al menos 2 caracteres")
	}
	if strings.TrimSpace(in.Country) == "" {
		v = append(v, "País es requerido")
	}
	if in.Rating < 1 || in.Rating > 5 {
		v = append(v, "Calificación debe estar entre 1 y 5")
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.ReviewText)) < 10 {
		v = append(v, "Texto de reseña es requerido y debe tener al menos 10 caracteres")
	}
	if !domain.ValidPlatform(in.Platform) {
		v = append(v, "Plataforma debe ser booking, airbnb o direct")
	}
	if in.GuestCount != 0 && (in.GuestCount < 1 || in.GuestCount > 20) {
		v = append(v, "Número de huéspedes debe estar entre 1 y 20")
	}
	if len(v) > 0 {
		return domain.Review{}, &domain.ValidationError{Violations: v}
	}

	now := s.now().UTC()
	flag := in.Flag
	if flag == "" {
		flag = domain.CountryFlag(in.Country)
	}
	guestCount := in.GuestCount
	if guestCount == 0 {
		guestCount = 1
	}

	rv := domain.Review{
		ID:           uuid.NewString(),
		GuestName:    in.GuestName,
		Country:      in.Country,
		Flag:         flag,
		Rating:       in.Rating,
		ReviewText:   in.ReviewText,
		Platform:     in.Platform,
		StayDate:     in.StayDate,
		StayDuration: in.StayDuration,
		GuestCount:   guestCount,
		HostResponse: in.HostResponse,
		PhotoURL:     in.PhotoURL,
		PhotoKey:     in.PhotoKey,
		CreatedAt:    now,
		UpdatedAt:    now,
		IsActive:     true,
	}
	if err := s.repo.Insert(ctx, rv); err != nil {
		return domain.Review{}, err
	}
	s.invalidateStats(ctx)
	return rv, nil
}

func (s *ReviewService) Update(ctx context.Context, id string, patch domain.ReviewPatch) (domain.Review, error) {
	// Only supplied fields are re-validated; everything else keeps its
	// stored value.
	var v []string
	if patch.Rating != nil && (*patch.Rating < 1 || *patch.Rating > 5) {
		v = append(v, "Calificación debe estar entre 1 y 5")
	}
	if patch.GuestCount != nil && (*patch.GuestCount < 1 || *patch.GuestCount > 20) {
		v = append(v, "Número de huéspedes debe estar entre 1 y 20")
	}
	if len(v) > 0 {
		return domain.Review{}, &domain.ValidationError{Violations: v}
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}

	// Read-then-write without a transaction: a concurrent delete between
	// the two statements surfaces as not found from the guarded UPDATE.
	rv := merge(existing.Review, patch)
	rv.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, rv); err != nil {
		return domain.Review{}, err
	}
	s.invalidateStats(ctx)
	return rv, nil
}

func merge(rv domain.Review, p domain.ReviewPatch) domain.Review {
	if p.GuestName != nil {
		rv.GuestName = *p.GuestName
	}
	if p.Country != nil {
		rv.Country = *p.Country
	}
	if p.Flag != nil {
		rv.Flag = *p.Flag
	}
	if p.Rating != nil {
		rv.Rating = *p.Rating
	}
	if p.ReviewText != nil {
		rv.ReviewText = *p.ReviewText
	}
	if p.Platform != nil {
		rv.Platform = *p.Platform
	}
	if p.StayDate != nil {
		rv.StayDate = p.StayDate
	}
	if p.StayDuration != nil {
		rv.StayDuration = p.StayDuration
	}
	if p.GuestCount != nil {
		rv.GuestCount = *p.GuestCount
	}
	if p.HostResponse != nil {
		rv.HostResponse = p.HostResponse
	}
	if p.PhotoURL != nil {
		rv.PhotoURL = p.PhotoURL
	}
	if p.PhotoKey != nil {
		rv.PhotoKey = p.PhotoKey
	}
	return rv
}

func (s *ReviewService) Delete(ctx context.Context, id string) error {
	if err := s.repo.SoftDelete(ctx, id, s.now().UTC()); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *ReviewService) Get(ctx context.Context, id string) (domain.ReviewDetail, error) {
	return s.repo.Get(ctx, id)
}

func (s *ReviewService) List(ctx context.Context, q domain.ReviewsQuery) ([]domain.Review, domain.Pagination, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		if s.fallback == nil {
			return nil, domain.Pagination{}, err
		}
		log.Warn().Err(err).Msg("review store unreachable, serving fallback data")
		items, total = pageOf(filterReviews(s.fallback(), q), q)
	}
	return items, paginate(q.Page, q.Limit, total), nil
}

func paginate(page, limit, total int) domain.Pagination {
	totalPages := (total + limit - 1) / limit
	return domain.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func filterReviews(in []domain.Review, q domain.ReviewsQuery) []domain.Review {
	out := make([]domain.Review, 0, len(in))
	for _, rv := range in {
		if q.Platform != "" && q.Platform != "all" && rv.Platform != q.Platform {
			continue
		}
		if q.MinRating > 0 && rv.Rating < q.MinRating {
			continue
		}
		if q.Country != "" && q.Country != "all" && rv.Country != q.Country {
			continue
		}
		out = append(out, rv)
	}
	return out
}

func pageOf(in []domain.Review, q domain.ReviewsQuery) ([]domain.Review, int) {
	total := len(in)
	start := (q.Page - 1) * q.Limit
	if start >= total {
		return nil, total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	return in[start:end], total
}

func (s *ReviewService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, statsCacheKey)
}
