package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"nevado_reviews/internal/domain"
)

var errBoom = errors.New("boom")

// fakeReviewRepo keeps reviews in a map and records call order where a test
// cares about it.
type fakeReviewRepo struct {
	reviews map[string]domain.Review
	photos  map[string]domain.Photo // keyed by review id, for Get joins

	failList bool
	failAll  bool
	inserted []string
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews: map[string]domain.Review{},
		photos:  map[string]domain.Photo{},
	}
}

func (f *fakeReviewRepo) Insert(_ context.Context, r domain.Review) error {
	f.reviews[r.ID] = r
	f.inserted = append(f.inserted, r.ID)
	return nil
}

func (f *fakeReviewRepo) Update(_ context.Context, r domain.Review) error {
	old, ok := f.reviews[r.ID]
	if !ok || !old.IsActive {
		return domain.ErrNotFound
	}
	f.reviews[r.ID] = r
	return nil
}

func (f *fakeReviewRepo) SoftDelete(_ context.Context, id string, now time.Time) error {
	r, ok := f.reviews[id]
	if !ok || !r.IsActive {
		return domain.ErrNotFound
	}
	r.IsActive = false
	r.UpdatedAt = now
	f.reviews[id] = r
	return nil
}

func (f *fakeReviewRepo) Get(_ context.Context, id string) (domain.ReviewDetail, error) {
	r, ok := f.reviews[id]
	if !ok || !r.IsActive {
		return domain.ReviewDetail{}, domain.ErrNotFound
	}
	d := domain.ReviewDetail{Review: r}
	if p, ok := f.photos[id]; ok {
		d.Photo = &p
	}
	return d, nil
}

func (f *fakeReviewRepo) List(_ context.Context, q domain.ReviewsQuery) ([]domain.Review, int, error) {
	if f.failList {
		return nil, 0, errBoom
	}
	var all []domain.Review
	for _, r := range f.reviews {
		if r.IsActive {
			all = append(all, r)
		}
	}
	all = filterReviews(all, q)
	page, total := pageOf(all, q)
	return page, total, nil
}

func (f *fakeReviewRepo) ListAllActive(_ context.Context) ([]domain.Review, error) {
	if f.failAll {
		return nil, errBoom
	}
	var all []domain.Review
	for _, r := range f.reviews {
		if r.IsActive {
			all = append(all, r)
		}
	}
	return all, nil
}

// fakePhotoRepo implements domain.PhotoRepository.
type fakePhotoRepo struct {
	photos map[string]domain.Photo

	failInsert bool
	failLink   bool
	linked     []string // review ids
	unlinked   []string
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{photos: map[string]domain.Photo{}}
}

func (f *fakePhotoRepo) InsertPhoto(_ context.Context, p domain.Photo) error {
	if f.failInsert {
		return errBoom
	}
	f.photos[p.ID] = p
	return nil
}

func (f *fakePhotoRepo) GetPhoto(_ context.Context, id string) (domain.Photo, error) {
	p, ok := f.photos[id]
	if !ok {
		return domain.Photo{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakePhotoRepo) DeletePhoto(_ context.Context, id string) error {
	if _, ok := f.photos[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.photos, id)
	return nil
}

func (f *fakePhotoRepo) LinkReview(_ context.Context, reviewID, _, _ string, _ time.Time) error {
	if f.failLink {
		return errBoom
	}
	f.linked = append(f.linked, reviewID)
	return nil
}

func (f *fakePhotoRepo) UnlinkReview(_ context.Context, reviewID string, _ time.Time) error {
	f.unlinked = append(f.unlinked, reviewID)
	return nil
}

// fakeBlobStore records puts and removes in memory.
type fakeBlobStore struct {
	objects map[string][]byte
	failPut bool
	removed []string
}

func newFakeBlobStore() *fakeBlobStore { return &fakeBlobStore{objects: map[string][]byte{}} }

func (f *fakeBlobStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	if f.failPut {
		return "", errBoom
	}
	b, _ := io.ReadAll(r)
	f.objects[key] = b
	return "https://photos.test/" + key, nil
}

func (f *fakeBlobStore) Remove(_ context.Context, key string) error {
	delete(f.objects, key)
	f.removed = append(f.removed, key)
	return nil
}

// fakeCache is a TTL-less in-memory cache that tracks deletions.
type fakeCache struct {
	data map[string][]byte
	dels []string
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (f *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	b, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.NewDecoder(bytes.NewReader(b)).Decode(dst)
}

func (f *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.data[key] = b
	return nil
}

func (f *fakeCache) Del(_ context.Context, key string) error {
	delete(f.data, key)
	f.dels = append(f.dels, key)
	return nil
}

// fakeConfigRepo implements domain.ConfigRepository.
type fakeConfigRepo struct {
	entries map[string]domain.ConfigEntry
	failGet bool
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{entries: map[string]domain.ConfigEntry{}}
}

func (f *fakeConfigRepo) AllConfig(_ context.Context) ([]domain.ConfigEntry, error) {
	var out []domain.ConfigEntry
	for _, e := range f.entries {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeConfigRepo) GetConfig(_ context.Context, key string) (domain.ConfigEntry, error) {
	if f.failGet {
		return domain.ConfigEntry{}, errBoom
	}
	e, ok := f.entries[key]
	if !ok {
		return domain.ConfigEntry{}, domain.ErrNotFound
	}
	return e, nil
}

func (f *fakeConfigRepo) UpsertConfig(_ context.Context, e domain.ConfigEntry) error {
	f.entries[e.Key] = e
	return nil
}

func (f *fakeConfigRepo) DeleteConfig(_ context.Context, key string) error {
	if _, ok := f.entries[key]; !ok {
		return domain.ErrNotFound
	}
	delete(f.entries, key)
	return nil
}

// fakeStatsRepo returns canned aggregates and counts calls so cache tests
// can assert the second read never hit the store.
type fakeStatsRepo struct {
	overview      domain.StatsOverview
	overviewCalls int
}

func (f *fakeStatsRepo) Overview(_ context.Context) (domain.StatsOverview, error) {
	f.overviewCalls++
	return f.overview, nil
}

func (f *fakeStatsRepo) TopCountries(_ context.Context, _ int) ([]domain.CountryCount, error) {
	return []domain.CountryCount{{Country: "Chile", Flag: "🇨🇱", Count: 12}}, nil
}

func (f *fakeStatsRepo) CountryBreakdown(_ context.Context) ([]domain.CountryStat, error) {
	return []domain.CountryStat{{Country: "Chile", Flag: "🇨🇱", Count: 12, AvgRating: 4.8, FiveStarCount: 10}}, nil
}

func (f *fakeStatsRepo) PlatformBreakdown(_ context.Context) ([]domain.PlatformStat, error) {
	return []domain.PlatformStat{{Platform: "booking", Count: 7, AvgRating: 4.9, FiveStarCount: 6, PhotosCount: 2}}, nil
}

func (f *fakeStatsRepo) MonthlyTrends(_ context.Context, _ int) ([]domain.MonthStat, error) {
	return []domain.MonthStat{{Month: "2026-08", Count: 3, AvgRating: 5}}, nil
}

func (f *fakeStatsRepo) RecentReviews(_ context.Context, _, _ int) ([]domain.ReviewHighlight, error) {
	return []domain.ReviewHighlight{{ID: "r1", GuestName: "Ana", Rating: 5}}, nil
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
