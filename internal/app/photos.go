package app

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"nevado_reviews/internal/domain"
)

type PhotoService struct {
	photos domain.PhotoRepository
	blobs  domain.BlobStore
	cache  domain.Cache
	now    func() time.Time
}

func NewPhotoService(photos domain.PhotoRepository, blobs domain.BlobStore, cache domain.Cache) *PhotoService {
	return &PhotoService{photos: photos, blobs: blobs, cache: cache, now: time.Now}
}

type UploadInput struct {
	Filename string
	MimeType string
	Size     int64
	Body     io.Reader
	ReviewID *string
}

func (s *PhotoService) Upload(ctx context.Context, in UploadInput) (domain.Photo, error) {
	if !domain.ValidPhotoMimeType(in.MimeType) {
		return domain.Photo{}, &domain.ValidationError{
			Violations: []string{"Tipo de archivo no permitido. Solo se permiten JPG, PNG, WebP y GIF"},
		}
	}
	if in.Size > domain.MaxPhotoSizeBytes {
		return domain.Photo{}, &domain.ValidationError{
			Violations: []string{"Archivo demasiado grande. Máximo 5MB"},
		}
	}

	id := uuid.NewString()
	key := id + strings.ToLower(path.Ext(in.Filename))

	url, err := s.blobs.Put(ctx, key, in.Body, in.Size, in.MimeType)
	if err != nil {
		return domain.Photo{}, fmt.Errorf("blob put: %w", err)
	}

	p := domain.Photo{
		ID:               id,
		ReviewID:         in.ReviewID,
		OriginalFilename: in.Filename,
		StorageKey:       key,
		URL:              url,
		MimeType:         in.MimeType,
		SizeBytes:        in.Size,
		UploadedAt:       s.now().UTC(),
	}
	if err := s.photos.InsertPhoto(ctx, p); err != nil {
		// Blob already written; the orphan object is reconciled manually.
		log.Error().Err(err).Str("key", key).Msg("photo metadata insert failed after blob write")
		return domain.Photo{}, err
	}

	// Linking is best-effort: the upload itself already succeeded, a failed
	// pointer write leaves an orphan photo row rather than a user-facing
	// error.
	if in.ReviewID != nil && *in.ReviewID != "" {
		if err := s.photos.LinkReview(ctx, *in.ReviewID, url, key, s.now().UTC()); err != nil {
			log.Error().Err(err).
				Str("photo_id", id).
				Str("review_id", *in.ReviewID).
				Msg("photo uploaded but review link failed")
		}
	}
	s.invalidateStats(ctx)
	return p, nil
}

func (s *PhotoService) Get(ctx context.Context, id string) (domain.Photo, error) {
	return s.photos.GetPhoto(ctx, id)
}

// Delete removes the blob first so a failure leaves both halves in place;
// once the blob is gone the metadata row and any review pointer follow.
func (s *PhotoService) Delete(ctx context.Context, id string) error {
	p, err := s.photos.GetPhoto(ctx, id)
	if err != nil {
		return err
	}
	if err := s.blobs.Remove(ctx, p.StorageKey); err != nil {
		return fmt.Errorf("blob remove: %w", err)
	}
	if err := s.photos.DeletePhoto(ctx, id); err != nil {
		log.Error().Err(err).Str("photo_id", id).Msg("blob removed but metadata delete failed")
		return err
	}
	if p.ReviewID != nil && *p.ReviewID != "" {
		if err := s.photos.UnlinkReview(ctx, *p.ReviewID, s.now().UTC()); err != nil {
			log.Error().Err(err).
				Str("photo_id", id).
				Str("review_id", *p.ReviewID).
				Msg("photo deleted but review pointer not cleared")
		}
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *PhotoService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, statsCacheKey)
}
