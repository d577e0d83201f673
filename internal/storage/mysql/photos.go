package mysql

import (
	"context"
	"database/sql"
	"time"

	"nevado_reviews/internal/domain"
)

func (r *Repo) InsertPhoto(ctx context.Context, p domain.Photo) error {
	_, err := r.db.ExecContext(ctx, insertPhotoSQL,
		p.ID,
		valStr(p.ReviewID),
		p.OriginalFilename,
		p.StorageKey,
		p.URL,
		p.MimeType,
		p.SizeBytes,
		p.UploadedAt,
	)
	return err
}

func (r *Repo) GetPhoto(ctx context.Context, id string) (domain.Photo, error) {
	row := r.db.QueryRowContext(ctx, getPhotoSQL, id)

	var p domain.Photo
	var reviewID sql.NullString
	if err := row.Scan(
		&p.ID, &reviewID, &p.OriginalFilename, &p.StorageKey, &p.URL,
		&p.MimeType, &p.SizeBytes, &p.UploadedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Photo{}, domain.ErrNotFound
		}
		return domain.Photo{}, err
	}
	p.ReviewID = nullToPtr(reviewID)
	return p, nil
}

func (r *Repo) DeletePhoto(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deletePhotoSQL, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// LinkReview writes the denormalized photo pointer into the review row.
// Linking a missing review is not an error here; the service decides how to
// treat dangling ids.
func (r *Repo) LinkReview(ctx context.Context, reviewID, url, key string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, linkReviewPhotoSQL, url, key, now, reviewID)
	return err
}

func (r *Repo) UnlinkReview(ctx context.Context, reviewID string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, unlinkReviewPhotoSQL, now, reviewID)
	return err
}
