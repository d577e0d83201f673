package mysql

import (
	"context"
	"database/sql"
	"time"

	"nevado_reviews/internal/domain"
)

func (r *Repo) Insert(ctx context.Context, rv domain.Review) error {
	_, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.ID,
		rv.GuestName,
		rv.Country,
		rv.Flag,
		rv.Rating,
		rv.ReviewText,
		rv.Platform,
		valStr(rv.StayDate),
		valStr(rv.StayDuration),
		rv.GuestCount,
		valStr(rv.HostResponse),
		valStr(rv.PhotoURL),
		valStr(rv.PhotoKey),
		rv.CreatedAt,
		rv.UpdatedAt,
	)
	return err
}

func (r *Repo) Update(ctx context.Context, rv domain.Review) error {
	res, err := r.db.ExecContext(ctx, updateReviewSQL,
		rv.GuestName,
		rv.Country,
		rv.Flag,
		rv.Rating,
		rv.ReviewText,
		rv.Platform,
		valStr(rv.StayDate),
		valStr(rv.StayDuration),
		rv.GuestCount,
		valStr(rv.HostResponse),
		valStr(rv.PhotoURL),
		valStr(rv.PhotoKey),
		rv.UpdatedAt,
		rv.ID,
	)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *Repo) SoftDelete(ctx context.Context, id string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, softDeleteReviewSQL, now, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// mustAffect maps a zero-row write to ErrNotFound: the guarded UPDATEs only
// miss when the row is absent or already soft-deleted.
func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (domain.ReviewDetail, error) {
	row := r.db.QueryRowContext(ctx, getReviewSQL, id)

	var d domain.ReviewDetail
	var stayDate, stayDur, hostResp, photoURL, photoKey sql.NullString
	var pID, pReviewID, pFilename, pKey, pURL, pMime sql.NullString
	var pSize sql.NullInt64
	var pUploadedAt sql.NullTime

	if err := row.Scan(
		&d.ID, &d.GuestName, &d.Country, &d.Flag, &d.Rating, &d.ReviewText, &d.Platform,
		&stayDate, &stayDur, &d.GuestCount, &hostResp,
		&photoURL, &photoKey, &d.CreatedAt, &d.UpdatedAt,
		&pID, &pReviewID, &pFilename, &pKey, &pURL, &pMime, &pSize, &pUploadedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.ReviewDetail{}, domain.ErrNotFound
		}
		return domain.ReviewDetail{}, err
	}

	d.StayDate = nullToPtr(stayDate)
	d.StayDuration = nullToPtr(stayDur)
	d.HostResponse = nullToPtr(hostResp)
	d.PhotoURL = nullToPtr(photoURL)
	d.PhotoKey = nullToPtr(photoKey)
	d.IsActive = true

	if pID.Valid {
		d.Photo = &domain.Photo{
			ID:               pID.String,
			ReviewID:         nullToPtr(pReviewID),
			OriginalFilename: pFilename.String,
			StorageKey:       pKey.String,
			URL:              pURL.String,
			MimeType:         pMime.String,
			SizeBytes:        pSize.Int64,
			UploadedAt:       pUploadedAt.Time,
		}
	}
	return d, nil
}

func (r *Repo) List(ctx context.Context, q domain.ReviewsQuery) ([]domain.Review, int, error) {
	where := "WHERE r.is_active = 1"
	var args []any
	if q.Platform != "" && q.Platform != "all" {
		where += " AND r.platform = ?"
		args = append(args, q.Platform)
	}
	if q.MinRating > 0 {
		where += " AND r.rating >= ?"
		args = append(args, q.MinRating)
	}
	if q.Country != "" && q.Country != "all" {
		where += " AND r.country = ?"
		args = append(args, q.Country)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reviews r "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (q.Page - 1) * q.Limit
	listSQL := "SELECT" + reviewColumns + "FROM reviews r " + where +
		" ORDER BY r.created_at DESC, r.id DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, listSQL, append(args, q.Limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := scanReviews(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repo) ListAllActive(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listAllActiveSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows)
}

func scanReviews(rows *sql.Rows) ([]domain.Review, error) {
	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var stayDate, stayDur, hostResp, photoURL, photoKey sql.NullString
		if err := rows.Scan(
			&rv.ID, &rv.GuestName, &rv.Country, &rv.Flag, &rv.Rating, &rv.ReviewText, &rv.Platform,
			&stayDate, &stayDur, &rv.GuestCount, &hostResp,
			&photoURL, &photoKey, &rv.CreatedAt, &rv.UpdatedAt,
		); err != nil {
			return nil, err
		}
		rv.StayDate = nullToPtr(stayDate)
		rv.StayDuration = nullToPtr(stayDur)
		rv.HostResponse = nullToPtr(hostResp)
		rv.PhotoURL = nullToPtr(photoURL)
		rv.PhotoKey = nullToPtr(photoKey)
		rv.IsActive = true
		out = append(out, rv)
	}
	return out, rows.Err()
}
