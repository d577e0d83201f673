package mysql

const insertReviewSQL = `
INSERT INTO reviews
  (id, guest_name, country, flag, rating, review_text, platform,
   stay_date, stay_duration, guest_count, host_response,
   photo_url, photo_key, created_at, updated_at, is_active)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
`

// Full-row write; the service merges the patch into the current row first.
// The is_active guard turns updates of soft-deleted rows into a no-op the
// repo reports as not found.
const updateReviewSQL = `
UPDATE reviews SET
  guest_name = ?, country = ?, flag = ?, rating = ?, review_text = ?,
  platform = ?, stay_date = ?, stay_duration = ?, guest_count = ?,
  host_response = ?, photo_url = ?, photo_key = ?, updated_at = ?
WHERE id = ? AND is_active = 1
`

const softDeleteReviewSQL = `
UPDATE reviews SET is_active = 0, updated_at = ? WHERE id = ? AND is_active = 1
`

const reviewColumns = `
  r.id, r.guest_name, r.country, r.flag, r.rating, r.review_text, r.platform,
  r.stay_date, r.stay_duration, r.guest_count, r.host_response,
  r.photo_url, r.photo_key, r.created_at, r.updated_at
`

const getReviewSQL = `
SELECT` + reviewColumns + `,
  gp.id, gp.review_id, gp.original_filename, gp.storage_key, gp.url,
  gp.mime_type, gp.size_bytes, gp.uploaded_at
FROM reviews r
LEFT JOIN guest_photos gp ON gp.review_id = r.id
WHERE r.id = ? AND r.is_active = 1
`

const listAllActiveSQL = `
SELECT` + reviewColumns + `
FROM reviews r
WHERE r.is_active = 1
ORDER BY r.created_at DESC, r.id DESC
`

// Photos

const insertPhotoSQL = `
INSERT INTO guest_photos
  (id, review_id, original_filename, storage_key, url, mime_type, size_bytes, uploaded_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const getPhotoSQL = `
SELECT id, review_id, original_filename, storage_key, url, mime_type, size_bytes, uploaded_at
FROM guest_photos WHERE id = ?
`

const deletePhotoSQL = `DELETE FROM guest_photos WHERE id = ?`

const linkReviewPhotoSQL = `
UPDATE reviews SET photo_url = ?, photo_key = ?, updated_at = ? WHERE id = ?
`

const unlinkReviewPhotoSQL = `
UPDATE reviews SET photo_url = NULL, photo_key = NULL, updated_at = ? WHERE id = ?
`

// Config

const allConfigSQL = "SELECT `key`, value, description, updated_at FROM system_config ORDER BY `key`"

const getConfigSQL = "SELECT `key`, value, description, updated_at FROM system_config WHERE `key` = ?"

const upsertConfigSQL = "INSERT INTO system_config (`key`, value, description, updated_at)\n" +
	"VALUES (?, ?, ?, ?)\n" +
	"ON DUPLICATE KEY UPDATE value = VALUES(value), description = VALUES(description), updated_at = VALUES(updated_at)"

const deleteConfigSQL = "DELETE FROM system_config WHERE `key` = ?"

// Stats. All aggregate reads exclude soft-deleted rows.

const statsOverviewSQL = `
SELECT
  COUNT(*),
  COALESCE(ROUND(AVG(rating), 1), 0),
  COUNT(CASE WHEN platform = 'booking' THEN 1 END),
  COUNT(CASE WHEN platform = 'airbnb' THEN 1 END),
  COUNT(CASE WHEN platform = 'direct' THEN 1 END),
  COUNT(CASE WHEN rating = 5 THEN 1 END),
  COUNT(CASE WHEN rating = 4 THEN 1 END),
  COUNT(CASE WHEN rating = 3 THEN 1 END),
  COUNT(CASE WHEN rating = 2 THEN 1 END),
  COUNT(CASE WHEN rating = 1 THEN 1 END),
  COUNT(CASE WHEN rating >= 4 THEN 1 END),
  COUNT(CASE WHEN photo_url IS NOT NULL THEN 1 END),
  COUNT(CASE WHEN host_response IS NOT NULL THEN 1 END),
  MIN(created_at),
  MAX(created_at)
FROM reviews
WHERE is_active = 1
`

const topCountriesSQL = `
SELECT country, flag, COUNT(*) AS cnt
FROM reviews
WHERE is_active = 1
GROUP BY country, flag
ORDER BY cnt DESC
LIMIT ?
`

const countryBreakdownSQL = `
SELECT country, flag, COUNT(*) AS cnt,
  ROUND(AVG(rating), 1),
  COUNT(CASE WHEN rating = 5 THEN 1 END)
FROM reviews
WHERE is_active = 1
GROUP BY country, flag
ORDER BY cnt DESC
`

const platformBreakdownSQL = `
SELECT platform, COUNT(*) AS cnt,
  ROUND(AVG(rating), 1),
  COUNT(CASE WHEN rating = 5 THEN 1 END),
  COUNT(CASE WHEN photo_url IS NOT NULL THEN 1 END)
FROM reviews
WHERE is_active = 1
GROUP BY platform
ORDER BY cnt DESC
`

const monthlyTrendsSQL = `
SELECT DATE_FORMAT(created_at, '%Y-%m') AS month, COUNT(*),
  ROUND(AVG(rating), 1)
FROM reviews
WHERE is_active = 1
  AND created_at >= DATE_SUB(UTC_TIMESTAMP(), INTERVAL ? MONTH)
GROUP BY month
ORDER BY month DESC
`

const recentReviewsSQL = `
SELECT id, guest_name, country, flag, rating, review_text, platform, created_at, photo_url
FROM reviews
WHERE is_active = 1 AND rating >= ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`
