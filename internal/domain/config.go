package domain

import "time"

type ConfigEntry struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Well-known config keys. The store is open-schema; unknown keys are
// accepted but skip type-specific validation.
const (
	ConfigMaintenanceMode   = "maintenance_mode"
	ConfigMaxReviewsPerPage = "max_reviews_per_page"
	ConfigAllowGuestUploads = "allow_guest_uploads"
	ConfigAutoApprove       = "auto_approve_reviews"
	ConfigNotificationEmail = "notification_email"
)

// ProtectedConfigKey reports whether a key may only be updated, never deleted.
func ProtectedConfigKey(key string) bool {
	return key == ConfigMaintenanceMode || key == ConfigMaxReviewsPerPage
}
