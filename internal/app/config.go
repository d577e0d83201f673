package app

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"nevado_reviews/internal/domain"
)

type ConfigService struct {
	repo domain.ConfigRepository
	now  func() time.Time
}

func NewConfigService(repo domain.ConfigRepository) *ConfigService {
	return &ConfigService{repo: repo, now: time.Now}
}

// ConfigView is the per-key shape of the "get all" response.
type ConfigView struct {
	Value       string    `json:"value"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *ConfigService) All(ctx context.Context) (map[string]ConfigView, error) {
	entries, err := s.repo.AllConfig(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]ConfigView, len(entries))
	for _, e := range entries {
		out[e.Key] = ConfigView{Value: e.Value, Description: e.Description, UpdatedAt: e.UpdatedAt}
	}
	return out, nil
}

func (s *ConfigService) Get(ctx context.Context, key string) (domain.ConfigEntry, error) {
	return s.repo.GetConfig(ctx, key)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Set validates the value against the key's fixed rule and upserts it.
// The incoming value is the decoded JSON value: string, bool or number.
// Unknown keys are accepted as-is; the store is open-schema.
func (s *ConfigService) Set(ctx context.Context, key string, value any, description string) (domain.ConfigEntry, error) {
	if value == nil {
		return domain.ConfigEntry{}, &domain.ValidationError{Violations: []string{"El valor es requerido"}}
	}
	text, err := validateConfigValue(key, value)
	if err != nil {
		return domain.ConfigEntry{}, err
	}

	e := domain.ConfigEntry{
		Key:         key,
		Value:       text,
		Description: description,
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.repo.UpsertConfig(ctx, e); err != nil {
		return domain.ConfigEntry{}, err
	}
	return e, nil
}

func validateConfigValue(key string, value any) (string, error) {
	text := stringify(value)
	invalid := func(msg string) (string, error) {
		return "", &domain.ValidationError{Violations: []string{msg}}
	}

	switch key {
	case domain.ConfigMaintenanceMode, domain.ConfigAllowGuestUploads, domain.ConfigAutoApprove:
		if _, isBool := value.(bool); !isBool && text != "true" && text != "false" {
			return invalid(key + " debe ser true o false")
		}
	case domain.ConfigMaxReviewsPerPage:
		n, err := strconv.Atoi(text)
		if err != nil || n < 1 || n > 100 {
			return invalid("max_reviews_per_page debe ser un número entre 1 y 100")
		}
	case domain.ConfigNotificationEmail:
		if !emailPattern.MatchString(text) {
			return invalid("notification_email debe ser un email válido")
		}
	}
	return text, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func (s *ConfigService) Delete(ctx context.Context, key string) error {
	if domain.ProtectedConfigKey(key) {
		return domain.ErrProtectedKey
	}
	return s.repo.DeleteConfig(ctx, key)
}

// MaintenanceStatus never fails: a broken config store reads as "not in
// maintenance" so the public site stays up.
func (s *ConfigService) MaintenanceStatus(ctx context.Context) bool {
	e, err := s.repo.GetConfig(ctx, domain.ConfigMaintenanceMode)
	if err != nil {
		if err != domain.ErrNotFound {
			log.Warn().Err(err).Msg("maintenance_mode read failed, assuming operational")
		}
		return false
	}
	return e.Value == "true"
}
