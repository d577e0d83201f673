package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"nevado_reviews/internal/app"
	"nevado_reviews/internal/domain"
)

type Handlers struct {
	Reviews *app.ReviewService
	Photos  *app.PhotoService
	Stats   *app.StatsService
	Config  *app.ConfigService
}

var availableEndpoints = []string{
	"GET /health",
	"GET /api/reviews",
	"GET /api/reviews/{id}",
	"POST /api/reviews",
	"PUT /api/reviews/{id}",
	"DELETE /api/reviews/{id}",
	"POST /api/photos",
	"GET /api/photos/{id}",
	"DELETE /api/photos/{id}",
	"GET /api/stats",
	"GET /api/stats/public",
	"GET /api/stats/export",
	"GET /api/config",
	"GET /api/config/{key}",
	"PUT /api/config/{key}",
	"DELETE /api/config/{key}",
	"GET /api/config/maintenance/status",
}

// MountHandlers registers every route on the server's router.
func (s *Server) MountHandlers(h *Handlers) {
	m := s.mux

	m.Get("/health", h.health)

	m.Route("/api", func(r chi.Router) {
		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", h.listReviews)
			r.Post("/", h.createReview)
			r.Get("/{id}", h.getReview)
			r.Put("/{id}", h.updateReview)
			r.Delete("/{id}", h.deleteReview)
		})
		r.Route("/photos", func(r chi.Router) {
			r.Post("/", h.uploadPhoto)
			r.Get("/{id}", h.getPhoto)
			r.Delete("/{id}", h.deletePhoto)
		})
		r.Route("/stats", func(r chi.Router) {
			r.Get("/", h.adminStats)
			r.Get("/public", h.publicStats)
			r.Get("/export", h.exportStats)
		})
		r.Route("/config", func(r chi.Router) {
			r.Get("/", h.allConfig)
			r.Get("/maintenance/status", h.maintenanceStatus)
			r.Get("/{key}", h.getConfig)
			r.Put("/{key}", h.setConfig)
			r.Delete("/{key}", h.deleteConfig)
		})
	})

	m.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":              "Not Found",
			"message":            "Endpoint no encontrado",
			"availableEndpoints": availableEndpoints,
		})
	})
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

// requireAdmin writes a 403 and returns false when the caller is not on
// the admin allowlist.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	info, ok := AuthFromContext(r.Context())
	if !ok || !info.IsAdmin {
		writeError(w, http.StatusForbidden, "Forbidden",
			"Acceso denegado. Se requieren permisos de administrador.", "ADMIN_REQUIRED", nil)
		return false
	}
	return true
}

// handleServiceError maps domain errors onto the API envelope. notFoundMsg
// is the resource-specific 404 message.
func handleServiceError(w http.ResponseWriter, err error, notFoundMsg string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, "Bad Request",
			"Datos de entrada inválidos", "VALIDATION_ERROR", ve.Violations)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not Found", notFoundMsg, "", nil)
	case errors.Is(err, domain.ErrProtectedKey):
		writeError(w, http.StatusForbidden, "Forbidden",
			"Esta configuración está protegida y no puede ser eliminada", "PROTECTED_KEY", nil)
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "Internal Server Error",
			"Error interno del servidor", "", nil)
	}
}

// ---- reviews ----

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	q := domain.ReviewsQuery{
		Page:     atoiDefault(r.URL.Query().Get("page"), 1),
		Limit:    atoiDefault(r.URL.Query().Get("limit"), 20),
		Platform: r.URL.Query().Get("platform"),
		Country:  r.URL.Query().Get("country"),
	}
	// "rating" is the documented name; "minRating" is kept as an alias.
	rating := r.URL.Query().Get("rating")
	if rating == "" {
		rating = r.URL.Query().Get("minRating")
	}
	if rating != "" && rating != "all" {
		q.MinRating = atoiDefault(rating, 0)
	}
	items, page, err := h.Reviews.List(r.Context(), q)
	if err != nil {
		handleServiceError(w, err, "Reseña no encontrada")
		return
	}
	if items == nil {
		items = []domain.Review{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reviews":    items,
		"pagination": page,
	})
}

func (h *Handlers) getReview(w http.ResponseWriter, r *http.Request) {
	rv, err := h.Reviews.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err, "Reseña no encontrada")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"review": rv})
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	var in app.CreateReviewInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "Cuerpo JSON inválido", "INVALID_JSON", nil)
		return
	}
	rv, err := h.Reviews.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, err, "Reseña no encontrada")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Reseña creada exitosamente",
		"review":  rv,
	})
}

func (h *Handlers) updateReview(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	var patch domain.ReviewPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "Cuerpo JSON inválido", "INVALID_JSON", nil)
		return
	}
	rv, err := h.Reviews.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		handleServiceError(w, err, "Reseña no encontrada")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Reseña actualizada exitosamente",
		"review":  rv,
	})
}

func (h *Handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	if err := h.Reviews.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err, "Reseña no encontrada")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Reseña eliminada exitosamente"})
}

// ---- photos ----

func (h *Handlers) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	// A little headroom over the photo cap so the multipart framing fits.
	if err := r.ParseMultipartForm(domain.MaxPhotoSizeBytes + 1<<20); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request",
			"No se pudo leer el formulario multipart", "INVALID_MULTIPART", nil)
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request",
			"No se encontró ninguna foto en el formulario", "PHOTO_REQUIRED", nil)
		return
	}
	defer file.Close()

	in := app.UploadInput{
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Body:     file,
	}
	if rid := strings.TrimSpace(r.FormValue("reviewId")); rid != "" {
		in.ReviewID = &rid
	}
	photo, err := h.Photos.Upload(r.Context(), in)
	if err != nil {
		handleServiceError(w, err, "Foto no encontrada")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Foto subida exitosamente",
		"photo": map[string]any{
			"id":       photo.ID,
			"url":      photo.URL,
			"filename": photo.OriginalFilename,
			"size":     photo.SizeBytes,
			"type":     photo.MimeType,
		},
	})
}

func (h *Handlers) getPhoto(w http.ResponseWriter, r *http.Request) {
	photo, err := h.Photos.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err, "Foto no encontrada")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"photo": photo})
}

func (h *Handlers) deletePhoto(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	if err := h.Photos.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err, "Foto no encontrada")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Foto eliminada exitosamente"})
}

// ---- stats ----

func (h *Handlers) publicStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.Public(r.Context())
	if err != nil {
		handleServiceError(w, err, "Estadísticas no disponibles")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Any authenticated caller may read the detailed view; only the export is
// admin-only.
func (h *Handlers) adminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.Admin(r.Context())
	if err != nil {
		handleServiceError(w, err, "Estadísticas no disponibles")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handlers) exportStats(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	// Build the document first so store failures can still return a JSON
	// error instead of a truncated CSV.
	var buf bytes.Buffer
	filename, err := h.Stats.ExportCSV(r.Context(), &buf)
	if err != nil {
		handleServiceError(w, err, "Estadísticas no disponibles")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Warn().Err(err).Msg("csv export write interrupted")
	}
}

// ---- config ----

func (h *Handlers) allConfig(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	cfg, err := h.Config.All(r.Context())
	if err != nil {
		handleServiceError(w, err, "Configuración no encontrada")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"config": cfg})
}

func (h *Handlers) getConfig(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Config.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		handleServiceError(w, err, "Configuración no encontrada")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"config": entry})
}

type setConfigRequest struct {
	Value       any    `json:"value"`
	Description string `json:"description"`
}

func (h *Handlers) setConfig(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	var req setConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "Cuerpo JSON inválido", "INVALID_JSON", nil)
		return
	}
	entry, err := h.Config.Set(r.Context(), chi.URLParam(r, "key"), req.Value, req.Description)
	if err != nil {
		handleServiceError(w, err, "Configuración no encontrada")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Configuración actualizada exitosamente",
		"config":  entry,
	})
}

func (h *Handlers) deleteConfig(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	if err := h.Config.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		handleServiceError(w, err, "Configuración no encontrada")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Configuración eliminada exitosamente"})
}

func (h *Handlers) maintenanceStatus(w http.ResponseWriter, r *http.Request) {
	on := h.Config.MaintenanceStatus(r.Context())
	msg := "El sitio está operando normalmente"
	if on {
		msg = "El sitio está en mantenimiento"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"maintenanceMode": on,
		"message":         msg,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
