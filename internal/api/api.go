package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mazurko/prospekt/internal/convert"
	"github.com/mazurko/prospekt/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// ConversionRequest is the body of POST /conversions.
type ConversionRequest struct {
	URL string `json:"url"`
	Ref string `json:"ref"`
}

type AppDeps struct {
	Store *storage.Store
	Token string
	// MaxAttempts caps retries for enqueued conversion jobs. Zero keeps
	// the queue default.
	MaxAttempts int
}

func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Post("/conversions", handleSubmitConversion(deps))
		r.Get("/conversions", handleListConversions(deps))
		r.Get("/conversions/{id}", handleGetConversion(deps))
		r.Get("/profiles", handleListProfiles(deps))
		r.Get("/profiles/{id}", handleGetProfile(deps))
		r.Delete("/profiles/{id}", handleDeleteProfile(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleSubmitConversion(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req ConversionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		if req.URL == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "url is required")
			return
		}
		u, err := url.Parse(req.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "url must be an absolute http(s) url")
			return
		}

		convID := uuid.New().String()
		conv := storage.Conversion{
			ID:        convID,
			SourceURL: req.URL,
			SourceRef: req.Ref,
			CreatedAt: time.Now().UTC(),
		}
		if err := deps.Store.CreateConversion(conv); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to create conversion: %v", err)
			return
		}

		payload, err := json.Marshal(map[string]string{"conversion_id": convID})
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to create job payload: %v", err)
			return
		}
		job := storage.Job{
			ID:          uuid.New().String(),
			Type:        convert.JobType,
			PayloadJSON: string(payload),
			MaxAttempts: deps.MaxAttempts,
		}
		if err := deps.Store.EnqueueJob(job); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to enqueue job: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{
			"id":     convID,
			"status": "queued",
		})
	}
}

func handleGetConversion(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		conv, err := deps.Store.GetConversion(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "conversion not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get conversion: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(toConversionResponse(conv))
	}
}

func handleListConversions(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 20, 100)

		convs, err := deps.Store.ListConversions(limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list conversions: %v", err)
			return
		}

		out := make([]conversionResponse, 0, len(convs))
		for _, c := range convs {
			out = append(out, toConversionResponse(c))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}

func handleGetProfile(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		p, err := deps.Store.GetProfile(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get profile: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(toProfileResponse(p))
	}
}

func handleListProfiles(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 20, 100)
		offset := parseIntParam(r, "offset", 0, 0)

		profiles, err := deps.Store.ListProfiles(limit, offset)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list profiles: %v", err)
			return
		}

		out := make([]profileSummary, 0, len(profiles))
		for _, p := range profiles {
			out = append(out, toProfileSummary(p))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}

func handleDeleteProfile(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		p, err := deps.Store.GetProfile(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to load profile: %v", err)
			return
		}

		if err := deps.Store.DeleteProfile(id); err != nil && !errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete profile: %v", err)
			return
		}

		// The exported artifact goes with the row. A missing file is fine.
		if p.BlobPath != "" {
			if err := os.Remove(p.BlobPath); err != nil && !errors.Is(err, os.ErrNotExist) {
				slog.Warn("removing profile artifact", "profile_id", id, "path", p.BlobPath, "error", err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
	}
}

type conversionResponse struct {
	ID        string `json:"id"`
	SourceURL string `json:"source_url"`
	SourceRef string `json:"source_ref,omitempty"`
	Status    string `json:"status"`
	ProfileID string `json:"profile_id,omitempty"`
	LastError string `json:"last_error,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toConversionResponse(c storage.Conversion) conversionResponse {
	return conversionResponse{
		ID:        c.ID,
		SourceURL: c.SourceURL,
		SourceRef: c.SourceRef,
		Status:    c.Status,
		ProfileID: c.ProfileID,
		LastError: c.LastError,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

type profileSummary struct {
	ID           string `json:"id"`
	ConversionID string `json:"conversion_id"`
	SourceRef    string `json:"source_ref,omitempty"`
	BlobPath     string `json:"blob_path,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func toProfileSummary(p storage.Profile) profileSummary {
	return profileSummary{
		ID:           p.ID,
		ConversionID: p.ConversionID,
		SourceRef:    p.SourceRef,
		BlobPath:     p.BlobPath,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}

type profileResponse struct {
	profileSummary
	Document json.RawMessage `json:"document"`
}

func toProfileResponse(p storage.Profile) profileResponse {
	doc := json.RawMessage(p.DocumentJSON)
	if len(doc) == 0 {
		doc = json.RawMessage("null")
	}
	return profileResponse{
		profileSummary: toProfileSummary(p),
		Document:       doc,
	}
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
