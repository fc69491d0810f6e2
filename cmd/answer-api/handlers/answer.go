// Package handlers provides HTTP handlers for the answer engine API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/printworks/answer-engine/internal/answer"
	"github.com/printworks/answer-engine/internal/observability"
)

// AnswerHandler handles answer queries.
type AnswerHandler struct {
	logger  *observability.Logger
	service *answer.Service
}

// NewAnswerHandler creates a new answer handler.
func NewAnswerHandler(logger *observability.Logger, service *answer.Service) *AnswerHandler {
	return &AnswerHandler{
		logger:  logger,
		service: service,
	}
}

// AnswerRequestDTO represents the API request.
type AnswerRequestDTO struct {
	Query         string            `json:"query"`
	Language      string            `json:"language,omitempty"`
	CallerContext map[string]string `json:"callerContext,omitempty"`
	MaxUpsell     int               `json:"maxUpsell,omitempty"`
}

// AnswerResponseDTO represents the API response.
type AnswerResponseDTO struct {
	RequestID      string   `json:"requestId"`
	Answered       bool     `json:"answered"`
	Message        string   `json:"message"`
	NoAnswerReason string   `json:"noAnswerReason,omitempty"`
	AnchorID       string   `json:"anchorId,omitempty"`
	Category       string   `json:"category,omitempty"`
	UpsellIDs      []string `json:"upsellIds,omitempty"`
	Tags           []TagDTO `json:"tags,omitempty"`
	LatencyMs      int64    `json:"latencyMs"`
}

// TagDTO represents one detected intent tag.
type TagDTO struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Answer handles POST /v1/answer.
func (h *AnswerHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var dto AnswerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if dto.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	resp := h.service.Answer(r.Context(), answer.Request{
		Query:         dto.Query,
		Language:      dto.Language,
		CallerContext: dto.CallerContext,
		MaxUpsell:     dto.MaxUpsell,
	})

	out := AnswerResponseDTO{
		RequestID:      resp.RequestID,
		Answered:       resp.Answered,
		Message:        resp.Message,
		NoAnswerReason: string(resp.NoAnswerReason),
		AnchorID:       resp.AnchorID,
		Category:       resp.Category,
		UpsellIDs:      resp.UpsellIDs,
		LatencyMs:      resp.Elapsed.Milliseconds(),
	}
	for _, t := range resp.Tags {
		out.Tags = append(out.Tags, TagDTO{Name: t.Name, Weight: t.Weight})
	}

	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
