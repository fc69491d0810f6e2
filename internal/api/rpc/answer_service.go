// Package rpc provides the Connect service implementation for the answer
// engine.
package rpc

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/printworks/answer-engine/internal/answer"
	"github.com/printworks/answer-engine/internal/intent"
	"github.com/printworks/answer-engine/internal/observability"
)

// AnswerService implements the Connect answer service.
type AnswerService struct {
	logger  *observability.Logger
	service *answer.Service
}

// NewAnswerService creates a new answer service.
func NewAnswerService(logger *observability.Logger, service *answer.Service) *AnswerService {
	return &AnswerService{
		logger:  logger,
		service: service,
	}
}

// QueryRequest represents the Connect request message.
type QueryRequest struct {
	Query         string            `json:"query"`
	Language      string            `json:"language,omitempty"`
	CallerContext map[string]string `json:"caller_context,omitempty"`
	MaxUpsell     int32             `json:"max_upsell,omitempty"`
}

// QueryResponse represents the Connect response message.
type QueryResponse struct {
	RequestID      string   `json:"request_id"`
	Answered       bool     `json:"answered"`
	Message        string   `json:"message"`
	NoAnswerReason string   `json:"no_answer_reason,omitempty"`
	AnchorID       string   `json:"anchor_id,omitempty"`
	Category       string   `json:"category,omitempty"`
	UpsellIDs      []string `json:"upsell_ids,omitempty"`
	Tags           []*Tag   `json:"tags,omitempty"`
	LatencyMs      int64    `json:"latency_ms"`
}

// Tag represents one detected intent tag in Connect.
type Tag struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Query handles Connect answer queries.
func (s *AnswerService) Query(ctx context.Context, req *connect.Request[QueryRequest]) (*connect.Response[QueryResponse], error) {
	msg := req.Msg

	if msg.Query == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("query is required"))
	}

	resp := s.service.Answer(ctx, answer.Request{
		Query:         msg.Query,
		Language:      msg.Language,
		CallerContext: msg.CallerContext,
		MaxUpsell:     int(msg.MaxUpsell),
	})

	return connect.NewResponse(toRPCResponse(resp)), nil
}

func toRPCResponse(resp *answer.Response) *QueryResponse {
	out := &QueryResponse{
		RequestID:      resp.RequestID,
		Answered:       resp.Answered,
		Message:        resp.Message,
		NoAnswerReason: string(resp.NoAnswerReason),
		AnchorID:       resp.AnchorID,
		Category:       resp.Category,
		UpsellIDs:      resp.UpsellIDs,
		LatencyMs:      resp.Elapsed.Milliseconds(),
	}
	out.Tags = toRPCTags(resp.Tags)
	return out
}

func toRPCTags(tags []intent.Tag) []*Tag {
	if len(tags) == 0 {
		return nil
	}
	out := make([]*Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, &Tag{Name: t.Name, Weight: t.Weight})
	}
	return out
}
