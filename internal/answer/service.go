package answer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/printworks/answer-engine/internal/catalog"
	"github.com/printworks/answer-engine/internal/intent"
	"github.com/printworks/answer-engine/internal/observability"
	"github.com/printworks/answer-engine/internal/ranking"
	"github.com/printworks/answer-engine/internal/retriever"
)

// NoAnswerReason explains why a query produced no answer.
type NoAnswerReason string

const (
	ReasonNone             NoAnswerReason = ""
	ReasonNoCandidates     NoAnswerReason = "no_candidates"
	ReasonRetrieverTimeout NoAnswerReason = "retriever_timeout"
	ReasonRetrieverError   NoAnswerReason = "retriever_error"
)

// fallbackMessages is shown when the pipeline cannot answer.
var fallbackMessages = map[string]string{
	"uk": "На жаль, я не знайшов відповіді на ваше запитання. Наш менеджер незабаром приєднається до розмови.",
	"ru": "К сожалению, я не нашёл ответа на ваш вопрос. Наш менеджер скоро присоединится к разговору.",
	"en": "Unfortunately I could not find an answer to your question. A manager will join the conversation shortly.",
}

// Request is one incoming query.
type Request struct {
	Query         string            `json:"query"`
	Language      string            `json:"language"`
	CallerContext map[string]string `json:"caller_context,omitempty"`
	MaxUpsell     int               `json:"max_upsell,omitempty"`
}

// Response is the pipeline's result. Message always holds user-facing
// text; when Answered is false it is the localized fallback and
// NoAnswerReason says why.
type Response struct {
	RequestID      string                 `json:"request_id"`
	Answered       bool                   `json:"answered"`
	Message        string                 `json:"message"`
	NoAnswerReason NoAnswerReason         `json:"no_answer_reason,omitempty"`
	AnchorID       string                 `json:"anchor_id,omitempty"`
	Category       string                 `json:"category,omitempty"`
	UpsellIDs      []string               `json:"upsell_ids,omitempty"`
	Tags           []intent.Tag           `json:"tags,omitempty"`
	Stats          *ranking.SelectionStats `json:"stats,omitempty"`
	Elapsed        time.Duration          `json:"-"`
}

// ServiceConfig carries the tunables the service needs.
type ServiceConfig struct {
	TopK            int
	MaxUpsell       int
	DefaultLanguage string
}

// Service runs the full pipeline: intent analysis, candidate retrieval,
// selection and formatting. Safe for concurrent use; all catalog reads go
// through the holder's current snapshot.
type Service struct {
	analyzer  *intent.Analyzer
	retriever retriever.Retriever
	holder    *catalog.Holder
	selector  *ranking.Selector
	formatter *Formatter
	cfg       ServiceConfig
	logger    *observability.Logger
}

// NewService wires the pipeline together.
func NewService(
	analyzer *intent.Analyzer,
	r retriever.Retriever,
	holder *catalog.Holder,
	selector *ranking.Selector,
	formatter *Formatter,
	cfg ServiceConfig,
	logger *observability.Logger,
) *Service {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.MaxUpsell <= 0 {
		cfg.MaxUpsell = ranking.DefaultMaxUpsell
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "uk"
	}
	if logger == nil {
		logger = observability.Nop()
	}
	return &Service{
		analyzer:  analyzer,
		retriever: r,
		holder:    holder,
		selector:  selector,
		formatter: formatter,
		cfg:       cfg,
		logger:    logger,
	}
}

// Answer processes one query end to end. It never returns an error for
// retrieval failures or empty candidate sets; those become a structured
// no-answer response so callers always have text to show.
func (s *Service) Answer(ctx context.Context, req Request) *Response {
	start := time.Now()
	requestID := uuid.New().String()
	ctx = observability.ContextWithRequestID(ctx, requestID)
	log := s.logger.WithContext(ctx)

	lang := req.Language
	if lang == "" {
		lang = s.cfg.DefaultLanguage
	}
	maxUpsell := req.MaxUpsell
	if maxUpsell <= 0 {
		maxUpsell = s.cfg.MaxUpsell
	}

	tags := s.analyzer.Analyze(req.Query, req.CallerContext)

	candidates, err := s.retriever.Search(ctx, req.Query, lang, s.cfg.TopK)
	if err != nil {
		reason := ReasonRetrieverError
		if errors.Is(err, retriever.ErrTimeout) {
			reason = ReasonRetrieverTimeout
		}
		log.Warn().Err(err).Str("reason", string(reason)).Msg("retriever failed")
		return s.noAnswer(requestID, lang, reason, tags, start)
	}

	snap := s.holder.Current()
	sel, err := s.selector.Select(candidates, snap, tags, maxUpsell)
	if err != nil {
		if !errors.Is(err, ranking.ErrNoCandidates) {
			log.Error().Err(err).Msg("selection failed")
			return s.noAnswer(requestID, lang, ReasonNoCandidates, tags, start)
		}
		log.Info().Str("query", req.Query).Msg("no candidates for query")
		return s.noAnswer(requestID, lang, ReasonNoCandidates, tags, start)
	}

	message := s.formatter.Format(sel, lang)

	upsellIDs := make([]string, 0, len(sel.Upsells))
	for _, u := range sel.Upsells {
		upsellIDs = append(upsellIDs, u.Entry.ID)
	}

	elapsed := time.Since(start)
	log.Info().
		Str("anchor_id", sel.Anchor.ID).
		Str("category", sel.Anchor.Category).
		Int("upsells", len(upsellIDs)).
		Dur("elapsed", elapsed).
		Msg("query answered")

	return &Response{
		RequestID: requestID,
		Answered:  true,
		Message:   message,
		AnchorID:  sel.Anchor.ID,
		Category:  sel.Anchor.Category,
		UpsellIDs: upsellIDs,
		Tags:      tags,
		Stats:     &sel.Stats,
		Elapsed:   elapsed,
	}
}

func (s *Service) noAnswer(requestID, lang string, reason NoAnswerReason, tags []intent.Tag, start time.Time) *Response {
	return &Response{
		RequestID:      requestID,
		Answered:       false,
		Message:        fallbackMessage(lang),
		NoAnswerReason: reason,
		Tags:           tags,
		Elapsed:        time.Since(start),
	}
}

// fallbackMessage returns the localized cannot-answer text, defaulting to
// Ukrainian.
func fallbackMessage(lang string) string {
	if m, ok := fallbackMessages[baseLang(lang)]; ok {
		return m
	}
	return fallbackMessages["uk"]
}
