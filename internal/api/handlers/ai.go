package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/openpaws/openpaws/internal/content"
	"github.com/openpaws/openpaws/internal/db/models"
	"github.com/openpaws/openpaws/internal/platforms"
)

// UsageReporter summarizes recorded AI spend.
type UsageReporter interface {
	Summary(ctx context.Context, since time.Time) ([]models.ProviderSpend, error)
}

// AIHandler serves the content generation endpoints.
type AIHandler struct {
	gen   *content.Generator
	usage UsageReporter
}

// NewAIHandler wires the generator. usage may be nil when the ledger is
// disabled.
func NewAIHandler(gen *content.Generator, usage UsageReporter) *AIHandler {
	return &AIHandler{gen: gen, usage: usage}
}

type generateRequest struct {
	Action         string                 `json:"action"`
	Prompt         string                 `json:"prompt"`
	Content        string                 `json:"content"`
	Platform       platforms.Platform     `json:"platform"`
	SourcePlatform platforms.Platform     `json:"sourcePlatform"`
	Brand          *content.BrandSettings `json:"brand"`
	ContentType    string                 `json:"contentType"`
	Mood           string                 `json:"mood"`
	VariationCount int                    `json:"variationCount"`
}

type resultMetadata struct {
	Provider   string  `json:"provider"`
	Model      string  `json:"model"`
	TokensUsed int     `json:"tokensUsed"`
	CostUSD    float64 `json:"costUsd"`
	DurationMs int64   `json:"durationMs"`
}

func metadataOf(r *content.Result) resultMetadata {
	return resultMetadata{
		Provider:   r.Provider,
		Model:      r.Model,
		TokensUsed: r.TokensUsed,
		CostUSD:    r.CostUSD,
		DurationMs: r.DurationMs,
	}
}

type contentResponse struct {
	Content  string         `json:"content"`
	Metadata resultMetadata `json:"metadata"`
}

// Generate handles POST /ai/generate.
func (h *AIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if req.Platform == "" {
		writeError(w, http.StatusBadRequest, "platform is required")
		return
	}

	action := req.Action
	if action == "" {
		action = "generate"
	}
	ctx := r.Context()

	switch action {
	case "generate":
		if req.Prompt == "" {
			writeError(w, http.StatusBadRequest, "prompt is required for generation")
			return
		}
		res, err := h.gen.Generate(ctx, content.GenerateRequest{
			Prompt:      req.Prompt,
			Platform:    req.Platform,
			Brand:       req.Brand,
			ContentType: req.ContentType,
			Mood:        req.Mood,
		})
		if err != nil {
			writeAIError(w, r, action, err)
			return
		}
		writeJSON(w, http.StatusOK, contentResponse{Content: res.Content, Metadata: metadataOf(res)})

	case "variations":
		if req.Content == "" {
			writeError(w, http.StatusBadRequest, "content is required for variations")
			return
		}
		variations, res, err := h.gen.Variations(ctx, req.Content, req.Platform, req.Brand, req.VariationCount)
		if err != nil {
			writeAIError(w, r, action, err)
			return
		}
		if variations == nil {
			variations = []string{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"variations": variations,
			"metadata":   metadataOf(res),
		})

	case "repurpose":
		if req.Content == "" || req.SourcePlatform == "" {
			writeError(w, http.StatusBadRequest, "content and sourcePlatform are required for repurposing")
			return
		}
		res, err := h.gen.Repurpose(ctx, req.Content, req.SourcePlatform, req.Platform, req.Brand)
		if err != nil {
			writeAIError(w, r, action, err)
			return
		}
		writeJSON(w, http.StatusOK, contentResponse{Content: res.Content, Metadata: metadataOf(res)})

	case "score":
		if req.Content == "" {
			writeError(w, http.StatusBadRequest, "content is required for scoring")
			return
		}
		score, err := h.gen.Score(ctx, req.Content, req.Platform)
		if err != nil {
			writeAIError(w, r, action, err)
			return
		}
		writeJSON(w, http.StatusOK, score)

	default:
		writeError(w, http.StatusBadRequest, "Unknown action: "+action)
	}
}

type brandRequest struct {
	Action         string   `json:"action"`
	URL            string   `json:"url"`
	BrandName      string   `json:"brandName"`
	TargetAudience string   `json:"targetAudience"`
	TopicsInclude  []string `json:"topicsInclude"`
	Tones          []string `json:"tones"`
}

type providerMetadata struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Brand handles POST /ai/brand: URL analysis by default, or a restyle.
func (h *AIHandler) Brand(w http.ResponseWriter, r *http.Request) {
	var req brandRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if req.Action == "restyle" {
		if len(req.Tones) == 0 {
			writeError(w, http.StatusBadRequest, "tones is required")
			return
		}
		res, err := h.gen.Restyle(r.Context(), content.RestyleRequest{
			BrandName:      req.BrandName,
			TargetAudience: req.TargetAudience,
			TopicsInclude:  req.TopicsInclude,
			Tones:          req.Tones,
		})
		if err != nil {
			writeAIError(w, r, "brand_restyle", err)
			return
		}
		if !res.Parsed {
			writeJSON(w, http.StatusOK, res)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			*content.Restyled
			Metadata providerMetadata `json:"metadata"`
		}{res, providerMetadata{Provider: res.Provider, Model: res.Model}})
		return
	}

	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	analysis, err := h.gen.AnalyzeBrand(r.Context(), req.URL)
	if err != nil {
		writeAIError(w, r, "brand_analyze", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		*content.BrandAnalysis
		Metadata providerMetadata `json:"metadata"`
	}{analysis, providerMetadata{Provider: analysis.Provider, Model: analysis.Model}})
}

type analyzeRequest struct {
	Posts    []content.Post     `json:"posts"`
	Platform platforms.Platform `json:"platform"`
}

// Analyze handles POST /ai/analyze.
func (h *AIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if len(req.Posts) == 0 {
		writeError(w, http.StatusBadRequest, "posts is required")
		return
	}
	res, err := h.gen.AnalyzePerformance(r.Context(), req.Posts, req.Platform)
	if err != nil {
		writeAIError(w, r, "analyze", err)
		return
	}
	writeJSON(w, http.StatusOK, contentResponse{Content: res.Content, Metadata: metadataOf(res)})
}

type usageResponse struct {
	Since     *time.Time             `json:"since,omitempty"`
	Providers []models.ProviderSpend `json:"providers"`
}

// Usage handles GET /ai/usage?since=RFC3339.
func (h *AIHandler) Usage(w http.ResponseWriter, r *http.Request) {
	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "since must be an RFC 3339 timestamp")
			return
		}
		since = t
	}

	resp := usageResponse{Providers: []models.ProviderSpend{}}
	if !since.IsZero() {
		resp.Since = &since
	}
	if h.usage != nil {
		spend, err := h.usage.Summary(r.Context(), since)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load usage")
			return
		}
		if spend != nil {
			resp.Providers = spend
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
