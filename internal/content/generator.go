package content

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/openpaws/openpaws/internal/ai"
	"github.com/openpaws/openpaws/internal/db/models"
	"github.com/openpaws/openpaws/internal/logging"
	"github.com/openpaws/openpaws/internal/platforms"
)

// DefaultVariationCount applies when a request leaves the count unset.
const DefaultVariationCount = 3

// Recorder persists usage of successful generations.
type Recorder interface {
	Record(ctx context.Context, rec *models.UsageRecord) error
}

// Generator runs content operations through an AI completer.
type Generator struct {
	ai       ai.Completer
	recorder Recorder
}

// NewGenerator returns a generator. recorder may be nil.
func NewGenerator(completer ai.Completer, recorder Recorder) *Generator {
	return &Generator{ai: completer, recorder: recorder}
}

// GenerateRequest describes a fresh post.
type GenerateRequest struct {
	Prompt      string
	Platform    platforms.Platform
	Brand       *BrandSettings
	ContentType string
	Mood        string
}

var errEmptyInput = errors.New("input must not be empty")

// Generate writes a new post for req.Platform.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	if req.Prompt == "" {
		return nil, errEmptyInput
	}
	return g.run(ctx, "generate", req.Platform,
		[]ai.Message{
			ai.System(ContentSystemPrompt(req.Brand, req.Platform)),
			ai.User(ContentUserPrompt(req.Prompt, req.ContentType, req.Mood)),
		},
		ai.Options{MaxTokens: 1024, Temperature: ai.Float(0.8)})
}

// Variations rewrites content count times and returns the split variants
// together with the raw result.
func (g *Generator) Variations(ctx context.Context, content string, platform platforms.Platform, brand *BrandSettings, count int) ([]string, *Result, error) {
	if content == "" {
		return nil, nil, errEmptyInput
	}
	if count <= 0 {
		count = DefaultVariationCount
	}
	res, err := g.run(ctx, "variations", platform,
		[]ai.Message{
			ai.System(ContentSystemPrompt(brand, platform)),
			ai.User(VariationsPrompt(content, platform, count)),
		},
		ai.Options{MaxTokens: 2048, Temperature: ai.Float(0.9)})
	if err != nil {
		return nil, nil, err
	}
	return ParseVariations(res.Content), res, nil
}

// Repurpose adapts content written for source to target.
func (g *Generator) Repurpose(ctx context.Context, content string, source, target platforms.Platform, brand *BrandSettings) (*Result, error) {
	if content == "" {
		return nil, errEmptyInput
	}
	return g.run(ctx, "repurpose", target,
		[]ai.Message{
			ai.System(repurposeSystemPrompt),
			ai.User(RepurposePrompt(content, source, target, brand)),
		},
		ai.Options{MaxTokens: 1024, Temperature: ai.Float(0.7)})
}

// AnalyzePerformance produces insights over up to 20 posts.
func (g *Generator) AnalyzePerformance(ctx context.Context, posts []Post, platform platforms.Platform) (*Result, error) {
	if len(posts) == 0 {
		return nil, errEmptyInput
	}
	return g.run(ctx, "analyze", platform,
		[]ai.Message{
			ai.System(analysisSystemPrompt),
			ai.User(AnalysisPrompt(posts, platform)),
		},
		ai.Options{MaxTokens: 2048, Temperature: ai.Float(0.5)})
}

// Score rates content; an unparsable reply yields a neutral score.
func (g *Generator) Score(ctx context.Context, content string, platform platforms.Platform) (*Score, error) {
	if content == "" {
		return nil, errEmptyInput
	}
	res, err := g.run(ctx, "score", platform,
		[]ai.Message{
			ai.System(scoreSystemPrompt),
			ai.User(PostScorePrompt(content, platform)),
		},
		ai.Options{MaxTokens: 256, Temperature: ai.Float(0.3)})
	if err != nil {
		return nil, err
	}
	score := ParseScore(res.Content)
	return &score, nil
}

// AnalyzeBrand extracts a brand identity for the site at url.
func (g *Generator) AnalyzeBrand(ctx context.Context, url string) (*BrandAnalysis, error) {
	if url == "" {
		return nil, errEmptyInput
	}
	res, err := g.run(ctx, "brand_analyze", "",
		[]ai.Message{
			ai.System(brandSystemPrompt),
			ai.User(BrandAnalysisPrompt(url)),
		},
		ai.Options{MaxTokens: 1024, Temperature: ai.Float(0.5)})
	if err != nil {
		return nil, err
	}
	analysis := ParseBrandAnalysis(res.Content)
	analysis.Provider, analysis.Model = res.Provider, res.Model
	return &analysis, nil
}

// Restyle regenerates a brand voice and example posts for new tones.
func (g *Generator) Restyle(ctx context.Context, req RestyleRequest) (*Restyled, error) {
	if len(req.Tones) == 0 {
		return nil, errEmptyInput
	}
	if req.BrandName == "" {
		req.BrandName = "This brand"
	}
	res, err := g.run(ctx, "brand_restyle", "",
		[]ai.Message{
			ai.System(restyleSystemPrompt),
			ai.User(RestylePrompt(req)),
		},
		ai.Options{MaxTokens: 1024, Temperature: ai.Float(0.8)})
	if err != nil {
		return nil, err
	}
	restyled := ParseRestyle(res.Content)
	restyled.Provider, restyled.Model = res.Provider, res.Model
	return &restyled, nil
}

func (g *Generator) run(ctx context.Context, action string, platform platforms.Platform, messages []ai.Message, opts ai.Options) (*Result, error) {
	resp, err := g.ai.Generate(ctx, messages, opts)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Content:    resp.Content,
		Provider:   resp.Provider,
		Model:      resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
		CostUSD:    resp.CostUSD(),
		DurationMs: resp.DurationMs,
	}
	g.record(ctx, action, platform, resp, res.CostUSD)
	return res, nil
}

func (g *Generator) record(ctx context.Context, action string, platform platforms.Platform, resp *ai.Response, cost float64) {
	if g.recorder == nil {
		return
	}
	err := g.recorder.Record(ctx, &models.UsageRecord{
		Action:           action,
		Platform:         string(platform),
		Provider:         resp.Provider,
		Model:            resp.Model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
		CostUSD:          cost,
		DurationMs:       resp.DurationMs,
		RequestID:        logging.GetRequestID(ctx),
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("action", action).Msg("usage ledger write failed")
	}
}
