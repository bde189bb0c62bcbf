// Package content builds prompts for post generation and brand analysis and
// runs them through the AI router.
package content

import "github.com/openpaws/openpaws/internal/platforms"

// BrandSettings is the optional brand context interpolated into prompts.
type BrandSettings struct {
	BrandName       string              `json:"brand_name,omitempty"`
	BrandVoice      string              `json:"brand_voice,omitempty"`
	BrandTone       string              `json:"brand_tone,omitempty"`
	TargetAudience  string              `json:"target_audience,omitempty"`
	BrandGuidelines string              `json:"brand_guidelines,omitempty"`
	TopicsInclude   []string            `json:"topics_include,omitempty"`
	TopicsExclude   []string            `json:"topics_exclude,omitempty"`
	HashtagSets     map[string][]string `json:"hashtag_sets,omitempty"`
	ExamplePosts    []ExamplePost       `json:"example_posts,omitempty"`
}

type ExamplePost struct {
	Content string `json:"content"`
}

// PostMetrics are the engagement counters of a published post.
type PostMetrics struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
	Views    int64 `json:"views"`
}

// Post is one published post fed to performance analysis.
type Post struct {
	Platform       platforms.Platform `json:"platform"`
	Content        string             `json:"content"`
	SourceType     string             `json:"source_type"`
	Metrics        *PostMetrics       `json:"metrics,omitempty"`
	EngagementRate float64            `json:"engagement_rate,omitempty"`
	ViralScore     float64            `json:"viral_score,omitempty"`
}

// Result is the outcome of a generation with its accounting metadata.
type Result struct {
	Content    string  `json:"content"`
	Provider   string  `json:"provider"`
	Model      string  `json:"model"`
	TokensUsed int     `json:"tokensUsed"`
	CostUSD    float64 `json:"costUsd"`
	DurationMs int64   `json:"durationMs"`
}

// Score rates a post's viral potential.
type Score struct {
	Score       float64  `json:"score"`
	Reasoning   string   `json:"reasoning"`
	Suggestions []string `json:"suggestions"`
}

// BrandAnalysis is the structured identity extracted for a brand.
type BrandAnalysis struct {
	BrandVoice      string   `json:"brandVoice"`
	BrandTone       string   `json:"brandTone"`
	TargetAudience  string   `json:"targetAudience"`
	TopicsInclude   []string `json:"topicsInclude"`
	BrandGuidelines string   `json:"brandGuidelines"`
	Provider        string   `json:"-"`
	Model           string   `json:"-"`
}

// RestyleRequest asks for a new brand voice in the given tones.
type RestyleRequest struct {
	BrandName      string
	TargetAudience string
	TopicsInclude  []string
	Tones          []string
}

// Restyled is a regenerated brand voice with sample posts.
type Restyled struct {
	BrandVoice   string   `json:"brandVoice"`
	ExamplePosts []string `json:"examplePosts"`
	// Parsed is false when the model reply was not valid JSON and
	// BrandVoice holds the raw text.
	Parsed   bool   `json:"-"`
	Provider string `json:"-"`
	Model    string `json:"-"`
}
