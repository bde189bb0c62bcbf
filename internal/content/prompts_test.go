package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openpaws/openpaws/internal/platforms"
)

func TestContentSystemPrompt_NoBrand(t *testing.T) {
	prompt := ContentSystemPrompt(nil, platforms.Twitter)

	assert.True(t, strings.HasPrefix(prompt, "You are an expert social media content creator for Twitter."))
	assert.NotContains(t, prompt, "BRAND CONTEXT")
	assert.Contains(t, prompt, "- Character limit: 280")
	assert.Contains(t, prompt, "- Use 1-3 relevant hashtags max")
	assert.True(t, strings.HasSuffix(prompt, "Just the ready-to-publish text."))
}

func TestContentSystemPrompt_BrandFieldsOnlyWhenPresent(t *testing.T) {
	brand := &BrandSettings{
		BrandName:     "Paws",
		BrandTone:     "witty",
		TopicsExclude: []string{"politics"},
		HashtagSets:   map[string][]string{"default": {"#pets", "#dogs"}},
		ExamplePosts: []ExamplePost{
			{Content: "one"}, {Content: "two"}, {Content: "three"}, {Content: "four"},
		},
	}
	prompt := ContentSystemPrompt(brand, platforms.LinkedIn)

	assert.Contains(t, prompt, "- Brand: Paws")
	assert.Contains(t, prompt, "- Tone: witty")
	assert.NotContains(t, prompt, "- Voice:")
	assert.NotContains(t, prompt, "Target Audience")
	assert.Contains(t, prompt, "- Avoid these topics: politics")
	assert.Contains(t, prompt, "- Preferred hashtags: #pets #dogs")
	assert.Contains(t, prompt, "3. \"three\"")
	assert.NotContains(t, prompt, "four")
	assert.Contains(t, prompt, "- Character limit: 3000")
}

func TestContentSystemPrompt_PlatformHashtagsWin(t *testing.T) {
	brand := &BrandSettings{HashtagSets: map[string][]string{
		"default":   {"#generic"},
		"instagram": {"#insta"},
	}}
	prompt := ContentSystemPrompt(brand, platforms.Instagram)
	assert.Contains(t, prompt, "#insta")
	assert.NotContains(t, prompt, "#generic")
}

func TestContentSystemPrompt_UnknownPlatformDefaults(t *testing.T) {
	prompt := ContentSystemPrompt(nil, "threads")
	assert.Contains(t, prompt, "for Threads.")
	assert.Contains(t, prompt, "- Character limit: 2200")
}

func TestContentUserPrompt(t *testing.T) {
	assert.Equal(t, "dog treats", ContentUserPrompt("dog treats", "", ""))
	assert.Equal(t, "Create a promo post about: dog treats\n\nMood/energy: hype", ContentUserPrompt("dog treats", "promo", "hype"))
}

func TestVariationsPrompt(t *testing.T) {
	prompt := VariationsPrompt("hello", platforms.Twitter, 2)
	assert.Contains(t, prompt, "Create 2 different variations")
	assert.Contains(t, prompt, "---VARIATION 2---")
	assert.NotContains(t, prompt, "---VARIATION 3---")
}

func TestRepurposePrompt(t *testing.T) {
	prompt := RepurposePrompt("long post", platforms.LinkedIn, platforms.Twitter, &BrandSettings{BrandVoice: "warm"})
	assert.Contains(t, prompt, "BRAND: Unknown | Voice: warm")
	assert.Contains(t, prompt, "ORIGINAL LINKEDIN POST:\n\"long post\"")
	assert.Contains(t, prompt, "REPURPOSE this for Twitter.")
	assert.Contains(t, prompt, "- Character limit: 280")
	assert.Contains(t, prompt, "- Make it concise and punchy")
}

func TestAnalysisPrompt(t *testing.T) {
	posts := make([]Post, 0, 25)
	for i := 0; i < 25; i++ {
		posts = append(posts, Post{Platform: platforms.Instagram, Content: "p", SourceType: "manual"})
	}
	posts[0] = Post{
		Platform:       platforms.Twitter,
		Content:        strings.Repeat("a", 250),
		SourceType:     "ai",
		Metrics:        &PostMetrics{Likes: 3, Views: 100},
		EngagementRate: 0.0345,
		ViralScore:     7,
	}

	prompt := AnalysisPrompt(posts, platforms.Twitter)
	assert.Contains(t, prompt, "Focus on Twitter specifically.")
	assert.Contains(t, prompt, "\""+strings.Repeat("a", 200)+"...\"")
	assert.Contains(t, prompt, "Likes: 3 | Comments: 0 | Shares: 0 | Views: 100")
	assert.Contains(t, prompt, "Engagement: 3.45%")
	assert.Contains(t, prompt, "Viral Score: 7")
	assert.Equal(t, 20, strings.Count(prompt, "- Platform:"))
}

func TestPostScorePrompt(t *testing.T) {
	prompt := PostScorePrompt("hi", platforms.TikTok)
	assert.Contains(t, prompt, "Score this tiktok post")
	assert.Contains(t, prompt, `{"score": N`)
}

func TestRestylePrompt(t *testing.T) {
	prompt := RestylePrompt(RestyleRequest{BrandName: "Paws", Tones: []string{"bold", "witty"}, TopicsInclude: []string{"cats"}})
	assert.Contains(t, prompt, "Write a brand voice for Paws that blends these tones: bold, witty.")
	assert.Contains(t, prompt, "Topics they cover: cats")
	assert.NotContains(t, prompt, "Target audience")
}
