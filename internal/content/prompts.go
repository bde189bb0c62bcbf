package content

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/openpaws/openpaws/internal/platforms"
)

const (
	repurposeSystemPrompt = "You are an expert social media content repurposing assistant."
	analysisSystemPrompt  = "You are a social media analytics expert."
	scoreSystemPrompt     = "You are a viral content scoring engine. Respond only in valid JSON."
	brandSystemPrompt     = "You are a brand strategist. Analyze the brand described and extract: brand voice, tone, target audience, key topics, and content guidelines. Respond in structured format."
	restyleSystemPrompt   = "You are a brand voice writer. Respond only in valid JSON."

	maxAnalysisPosts   = 20
	maxAnalysisExcerpt = 200
	maxExamplePosts    = 3
)

// ValidTones are the brand tones the dashboard offers.
var ValidTones = []string{"professional", "casual", "witty", "inspirational", "educational", "bold", "friendly", "authoritative"}

func title(p platforms.Platform) string {
	s := string(p)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + s[size:]
}

var platformRules = map[platforms.Platform][]string{
	platforms.Twitter: {
		"Keep it punchy and conversational",
		"Use 1-3 relevant hashtags max",
		"Threads are ok for longer ideas, indicate with (1/n) format",
	},
	platforms.LinkedIn: {
		"Professional but human, avoid corporate jargon",
		"Open with a hook line that stops the scroll",
		"Use line breaks for readability",
		"End with a question or call to action",
	},
	platforms.Instagram: {
		"Visual-first, describe ideal image/carousel if relevant",
		"Use 5-15 relevant hashtags at the end",
		"Include a clear CTA (save, share, comment)",
	},
	platforms.TikTok: {
		"Script format for video, include hook, body, CTA",
		"Trending audio suggestions welcome",
		"Keep it authentic and unpolished",
	},
	platforms.YouTube: {
		"Include title, description, and tags",
		"SEO-optimized description with keywords",
	},
	platforms.Facebook: {
		"Community-oriented, conversation-starting",
		"Questions and polls perform well",
	},
}

var repurposeRules = map[platforms.Platform]string{
	platforms.Twitter:   "Make it concise and punchy",
	platforms.LinkedIn:  "Make it professional with a strong hook",
	platforms.Instagram: "Add relevant hashtags (5-15)",
	platforms.TikTok:    "Write as a video script with hook/body/CTA",
}

// ContentSystemPrompt builds the system prompt for generation on platform.
// Brand fields are only interpolated when present.
func ContentSystemPrompt(brand *BrandSettings, platform platforms.Platform) string {
	name := title(platform)
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert social media content creator for %s.", name)

	if brand != nil {
		b.WriteString("\n\nBRAND CONTEXT:")
		writeField(&b, "\n- Brand: ", brand.BrandName)
		writeField(&b, "\n- Voice: ", brand.BrandVoice)
		writeField(&b, "\n- Tone: ", brand.BrandTone)
		writeField(&b, "\n- Target Audience: ", brand.TargetAudience)
		writeField(&b, "\n- Guidelines: ", brand.BrandGuidelines)
		if len(brand.TopicsInclude) > 0 {
			b.WriteString("\n- Cover these topics: " + strings.Join(brand.TopicsInclude, ", "))
		}
		if len(brand.TopicsExclude) > 0 {
			b.WriteString("\n- Avoid these topics: " + strings.Join(brand.TopicsExclude, ", "))
		}
		if tags := hashtagsFor(brand, platform); len(tags) > 0 {
			b.WriteString("\n- Preferred hashtags: " + strings.Join(tags, " "))
		}
		if len(brand.ExamplePosts) > 0 {
			b.WriteString("\n\nEXAMPLE POSTS (match this style):")
			for i, ex := range lo.Slice(brand.ExamplePosts, 0, maxExamplePosts) {
				fmt.Fprintf(&b, "\n%d. \"%s\"", i+1, ex.Content)
			}
		}
	}

	fmt.Fprintf(&b, "\n\nPLATFORM RULES for %s:", name)
	fmt.Fprintf(&b, "\n- Character limit: %d", platforms.CharLimit(platform))
	fmt.Fprintf(&b, "\n- Write content optimized for %s's algorithm and audience behavior", name)
	for _, rule := range platformRules[platform] {
		b.WriteString("\n- " + rule)
	}

	b.WriteString("\n\nRESPOND WITH ONLY THE POST CONTENT. No explanations, no meta-commentary. Just the ready-to-publish text.")
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value != "" {
		b.WriteString(label + value)
	}
}

func hashtagsFor(brand *BrandSettings, platform platforms.Platform) []string {
	if tags := brand.HashtagSets[string(platform)]; len(tags) > 0 {
		return tags
	}
	return brand.HashtagSets["default"]
}

// ContentUserPrompt wraps the user's idea with optional content type and mood.
func ContentUserPrompt(input, contentType, mood string) string {
	prompt := input
	if contentType != "" {
		prompt = fmt.Sprintf("Create a %s post about: %s", contentType, input)
	}
	if mood != "" {
		prompt += "\n\nMood/energy: " + mood
	}
	return prompt
}

// VariationsPrompt asks for count rewrites separated by ---VARIATION n--- markers.
func VariationsPrompt(original string, platform platforms.Platform, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here's an existing %s post:\n\n\"%s\"\n\n", platform, original)
	fmt.Fprintf(&b, "Create %d different variations of this post. Each should have a different angle or hook but convey the same core message.\n\nFormat:", count)
	for i := 1; i <= count; i++ {
		fmt.Fprintf(&b, "\n---VARIATION %d---\n[content]", i)
	}
	return b.String()
}

// RepurposePrompt adapts original from source to target.
func RepurposePrompt(original string, source, target platforms.Platform, brand *BrandSettings) string {
	targetName := title(target)
	var b strings.Builder
	b.WriteString("You are an expert at repurposing social media content across platforms.")

	if brand != nil {
		b.WriteString("\n\nBRAND: " + lo.Ternary(brand.BrandName != "", brand.BrandName, "Unknown"))
		writeField(&b, " | Voice: ", brand.BrandVoice)
		writeField(&b, " | Tone: ", brand.BrandTone)
	}

	fmt.Fprintf(&b, "\n\nORIGINAL %s POST:\n\"%s\"", strings.ToUpper(string(source)), original)
	fmt.Fprintf(&b, "\n\nREPURPOSE this for %s.", targetName)
	fmt.Fprintf(&b, "\n- Character limit: %d", platforms.CharLimit(target))
	fmt.Fprintf(&b, "\n- Adapt the tone and format for %s's audience", targetName)
	b.WriteString("\n- Keep the core message but optimize for the new platform")
	if rule, ok := repurposeRules[target]; ok {
		b.WriteString("\n- " + rule)
	}
	b.WriteString("\n\nRESPOND WITH ONLY THE REPURPOSED CONTENT. No explanations.")
	return b.String()
}

// AnalysisPrompt summarizes up to 20 posts for performance analysis. An
// empty platform analyzes across platforms.
func AnalysisPrompt(posts []Post, platform platforms.Platform) string {
	var b strings.Builder
	b.WriteString("You are a social media analytics expert. Analyze the following post performance data and provide actionable insights.")
	if platform != "" {
		fmt.Fprintf(&b, " Focus on %s specifically.", title(platform))
	}

	b.WriteString("\n\nPOST DATA:")
	for _, post := range lo.Slice(posts, 0, maxAnalysisPosts) {
		fmt.Fprintf(&b, "\n\n- Platform: %s", post.Platform)
		fmt.Fprintf(&b, "\n  Content: \"%s\"", excerpt(post.Content, maxAnalysisExcerpt))
		fmt.Fprintf(&b, "\n  Source: %s", post.SourceType)
		if m := post.Metrics; m != nil {
			fmt.Fprintf(&b, "\n  Likes: %d | Comments: %d | Shares: %d | Views: %d", m.Likes, m.Comments, m.Shares, m.Views)
		}
		if post.EngagementRate != 0 {
			fmt.Fprintf(&b, "\n  Engagement: %.2f%%", post.EngagementRate*100)
		}
		if post.ViralScore != 0 {
			fmt.Fprintf(&b, "\n  Viral Score: %g", post.ViralScore)
		}
	}

	b.WriteString("\n\nProvide your analysis in this format:")
	b.WriteString("\n1. TOP PERFORMERS: What worked and why (2-3 insights)")
	b.WriteString("\n2. WEAK SPOTS: What underperformed and why (2-3 insights)")
	b.WriteString("\n3. RECOMMENDATIONS: Specific, actionable next steps (3-5 items)")
	b.WriteString("\n4. BEST POSTING PATTERNS: Timing, format, or content type observations")
	return b.String()
}

func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// PostScorePrompt asks for a JSON viral-potential score.
func PostScorePrompt(content string, platform platforms.Platform) string {
	return fmt.Sprintf("Score this %s post from 1-10 on viral potential. Consider hook strength, emotional resonance, shareability, and platform-specific best practices.\n\nPOST:\n\"%s\"\n\n"+
		`Respond with ONLY a JSON object: {"score": N, "reasoning": "one sentence why", "suggestions": ["improvement 1", "improvement 2"]}`,
		platform, content)
}

// BrandAnalysisPrompt asks for a brand identity read from a website URL.
func BrandAnalysisPrompt(url string) string {
	return "Analyze this brand's website and extract their brand identity: " + url + "\n\nProvide:" +
		"\n- Brand Voice (2-3 sentences describing how they communicate)" +
		"\n- Tone (one word: " + strings.Join(ValidTones, ", ") + ")" +
		"\n- Target Audience (who they're talking to)" +
		"\n- Key Topics (5-10 topics they cover)" +
		"\n- Content Guidelines (dos and don'ts based on their style)"
}

// RestylePrompt asks for a brand voice blending the requested tones.
func RestylePrompt(req RestyleRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a brand voice for %s that blends these tones: %s.", req.BrandName, strings.Join(req.Tones, ", "))
	writeField(&b, "\nTarget audience: ", req.TargetAudience)
	if len(req.TopicsInclude) > 0 {
		b.WriteString("\nTopics they cover: " + strings.Join(req.TopicsInclude, ", "))
	}
	b.WriteString("\n\nAlso write 3 short example social posts in that voice.")
	b.WriteString("\n\n" + `Respond with ONLY a JSON object: {"brandVoice": "2-3 sentences describing how the brand communicates", "examplePosts": ["post 1", "post 2", "post 3"]}`)
	return b.String()
}
