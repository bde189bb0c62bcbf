package content

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

var variationMarker = regexp.MustCompile(`---VARIATION \d+---`)

// ParseVariations splits a reply on ---VARIATION n--- markers, dropping
// empty pieces.
func ParseVariations(reply string) []string {
	parts := lo.Map(variationMarker.Split(reply, -1), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Compact(parts)
}

var fallbackScore = Score{Score: 5, Reasoning: "Unable to parse score", Suggestions: []string{}}

// ParseScore decodes a JSON score reply, falling back to a neutral score.
func ParseScore(reply string) Score {
	var s Score
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &s); err != nil {
		return fallbackScore
	}
	if s.Suggestions == nil {
		s.Suggestions = []string{}
	}
	return s
}

// stripCodeFence removes a surrounding ``` or ```json fence.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.IndexByte(s, '\n'); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(strings.TrimPrefix(s, "```"), "json")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseRestyle decodes {brandVoice, examplePosts}. Example posts may be
// plain strings or {content} objects. An unparsable reply becomes the voice.
func ParseRestyle(reply string) Restyled {
	var raw struct {
		BrandVoice   string            `json:"brandVoice"`
		ExamplePosts []json.RawMessage `json:"examplePosts"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &raw); err != nil {
		return Restyled{BrandVoice: reply, ExamplePosts: []string{}}
	}

	posts := lo.FilterMap(raw.ExamplePosts, func(msg json.RawMessage, _ int) (string, bool) {
		var text string
		if err := json.Unmarshal(msg, &text); err == nil {
			return text, text != ""
		}
		var obj ExamplePost
		if err := json.Unmarshal(msg, &obj); err == nil {
			return obj.Content, obj.Content != ""
		}
		return "", false
	})
	return Restyled{BrandVoice: raw.BrandVoice, ExamplePosts: posts, Parsed: true}
}

var nonLetters = regexp.MustCompile(`[^a-z]`)

// ParseBrandAnalysis reads a structured brand reply line by line. Headings
// switch the current section and bullets append to it. The tone is coerced
// into ValidTones, defaulting to professional.
func ParseBrandAnalysis(reply string) BrandAnalysis {
	var out BrandAnalysis
	out.TopicsInclude = []string{}
	section := ""

	for _, line := range strings.Split(reply, "\n") {
		lower := strings.ToLower(line)
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.Contains(lower, "brand voice") || strings.Contains(lower, "voice:"):
			section = "voice"
			if v := valueAfterColon(line); v != "" {
				out.BrandVoice = v
			}
		case strings.Contains(lower, "tone:") || strings.Contains(lower, "tone ("):
			section = "tone"
			if v := valueAfterColon(line); v != "" {
				out.BrandTone = nonLetters.ReplaceAllString(strings.ToLower(v), "")
			}
		case strings.Contains(lower, "target audience") || strings.Contains(lower, "audience:"):
			section = "audience"
			if v := valueAfterColon(line); v != "" {
				out.TargetAudience = v
			}
		case strings.Contains(lower, "key topics") || strings.Contains(lower, "topics:"):
			section = "topics"
		case strings.Contains(lower, "guidelines") || strings.Contains(lower, "dos and don"):
			section = "guidelines"
			if v := valueAfterColon(line); v != "" {
				out.BrandGuidelines = v
			}
		case strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "•"):
			item := strings.TrimSpace(strings.TrimLeft(trimmed, "-•* "))
			if item == "" {
				continue
			}
			switch section {
			case "topics":
				out.TopicsInclude = append(out.TopicsInclude, item)
			case "guidelines":
				out.BrandGuidelines = joinNonEmpty(out.BrandGuidelines, "\n", item)
			case "voice":
				out.BrandVoice = joinNonEmpty(out.BrandVoice, " ", item)
			case "audience":
				out.TargetAudience = joinNonEmpty(out.TargetAudience, ", ", item)
			}
		}
	}

	if !lo.Contains(ValidTones, out.BrandTone) {
		out.BrandTone = "professional"
	}
	return out
}

func valueAfterColon(line string) string {
	if idx := strings.Index(line, ":"); idx >= 0 {
		return strings.TrimSpace(line[idx+1:])
	}
	return ""
}

func joinNonEmpty(current, sep, item string) string {
	if current == "" {
		return item
	}
	return current + sep + item
}
