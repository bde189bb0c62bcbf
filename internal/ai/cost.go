package ai

// Provider names used in the chain and in cost accounting.
const (
	ProviderOpenClaw  = "openclaw"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type rate struct {
	prompt     float64
	completion float64
}

// USD per million tokens. The openclaw gateway routes to the cheapest
// upstream, so its rate follows OpenRouter pricing.
var rates = map[string]rate{
	ProviderOpenClaw:  {prompt: 0.2, completion: 0.6},
	ProviderOpenAI:    {prompt: 2.5, completion: 10},
	ProviderAnthropic: {prompt: 3, completion: 15},
}

// EstimateCostUSD returns the estimated spend of a call. Unknown providers
// cost nothing.
func EstimateCostUSD(provider string, promptTokens, completionTokens int) float64 {
	r, ok := rates[provider]
	if !ok {
		return 0
	}
	return (float64(promptTokens)*r.prompt + float64(completionTokens)*r.completion) / 1_000_000
}
