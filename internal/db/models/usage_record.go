package models

// UsageRecord stores one successful AI generation for cost accounting.
type UsageRecord struct {
	ID               string  `gorm:"primaryKey" json:"id"`
	Timestamp        int64   `gorm:"index" json:"timestamp"` // unix milliseconds
	Action           string  `gorm:"index" json:"action"`
	Platform         string  `json:"platform,omitempty"`
	Provider         string  `gorm:"index" json:"provider"`
	Model            string  `json:"model"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	CostUSD          float64 `json:"cost_usd"`
	DurationMs       int64   `json:"duration_ms"`
	RequestID        string  `json:"request_id,omitempty"`
}

// ProviderSpend aggregates usage records per provider.
type ProviderSpend struct {
	Provider         string  `json:"provider"`
	Requests         int64   `json:"requests"`
	PromptTokens     int64   `json:"prompt_tokens"`
	CompletionTokens int64   `json:"completion_tokens"`
	TotalTokens      int64   `json:"total_tokens"`
	CostUSD          float64 `json:"cost_usd"`
}
