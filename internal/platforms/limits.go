package platforms

// DefaultCharLimit applies to platforms without a specific limit.
const DefaultCharLimit = 2200

var charLimits = map[Platform]int{
	Twitter:   280,
	LinkedIn:  3000,
	Instagram: 2200,
	TikTok:    2200,
	YouTube:   5000,
	Facebook:  63206,
}

// CharLimit returns the maximum post length for p.
func CharLimit(p Platform) int {
	if n, ok := charLimits[p]; ok {
		return n
	}
	return DefaultCharLimit
}

// DisplayName returns the human-readable name of p, or p itself when unknown.
func DisplayName(p Platform) string {
	if cfg, ok := configs[p]; ok {
		return cfg.DisplayName
	}
	return string(p)
}
