package questiongen

// Config controls batch size, sampling, and retry behavior.
type Config struct {
	// Total is the number of questions requested per batch.
	Total int

	// MaxAttempts bounds full pipeline retries when generation fails.
	MaxAttempts int

	// Temperature and TopP apply to the generation pass only; the
	// verification pass runs with provider defaults.
	Temperature float64
	TopP        float64

	// MaxTokens is the token budget for each LLM response.
	MaxTokens int
}

// DefaultConfig returns the standard batch settings.
func DefaultConfig() Config {
	return Config{
		Total:       10,
		MaxAttempts: 2,
		Temperature: 0.2,
		TopP:        0.8,
		MaxTokens:   8192,
	}
}
