// Package llm provides options pattern for LLM generation parameters.
//
// This package implements functional options for runtime parameter overrides
// while maintaining backward compatibility with existing code.
package llm

// GenerateOptions holds parameters for LLM generation.
// These options can be set at initialization (from config.yaml) and
// overridden at runtime (from callers or direct calls).
type GenerateOptions struct {
	// Model is the model identifier (e.g., "gpt-4o-mini", "anthropic/claude-3.5-sonnet")
	Model string

	// Temperature controls randomness in responses (0.0 = deterministic, 1.0 = random)
	Temperature float64

	// MaxTokens limits the response length
	MaxTokens int
}

// GenerateOption is a functional option for configuring GenerateOptions.
type GenerateOption func(*GenerateOptions)

// ApplyOptions collects opts on top of base and returns the merged result.
// Zero values in opts are still applied: an explicit WithTemperature(0)
// wins over the config default.
func ApplyOptions(base GenerateOptions, opts ...GenerateOption) GenerateOptions {
	for _, opt := range opts {
		opt(&base)
	}
	return base
}

// WithModel sets the model for generation.
// Runtime override: takes precedence over config.yaml default.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithTemperature sets the temperature for generation.
// Runtime override: takes precedence over config.yaml default.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// WithMaxTokens sets the maximum tokens for generation.
// Runtime override: takes precedence over config.yaml default.
func WithMaxTokens(tokens int) GenerateOption {
	return func(o *GenerateOptions) {
		o.MaxTokens = tokens
	}
}
