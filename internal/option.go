package internal

import "github.com/zyaga/clipnote/internal/terms"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	analyzer terms.Analyzer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithAnalyzer overrides the morphological analyzer. Used by tests and
// by callers that want to skip dictionary initialization.
func WithAnalyzer(an terms.Analyzer) Option {
	return func(a *application) {
		a.analyzer = an
	}
}
