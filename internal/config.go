package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/zyaga/clipnote/internal/classify"
	"github.com/zyaga/clipnote/internal/note"
	"github.com/zyaga/clipnote/internal/pipeline"
	"github.com/zyaga/clipnote/internal/terms"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Inbox    InboxConfig       `yaml:"inbox"`
	Pipeline PipelineConfig    `yaml:"pipeline"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Watch    WatchConfig       `yaml:"watch"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Inbox.Validate(); err != nil {
		return err
	}
	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// InboxConfig locates the inbox directory and the history document
// inside it.
type InboxConfig struct {
	Path        string `yaml:"path"`
	HistoryFile string `yaml:"history_file"`
}

// Validate validates the inbox configuration.
func (c *InboxConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.HistoryFile, validation.Required),
	)
}

// PipelineConfig holds the capture heuristics' knobs. Empty lists fall
// back to the built-in tables at option-build time.
type PipelineConfig struct {
	MinChars         int              `yaml:"min_chars"`
	MaxWikilinks     int              `yaml:"max_wikilinks"`
	DedupeMaxRecords int              `yaml:"dedupe_max_records"`
	SummaryMaxLen    int              `yaml:"summary_max_len"`
	TagMode          string           `yaml:"tag_mode"`
	LinkMode         string           `yaml:"link_mode"`
	FixedTags        []string         `yaml:"fixed_tags"`
	Seeds            []string         `yaml:"seeds"`
	Stopwords        []string         `yaml:"stopwords"`
	Rules            classify.RuleSet `yaml:"rules"`
}

// Validate validates the pipeline configuration.
func (c *PipelineConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MinChars, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxWikilinks, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.DedupeMaxRecords, validation.Required, validation.Min(1)),
		validation.Field(&c.SummaryMaxLen, validation.Required, validation.Min(4), validation.Max(200)),
		validation.Field(&c.TagMode, validation.Required,
			validation.In(string(classify.TagModeSingle), string(classify.TagModeFixedPlusAuto))),
		validation.Field(&c.LinkMode, validation.Required,
			validation.In(string(note.LinkModeNever), string(note.LinkModeInPlace))),
	)
}

// Options resolves the config into pipeline options, substituting the
// built-in tables where the config left a list empty.
func (c *PipelineConfig) Options() pipeline.Options {
	rules := c.Rules
	if len(rules) == 0 {
		rules = classify.DefaultRules()
	}
	seeds := c.Seeds
	if len(seeds) == 0 {
		seeds = terms.DefaultSeeds()
	}
	fixed := c.FixedTags
	if len(fixed) == 0 {
		fixed = classify.DefaultFixedTags()
	}
	stop := terms.DefaultStopwords()
	if len(c.Stopwords) > 0 {
		stop = make(map[string]struct{}, len(c.Stopwords))
		for _, w := range c.Stopwords {
			stop[w] = struct{}{}
		}
	}
	return pipeline.Options{
		Rules:        rules,
		TagMode:      classify.TagMode(c.TagMode),
		FixedTags:    fixed,
		LinkMode:     note.LinkMode(c.LinkMode),
		Seeds:        seeds,
		Stopwords:    stop,
		MaxWikilinks: c.MaxWikilinks,
		MinChars:     c.MinChars,
		SummaryMax:   c.SummaryMaxLen,
	}
}

// SQLiteConfig holds the capture-index database path. An empty path
// disables the index.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// WatchConfig holds the drop-directory trigger paths. DropDir empty
// disables the watcher in serve mode.
type WatchConfig struct {
	DropDir    string `yaml:"drop_dir"`
	ArchiveDir string `yaml:"archive_dir"`
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a Config mirroring the built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Inbox: InboxConfig{
			Path:        "./inbox",
			HistoryFile: "_clip_history.json",
		},
		Pipeline: PipelineConfig{
			MinChars:         3,
			MaxWikilinks:     12,
			DedupeMaxRecords: 2000,
			SummaryMaxLen:    40,
			TagMode:          string(classify.TagModeSingle),
			LinkMode:         string(note.LinkModeNever),
		},
		SQLite: SQLiteConfig{
			Path: "./clipnote.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
