// Package config loads cardforge settings from a TOML file under the XDG
// config directory and converts them into the engine's own option types.
package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/youruser/cardforge/internal/cards"
	"github.com/youruser/cardforge/internal/document"
	"github.com/youruser/cardforge/internal/errors"
	imagepkg "github.com/youruser/cardforge/internal/image"
)

type Config struct {
	Card        CardConfig        `toml:"card"`
	Grid        GridConfig        `toml:"grid"`
	Pagination  PaginationConfig  `toml:"pagination"`
	Resolution  ResolutionConfig  `toml:"resolution"`
	Overlay     OverlayConfig     `toml:"overlay"`
	Conventions ConventionsConfig `toml:"conventions"`
	Art         ArtConfig         `toml:"art"`
	Render      RenderConfig      `toml:"render"`
	Server      ServerConfig      `toml:"server"`
}

type CardConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type GridConfig struct {
	Rows        int    `toml:"rows"`
	Cols        int    `toml:"cols"`
	Spacing     int    `toml:"spacing"`
	Background  string `toml:"background"`
	Placeholder string `toml:"placeholder"`
}

type PaginationConfig struct {
	CardsPerSheet int `toml:"cards_per_sheet"`
	Cols          int `toml:"cols"`
}

type ResolutionConfig struct {
	Preset  string         `toml:"preset"`
	Width   int            `toml:"width"`
	Presets map[string]int `toml:"presets"`
}

type OverlayConfig struct {
	MarginRatio float64 `toml:"margin_ratio"`
	FuzzyMatch  bool    `toml:"fuzzy_match"`
}

type ConventionsConfig struct {
	ClassFrameBase   string `toml:"class_frame_base"`
	ClassThumbPrefix string `toml:"class_thumb_prefix"`
	DefaultClass     string `toml:"default_class"`
	CollectorSuffix  string `toml:"collector_suffix"`
}

type ArtConfig struct {
	Provider string   `toml:"provider"`
	Width    int      `toml:"width"`
	Height   int      `toml:"height"`
	Delay    Duration `toml:"delay"`
	CacheDir string   `toml:"cache_dir"`
	CacheTTL Duration `toml:"cache_ttl"`
}

// RenderConfig selects how documents become bitmaps: from a directory of
// pre-rendered files, or by running Command with Args per card.
type RenderConfig struct {
	Dir     string   `toml:"dir"`
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

type ServerConfig struct {
	Port    int    `toml:"port"`
	WorkDir string `toml:"work_dir"`
}

// Duration lets TOML carry durations as strings like "2s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Card: CardConfig{Width: imagepkg.DefaultCardWidth, Height: imagepkg.DefaultCardHeight},
		Grid: GridConfig{
			Rows:        7,
			Cols:        10,
			Background:  "#ffffff",
			Placeholder: "#f0f0f0",
		},
		Pagination: PaginationConfig{
			CardsPerSheet: imagepkg.DefaultCardsPerSheet,
			Cols:          imagepkg.DefaultSheetCols,
		},
		Resolution: ResolutionConfig{Presets: imagepkg.DefaultPresets()},
		Overlay:    OverlayConfig{MarginRatio: imagepkg.DefaultMarginRatio, FuzzyMatch: true},
		Conventions: ConventionsConfig{
			ClassFrameBase:   "fab/frame/classes",
			ClassThumbPrefix: "thumb-",
			DefaultClass:     "ninja",
			CollectorSuffix:  "Legend Story Studios",
		},
		Art: ArtConfig{
			Provider: "pollinations",
			Width:    1024,
			Height:   1024,
			Delay:    Duration{2 * time.Second},
			CacheTTL: Duration{720 * time.Hour},
		},
		Server: ServerConfig{Port: 8080},
	}
}

// XDGConfigHome returns $XDG_CONFIG_HOME or ~/.config.
func XDGConfigHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}

// XDGCacheHome returns $XDG_CACHE_HOME or ~/.cache.
func XDGCacheHome() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache")
}

// FilePath is the default location of the config file.
func FilePath() string {
	return filepath.Join(XDGConfigHome(), "cardforge", "config.toml")
}

// Load reads path, or FilePath when path is empty. A missing default file
// is created with the defaults; a missing explicit path is an error. Keys
// absent from the file keep their default values.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = FilePath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
		}
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as TOML, creating the directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create config directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode config")
	}
	return nil
}

// Validate rejects settings that would make every operation fail. Output
// resolution is deliberately not checked: a bad preset only disables
// rescaling.
func (c *Config) Validate() error {
	var problems []string
	if c.Card.Width <= 0 || c.Card.Height <= 0 {
		problems = append(problems, fmt.Sprintf("card size %dx%d", c.Card.Width, c.Card.Height))
	}
	if c.Grid.Spacing < 0 {
		problems = append(problems, fmt.Sprintf("grid spacing %d", c.Grid.Spacing))
	}
	if _, err := ParseColor(c.Grid.Background); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := ParseColor(c.Grid.Placeholder); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server port %d", c.Server.Port))
	}
	if len(problems) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid settings: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ParseColor parses "#rrggbb" or "#rgb" (the "#" is optional) into an
// opaque colour.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// GridSpec returns the sheet grid. Colours were checked by Validate; a bad
// one falls back to the default fill.
func (c *Config) GridSpec() imagepkg.GridSpec {
	spec := imagepkg.GridSpec{
		Rows:        c.Grid.Rows,
		Cols:        c.Grid.Cols,
		CardWidth:   c.Card.Width,
		CardHeight:  c.Card.Height,
		Spacing:     c.Grid.Spacing,
		Background:  imagepkg.DefaultBackground,
		Placeholder: imagepkg.DefaultPlaceholder,
	}
	if bg, err := ParseColor(c.Grid.Background); err == nil {
		spec.Background = bg
	}
	if ph, err := ParseColor(c.Grid.Placeholder); err == nil {
		spec.Placeholder = ph
	}
	return spec
}

func (c *Config) PaginationPolicy() imagepkg.PaginationPolicy {
	return imagepkg.PaginationPolicy{CardsPerSheet: c.Pagination.CardsPerSheet, Cols: c.Pagination.Cols}
}

// Presets returns the configured presets, keyed in lower case.
func (c *Config) Presets() imagepkg.Presets {
	if len(c.Resolution.Presets) == 0 {
		return imagepkg.DefaultPresets()
	}
	p := make(imagepkg.Presets, len(c.Resolution.Presets))
	for k, v := range c.Resolution.Presets {
		p[strings.ToLower(k)] = v
	}
	return p
}

func (c *Config) Target() imagepkg.Target {
	return imagepkg.Target{Preset: c.Resolution.Preset, Width: c.Resolution.Width}
}

// SheetOptions bundles the grid, pagination and resolution settings.
func (c *Config) SheetOptions() imagepkg.SheetOptions {
	return imagepkg.SheetOptions{
		Grid:       c.GridSpec(),
		Pagination: c.PaginationPolicy(),
		Target:     c.Target(),
		Presets:    c.Presets(),
	}
}

// DocumentConventions returns the class-frame naming rules.
func (c *Config) DocumentConventions() document.Conventions {
	conv := document.DefaultConventions()
	conv.ClassFrameBase = c.Conventions.ClassFrameBase
	conv.ClassThumbPrefix = c.Conventions.ClassThumbPrefix
	return conv
}

// BuildOptions returns the record merge settings.
func (c *Config) BuildOptions() cards.BuildOptions {
	opts := cards.DefaultBuildOptions()
	opts.Conventions = c.DocumentConventions()
	opts.DefaultClass = c.Conventions.DefaultClass
	opts.CollectorSuffix = c.Conventions.CollectorSuffix
	return opts
}

// ArtCacheDir is cache_dir, or the cardforge directory under XDG_CACHE_HOME.
func (c *Config) ArtCacheDir() string {
	if c.Art.CacheDir != "" {
		return c.Art.CacheDir
	}
	return filepath.Join(XDGCacheHome(), "cardforge", "art")
}
