// Package config holds the engine settings and loads them from a TOML file.
package config

import (
	"bytes"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Application Application `toml:"application"`
	Window      Window      `toml:"window"`
	Renderer    Renderer    `toml:"renderer"`
	Memory      Memory      `toml:"memory"`
	Descriptors Descriptors `toml:"descriptors"`
	Assets      Assets      `toml:"assets"`
}

type Application struct {
	// The application name used in windowing and as the Vulkan application name.
	Name     string `toml:"name"`
	LogLevel string `toml:"log_level"`
}

type Window struct {
	// Window starting position.
	X int `toml:"x"`
	Y int `toml:"y"`
	// Window starting size.
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
}

type Renderer struct {
	// Enables the Khronos validation layer and the debug report callback.
	Validation     bool       `toml:"validation"`
	AcquireTimeout Duration   `toml:"acquire_timeout"`
	FenceTimeout   Duration   `toml:"fence_timeout"`
	ClearColor     [4]float32 `toml:"clear_color"`
	ClearDepth     float32    `toml:"clear_depth"`
	DepthFormat    string     `toml:"depth_format"`
}

type Memory struct {
	BlockSizeMiB uint32 `toml:"block_size_mib"`
}

// Descriptors sizes the single descriptor pool owned by the allocator.
type Descriptors struct {
	MaxSets              uint32 `toml:"max_sets"`
	Uniform              uint32 `toml:"uniform"`
	DynamicUniform       uint32 `toml:"dynamic_uniform"`
	Storage              uint32 `toml:"storage"`
	DynamicStorage       uint32 `toml:"dynamic_storage"`
	CombinedImageSampler uint32 `toml:"combined_image_sampler"`
}

type Assets struct {
	Dir string `toml:"dir"`
	// Watch rebuilds pipelines when a compiled shader changes on disk.
	Watch bool `toml:"watch"`
}

// Duration is a time.Duration written as a Go duration string ("5s", "250ms").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Depth formats accepted in renderer.depth_format.
const (
	DepthD32Sfloat        = "d32_sfloat"
	DepthD32SfloatS8Uint  = "d32_sfloat_s8_uint"
	DepthD24UnormS8Uint   = "d24_unorm_s8_uint"
	defaultDescriptorSize = 1024
)

func Default() Config {
	return Config{
		Application: Application{
			Name:     "Lumen",
			LogLevel: "info",
		},
		Window: Window{
			X:      100,
			Y:      100,
			Width:  1280,
			Height: 720,
		},
		Renderer: Renderer{
			Validation:     false,
			AcquireTimeout: Duration{5 * time.Second},
			FenceTimeout:   Duration{5 * time.Second},
			ClearColor:     [4]float32{0.1176, 0.1176, 0.1804, 1.0},
			ClearDepth:     1.0,
			DepthFormat:    DepthD32Sfloat,
		},
		Memory: Memory{
			BlockSizeMiB: 64,
		},
		Descriptors: Descriptors{
			MaxSets:              defaultDescriptorSize,
			Uniform:              defaultDescriptorSize,
			DynamicUniform:       defaultDescriptorSize,
			Storage:              defaultDescriptorSize,
			DynamicStorage:       defaultDescriptorSize,
			CombinedImageSampler: defaultDescriptorSize,
		},
		Assets: Assets{
			Dir:   "assets",
			Watch: true,
		},
	}
}

// Load decodes the file at path over the defaults and validates the result.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}

	if err := Decode(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "decoding config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Decode decodes TOML into cfg, keeping any field the document does not set.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var sme *toml.StrictMissingError
		if errors.As(err, &sme) {
			return errors.Newf("unknown settings:\n%s", sme.String())
		}
		return err
	}
	return nil
}

// Save writes cfg as TOML to path.
func Save(cfg Config, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "writing config %s", path)
}

func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Application.LogLevel); err != nil {
		return errors.Newf("application.log_level: unknown level %q", c.Application.LogLevel)
	}
	if c.Window.Width == 0 || c.Window.Height == 0 {
		return errors.Newf("window: size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Renderer.AcquireTimeout.Duration <= 0 {
		return errors.New("renderer.acquire_timeout must be positive")
	}
	if c.Renderer.FenceTimeout.Duration <= 0 {
		return errors.New("renderer.fence_timeout must be positive")
	}
	for i, v := range c.Renderer.ClearColor {
		if v < 0 || v > 1 {
			return errors.Newf("renderer.clear_color[%d] = %v is outside [0, 1]", i, v)
		}
	}
	if c.Renderer.ClearDepth < 0 || c.Renderer.ClearDepth > 1 {
		return errors.Newf("renderer.clear_depth = %v is outside [0, 1]", c.Renderer.ClearDepth)
	}
	switch c.Renderer.DepthFormat {
	case DepthD32Sfloat, DepthD32SfloatS8Uint, DepthD24UnormS8Uint:
	default:
		return errors.Newf("renderer.depth_format: unsupported format %q", c.Renderer.DepthFormat)
	}
	if c.Memory.BlockSizeMiB == 0 {
		return errors.New("memory.block_size_mib must be positive")
	}
	d := c.Descriptors
	caps := map[string]uint32{
		"max_sets":               d.MaxSets,
		"uniform":                d.Uniform,
		"dynamic_uniform":        d.DynamicUniform,
		"storage":                d.Storage,
		"dynamic_storage":        d.DynamicStorage,
		"combined_image_sampler": d.CombinedImageSampler,
	}
	for name, v := range caps {
		if v == 0 {
			return errors.Newf("descriptors.%s must be positive", name)
		}
	}
	if c.Assets.Dir == "" {
		return errors.New("assets.dir must be set")
	}
	return nil
}
