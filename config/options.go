package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/quadtree_viewer/entities"
)

const (
	CameraOrtho = "ortho"
	CameraOrbit = "orbit"
)

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Camera struct {
	Mode     string  `yaml:"mode"`
	Zoom     float32 `yaml:"zoom"`
	Distance float32 `yaml:"distance"`
	Pitch    float32 `yaml:"pitch"`
	Yaw      float32 `yaml:"yaw"`
}

type Quadtree struct {
	Size     float32 `yaml:"size"`
	Capacity int     `yaml:"capacity"`
	MaxDepth int     `yaml:"max_depth"`
	Points   int     `yaml:"points"`
	Seed     int64   `yaml:"seed"`
	// root tilt, euler degrees
	Rotation [3]float32 `yaml:"rotation"`
}

type Colors struct {
	Background [4]float32 `yaml:"background"`
	Node       [4]float32 `yaml:"node"`
	Selected   [4]float32 `yaml:"selected"`
	Point      [4]float32 `yaml:"point"`
}

type Options struct {
	Window     Window              `yaml:"window"`
	Camera     Camera              `yaml:"camera"`
	Quadtree   Quadtree            `yaml:"quadtree"`
	Convention entities.Convention `yaml:"convention"`
	Colors     Colors              `yaml:"colors"`
	// degrees per second
	SpinSpeed float32 `yaml:"spin_speed"`
	WebAddr   string  `yaml:"web_addr"`
	LogLevel  string  `yaml:"log_level"`
}

func DefaultOptions() *Options {
	return &Options{
		Window: Window{Width: 1280, Height: 720, Title: "quadtree viewer"},
		Camera: Camera{Mode: CameraOrtho, Zoom: 1, Distance: 200, Pitch: 35, Yaw: 0},
		Quadtree: Quadtree{
			Size:     100,
			Capacity: 4,
			MaxDepth: 6,
			Points:   200,
			Seed:     1,
		},
		Convention: entities.DefaultConvention,
		Colors: Colors{
			Background: [4]float32{0.15, 0.15, 0.2, 1},
			Node:       [4]float32{0.6, 0.6, 0.65, 1},
			Selected:   [4]float32{1, 0.8, 0.2, 1},
			Point:      [4]float32{0.3, 0.9, 0.4, 1},
		},
		SpinSpeed: 45,
		WebAddr:   ":8000",
		LogLevel:  "info",
	}
}

// Load reads yaml file on top of DefaultOptions.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read %q", path)
	}
	return Parse(data)
}

func Parse(data []byte) (*Options, error) {
	o := DefaultOptions()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(o); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "Failed to unmarshal yaml")
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Options) Validate() error {
	if o.Window.Width <= 0 || o.Window.Height <= 0 {
		return errors.Errorf("invalid window size %dx%d", o.Window.Width, o.Window.Height)
	}
	switch o.Camera.Mode {
	case CameraOrtho, CameraOrbit:
	default:
		return errors.Errorf("unknown camera mode %q", o.Camera.Mode)
	}
	if o.Camera.Zoom <= 0 {
		return errors.Errorf("camera zoom must be positive, got %v", o.Camera.Zoom)
	}
	if o.Quadtree.Size <= 0 {
		return errors.Errorf("quadtree size must be positive, got %v", o.Quadtree.Size)
	}
	if o.Quadtree.Capacity < 1 {
		return errors.Errorf("quadtree capacity must be at least 1, got %d", o.Quadtree.Capacity)
	}
	if o.Quadtree.MaxDepth < 0 || o.Quadtree.MaxDepth > 12 {
		return errors.Errorf("quadtree max depth %d out of range [0, 12]", o.Quadtree.MaxDepth)
	}
	if o.Quadtree.Points < 0 {
		return errors.Errorf("negative points count %d", o.Quadtree.Points)
	}
	if err := o.Convention.Validate(); err != nil {
		return errors.Wrap(err, "convention")
	}
	if _, err := o.Level(); err != nil {
		return err
	}
	return nil
}

func (o *Options) Level() (log.Level, error) {
	lvl, err := log.ParseLevel(o.LogLevel)
	if err != nil {
		return lvl, errors.Wrapf(err, "log_level")
	}
	return lvl, nil
}

func (o *Options) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(o); err != nil {
		return nil, errors.Wrapf(err, "Failed to marshal yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrapf(err, "Failed to close yaml encoder")
	}
	return buf.Bytes(), nil
}
