package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/quadtree_viewer/entities"
)

func TestParseOverridesDefaults(t *testing.T) {
	o, err := Parse([]byte(`
window:
  width: 640
  height: 480
quadtree:
  capacity: 8
convention:
  forward: [0, 0, -1]
  right: [1, 0, 0]
  up: [0, 1, 0]
log_level: debug
`))
	require.NoError(t, err)

	def := DefaultOptions()
	assert.Equal(t, 640, o.Window.Width)
	assert.Equal(t, 480, o.Window.Height)
	assert.Equal(t, def.Window.Title, o.Window.Title)
	assert.Equal(t, 8, o.Quadtree.Capacity)
	assert.Equal(t, def.Quadtree.MaxDepth, o.Quadtree.MaxDepth)
	assert.Equal(t, entities.YUpConvention, o.Convention)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, o.Convention.Up)
}

func TestParseEmpty(t *testing.T) {
	o, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), o)
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"window: {width: 0}",
		"camera: {mode: fisheye}",
		"camera: {zoom: -1}",
		"quadtree: {capacity: 0}",
		"quadtree: {max_depth: 40}",
		"quadtree: {size: 0}",
		"convention: {forward: [0, 0, 2]}",
		"log_level: loud",
		"unknown_field: 1",
		"window: [1, 2]",
	}
	for _, test := range tests {
		_, err := Parse([]byte(test))
		assert.Error(t, err, "Parse(%q)", test)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	o := DefaultOptions()
	o.SpinSpeed = 12.5
	o.Camera.Mode = CameraOrbit

	data, err := o.Marshal()
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, o, back)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "viewer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("spin_speed: 1\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Options, 4)
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, path, func(o *Options) { got <- o }) }()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("spin_speed: 90\n"), 0644))

	// the first event may see a truncated file
	timeout := time.After(5 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case o := <-got:
			reloaded = o.SpinSpeed == 90
		case <-timeout:
			t.Fatal("no reload")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
