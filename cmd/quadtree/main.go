package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	log "github.com/sirupsen/logrus"

	"github.com/mogaika/quadtree_viewer/app"
	"github.com/mogaika/quadtree_viewer/config"
	"github.com/mogaika/quadtree_viewer/events"
	"github.com/mogaika/quadtree_viewer/r3d"
	"github.com/mogaika/quadtree_viewer/scene"
	"github.com/mogaika/quadtree_viewer/status"
	"github.com/mogaika/quadtree_viewer/web"
)

func init() {
	// glfw and gl calls must stay on the main thread
	runtime.LockOSThread()
}

func loadOptions(path, addr string, depth, points int) (*config.Options, error) {
	opts := config.DefaultOptions()
	if path != "" {
		var err error
		if opts, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if addr != "" {
		opts.WebAddr = addr
	}
	if depth >= 0 {
		opts.Quadtree.MaxDepth = depth
	}
	if points >= 0 {
		opts.Quadtree.Points = points
	}
	return opts, opts.Validate()
}

func main() {
	var configPath, addr string
	var depth, points int
	flag.StringVar(&configPath, "config", "", "Path to yaml options file")
	flag.StringVar(&addr, "i", "", "Address of inspector server, empty to use options value")
	flag.IntVar(&depth, "depth", -1, "Max quadtree depth override")
	flag.IntVar(&points, "points", -1, "Random points count override")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	opts, err := loadOptions(configPath, addr, depth, points)
	if err != nil {
		log.Fatal(err)
	}
	lvl, _ := opts.Level()
	log.SetLevel(lvl)

	tree, err := scene.NewQuadtree(scene.QuadtreeOptions{
		Size:       opts.Quadtree.Size,
		Capacity:   opts.Quadtree.Capacity,
		MaxDepth:   opts.Quadtree.MaxDepth,
		Seed:       opts.Quadtree.Seed,
		Convention: opts.Convention,
		Rotation:   opts.Quadtree.Rotation,
	})
	if err != nil {
		log.Fatal(err)
	}
	inserted := tree.Populate(opts.Quadtree.Points, rand.New(rand.NewSource(opts.Quadtree.Seed)))
	log.WithFields(log.Fields{"nodes": tree.Len(), "points": inserted}).Info("quadtree built")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	hub := status.NewHub()
	defer hub.Close()

	viewer := app.NewViewer(opts, tree, func() (app.Renderer, error) {
		return r3d.NewQuadRenderer()
	}, hub)

	if opts.WebAddr != "" {
		srv := web.NewServer(viewer, hub)
		go func() {
			if err := srv.ListenAndServe(ctx, opts.WebAddr); err != nil {
				log.WithError(err).Error("inspector stopped")
			}
		}()
	}
	if configPath != "" {
		go func() {
			if err := config.Watch(ctx, configPath, viewer.ApplyOptions); err != nil {
				log.WithError(err).Error("options watcher stopped")
			}
		}()
	}

	if err := run(ctx, opts, viewer); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, opts *config.Options, viewer *app.Viewer) error {
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(opts.Window.Width, opts.Window.Height, opts.Window.Title, nil, nil)
	if err != nil {
		return err
	}
	defer window.Destroy()
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := viewer.Initialize(); err != nil {
		return err
	}
	// framebuffer may differ from window size on hidpi screens
	viewer.OnResize(window.GetFramebufferSize())

	events.Bind(window, viewer)
	defer events.Unbind(window)
	viewer.SetCloseFunc(func() { window.SetShouldClose(true) })

	last := time.Now()
	for !window.ShouldClose() && ctx.Err() == nil {
		glfw.WaitEventsTimeout(1.0 / 60)

		now := time.Now()
		viewer.Tick(now.Sub(last).Seconds())
		last = now

		if viewer.NeedsRedraw() {
			viewer.RedrawScene()
			window.SwapBuffers()
		}
	}
	log.Info("bye")
	return nil
}
