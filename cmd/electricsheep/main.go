package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"chosenoffset.com/electricsheep/internal/render"
	ebitenrender "chosenoffset.com/electricsheep/internal/render/ebiten"
	"chosenoffset.com/electricsheep/internal/render/software"
	"chosenoffset.com/electricsheep/internal/scene"
)

func main() {
	sceneName := flag.String("scene", "default", "scene name from the data directory, or a path to a scene file")
	dataDir := flag.String("data", "data", "data directory to scan for scenes")
	list := flag.Bool("list", false, "list available scenes and exit")
	headless := flag.Bool("headless", false, "render into memory instead of a window")
	frames := flag.Int("frames", 0, "stop after this many frames (0 runs until closed)")
	snapshot := flag.String("snapshot", "", "write the last headless frame to this PNG file")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	log.SetLevel(level)

	if *list {
		if err := listScenes(*dataDir); err != nil {
			log.Fatal(err)
		}
		return
	}

	path, err := scenePath(*dataDir, *sceneName)
	if err != nil {
		log.Fatal(err)
	}
	cfg, err := scene.LoadConfig(path)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	if *headless {
		err = runHeadless(cfg, *frames, *snapshot)
	} else {
		if *snapshot != "" {
			log.Warn("Snapshots are only written in headless mode")
		}
		err = runWindowed(cfg, *frames)
	}
	if err != nil {
		log.WithError(err).Fatal("Scene failed")
	}
}

func listScenes(dataDir string) error {
	scenes, err := scene.Scan(dataDir)
	if err != nil {
		return err
	}
	if len(scenes) == 0 {
		fmt.Printf("No scenes found in %s\n", dataDir)
		return nil
	}
	for _, s := range scenes {
		fmt.Println(s)
	}
	return nil
}

// scenePath resolves the -scene flag: an existing file is used directly,
// anything else is looked up in the data directory.
func scenePath(dataDir, name string) (string, error) {
	if strings.HasSuffix(name, ".json") {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}

	log.WithField("data", dataDir).Debug("Scanning data directory for scenes")
	scenes, err := scene.Scan(dataDir)
	if err != nil {
		return "", err
	}
	entry, ok := scene.Find(scenes, filepath.ToSlash(name))
	if !ok {
		return "", fmt.Errorf("scene %q not found in %s (use -list to see available scenes)", name, dataDir)
	}
	return entry.Path, nil
}

func runWindowed(cfg *scene.Config, maxFrames int) error {
	backend, err := ebitenrender.NewBackend(cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}
	s, err := scene.New(cfg, backend, ebitenrender.NewInputManager())
	if err != nil {
		return err
	}
	defer s.Close()

	engine := ebitenrender.NewEngine(backend)
	return run(engine, cfg, limitFrames(s.Frame, maxFrames))
}

func runHeadless(cfg *scene.Config, maxFrames int, snapshot string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := software.NewBackend(cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}
	s, err := scene.New(cfg, backend, software.NewInput())
	if err != nil {
		return err
	}
	defer s.Close()

	if err := run(software.NewEngine(ctx, maxFrames), cfg, s.Frame); err != nil {
		return err
	}

	if snapshot != "" {
		if err := backend.Snapshot(snapshot); err != nil {
			return err
		}
		log.WithField("path", snapshot).Info("Snapshot written")
	}
	return nil
}

func run(engine render.Engine, cfg *scene.Config, frame func() error) error {
	engine.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	engine.SetWindowTitle(cfg.Window.Title)
	engine.SetWindowResizable(cfg.Window.Resizable)

	log.WithFields(log.Fields{
		"scene":      cfg.Name,
		"target_fps": cfg.Timing.TargetFPS,
	}).Info("Starting scene")

	if err := engine.Run(frame); err != nil && !errors.Is(err, render.ErrStop) {
		return err
	}
	log.Info("Scene stopped")
	return nil
}

// limitFrames wraps frame so it stops the run after limit frames. Zero means
// no limit.
func limitFrames(frame func() error, limit int) func() error {
	if limit <= 0 {
		return frame
	}
	n := 0
	return func() error {
		if n >= limit {
			return render.ErrStop
		}
		n++
		return frame()
	}
}
