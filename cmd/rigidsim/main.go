package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakecoffman/rigid"
	"github.com/jakecoffman/rigid/feed"
	"github.com/jakecoffman/rigid/internal/logging"
	"github.com/jakecoffman/rigid/scene"
)

func main() {
	var (
		scenes = flag.String("scene", "stack", "comma separated built-in scenes: "+strings.Join(scene.Names(), ", "))
		file   = flag.String("file", "", "load a YAML scene file instead of built-in scenes")
		ticks  = flag.Int("ticks", 0, "ticks to simulate per scene (0 uses the scene's own count)")
		level  = flag.String("log", "info", "log level: debug, info, warn, error")
		serve  = flag.String("serve", "", "serve the first scene's feed on this address, e.g. :8080")
	)
	flag.Parse()

	log, err := logging.New(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, log, *scenes, *file, *ticks, *serve); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("rigidsim failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *zap.Logger, names, file string, ticks int, addr string) error {
	list, err := loadScenes(names, file)
	if err != nil {
		return err
	}

	if addr != "" {
		return serveFeed(ctx, log, list[0], addr)
	}

	reports, err := scene.RunAll(ctx, list, ticks, log)
	if err != nil {
		return err
	}
	for _, r := range reports {
		fmt.Printf("%-10s bodies=%-4d ticks=%-5d max_speed=%-10.4g settled=%-5t contacts=%-4d elapsed=%s\n",
			r.Scene, r.Bodies, r.Ticks, r.MaxSpeed, r.Settled, r.Contacts, r.Elapsed.Round(time.Millisecond))
	}
	return nil
}

func loadScenes(names, file string) ([]*scene.Scene, error) {
	if file != "" {
		s, err := scene.LoadFile(file)
		if err != nil {
			return nil, err
		}
		return []*scene.Scene{s}, nil
	}

	var list []*scene.Scene
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		s, err := scene.Builtin(name)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no scene given", scene.ErrUnknownScene)
	}
	return list, nil
}

func serveFeed(ctx context.Context, log *zap.Logger, s *scene.Scene, addr string) error {
	world, err := s.Build(rigid.WithLogger(log))
	if err != nil {
		return err
	}

	srv := feed.NewServer(world, feed.WithLogger(log))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("serving feed", zap.String("addr", addr), zap.String("scene", s.Name))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return srv.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
