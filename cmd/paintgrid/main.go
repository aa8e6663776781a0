package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"time"

	"9fans.net/go/plan9/client"
	"go.uber.org/zap"

	"github.com/cptaffe/paintgrid/internal/server"
	"github.com/cptaffe/paintgrid/logger"
)

func main() {
	configFile := flag.String("config", "", "grid configuration file")
	srv := flag.String("srv", "", "service path posted via 9pserve (default: $NAMESPACE/paintgrid)")
	addr := flag.String("addr", "", "serve on this unix socket directly instead of through 9pserve")
	useAcme := flag.Bool("acme", false, "mirror the rendered grid into an acme window")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	var err error
	var l *zap.Logger
	if *verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	zap.ReplaceGlobals(l)
	defer l.Sync() //nolint:errcheck

	srvPath := *srv
	if srvPath == "" {
		srvPath = client.Namespace() + "/paintgrid"
	}

	cfg := server.DefaultConfig()
	if *configFile != "" {
		data, err := os.ReadFile(*configFile)
		if err != nil {
			l.Fatal("read config", zap.String("path", *configFile), zap.Error(err))
		}
		cfg, err = server.ParseConfig(string(data))
		if err != nil {
			l.Fatal("parse config", zap.String("path", *configFile), zap.Error(err))
		}
		l.Info("loaded config",
			zap.String("style", string(cfg.Style)),
			zap.Int("layerOrder", len(cfg.LayerOrder)),
			zap.String("path", *configFile))
	}

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()
	ctx = logger.NewContext(ctx, l)

	var sink server.Sink
	if *useAcme {
		as, err := server.NewAcmeSink("/paintgrid/+render")
		if err != nil {
			l.Fatal("acme window", zap.Error(err))
		}
		sink = as
	}

	s, err := server.NewServer(cfg, ctx, sink)
	if err != nil {
		l.Fatal("new server", zap.Error(err))
	}

	if *addr != "" {
		serveSocket(ctx, s, *addr)
	} else {
		rw, cleanup, err := listen(srvPath)
		if err != nil {
			l.Fatal("listen", zap.String("path", srvPath), zap.Error(err))
		}
		l.Info("listening", zap.String("srv", srvPath))
		go func() {
			s.Serve(rw)
			// 9pserve went away; nothing left to serve.
			stop()
		}()
		<-ctx.Done()
		cleanup()
	}

	l.Info("shutting down; waiting for canvas goroutine")
	stop()
	done := make(chan struct{})
	go func() { s.Wait(); close(done) }()
	select {
	case <-done:
		l.Info("shutdown complete")
	case <-time.After(5 * time.Second):
		l.Warn("shutdown timed out; exiting anyway")
	}
}

// serveSocket accepts connections on a unix socket until ctx is cancelled,
// serving each on its own goroutine.
func serveSocket(ctx context.Context, s *server.Server, path string) {
	l := logger.L(ctx)

	os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		l.Fatal("listen", zap.String("path", path), zap.Error(err))
	}
	defer os.Remove(path)
	defer ln.Close()

	// Close the listener when the context is cancelled so that Accept
	// returns an error and the loop below can exit.
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	l.Info("listening", zap.String("addr", path))

	for {
		c, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.Error("accept", zap.Error(err))
			continue
		}
		go func() {
			defer c.Close()
			s.Serve(c)
		}()
	}
}
