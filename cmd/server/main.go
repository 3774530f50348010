package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xtding233/bart-backend/internal/config"
	"github.com/xtding233/bart-backend/internal/recorder"
	"github.com/xtding233/bart-backend/internal/server"
	"github.com/xtding233/bart-backend/internal/task"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] bart server starting...")

	var cfg config.Server
	if err := config.ParseEnv(&cfg); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	loader := task.NewLoader(cfg.ConfigDir)
	// fail fast on a broken default file
	if _, _, err := loader.Resolve("", "", task.Overrides{}); err != nil {
		log.Fatalf("[FATAL] load default task config from %s: %v", cfg.ConfigDir, err)
	}

	watcher := task.WatchLoader(loader, cfg.WatchInterval, func(p string) {
		log.Printf("[INFO] config changed: %s; new sessions will reload it", p)
	}, cfg.WatchTasks...)
	watcher.Start()
	defer watcher.Stop()

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		} else {
			rec = sr
			defer sr.Close()
		}
	}

	srv := server.NewServer(loader, rec)
	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := srv.Sweep(cfg.SessionTTL); n > 0 {
					log.Printf("[INFO] dropped %d idle sessions", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		log.Printf("[INFO] listening on %s ...", cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[INFO] shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] shutdown: %v", err)
	}
}
