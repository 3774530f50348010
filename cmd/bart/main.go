package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/xtding233/bart-backend/internal/bart"
	"github.com/xtding233/bart-backend/internal/config"
	"github.com/xtding233/bart-backend/internal/console"
	"github.com/xtding233/bart-backend/internal/money"
	"github.com/xtding233/bart-backend/internal/recorder"
	"github.com/xtding233/bart-backend/internal/task"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		os.Stdin.Close()
	}()
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run plays one task and returns the process exit code, so deferred
// cleanup such as closing the recorder happens before the process exits.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var env config.Runner
	if err := config.ParseEnv(&env); err != nil {
		log.Printf("[FATAL] %v", err)
		return 1
	}
	fs := flag.NewFlagSet("bart", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configDir := fs.String("config", env.ConfigDir, "config base directory")
	taskName := fs.String("task", env.Task, "task name under <config>/tasks")
	variant := fs.String("variant", env.Variant, "task variant")
	dbPath := fs.String("db", env.SQLitePath, "sqlite file for trial data (empty: do not record)")
	seed := fs.Int64("seed", -1, "seed explosion points for a reproducible run (-1: random)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	_, settings, err := task.NewLoader(*configDir).Resolve(*taskName, *variant, task.Overrides{})
	if err != nil {
		log.Printf("[FATAL] load task: %v", err)
		return 1
	}
	formatter, err := money.NewFormatter(settings.Currency)
	if err != nil {
		log.Printf("[FATAL] %v", err)
		return 1
	}

	rng := bart.DefaultRNG()
	if *seed >= 0 {
		rng = bart.NewSeededRNG(uint64(*seed))
	}

	runID := uuid.NewString()
	presenter := console.NewPresenter(stdout, formatter.Func(), settings.Config)
	obs := bart.Observers{presenter}
	if *dbPath != "" {
		rec, err := recorder.NewSQLiteRecorder(*dbPath)
		if err != nil {
			log.Printf("[FATAL] open recorder: %v", err)
			return 1
		}
		defer func() {
			if err := rec.Close(); err != nil {
				log.Printf("[WARN] close recorder: %v", err)
			}
		}()
		obs = append(obs, recorder.NewObserver(rec, runID, settings.Currency))
	}

	presenter.Instructions()
	src := bart.NewReaderSource(stdin)
	src.OnInvalid = func(line string, _ error) {
		fmt.Fprintf(stderr, "unknown action %q; type pump or collect\n", line)
	}

	o := bart.NewOrchestrator(settings.Config, bart.NewGenerator(rng), obs)
	if _, err := o.RunAll(ctx, src); err != nil {
		if errors.Is(err, bart.ErrSourceExhausted) || errors.Is(err, context.Canceled) {
			log.Printf("[INFO] run %s stopped after %d of %d rounds", runID, o.Ledger().Len(), settings.Config.NumTrials)
			return 0
		}
		log.Printf("[ERROR] run %s: %v", runID, err)
		return 1
	}
	log.Printf("[INFO] run %s finished", runID)
	return 0
}
