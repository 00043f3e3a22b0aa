// Command server exposes the koref coreference rules as a JSON REST API.
//
// Endpoints:
//
//	POST /api/analyze       body: {"conllu":"..."}
//	POST /api/pair          body: {"conllu":"...","referent":0,"anaphor":3}
//	POST /api/antecedents   body: {"conllu":"...","token":3}
//	GET  /api/lexicon
//	GET  /healthz
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cours-de-latin/koref/internal/config"
	"github.com/cours-de-latin/koref/internal/logging"
	"github.com/cours-de-latin/koref/internal/server"
	"github.com/joho/godotenv"
)

func main() {
	cfgFile := flag.String("config", "", "config file (default: $HOME/.koref/config.yaml)")
	envFile := flag.String("env", ".env", "file of KOREF_* variables loaded before the config")
	addr := flag.String("addr", "", "listen address (overrides server.addr)")
	lexicon := flag.String("lexicon", "", "lexicon YAML file (overrides analysis.lexicon)")
	flag.Parse()

	if err := run(*cfgFile, *envFile, *addr, *lexicon); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgFile, envFile, addr, lexicon string) error {
	envErr := godotenv.Load(envFile)

	v, err := config.NewViper(cfgFile)
	if err != nil {
		return err
	}
	if addr != "" {
		v.Set("server.addr", addr)
	}
	if lexicon != "" {
		v.Set("analysis.lexicon", lexicon)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	log, closer, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()
	slog.SetDefault(log)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warn("could not load env file", "path", envFile, "err", envErr)
	}

	srv, err := server.New(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.WatchLexicon && cfg.Analysis.Lexicon != "" {
		if err := srv.WatchLexicon(ctx); err != nil {
			log.Warn("lexicon hot reload disabled", "err", err)
		}
	}

	hs := &http.Server{Addr: cfg.Server.Addr, Handler: srv.Handler()}
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Server.Addr)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
