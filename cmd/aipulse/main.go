package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rowanfield/aipulse/internal/config"
	"github.com/rowanfield/aipulse/internal/httpapi"
	"github.com/rowanfield/aipulse/internal/report"
	"github.com/rowanfield/aipulse/internal/store"
)

func main() {
	dbFlag := flag.String("db", "", "path to SQLite database file (overrides AIPULSE_DB_PATH)")
	addrFlag := flag.String("addr", "", "listen address (overrides AIPULSE_ADDR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *dbFlag != "" {
		cfg.DBPath = *dbFlag
	}
	if *addrFlag != "" {
		cfg.Addr = *addrFlag
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to initialize sqlite store (%s): %v", cfg.DBPath, err)
	}
	defer st.Close()
	log.Printf("using sqlite store at %s", cfg.DBPath)

	caller, err := report.NewCallerFromConfig(report.CallerConfig{
		OpenAIKey:      cfg.OpenAIKey,
		OpenAIBaseURL:  cfg.OpenAIBaseURL,
		OpenAIModel:    cfg.OpenAIModel,
		AnthropicKey:   cfg.AnthropicKey,
		AnthropicModel: cfg.AnthropicModel,
	})
	if err != nil {
		log.Printf("no completion backend configured, reports use fallback generation")
		caller = nil
	}

	synth := report.NewSynthesizer(caller, st, report.SynthesizerConfig{Timeout: cfg.LLMTimeout})

	handler := httpapi.NewServer(httpapi.Options{
		Store:         st,
		Reports:       synth,
		CORSOrigins:   cfg.CORSOrigins,
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
	})
	if !cfg.AdminEnabled() {
		log.Printf("admin credentials not configured, admin API disabled")
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("aipulse listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
