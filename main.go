package main

import (
	"context"
	"log"
)

func main() {
	cfg := LoadConfig()
	appliedHTTPTimeout := ConfigureExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)
	log.Printf(
		"Config loaded. Brand=%s StoreBackend=%s LLMProvider=%s UnknownCurrencyPolicy=%s ExternalHTTPTimeout=%s",
		cfg.BrandName,
		cfg.StoreBackend,
		cfg.LLMProvider,
		cfg.UnknownCurrencyPolicy,
		appliedHTTPTimeout,
	)

	var store SummaryStore
	switch cfg.StoreBackend {
	case "sqlite":
		s, err := NewSQLiteStore(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open sqlite store: %v", err)
		}
		defer s.Close()
		store = s
	default:
		s, err := NewSheetsStore(context.Background(), cfg)
		if err != nil {
			log.Fatalf("Failed to init sheets store: %v", err)
		}
		store = s
	}

	job := &WeeklyReportJob{
		Orders:                NewMedusaClient(cfg),
		Rates:                 NewFXClient(cfg),
		Store:                 store,
		Reporter:              NewLLMReporter(cfg),
		Notifier:              NewSlackNotifier(cfg),
		UnknownCurrencyPolicy: cfg.UnknownCurrencyPolicy,
	}

	StartReportScheduler(cfg, job)

	log.Printf("Starting weekly report server on %s", cfg.ListenAddr)
	if err := NewRouter(job).Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
