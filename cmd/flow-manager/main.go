package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"edudesk/internal/common/aws"
	"edudesk/internal/common/camunda"
	"edudesk/internal/common/config"
	"edudesk/internal/common/database"
	"edudesk/internal/common/flow"
	"edudesk/internal/common/llm"
	"edudesk/internal/common/logger"
	"edudesk/internal/common/observability"
	"edudesk/internal/models"
	"edudesk/internal/repository"
	"edudesk/internal/workers/catalog"

	// Analysis flows (3)
	ai "edudesk/internal/workers/analysis/attendance-insights"
	cp "edudesk/internal/workers/analysis/class-performance"
	sp "edudesk/internal/workers/analysis/student-performance"

	// Planning flows (2)
	lp "edudesk/internal/workers/planning/lesson-plan"
	sc "edudesk/internal/workers/planning/schedule-conflicts"

	// Assessment flows (3)
	sr "edudesk/internal/workers/assessment/submission-review"
	tgen "edudesk/internal/workers/assessment/test-generation"
	tgr "edudesk/internal/workers/assessment/test-grading"

	// Data access and communication (3)
	ni "edudesk/internal/workers/communication/notify-intervention"
	lcg "edudesk/internal/workers/data-access/load-class-grades"
	sd "edudesk/internal/workers/data-access/search-directory"
)

var storeRetry = &camunda.RetryConfig{
	MaxRetries: 15,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting flow manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	if err := catalog.Validate(); err != nil {
		zapLog.Fatal("invalid flow declaration", zap.Error(err))
	}

	obs := observability.New(cfg.Observability)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init Zeebe Client with retry ---
	zeebe, err := camunda.NewClient(ctx, cfg.Camunda)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.RecordStore
	err = camunda.Retry(ctx, storeRetry, func() error {
		c, err := database.OpenRecordStore(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		if err := c.Ping(ctx); err != nil {
			c.Close()
			return err
		}
		pg = c
		return nil
	})
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	redis := database.NewCacheStore(cfg.Database.Redis)
	if err := camunda.Retry(ctx, storeRetry, func() error { return redis.Ping(ctx) }); err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry ---
	var es *database.SearchStore
	err = camunda.Retry(ctx, storeRetry, func() error {
		c, err := database.NewSearchStore(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		if err := c.Ping(ctx); err != nil {
			return err
		}
		es = c
		return nil
	})
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Stores ---
	for _, entity := range models.AllEntities {
		if err := repository.NewPostgresRepository[json.RawMessage](pg.DB, entity).Migrate(ctx); err != nil {
			zapLog.Fatal("migration failed", zap.String("entity", entity.String()), zap.Error(err))
		}
	}
	cacheTTL := redis.TTL()
	classes := repository.NewCachedRepository[models.Class](
		repository.NewPostgresRepository[models.Class](pg.DB, models.EntityClasses), redis.Client, models.EntityClasses, cacheTTL)
	teachers := repository.NewCachedRepository[models.Teacher](
		repository.NewPostgresRepository[models.Teacher](pg.DB, models.EntityTeachers), redis.Client, models.EntityTeachers, cacheTTL)
	guardians := repository.NewCachedRepository[models.Guardian](
		repository.NewPostgresRepository[models.Guardian](pg.DB, models.EntityGuardians), redis.Client, models.EntityGuardians, cacheTTL)
	grades := repository.NewPostgresRepository[models.Grade](pg.DB, models.EntityGrades)
	students := repository.NewPostgresRepository[models.Student](pg.DB, models.EntityStudents)

	directory := repository.NewDirectoryIndex(es.Client, cfg.Database.Elasticsearch.DirectoryIndex)
	if err := directory.EnsureIndex(ctx); err != nil {
		zapLog.Fatal("directory index setup failed", zap.Error(err))
	}

	// --- Notification channels ---
	notifyDeps := ni.ServiceDependencies{
		Teachers:  teachers,
		Students:  students,
		Guardians: guardians,
		Logger:    log,
	}
	if cfg.Notifications.Email.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.Email.FromEmail)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
		notifyDeps.Email = sesClient
	}
	if cfg.Notifications.SMS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.SMS.SenderID)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		notifyDeps.SMS = snsClient
	}

	// --- Model invoker ---
	invoker, err := llm.New(ctx, cfg.GenAI)
	if err != nil {
		zapLog.Fatal("model invoker init failed", zap.Error(err))
	}
	runner := flow.NewRunner(invoker, cfg.GenAI.DefaultModel, log, obs)
	zapLog.Info("Model invoker ready",
		zap.String("provider", cfg.GenAI.Provider),
		zap.String("defaultModel", cfg.GenAI.DefaultModel),
	)

	// --- Register workers ---
	handlers := map[string]worker.JobHandler{
		cp.TaskType:   cp.NewHandler(cp.LoadConfig(cfg), runner, log).Handle,
		sp.TaskType:   sp.NewHandler(sp.LoadConfig(cfg), runner, log).Handle,
		ai.TaskType:   ai.NewHandler(ai.LoadConfig(cfg), runner, log).Handle,
		sc.TaskType:   sc.NewHandler(sc.LoadConfig(cfg), runner, log).Handle,
		lp.TaskType:   lp.NewHandler(lp.LoadConfig(cfg), runner, log).Handle,
		tgen.TaskType: tgen.NewHandler(tgen.LoadConfig(cfg), runner, log).Handle,
		tgr.TaskType:  tgr.NewHandler(tgr.LoadConfig(cfg), runner, log).Handle,
		sr.TaskType:   sr.NewHandler(sr.LoadConfig(cfg), runner, log).Handle,
		lcg.TaskType:  lcg.NewHandler(lcg.LoadConfig(cfg), classes, grades, log).Handle,
		sd.TaskType:   sd.NewHandler(sd.LoadConfig(cfg), directory, log).Handle,
		ni.TaskType:   ni.NewHandler(ni.LoadConfig(cfg), notifyDeps).Handle,
	}

	var workers []worker.JobWorker
	for taskType, handle := range handlers {
		if w := camunda.StartWorker(zeebe.GetClient(), taskType, cfg.Flow(taskType), handle, log); w != nil {
			workers = append(workers, w)
		}
	}
	zapLog.Info("Workers registered", zap.Int("active", len(workers)), zap.Int("known", len(handlers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"version": cfg.App.Version,
			"time":    time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true
		for name, check := range map[string]func(context.Context) error{
			"zeebe":         zeebe.HealthCheck,
			"postgres":      pg.Ping,
			"redis":         redis.Ping,
			"elasticsearch": es.Ping,
		} {
			if err := check(checkCtx); err != nil {
				checks[name] = err.Error()
				ready = false
				continue
			}
			checks[name] = "ok"
		}

		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		writeStatus(w, code, map[string]interface{}{
			"status": status,
			"checks": checks,
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := cfg.App.HealthPort
	if port == 0 {
		port = 8080
	}
	server := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.Int("port", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range workers {
		w.Close()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, w := range workers {
		w.AwaitClose()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Flow manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
