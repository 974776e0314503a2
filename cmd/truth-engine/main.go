// cmd/truth-engine/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"staytruth-engine/internal/common/cache"
	"staytruth-engine/internal/common/config"
	"staytruth-engine/internal/common/database"
	"staytruth-engine/internal/common/logger"
	"staytruth-engine/internal/common/observability"
	"staytruth-engine/internal/embeddings"
	"staytruth-engine/internal/store"

	ctv "staytruth-engine/internal/workers/personalization/compute-taste-vector"
	ep "staytruth-engine/internal/workers/personalization/embed-properties"
	ipa "staytruth-engine/internal/workers/search/index-property-aggregate"
	cts "staytruth-engine/internal/workers/truth/compute-truth-score"
	ic "staytruth-engine/internal/workers/truth/ingest-contribution"
	ras "staytruth-engine/internal/workers/truth/recompute-all-scores"
)

func readContributionPayload(path string) (*ic.Input, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var input ic.Input
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	return &input, nil
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		job         = flag.String("job", "", "job to run: recompute-scores | embed-properties | taste-vector | score-property | get-aggregate | ingest")
		userID      = flag.String("user", "", "user ID for the taste-vector job")
		propertyID  = flag.String("property", "", "property ID for the score-property job")
		payloadPath = flag.String("payload", "", "path to a JSON contribution payload for the ingest job (- for stdin)")
		batchSize   = flag.Int("batch-size", 0, "override embed batch size")
		maxBatches  = flag.Int("max-batches", 0, "override embed max batches")
		concurrency = flag.Int("concurrency", 0, "override recompute worker pool size")
		metricsAddr = flag.String("metrics-addr", ":9102", "address for the metrics endpoint")
	)
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting truth engine...", zap.String("job", *job))

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("truth-engine")
	defer obs.Shutdown()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		return err
	}, 5, 2*time.Second, zapLog, "PostgreSQL initialization")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		return err
	}, 5, 2*time.Second, zapLog, "Redis initialization")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry ---
	var es *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return es.Ping()
	}, 5, 2*time.Second, zapLog, "Elasticsearch initialization")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Metrics endpoint ---
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})
		if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
			zapLog.Warn("metrics server stopped", zap.Error(err))
		}
	}()

	// --- Wire stores and handlers ---
	db := pg.GetDB()
	contributions := store.NewContributionStore(db)
	properties := store.NewPropertyStore(db)
	swipes := store.NewSwipeStore(db)
	users := store.NewUserStore(db)
	discounts := store.NewDiscountStore(db)

	propertyCache := cache.New(rdb.GetClient(), config.GetDuration(cfg.Cache.PropertyTTL), log)
	indexer := ipa.NewHandler(es.Client, cfg.Search.PropertyIndex, log)
	provider := embeddings.NewClient(&cfg.Embeddings, log)

	scorer := cts.NewHandler(cts.LoadConfig(), contributions, properties, propertyCache, indexer, log)

	recomputeCfg := ras.LoadConfig()
	if cfg.Batch.ScoreConcurrency > 0 {
		recomputeCfg.Concurrency = cfg.Batch.ScoreConcurrency
	}
	recomputer := ras.NewHandler(recomputeCfg, contributions, scorer, log)

	embedCfg := ep.LoadConfig()
	if cfg.Batch.EmbedBatchSize > 0 {
		embedCfg.BatchSize = cfg.Batch.EmbedBatchSize
	}
	if cfg.Batch.EmbedMaxBatches > 0 {
		embedCfg.MaxBatches = cfg.Batch.EmbedMaxBatches
	}
	if cfg.Batch.EmbedPauseMillis > 0 {
		embedCfg.Pause = config.GetDuration(cfg.Batch.EmbedPauseMillis)
	}
	embedder := ep.NewHandler(embedCfg, properties, provider, log)

	tasteVector := ctv.NewHandler(ctv.LoadConfig(), swipes, users, log)
	ingester := ic.NewHandler(ic.LoadConfig(), contributions, discounts, scorer, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		s := <-sig
		zapLog.Info("shutdown signal received", zap.String("signal", s.String()))
		cancel()
	}()

	jobStart := time.Now()
	exitCode := 0
	switch *job {
	case "recompute-scores":
		out, err := recomputer.Execute(ctx, &ras.Input{Concurrency: *concurrency})
		if err != nil {
			zapLog.Error("recompute job failed", zap.Error(err))
			exitCode = 1
			break
		}
		zapLog.Info("recompute complete",
			zap.Int("total", out.Total),
			zap.Int("processed", out.Processed),
			zap.Int("failed", out.Failed),
		)
		if out.Failed > 0 {
			exitCode = 1
		}

	case "embed-properties":
		out, err := embedder.Execute(ctx, &ep.Input{BatchSize: *batchSize, MaxBatches: *maxBatches})
		if err != nil {
			zapLog.Error("embed job failed", zap.Error(err))
			exitCode = 1
			break
		}
		zapLog.Info("embedding backfill complete",
			zap.Int("batches", out.Batches),
			zap.Int("processed", out.Processed),
			zap.Int("failed", out.Failed),
		)
		if out.Failed > 0 {
			exitCode = 1
		}

	case "taste-vector":
		if *userID == "" {
			zapLog.Fatal("taste-vector job requires -user")
		}
		out, err := tasteVector.Execute(ctx, &ctv.Input{UserID: *userID})
		if err != nil {
			zapLog.Error("taste vector job failed", zap.Error(err))
			exitCode = 1
			break
		}
		zapLog.Info("taste vector job complete",
			zap.String("userId", out.UserID),
			zap.Bool("computed", out.Computed),
			zap.Int("likedCount", out.LikedCount),
		)

	case "score-property":
		if *propertyID == "" {
			zapLog.Fatal("score-property job requires -property")
		}
		out, err := scorer.Execute(ctx, &cts.Input{PropertyID: *propertyID})
		if err != nil {
			zapLog.Error("score job failed", zap.Error(err))
			exitCode = 1
			break
		}
		fields := []zap.Field{
			zap.String("propertyId", out.PropertyID),
			zap.Bool("updated", out.Updated),
			zap.Int("contributions", out.ContributionCount),
		}
		if out.TruthScore != nil {
			fields = append(fields, zap.Int("score", *out.TruthScore))
		}
		zapLog.Info("score job complete", fields...)

	case "get-aggregate":
		if *propertyID == "" {
			zapLog.Fatal("get-aggregate job requires -property")
		}
		agg, err := propertyCache.Fetch(ctx, *propertyID, properties.GetAggregate)
		if err != nil {
			zapLog.Error("aggregate fetch failed", zap.Error(err))
			exitCode = 1
			break
		}
		encoded, _ := json.MarshalIndent(agg, "", "  ")
		fmt.Println(string(encoded))

	case "ingest":
		if *payloadPath == "" {
			zapLog.Fatal("ingest job requires -payload")
		}
		input, err := readContributionPayload(*payloadPath)
		if err != nil {
			zapLog.Fatal("payload read failed", zap.Error(err))
		}
		out, err := ingester.Execute(ctx, input)
		if err != nil {
			zapLog.Error("ingest job failed", zap.Error(err))
			exitCode = 1
			break
		}
		zapLog.Info("contribution ingested",
			zap.String("contributionId", out.ContributionID),
			zap.String("discountCode", out.DiscountCode),
			zap.Bool("scoreRecomputed", out.ScoreRecomputed),
		)

	default:
		fmt.Fprintln(os.Stderr, "usage: truth-engine -job recompute-scores|embed-properties|taste-vector|score-property|get-aggregate|ingest")
		exitCode = 2
	}

	status := "success"
	if exitCode != 0 {
		status = "failure"
	}
	obs.RecordJobProcessed(ctx, status)
	obs.RecordJobDuration(ctx, time.Since(jobStart), status)

	return exitCode
}
