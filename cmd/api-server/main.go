package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-co-op/gocron"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/faciam-dev/gridbase/internal/config"
	"github.com/faciam-dev/gridbase/internal/displaypolicy"
	"github.com/faciam-dev/gridbase/internal/events"
	"github.com/faciam-dev/gridbase/internal/logger"
	mongorepo "github.com/faciam-dev/gridbase/internal/repository/mongo"
	"github.com/faciam-dev/gridbase/internal/runtime/cache"
	"github.com/faciam-dev/gridbase/internal/server"
	"github.com/faciam-dev/gridbase/internal/storage"
	"github.com/faciam-dev/gridbase/pkg/metrics"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	openapi := flag.String("openapi", "", "write OpenAPI JSON and exit")
	flag.Parse()

	logger.Set(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	cfg := config.Load()
	ctx := context.Background()

	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.DatabaseURL))
	if err != nil {
		logger.L.Error("mongo connect", "err", err)
		os.Exit(1)
	}
	defer func() { _ = cli.Disconnect(context.Background()) }()
	db := cli.Database(cfg.DBName)
	repos := mongorepo.New(db)
	if err := repos.EnsureIndexes(ctx); err != nil {
		logger.L.Error("ensure indexes", "err", err)
		os.Exit(1)
	}

	evtConf, err := events.LoadConfig(cfg.EventsConfig)
	if err != nil {
		logger.L.Error("load events configuration", "err", err)
		os.Exit(1)
	}
	var sinks []events.Sink
	if wh := events.NewWebhookSink(evtConf.Sinks.Webhook); wh != nil {
		sinks = append(sinks, wh)
	}
	if rs, err := events.NewRedisSink(evtConf.Sinks.Redis); err != nil {
		logger.L.Error("redis sink", "err", err)
	} else if rs != nil {
		sinks = append(sinks, rs)
	}
	if ks, err := events.NewKafkaSink(evtConf.Sinks.Kafka); err != nil {
		logger.L.Error("kafka sink", "err", err)
	} else if ks != nil {
		sinks = append(sinks, ks)
	}
	dispatcher := events.NewDispatcher(evtConf, &events.MongoDLQ{C: db.Collection(mongorepo.ColDLQ)}, sinks...)

	var blobs storage.Client
	if cfg.S3Bucket != "" {
		s3, err := storage.NewS3(ctx, cfg.S3Bucket, cfg.AWSRegion, cfg.S3Prefix)
		if err != nil {
			logger.L.Error("s3 client", "err", err)
			os.Exit(1)
		}
		blobs = s3
	} else {
		logger.L.Warn("S3_BUCKET not set, /storage endpoints disabled")
	}

	policy := displaypolicy.NewStore(cfg.DisplayPolicy, logger.L)
	if cfg.DisplayPolicy != "" {
		if err := policy.Load(); err != nil {
			logger.L.Error("display policy", "err", err)
			os.Exit(1)
		}
		go policy.Watch(ctx)
	}

	fieldCache := cache.New(repos.Fields, cfg.FieldCacheTTL, nil)
	fieldCache.Start(ctx, cfg.FieldCacheTTL)

	api := server.New(server.Deps{
		Repos:   repos,
		Cfg:     cfg,
		Blobs:   blobs,
		Emitter: dispatcher,
		Policy:  policy,
		Cache:   fieldCache,
	})

	metrics.StartGauges(ctx, repos.Fields, repos.Rows)

	sched := gocron.NewScheduler(time.UTC)
	if _, err := sched.Cron("0 3 * * *").Do(func() {
		cutoff := time.Now().Add(-cfg.TrashRetention)
		n, err := repos.PurgeTrashed(context.Background(), cutoff)
		if err != nil {
			logger.L.Error("purge trashed", "err", err)
			return
		}
		logger.L.Info("purged trashed documents", "count", n)
	}); err != nil {
		logger.L.Error("schedule purge", "err", err)
	}
	sched.StartAsync()

	if *openapi != "" {
		data, err := json.MarshalIndent(api.OpenAPI(), "", "  ")
		if err != nil {
			logger.L.Error("marshal openapi", "err", err)
			os.Exit(1)
		}
		if err := os.WriteFile(filepath.Clean(*openapi), data, 0o600); err != nil {
			logger.L.Error("write openapi", "err", err)
			os.Exit(1)
		}
		return
	}

	logger.L.Info("listening", "addr", *addr)
	srv := &http.Server{
		Addr:         *addr,
		Handler:      api.Adapter(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.L.Error("server error", "err", err)
		os.Exit(1)
	}
}
