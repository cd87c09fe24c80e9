package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/correspondence-monitor/internal/api"
	"github.com/ignite/correspondence-monitor/internal/cache"
	"github.com/ignite/correspondence-monitor/internal/config"
	"github.com/ignite/correspondence-monitor/internal/digest"
	"github.com/ignite/correspondence-monitor/internal/domain"
	"github.com/ignite/correspondence-monitor/internal/events"
	"github.com/ignite/correspondence-monitor/internal/ingest"
	"github.com/ignite/correspondence-monitor/internal/pkg/distlock"
	"github.com/ignite/correspondence-monitor/internal/pkg/logger"
	"github.com/ignite/correspondence-monitor/internal/repository/memory"
	"github.com/ignite/correspondence-monitor/internal/repository/postgres"
	"github.com/ignite/correspondence-monitor/internal/service/dataset"
	"github.com/ignite/correspondence-monitor/internal/storage"
)

const ingestLockKey = "review:ingest"

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

func extractHost(dsn string) string {
	at := strings.Index(dsn, "@")
	if at < 0 {
		return "(unknown)"
	}
	rest := dsn[at+1:]
	slash := strings.Index(rest, "/")
	if slash >= 0 {
		rest = rest[:slash]
	}
	return rest
}

// openDatabase connects to PostgreSQL with statement timeouts applied.
func openDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	if !strings.Contains(dsn, "connect_timeout") {
		dsn += sep + "connect_timeout=5"
		sep = "&"
	}
	dsn += sep + "options=-c%20statement_timeout%3D15000"
	log.Printf("[db] host portion: ...@%s/...", extractHost(dsn))

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(30 * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (*storage.Storage, error) {
	if cfg.Type != "aws" {
		return storage.New(cfg)
	}
	awsStorage, err := storage.NewAWSStorage(ctx, cfg.DynamoDBTable, cfg.S3Bucket, cfg.S3Prefix, cfg.AWSRegion, cfg.GetAWSProfile())
	if err != nil {
		return nil, err
	}
	return storage.NewWithAWS(ctx, cfg, awsStorage), nil
}

func main() {
	configPath := "config/config.yaml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))

	host := cfg.Server.GetHost()
	port := cfg.Server.Port
	if err := checkPortAvailable(host, port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	log.Printf("[storage] %s storage ready", cfg.Storage.Type)

	// Import log: PostgreSQL when configured, otherwise in-process
	var db *sql.DB
	var repo dataset.Repository = memory.NewImportLogRepo()
	if cfg.Database.URL != "" {
		db, err = openDatabase(ctx, cfg.Database.URL)
		if err != nil {
			log.Printf("Warning: database unavailable, keeping import log in memory: %v", err)
			db = nil
		} else {
			defer db.Close()
			repo = postgres.NewImportLogRepo(db)
			log.Println("[db] import log backed by PostgreSQL")
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			log.Printf("Warning: Redis unavailable, caching disabled: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	newLock := func() distlock.DistLock {
		return distlock.NewLock(redisClient, db, ingestLockKey, dataset.LockTTL)
	}
	svc := dataset.NewService(store, ingest.NewLoader(cfg.Ingest.MaxUploadBytes()), repo, newLock)

	handlers := api.NewHandlers(svc, cfg.Ingest.MaxUploadBytes())

	if redisClient != nil && cfg.Cache.Enabled {
		vc := cache.NewViewCache(redisClient, cfg.Cache.TTL())
		handlers.SetCache(vc)
		svc.WithPurger(vc)
		log.Printf("[cache] view cache enabled (ttl %s)", cfg.Cache.TTL())
	}

	if cfg.Ingest.S3Bucket != "" {
		src, err := ingest.NewS3Source(ctx, cfg.Ingest.S3Bucket, cfg.Ingest.S3Prefix, cfg.Ingest.S3Region, cfg.Storage.GetAWSProfile())
		if err != nil {
			log.Printf("Warning: S3 ingestion disabled: %v", err)
		} else {
			handlers.SetS3Source(src)
			log.Printf("[ingest] S3 source s3://%s/%s", cfg.Ingest.S3Bucket, cfg.Ingest.S3Prefix)
		}
	}

	if cfg.Events.QueueURL != "" {
		pub, err := events.NewSQSPublisher(ctx, cfg.Events.QueueURL, cfg.Events.Region)
		if err != nil {
			log.Printf("Warning: dataset events disabled: %v", err)
		} else {
			svc.WithPublisher(pub)
			log.Printf("[events] publishing dataset events to %s", cfg.Events.QueueURL)
		}
	}

	tplSource := ""
	if cfg.Digest.Template != "" {
		data, err := os.ReadFile(cfg.Digest.Template)
		if err != nil {
			log.Fatalf("Failed to read digest template: %v", err)
		}
		tplSource = string(data)
	}
	renderer, err := digest.NewRenderer(tplSource)
	if err != nil {
		log.Fatalf("Failed to compile digest template: %v", err)
	}
	handlers.SetDigest(renderer)

	// Initial load from a local register directory
	if cfg.Ingest.LocalDir != "" {
		res, err := svc.Ingest(ctx, domain.SourceLocal, ingest.NewDirSource(cfg.Ingest.LocalDir))
		if err != nil {
			log.Printf("Warning: initial load from %s failed: %v", cfg.Ingest.LocalDir, err)
		} else {
			log.Printf("[ingest] initial dataset %s: %d records", res.DatasetID, res.Records)
		}
	}

	health := api.NewHealthChecker(db, redisClient, store)
	server := api.NewServer(cfg.Server, handlers, health)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", host, port)
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
