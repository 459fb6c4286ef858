package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"medblock/internal/access"
	"medblock/internal/audit"
	"medblock/internal/consent"
	"medblock/internal/hashing"
	"medblock/internal/identity"
	"medblock/internal/ledger"
	"medblock/internal/platform/config"
	"medblock/internal/platform/httpserver"
	"medblock/internal/platform/logger"
	"medblock/internal/platform/metrics"
	redisplatform "medblock/internal/platform/redis"
	"medblock/internal/records"
	httptransport "medblock/internal/transport/http"
)

// main wires dependencies and owns the process lifecycle. Every optional
// backend (postgres, redis, leveldb, kafka) degrades to an in-process
// equivalent when its config is absent, so a bare `go run` serves a fully
// working single-node instance.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	m := metrics.New()

	hasher, err := hashing.New(hashing.Algorithm(cfg.HashAlgorithm))
	if err != nil {
		return err
	}

	rdb, err := redisplatform.New(cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	directory := identity.NewDirectory(cfg.DIDMethod)
	var resolver identity.Resolver = directory
	if rdb != nil {
		resolver = identity.NewCachedResolver(directory, rdb.Client)
	}
	challenges := identity.NewChallengeService(cfg.ChallengeSigningKey, "medblock", cfg.ChallengeTTL)

	chain, closeChain, err := openLedger(cfg, rdb)
	if err != nil {
		return err
	}
	defer closeChain()

	stores, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	var streamer audit.Streamer
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := audit.NewStreamPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			return err
		}
		defer publisher.Close()
		streamer = publisher
	}

	recordSvc := records.NewService(stores.records, chain, resolver, hasher, log, m)
	consentSvc := consent.NewService(stores.consents, chain, resolver, hasher, log, m)
	auditSvc := audit.NewService(stores.audits, streamer, log)
	gate := access.NewGate(recordSvc, consentSvc, auditSvc, chain, resolver, hasher, log, m)

	handler := httptransport.NewHandler(log, m, gate, recordSvc, consentSvc, auditSvc, directory, challenges, resolver)
	srv := httpserver.New(cfg.Addr, handler.Router())

	log.Info("starting medblock", "addr", cfg.Addr,
		"postgres", cfg.PostgresDSN != "", "redis", rdb != nil,
		"ledger_path", cfg.LedgerPath, "kafka", len(cfg.KafkaBrokers) > 0)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openLedger picks the notarization backend: durable leveldb chain when a
// path is configured, in-memory chain otherwise, with a redis
// confirmation cache layered on when redis is up.
func openLedger(cfg config.Server, rdb *redisplatform.Client) (ledger.Client, func(), error) {
	var (
		chain  ledger.Client
		closer = func() {}
	)
	if cfg.LedgerPath != "" {
		level, err := ledger.OpenLevelChain(cfg.LedgerPath)
		if err != nil {
			return nil, nil, err
		}
		chain = level
		closer = func() { _ = level.Close() }
	} else {
		chain = ledger.NewHashChain()
	}
	if rdb != nil {
		chain = ledger.NewCachedClient(chain, rdb.Client)
	}
	return chain, closer, nil
}

type storeSet struct {
	records  records.Store
	consents consent.Store
	audits   audit.Store
}

// openStores builds the persistence layer. With a DSN the three stores
// share the database but not the driver: consent and records ride pgx,
// the append-only access log uses database/sql with lib/pq.
func openStores(ctx context.Context, cfg config.Server) (storeSet, func(), error) {
	if cfg.PostgresDSN == "" {
		return storeSet{
			records:  records.NewInMemoryStore(),
			consents: consent.NewInMemoryStore(),
			audits:   audit.NewInMemoryStore(),
		}, func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		return storeSet{}, nil, err
	}
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		pool.Close()
		return storeSet{}, nil, err
	}
	closeAll := func() {
		pool.Close()
		_ = db.Close()
	}

	for _, schema := range []string{consent.Schema, records.Schema} {
		if _, err := pool.Exec(ctx, schema); err != nil {
			closeAll()
			return storeSet{}, nil, err
		}
	}
	if _, err := db.ExecContext(ctx, audit.Schema); err != nil {
		closeAll()
		return storeSet{}, nil, err
	}

	return storeSet{
		records:  records.NewPostgresStore(pool),
		consents: consent.NewPostgresStore(pool),
		audits:   audit.NewPostgresStore(db),
	}, closeAll, nil
}
