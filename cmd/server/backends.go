package main

import (
	"context"
	"fmt"

	"github.com/ChristianFajardo2022/audiosmadres/internal/config"
	"github.com/ChristianFajardo2022/audiosmadres/internal/handler"
	"github.com/ChristianFajardo2022/audiosmadres/internal/infra"
	"github.com/ChristianFajardo2022/audiosmadres/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// backends holds the opened store clients selected by STORE_DRIVER and
// BLOB_DRIVER. Close releases them in reverse order.
type backends struct {
	usuarios repository.UsuarioRepository
	stock    repository.StockRepository
	audios   repository.AudioRepository
	redis    *redis.Client
	checks   []handler.Check
	closers  []func() error
}

func (b *backends) onClose(fn func() error) { b.closers = append(b.closers, fn) }

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			log.Warn().Err(err).Msg("closing backend")
		}
	}
}

func openBackends(ctx context.Context, cfg *config.Config) (_ *backends, err error) {
	b := &backends{}
	defer func() {
		if err != nil {
			b.Close()
		}
	}()

	var mdb *infra.MongoDB
	if cfg.NeedsMongo() {
		mdb, err = infra.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connect to mongodb: %w", err)
		}
		b.onClose(mdb.Close)
	}

	switch cfg.StoreDriver {
	case config.StoreFirestore:
		fs, err := infra.NewFirestore(ctx, cfg.GCPProjectID, cfg.GCPCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("connect to firestore: %w", err)
		}
		b.onClose(fs.Close)
		b.usuarios = repository.NewFirestoreUsuarioRepository(fs, cfg.UsuariosCollection)
		b.stock = repository.NewFirestoreStockRepository(fs, cfg.StockCollection, cfg.StockDocumentID)
	case config.StoreMongo:
		b.usuarios = repository.NewMongoUsuarioRepository(mdb.Database, cfg.UsuariosCollection)
		b.stock = repository.NewMongoStockRepository(mdb.Database, cfg.StockCollection, cfg.StockDocumentID)
	case config.StorePostgres:
		db, err := infra.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		b.onClose(sqlDB.Close)
		b.usuarios = repository.NewPostgresUsuarioRepository(db, cfg.UsuariosCollection)
		b.stock = repository.NewPostgresStockRepository(db, cfg.StockCollection, cfg.StockDocumentID)
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	var audios repository.AudioRepository
	switch cfg.BlobDriver {
	case config.BlobGCS:
		gcs, err := infra.NewStorage(ctx, cfg.GCPCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("connect to cloud storage: %w", err)
		}
		b.onClose(gcs.Close)
		audios = repository.NewGCSAudioRepository(gcs, cfg.BlobBucket, cfg.BlobPublicHost)
	case config.BlobGridFS:
		audios, err = repository.NewGridFSAudioRepository(mdb.Database, cfg.BlobBucket, cfg.BlobPublicHost)
		if err != nil {
			return nil, fmt.Errorf("open gridfs bucket: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown BLOB_DRIVER %q", cfg.BlobDriver)
	}
	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	b.audios = repository.WithCircuitBreaker(audios, cb)

	b.redis, err = infra.NewRedis(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	if b.redis != nil {
		b.onClose(b.redis.Close)
	} else {
		log.Warn().Msg("REDIS_URL not set: rate limiting and the stock DLQ are disabled")
	}

	b.checks = []handler.Check{
		{Name: "store", Ping: b.usuarios.Ping},
		{Name: "blob", Ping: b.audios.Ping},
		{Name: "blob_breaker", Ping: func(context.Context) error {
			if cb.State() == infra.CBOpen {
				return infra.ErrCircuitOpen
			}
			return nil
		}},
	}
	if b.redis != nil {
		b.checks = append(b.checks, handler.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return b.redis.Ping(ctx).Err()
		}})
	}
	return b, nil
}

// ping runs every health check once, for the check command.
func (b *backends) ping(ctx context.Context) error {
	var failed int
	for _, chk := range b.checks {
		if err := chk.Ping(ctx); err != nil {
			log.Error().Err(err).Str("backend", chk.Name).Msg("check failed")
			failed++
			continue
		}
		log.Info().Str("backend", chk.Name).Msg("check ok")
	}
	if failed > 0 {
		return fmt.Errorf("%d backend check(s) failed", failed)
	}
	return nil
}
