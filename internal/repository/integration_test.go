//go:build integration

package repository

// Driver contract tests against real Postgres and MongoDB via testcontainers.
// Run with: go test -tags integration ./internal/repository/... -v

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/ChristianFajardo2022/audiosmadres/internal/infra"
	"github.com/ChristianFajardo2022/audiosmadres/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcMongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/datatypes"
)

const (
	testUsuarios = "usuarios"
	testStockCol = "stock"
	testStockID  = "stock_osos"
)

type storeUnderTest struct {
	usuarios  UsuarioRepository
	stock     StockRepository
	seedStock func(t *testing.T, value int64)
}

func startPostgres(t *testing.T) storeUnderTest {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:15-alpine",
		tcPostgres.WithDatabase("audiosmadres_test"),
		tcPostgres.WithUsername("audiosmadres"),
		tcPostgres.WithPassword("audiosmadres"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := infra.NewDatabase(dsn)
	require.NoError(t, err)

	return storeUnderTest{
		usuarios: NewPostgresUsuarioRepository(db, testUsuarios),
		stock:    NewPostgresStockRepository(db, testStockCol, testStockID),
		seedStock: func(t *testing.T, value int64) {
			require.NoError(t, db.Create(&model.Documento{
				Coleccion: testStockCol,
				ID:        testStockID,
				Datos:     datatypes.JSONMap{model.FieldStock: value},
				CreatedAt: time.Now(),
			}).Error)
		},
	}
}

func startMongo(t *testing.T) (storeUnderTest, *infra.MongoDB) {
	t.Helper()
	ctx := context.Background()

	mC, err := tcMongo.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() { _ = mC.Terminate(ctx) })

	uri, err := mC.ConnectionString(ctx)
	require.NoError(t, err)

	mdb, err := infra.NewMongoDB(uri, "audiosmadres_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = mdb.Close() })

	return storeUnderTest{
		usuarios: NewMongoUsuarioRepository(mdb.Database, testUsuarios),
		stock:    NewMongoStockRepository(mdb.Database, testStockCol, testStockID),
		seedStock: func(t *testing.T, value int64) {
			_, err := mdb.Database.Collection(testStockCol).InsertOne(context.Background(),
				bson.M{"_id": testStockID, model.FieldStock: value})
			require.NoError(t, err)
		},
	}, mdb
}

func TestPostgresStore(t *testing.T) {
	runStoreContract(t, startPostgres(t))
}

func TestMongoStore(t *testing.T) {
	s, _ := startMongo(t)
	runStoreContract(t, s)
}

func runStoreContract(t *testing.T, s storeUnderTest) {
	ctx := context.Background()

	t.Run("stock document missing", func(t *testing.T) {
		_, err := s.stock.Decrement(ctx)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	s.seedStock(t, 10)

	require.NoError(t, s.usuarios.Create(ctx, "1715000000001", map[string]any{
		"firstname":   "Ana",
		"email":       "a@x.co",
		"customer_id": "C1",
		"audioRef":    "https://storage.googleapis.com/b/audios/1715000000001.mp3",
	}))
	require.NoError(t, s.usuarios.Create(ctx, "1715000000002", map[string]any{
		"firstname":   "Ana",
		"customer_id": "C2",
	}))

	t.Run("find by field is exact", func(t *testing.T) {
		got, err := s.usuarios.FindByField(ctx, "firstname", "Ana")
		require.NoError(t, err)
		assert.Len(t, got, 2)

		got, err = s.usuarios.FindByField(ctx, "firstname", "ana")
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = s.usuarios.FindByField(ctx, model.FieldCustomerID, "C1")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "1715000000001", got[0].ID)
		assert.Equal(t, "a@x.co", got[0].String("email"))
		_, ok := got[0].CreatedAt()
		assert.True(t, ok, "createdAt must come back as time.Time")
		assert.NotContains(t, got[0].Fields, "_id")
	})

	t.Run("list returns every record", func(t *testing.T) {
		got, err := s.usuarios.List(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("update transaction keeps other fields", func(t *testing.T) {
		require.NoError(t, s.usuarios.UpdateTransaction(ctx, "1715000000001", "approved", "O1"))
		got, err := s.usuarios.FindByField(ctx, model.FieldCustomerID, "C1")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "approved", got[0].String(model.FieldTrxStatus))
		assert.Equal(t, "O1", got[0].String(model.FieldOrderID))
		assert.Equal(t, "Ana", got[0].String("firstname"))

		assert.ErrorIs(t, s.usuarios.UpdateTransaction(ctx, "missing", "approved", "O1"), ErrNotFound)
	})

	t.Run("mark stock updated is a compare and swap", func(t *testing.T) {
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				won, err := s.usuarios.MarkStockUpdated(ctx, "1715000000002")
				assert.NoError(t, err)
				if won {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, wins)

		got, err := s.usuarios.FindByField(ctx, model.FieldCustomerID, "C2")
		require.NoError(t, err)
		assert.True(t, got[0].StockUpdated())
	})

	t.Run("concurrent decrements are not lost", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.stock.Decrement(ctx)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		v, err := s.stock.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(5), v)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, s.usuarios.Ping(ctx))
	})
}

func TestGridFSAudioRepository(t *testing.T) {
	_, mdb := startMongo(t)
	ctx := context.Background()

	repo, err := NewGridFSAudioRepository(mdb.Database, "audios-bucket", "storage.example.test")
	require.NoError(t, err)

	exists, err := repo.Exists(ctx, "audios/1.mp3")
	require.NoError(t, err)
	assert.False(t, exists)

	url, err := repo.Upload(ctx, "audios/1.mp3", "audio/mp3", bytes.NewReader([]byte("ID3-bytes")))
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.test/audios-bucket/audios/1.mp3", url)
	assert.Equal(t, "audios/1.mp3", PathFromRef(repo, url))

	exists, err = repo.Exists(ctx, "audios/1.mp3")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, size, err := repo.Open(ctx, "audios/1.mp3")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3-bytes"), data)
	assert.Equal(t, int64(9), size)

	_, _, err = repo.Open(ctx, "audios/none.mp3")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, repo.Ping(ctx))
}
