package router

import (
	"time"

	"github.com/ChristianFajardo2022/audiosmadres/internal/config"
	"github.com/ChristianFajardo2022/audiosmadres/internal/csvexport"
	"github.com/ChristianFajardo2022/audiosmadres/internal/dlq"
	"github.com/ChristianFajardo2022/audiosmadres/internal/handler"
	"github.com/ChristianFajardo2022/audiosmadres/internal/metrics"
	"github.com/ChristianFajardo2022/audiosmadres/internal/middleware"
	"github.com/ChristianFajardo2022/audiosmadres/internal/repository"
	"github.com/ChristianFajardo2022/audiosmadres/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Deps are the backends the API runs on, already opened by the caller.
type Deps struct {
	Config   *config.Config
	Usuarios repository.UsuarioRepository
	Stock    repository.StockRepository
	Audios   repository.AudioRepository
	Redis    *redis.Client // optional
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Checks   []handler.Check
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← store clients
func New(d Deps) (*gin.Engine, error) {
	cfg := d.Config
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	exporter, err := csvexport.New(cfg.CSVTimezone)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Metrics))
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(d.Redis, cfg.RateLimitPerMinute, time.Minute))

	// ── Services ─────────────────────────────────────────────────────────────
	formularioSvc := service.NewFormularioService(d.Usuarios, d.Audios, service.AudioLayout{
		Prefix:      cfg.AudioPrefix,
		Extension:   cfg.AudioExtension,
		ContentType: cfg.AudioContentType,
	}, d.Metrics)
	usuarioSvc := service.NewUsuarioService(d.Usuarios, exporter)
	transaccionSvc := service.NewTransaccionService(d.Usuarios, d.Stock, dlq.New(d.Redis), d.Metrics)
	audioSvc := service.NewAudioService(d.Audios)

	// ── Handlers ─────────────────────────────────────────────────────────────
	formularioH := handler.NewFormularioHandler(formularioSvc, cfg.MaxUploadMB<<20)
	usuariosH := handler.NewUsuariosHandler(usuarioSvc)
	transaccionH := handler.NewTransaccionHandler(transaccionSvc)
	audioH := handler.NewAudioHandler(audioSvc, cfg.AudioContentType)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/export-users-csv", usuariosH.ExportarCSV)
	r.GET("/filter-users", usuariosH.Filtrar)
	r.GET("/download-audio", audioH.Descargar)
	r.POST("/submit-form", formularioH.Enviar)
	r.POST("/alcarrito", transaccionH.Actualizar)
	r.GET("/get-user-data", usuariosH.ObtenerDatos)

	r.GET("/health", handler.Health(d.Checks...))
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// Swagger UI, only outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, nil
}
