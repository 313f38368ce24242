// Package api exposes the back office over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"tour-backoffice/internal/common/config"
	apperrors "tour-backoffice/internal/common/errors"
	"tour-backoffice/internal/common/logger"
	"tour-backoffice/internal/common/observability"
	"tour-backoffice/internal/documents"
	"tour-backoffice/internal/models"
	"tour-backoffice/internal/notify"
	"tour-backoffice/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SupplierSearcher answers free-text supplier queries.
type SupplierSearcher interface {
	Search(ctx context.Context, q string, size int) (*store.SearchResult, error)
}

// ReadinessCheck reports whether a dependency is reachable.
type ReadinessCheck func(ctx context.Context) error

type Options struct {
	Records     *store.Service
	Search      SupplierSearcher
	Mailer      *notify.Mailer
	Obs         *observability.Observability
	Logger      logger.Logger
	Server      config.ServerConfig
	Documents   config.DocumentsConfig
	Spreadsheet config.SpreadsheetConfig
	Checks      map[string]ReadinessCheck
}

// Handler holds the dependencies shared by every route.
type Handler struct {
	records     *store.Service
	search      SupplierSearcher
	mailer      *notify.Mailer
	obs         *observability.Observability
	logger      logger.Logger
	errors      *apperrors.Responder
	operator    documents.Operator
	pdfFont     string
	maxUpload   int64
	spreadsheet config.SpreadsheetConfig
	checks      map[string]ReadinessCheck
}

func NewHandler(opts Options) *Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	maxUpload := opts.Server.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	op := opts.Documents.Operator
	return &Handler{
		records:     opts.Records,
		search:      opts.Search,
		mailer:      opts.Mailer,
		obs:         opts.Obs,
		logger:      log,
		errors:      apperrors.NewResponder(log),
		operator:    documents.Operator{Name: op.Name, Phone: op.Phone, Email: op.Email, Website: op.Website},
		pdfFont:     opts.Documents.PDFFont,
		maxUpload:   maxUpload,
		spreadsheet: opts.Spreadsheet,
		checks:      opts.Checks,
	}
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(opts Options) *gin.Engine {
	h := NewHandler(opts)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(h.logger))
	r.Use(Metrics())
	r.Use(cors.New(corsConfig(opts.Server.AllowedOrigins)))

	h.Register(r)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Register mounts all routes on r.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", h.health)
	r.GET("/ready", h.ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	for _, resource := range models.Resources {
		g := api.Group("/" + string(resource))
		g.GET("", h.list(resource))
		g.POST("", h.create(resource))
		g.GET("/:id", h.get(resource))
		g.PATCH("/:id", h.patch(resource))
		g.DELETE("/:id", h.remove(resource))
	}

	api.GET("/suppliers/search", h.searchSuppliers)

	api.POST("/templates/render", h.renderInline)
	api.POST("/templates/:id/render", h.renderStored)
	api.POST("/templates/:id/send", h.sendTemplate)

	docs := api.Group("/documents")
	docs.POST("/voucher", h.voucher)
	docs.POST("/tour-manual", h.tourManual)
	docs.POST("/overnight-list", h.overnightList)

	api.GET("/overnight-lists/:id/document", h.storedOvernightList)
	api.POST("/overnight-lists/:id/entries", h.appendOvernightEntry)
	api.DELETE("/overnight-lists/:id/entries/:index", h.removeOvernightEntry)

	api.POST("/quote-schedule/parse", h.parseQuoteSchedule)
	api.POST("/quote-schedule/import", h.importQuoteSchedule)
	api.GET("/quote-schedule/export", h.exportQuoteSchedule)

	api.POST("/pricing/quote", h.quoteInline)
	api.POST("/quote-templates/:id/price", h.quoteStored)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	failed := map[string]string{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "failed": failed})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
