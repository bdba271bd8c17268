package httpapi

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// DefaultBodyLimit предельный размер тела запроса (50 MiB).
const DefaultBodyLimit int64 = 50 << 20

// LegacyPrefix задаёт префикс, под которым маршруты доступны страницам витрины.
const LegacyPrefix = "/api"

func init() {
	// Лишние поля в теле запроса считаются ошибкой клиента.
	binding.EnableDecoderDisallowUnknownFields = true

	// В ошибках валидации поля называются так же, как в JSON.
	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		engine.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}

// RouterOption настраивает роутер.
type RouterOption func(*routerConfig)

type routerConfig struct {
	bodyLimit int64
	metrics   *metrics.HTTPMetrics
	logger    *log.Entry
}

// WithBodyLimit задаёт предельный размер тела запроса.
func WithBodyLimit(limit int64) RouterOption {
	return func(cfg *routerConfig) {
		if limit > 0 {
			cfg.bodyLimit = limit
		}
	}
}

// WithMetrics подключает HTTP-метрики.
func WithMetrics(m *metrics.HTTPMetrics) RouterOption {
	return func(cfg *routerConfig) { cfg.metrics = m }
}

// WithLogger задаёт логгер access-лога и ошибок.
func WithLogger(logger *log.Entry) RouterOption {
	return func(cfg *routerConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// NewRouter собирает gin-роутер API. Маршруты доступны от корня и под LegacyPrefix.
func NewRouter(h *Handler, opts ...RouterOption) *gin.Engine {
	cfg := routerConfig{
		bodyLimit: DefaultBodyLimit,
		logger:    log.WithFields(log.Fields{"component": "http-api", "layer": "api"}),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		requestIDMiddleware(),
		accessLogMiddleware(cfg.logger),
		recoveryMiddleware(cfg.logger),
		corsMiddleware(),
	)
	if cfg.metrics != nil {
		router.Use(metricsMiddleware(cfg.metrics))
	}
	router.Use(bodyLimitMiddleware(cfg.bodyLimit))

	h.register(router.Group("/"))
	h.register(router.Group(LegacyPrefix))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "route not found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	return router
}

func (h *Handler) register(group *gin.RouterGroup) {
	products := group.Group("/products")
	{
		products.GET("", h.listProducts)
		products.POST("", h.createProduct)
		products.GET("/:id", h.getProduct)
		products.PUT("/:id", h.updateProduct)
		products.DELETE("/:id", h.deleteProduct)
	}

	orders := group.Group("/orders")
	{
		orders.GET("", h.listOrders)
		orders.POST("", h.createOrder)
		orders.GET("/:id", h.getOrder)
		orders.PUT("/:id/status", h.updateOrderStatus)
		orders.DELETE("/:id", h.deleteOrder)
	}
}
