package application

import (
	"log/slog"
	"time"

	"github.com/streamcart/product-catalog/internal/ports"
)

type Config struct {
	ServiceName     string
	ProductCacheTTL time.Duration
}

type Service struct {
	cfg        Config
	logger     *slog.Logger
	products   ports.ProductRepository
	publisher  ports.EventPublisher
	cache      ports.Cache
	projection *CatalogProjection
	nowFn      func() time.Time
}

type Dependencies struct {
	Config     Config
	Logger     *slog.Logger
	Products   ports.ProductRepository
	Publisher  ports.EventPublisher
	Cache      ports.Cache
	Projection *CatalogProjection
	NowFn      func() time.Time
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "product-catalog"
	}
	if cfg.ProductCacheTTL <= 0 {
		cfg.ProductCacheTTL = 5 * time.Minute
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nowFn := deps.NowFn
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		cfg:        cfg,
		logger:     logger,
		products:   deps.Products,
		publisher:  deps.Publisher,
		cache:      deps.Cache,
		projection: deps.Projection,
		nowFn:      nowFn,
	}
}
