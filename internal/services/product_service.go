package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"burningbros/internal/apperror"
	"burningbros/internal/cache"
	"burningbros/internal/i18n"
	"burningbros/internal/metrics"
	"burningbros/internal/models"
	"burningbros/internal/repositories"
	"burningbros/internal/validation"
	"burningbros/pkg/rabbitmq"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ProductsPagePrefix prefixes every cached product listing page.
const ProductsPagePrefix = "products_page:"

// MaxPerPage is the largest page size a listing or search may request.
const MaxPerPage = 100

// DefaultCacheTTL is used when no positive TTL is configured.
const DefaultCacheTTL = 120 * time.Second

// EventPublisher publishes product events to a message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	cache    cache.Cache
	cacheTTL time.Duration
	events   EventPublisher
	logger   *logrus.Logger
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, resultCache cache.Cache, cacheTTL time.Duration, publisher EventPublisher, logger *logrus.Logger) *ProductService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ProductService{
		repo:     repo,
		cache:    resultCache,
		cacheTTL: cacheTTL,
		events:   publisher,
		logger:   logger,
	}
}

func productsPageKey(page, perPage int) string {
	return fmt.Sprintf("%s%d_per_page:%d", ProductsPagePrefix, page, perPage)
}

// Create validates input, stores a new product and invalidates cached pages.
func (s *ProductService) Create(ctx context.Context, input models.CreateProductInput) (*models.Product, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	product := models.NewProduct(input)
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to create product: %w", err))
	}

	s.invalidatePages(ctx)
	s.publish(rabbitmq.KeyProductCreated, product.ID, "")
	return product, nil
}

// GetProducts returns one page of all products, served from the result cache
// when a fresh entry exists.
func (s *ProductService) GetProducts(ctx context.Context, page, perPage int) (*models.ProductPage, error) {
	if err := checkPage(page, perPage); err != nil {
		return nil, err
	}

	key := productsPageKey(page, perPage)
	if cached, ok := s.cachedPage(ctx, key); ok {
		metrics.RecordCacheLookup(metrics.CacheHit)
		return cached, nil
	}
	metrics.RecordCacheLookup(metrics.CacheMiss)

	result, err := s.findPage(ctx, repositories.ProductFilter{}, page, perPage)
	if err != nil {
		return nil, err
	}
	s.storePage(ctx, key, result)
	return result, nil
}

// SearchByName returns one page of products whose name in language contains
// query, ignoring case. Search results are never cached.
func (s *ProductService) SearchByName(ctx context.Context, page, perPage int, query, language string) (*models.ProductPage, error) {
	if err := checkPage(page, perPage); err != nil {
		return nil, err
	}

	field := repositories.FieldNameEN
	if language == i18n.LangVI {
		field = repositories.FieldNameVI
	}
	return s.findPage(ctx, repositories.ProductFilter{Field: field, Contains: query}, page, perPage)
}

// GetProduct returns a single product.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if err := s.checkID(id); err != nil {
		return nil, err
	}
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, productError(err)
	}
	return product, nil
}

// ToggleLike removes user from the product's likes if present, otherwise adds
// them, and returns the product as stored afterwards.
func (s *ProductService) ToggleLike(ctx context.Context, id string, user models.AuthUser) (*models.Product, error) {
	if err := s.checkID(id); err != nil {
		return nil, err
	}
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, productError(err)
	}

	routingKey := rabbitmq.KeyProductLiked
	if product.IsLikedBy(user.ID) {
		routingKey = rabbitmq.KeyProductUnliked
		err = s.repo.RemoveLike(ctx, id, user.ID)
	} else {
		err = s.repo.AddLike(ctx, id, user.ID)
	}
	if err != nil {
		return nil, productError(err)
	}

	s.invalidatePages(ctx)
	s.publish(routingKey, id, user.ID)

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, productError(err)
	}
	return updated, nil
}

// findPage loads the requested page and the total match count concurrently.
func (s *ProductService) findPage(ctx context.Context, filter repositories.ProductFilter, page, perPage int) (*models.ProductPage, error) {
	var (
		products []models.Product
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	// A skip that does not fit in an int lies past any stored product.
	if page-1 <= math.MaxInt/perPage {
		skip := (page - 1) * perPage
		g.Go(func() error {
			var err error
			products, err = s.repo.FindPage(gctx, filter, skip, perPage)
			return err
		})
	}
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to load products page: %w", err))
	}

	if products == nil {
		products = []models.Product{}
	}
	return &models.ProductPage{Products: products, Total: total}, nil
}

// cachedPage reads a page from the result cache. Any cache failure is a miss.
func (s *ProductService) cachedPage(ctx context.Context, key string) (*models.ProductPage, bool) {
	s.logger.WithField("key", key).Debug("GET KEY")

	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("cache get failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var cached models.CachedPage
	if err := json.Unmarshal(raw, &cached); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("discarding undecodable cache entry")
		return nil, false
	}
	if cached.Products == nil {
		cached.Products = []models.Product{}
	}
	return &models.ProductPage{Products: cached.Products, Total: cached.Total}, true
}

func (s *ProductService) storePage(ctx context.Context, key string, page *models.ProductPage) {
	s.logger.WithField("key", key).Debug("SET KEY")

	raw, err := json.Marshal(models.CachedPage{Products: page.Products, Total: page.Total})
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("failed to encode cache entry")
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("cache set failed")
	}
}

// invalidatePages drops every cached listing page after a write.
func (s *ProductService) invalidatePages(ctx context.Context) {
	metrics.RecordCacheInvalidation()

	keys, err := s.cache.Keys(ctx, ProductsPagePrefix)
	if err != nil {
		s.logger.WithError(err).Warn("failed to list cached product pages")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.WithError(err).WithField("keys", len(keys)).Warn("failed to invalidate cached product pages")
		return
	}
	s.logger.WithField("keys", len(keys)).Debug("invalidated cached product pages")
}

// publish sends a product event. Failures are logged and otherwise ignored.
func (s *ProductService) publish(routingKey, productID, userID string) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(models.ProductEvent{
		ProductID:  productID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.WithError(err).Warn("failed to encode product event")
		return
	}
	if err := s.events.Publish(rabbitmq.ProductsExchange, routingKey, body); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"routing_key": routingKey,
			"product_id":  productID,
		}).Warn("failed to publish product event")
	}
}

func (s *ProductService) checkID(id string) error {
	if !s.repo.IsValidID(id) {
		return validation.Field("id", "product_id", fmt.Sprintf("'%s' is not a valid product id", id))
	}
	return nil
}

func checkPage(page, perPage int) error {
	if page < 1 {
		return validation.Field("page", "min", "page must be at least 1")
	}
	if perPage < 1 {
		return validation.Field("per_page", "min", "per_page must be at least 1")
	}
	if perPage > MaxPerPage {
		return validation.Field("per_page", "max", fmt.Sprintf("per_page must be at most %d", MaxPerPage))
	}
	return nil
}

func productError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.New(apperror.CodeProductNotFound).WithCause(err)
	}
	return apperror.Internal(err)
}
