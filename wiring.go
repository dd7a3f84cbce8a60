package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"burningbros/internal/cache"
	"burningbros/internal/config"
	"burningbros/internal/database"
	"burningbros/internal/handlers"
	"burningbros/internal/i18n"
	"burningbros/internal/models"
	"burningbros/internal/repositories"
	"burningbros/internal/services"
	"burningbros/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// server bundles the HTTP app with the resources it must release on shutdown.
type server struct {
	app            *fiber.App
	productService *services.ProductService
	closers        []func() error
}

// Close releases resources in reverse order of acquisition.
func (s *server) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type stores struct {
	users    repositories.UserRepository
	products repositories.ProductRepository
	check    *handlers.HealthCheck
	close    func() error
}

// newServer wires stores, cache, broker, services and handlers from cfg.
func newServer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*server, error) {
	srv := &server{}
	var checks []handlers.HealthCheck

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	srv.closers = append(srv.closers, st.close)
	if st.check != nil {
		checks = append(checks, *st.check)
	}

	resultCache, cacheCheck, err := openCache(ctx, cfg, logger)
	if err != nil {
		_ = srv.Close()
		return nil, err
	}
	srv.closers = append(srv.closers, resultCache.Close)
	if cacheCheck != nil {
		checks = append(checks, *cacheCheck)
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger)
		if err != nil {
			_ = srv.Close()
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		srv.closers = append(srv.closers, mqClient.Close)
		if err := mqClient.ConsumeProductEvents(rabbitmq.LogProductEvent(logger)); err != nil {
			logger.WithError(err).Warn("Failed to start RabbitMQ consumer")
		}
		publisher = mqClient
	} else {
		logger.Info("RABBITMQ_URL not set, product events disabled")
	}

	translator, err := i18n.NewTranslator()
	if err != nil {
		_ = srv.Close()
		return nil, err
	}

	authService := services.NewAuthService(st.users, cfg.JWTSecret, cfg.JWTExpiresIn)
	srv.productService = services.NewProductService(st.products, resultCache, cfg.CacheTTL, publisher, logger)

	srv.app = handlers.NewApp(handlers.AppConfig{
		Logger:           logger,
		Translator:       translator,
		AuthService:      authService,
		ProductService:   srv.productService,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		HealthChecks:     checks,
	})
	return srv, nil
}

// openStores opens the credential and product stores for cfg.StoreDriver.
func openStores(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Warn("Using in-memory stores, data is lost on restart")
		return &stores{
			users:    repositories.NewMemoryUserRepository(),
			products: repositories.NewMemoryProductRepository(),
			close:    func() error { return nil },
		}, nil

	case config.StoreSQLite, config.StorePostgres:
		db, err := database.OpenGORM(cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			_ = database.CloseGORM(db)
			return nil, fmt.Errorf("failed to get database pool: %w", err)
		}
		logger.WithField("driver", cfg.StoreDriver).Info("Connected to database")
		return &stores{
			users:    repositories.NewGORMUserRepository(db),
			products: repositories.NewGORMProductRepository(db),
			check:    &handlers.HealthCheck{Name: "database", Check: sqlDB.PingContext},
			close:    func() error { return database.CloseGORM(db) },
		}, nil

	case config.StoreMongo:
		client, db, err := database.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		users, err := repositories.NewMongoUserRepository(ctx, db)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		logger.WithField("database", cfg.MongoDatabase).Info("Connected to MongoDB")
		return &stores{
			users:    users,
			products: repositories.NewMongoProductRepository(db),
			check: &handlers.HealthCheck{Name: "database", Check: func(ctx context.Context) error {
				return client.Ping(ctx, nil)
			}},
			close: func() error { return client.Disconnect(context.Background()) },
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}

// openCache builds the result cache for cfg.CacheDriver.
func openCache(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (cache.Cache, *handlers.HealthCheck, error) {
	switch cfg.CacheDriver {
	case config.CacheMemory:
		return cache.NewMemory(time.Minute), nil, nil
	case config.CacheRedis:
		rdb, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		redisCache := cache.NewRedis(rdb, logger)
		return redisCache, &handlers.HealthCheck{Name: "cache", Check: redisCache.Ping}, nil
	}
	return nil, nil, fmt.Errorf("unsupported cache driver %q", cfg.CacheDriver)
}

func price(v float64) *float64 { return &v }

// seedProducts inserts a small bilingual catalog for local development.
func seedProducts(ctx context.Context, svc *services.ProductService, logger *logrus.Logger) {
	products := []models.CreateProductInput{
		{NameEN: "Iphone 15 Pro", NameVI: "Điện thoại Iphone 15 Pro", Price: price(999), Category: "Electronics", Subcategory: "Smart Phone"},
		{NameEN: "Samsung Galaxy S24", NameVI: "Điện thoại Samsung Galaxy S24", Price: price(899), Category: "Electronics", Subcategory: "Smart Phone"},
		{NameEN: "Mechanical keyboard", NameVI: "Bàn phím cơ", Price: price(75), Category: "Electronics", Subcategory: "Accessories"},
		{NameEN: "Wireless mouse", NameVI: "Chuột không dây", Price: price(25), Category: "Electronics", Subcategory: "Accessories"},
		{NameEN: "Rice cooker", NameVI: "Nồi cơm điện", Price: price(60), Category: "Home Appliances", Subcategory: "Kitchen"},
	}

	for _, in := range products {
		p, err := svc.Create(ctx, in)
		if err != nil {
			logger.WithError(err).WithField("name_en", in.NameEN).Error("Error seeding product")
			continue
		}
		logger.WithFields(logrus.Fields{"id": p.ID, "name_en": p.NameEN}).Info("Seeded product")
	}
}
