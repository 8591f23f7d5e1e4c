package container

import (
	"context"
	"fmt"
	"time"

	"buxta-backend/internal/config"
	infraCache "buxta-backend/internal/infrastructure/cache"
	"buxta-backend/internal/infrastructure/database"
	"buxta-backend/internal/infrastructure/email"
	"buxta-backend/internal/infrastructure/queue"
	"buxta-backend/internal/infrastructure/storage"
	"buxta-backend/pkg/cache"
	"buxta-backend/pkg/jwt"

	authorHandler "buxta-backend/internal/domains/author/handler"
	authorRepo "buxta-backend/internal/domains/author/repository"
	authorService "buxta-backend/internal/domains/author/service"
	bookHandler "buxta-backend/internal/domains/book/handler"
	bookRepo "buxta-backend/internal/domains/book/repository"
	bookService "buxta-backend/internal/domains/book/service"
	cartHandler "buxta-backend/internal/domains/cart/handler"
	cartRepo "buxta-backend/internal/domains/cart/repository"
	cartService "buxta-backend/internal/domains/cart/service"
	categoryHandler "buxta-backend/internal/domains/category/handler"
	categoryRepo "buxta-backend/internal/domains/category/repository"
	categoryService "buxta-backend/internal/domains/category/service"
	couponHandler "buxta-backend/internal/domains/coupon/handler"
	couponRepo "buxta-backend/internal/domains/coupon/repository"
	couponService "buxta-backend/internal/domains/coupon/service"
	customerHandler "buxta-backend/internal/domains/customer/handler"
	customerRepo "buxta-backend/internal/domains/customer/repository"
	customerService "buxta-backend/internal/domains/customer/service"
	dashboardHandler "buxta-backend/internal/domains/dashboard/handler"
	dashboardRepo "buxta-backend/internal/domains/dashboard/repository"
	dashboardService "buxta-backend/internal/domains/dashboard/service"
	orderHandler "buxta-backend/internal/domains/order/handler"
	orderRepo "buxta-backend/internal/domains/order/repository"
	orderService "buxta-backend/internal/domains/order/service"
	publisherHandler "buxta-backend/internal/domains/publisher/handler"
	publisherRepo "buxta-backend/internal/domains/publisher/repository"
	publisherService "buxta-backend/internal/domains/publisher/service"
	reviewHandler "buxta-backend/internal/domains/review/handler"
	reviewRepo "buxta-backend/internal/domains/review/repository"
	reviewService "buxta-backend/internal/domains/review/service"
	userHandler "buxta-backend/internal/domains/user/handler"
	userRepo "buxta-backend/internal/domains/user/repository"
	userService "buxta-backend/internal/domains/user/service"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Container is the dependency graph shared by cmd/api and cmd/worker.
// Order of construction: config, infrastructure, repositories, services, handlers.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager
	Queue      *queue.Client
	Storage    *storage.MinIOStorage
	Processor  *storage.ImageProcessor
	Mailer     email.EmailService

	redis *infraCache.RedisCache

	// repositories
	UserRepo      userRepo.Repository
	CustomerRepo  customerRepo.Repository
	CategoryRepo  categoryRepo.Repository
	AuthorRepo    authorRepo.Repository
	PublisherRepo publisherRepo.Repository
	BookRepo      bookRepo.Repository
	ImageRepo     bookRepo.ImageRepository
	ReviewRepo    reviewRepo.Repository
	CartRepo      cartRepo.Repository
	OrderRepo     orderRepo.Repository
	CouponRepo    couponRepo.Repository
	DashboardRepo dashboardRepo.Repository

	// services
	UserService       userService.ServiceInterface
	CustomerService   customerService.ServiceInterface
	CategoryService   categoryService.ServiceInterface
	AuthorService     authorService.ServiceInterface
	PublisherService  publisherService.ServiceInterface
	StorefrontService bookService.StorefrontService
	BookAdminService  bookService.AdminService
	ImageService      bookService.ImageService
	ReviewService     reviewService.ServiceInterface
	CartService       cartService.ServiceInterface
	OrderService      orderService.ServiceInterface
	CouponService     couponService.ServiceInterface
	DashboardService  dashboardService.ServiceInterface

	// handlers
	UserHandler       *userHandler.UserHandler
	CustomerHandler   *customerHandler.CustomerHandler
	CategoryHandler   *categoryHandler.CategoryHandler
	AuthorHandler     *authorHandler.AuthorHandler
	PublisherHandler  *publisherHandler.PublisherHandler
	StorefrontHandler *bookHandler.StorefrontHandler
	BookAdminHandler  *bookHandler.AdminHandler
	ImageHandler      *bookHandler.ImageHandler
	ReviewHandler     *reviewHandler.ReviewHandler
	CartHandler       *cartHandler.CartHandler
	OrderHandler      *orderHandler.OrderHandler
	CouponHandler     *couponHandler.CouponHandler
	DashboardHandler  *dashboardHandler.DashboardHandler
}

// RedisOpt is the asynq connection shared by the queue client, worker and scheduler
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.Host, Password: cfg.Password, DB: cfg.DB}
}

// NewContainer builds the whole dependency graph. A Redis outage is tolerated
// (in-memory cache); Postgres and MinIO are required.
func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if cfg.App.AutoMigrate {
		if err := database.MigrateUp(cfg.Database.URL()); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	rc := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := rc.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("[CONTAINER] redis unavailable, using in-memory cache")
		_ = rc.Close()
		c.Cache = cache.NewMemoryCache()
	} else {
		c.redis = rc
		c.Cache = rc
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	c.Queue = queue.NewClient(RedisOpt(cfg.Redis))
	c.Processor = storage.NewImageProcessor()
	c.Mailer = email.NewSMTPEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From)

	store, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = store

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Str("env", cfg.App.Environment).Msg("[CONTAINER] initialized")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.CustomerRepo = customerRepo.NewPostgresRepository(pool)
	c.CategoryRepo = categoryRepo.NewPostgresRepository(pool)
	c.AuthorRepo = authorRepo.NewPostgresRepository(pool)
	c.PublisherRepo = publisherRepo.NewPostgresRepository(pool)
	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.ImageRepo = bookRepo.NewImageRepository(pool)
	c.ReviewRepo = reviewRepo.NewPostgresRepository(pool)
	c.CartRepo = cartRepo.NewPostgresRepository(pool)
	c.OrderRepo = orderRepo.NewPostgresRepository(pool)
	c.CouponRepo = couponRepo.NewPostgresRepository(pool)
	c.DashboardRepo = dashboardRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	cfg := c.Config

	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, cfg.JWT.AccessTokenExpiry)
	c.CustomerService = customerService.NewCustomerService(c.CustomerRepo)
	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo)
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo)
	c.PublisherService = publisherService.NewPublisherService(c.PublisherRepo)

	c.StorefrontService = bookService.NewStorefrontService(c.BookRepo, c.ImageRepo, c.CategoryService, c.Cache)
	c.BookAdminService = bookService.NewAdminService(c.BookRepo, c.ImageRepo, c.Queue, c.Cache)
	c.ImageService = bookService.NewImageService(c.BookRepo, c.ImageRepo, c.Storage, c.Processor, c.Queue, c.Cache)

	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo, c.CustomerService, c.Cache)
	c.CartService = cartService.NewCartService(c.CartRepo, c.CustomerService)

	notifier := orderService.NewEmailNotifier(c.Mailer, cfg.SMTP.StaffEmail, cfg.Storefront.Currency)
	c.OrderService = orderService.NewOrderService(
		c.OrderRepo,
		c.CustomerService,
		c.Queue,
		c.Cache,
		notifier,
		orderService.Settings{
			WhatsAppNumber: cfg.Storefront.WhatsAppNumber,
			Currency:       cfg.Storefront.Currency,
		},
	)

	c.CouponService = couponService.NewCouponService(c.CouponRepo)
	c.DashboardService = dashboardService.NewDashboardService(c.DashboardRepo, c.Cache)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.CustomerHandler = customerHandler.NewCustomerHandler(c.CustomerService)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.PublisherHandler = publisherHandler.NewPublisherHandler(c.PublisherService)
	c.StorefrontHandler = bookHandler.NewStorefrontHandler(c.StorefrontService)
	c.BookAdminHandler = bookHandler.NewAdminHandler(c.BookAdminService)
	c.ImageHandler = bookHandler.NewImageHandler(c.ImageService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
	c.CartHandler = cartHandler.NewCartHandler(c.CartService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService, c.Config.Storefront.CookieSecure)
	c.CouponHandler = couponHandler.NewCouponHandler(c.CouponService)
	c.DashboardHandler = dashboardHandler.NewDashboardHandler(c.DashboardService)
}

// EnsureStaff creates or promotes the configured bootstrap staff account
func (c *Container) EnsureStaff(ctx context.Context) error {
	return c.UserService.EnsureStaff(ctx, c.Config.Admin.Email, c.Config.Admin.Password)
}

// Cleanup releases connections; safe on a partially built container
func (c *Container) Cleanup() {
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Warn().Err(err).Msg("[CONTAINER] failed to close queue client")
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("[CONTAINER] failed to close redis")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	log.Info().Msg("[CONTAINER] resources released")
}
