package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/vinagsv/quickbite-api/configs"
	"github.com/vinagsv/quickbite-api/internal/adapter/cache"
	"github.com/vinagsv/quickbite-api/internal/adapter/gateway"
	apihttp "github.com/vinagsv/quickbite-api/internal/adapter/http"
	"github.com/vinagsv/quickbite-api/internal/adapter/http/middleware"
	"github.com/vinagsv/quickbite-api/internal/adapter/kafka"
	"github.com/vinagsv/quickbite-api/internal/adapter/queue"
	"github.com/vinagsv/quickbite-api/internal/adapter/repo"
	"github.com/vinagsv/quickbite-api/internal/checkout"
	"github.com/vinagsv/quickbite-api/internal/logging"
	"github.com/vinagsv/quickbite-api/internal/security"
	"github.com/vinagsv/quickbite-api/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logger := logging.Init(cfg.App.Name, cfg.App.LogFile, cfg.App.LogLevel)
	logger.Info("quickbite-api: starting up")

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("mysql ping: %w", err)
	}

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	// init rabbitmq
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	// payment gateway + callback signature verifier
	gw := gateway.NewRazorpayClient(cfg)
	verifier, err := security.NewPaymentVerifier(cfg.Gateway.KeySecret)
	if err != nil {
		return nil, nil, err
	}

	// infra
	orderRepo := repo.NewMySQLOrderRepo(db)
	restaurantRepo := repo.NewMySQLRestaurantRepo(db)
	cartStore := cache.NewRedisCartStore(rdb, cfg.Cart.TTL)
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	orderCache := cache.NewRedisOrderCache(rdb, cfg.Cache.TTL)
	producer, err := queue.NewRabbitProducer(ch)
	if err != nil {
		return nil, nil, err
	}

	// register queue + kafka listeners
	if err := setupQueue(ch, orderCache); err != nil {
		return nil, nil, err
	}
	stopKafka, err := setupKafkaListener(cfg, orderRepo, orderCache)
	if err != nil {
		return nil, nil, err
	}

	// use cases + handlers + router
	sessionUC := usecase.NewCheckoutSession(restaurantRepo, gw, cfg.Gateway.KeyID)
	verifyUC := usecase.NewVerifyPayment(orderRepo, cartStore, idem, gw, verifier, producer)
	queriesUC := usecase.NewOrderQueries(orderRepo)
	cartUC := usecase.NewCartService(cartStore)

	attempts := checkout.NewManager()
	oh := apihttp.NewOrderHandler(sessionUC, verifyUC, queriesUC, attempts)
	cartHandler := apihttp.NewCartHandler(cartUC)
	auth := middleware.NewSessionAuth(cfg)
	router := apihttp.NewRouter(oh, cartHandler, auth)

	cleanup := func() {
		stopKafka()
		_ = ch.Close()
		_ = conn.Close()
		_ = rdb.Close()
		_ = db.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func setupQueue(ch *amqp091.Channel, orderCache usecase.OrderCache) error {
	h := queue.NewOrderPaidHandler(orderCache)

	router := queue.NewRouter(ch, queue.WithPrefetch(50))
	router.Register("order.paid.q", queue.JSONHandler[usecase.OrderPaidMsg]{HandleFunc: h.HandlePaid})

	return router.Start()
}

func setupKafkaListener(cfg configs.Config, orderRepo *repo.MySQLOrderRepo, orderCache usecase.OrderCache) (func(), error) {
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		return nil, err
	}

	h := kafka.NewDeliveryStatusChangedHandler(orderRepo, orderCache)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.DeliveryTopic}, h.Handle)
	consumer.Logger = logging.New("kafka")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			logging.New("kafka").Error("consumer stopped", "error", err.Error())
		}
	}()

	stop := func() {
		cancel()
		_ = grp.Close()
	}
	return stop, nil
}
