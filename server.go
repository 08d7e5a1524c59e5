package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"socialcal/api/handlers"
	"socialcal/api/middleware"
	"socialcal/api/routes"
	"socialcal/config"
	"socialcal/db"
	"socialcal/db/mongodb"
	"socialcal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "socialcal"

func newLogger(level string) (*zap.Logger, error) {
	zapConf := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		zapConf.Level = lvl
	}
	return zapConf.Build()
}

// openStores picks the storage backend and returns a function releasing it.
func openStores(ctx context.Context, conf *config.ConfigSchema, logger *zap.Logger) (services.Stores, func(), error) {
	if conf.Storage.Driver == "mongo" {
		client, err := mongodb.Connect(ctx, conf.Mongo.URI, conf.Mongo.Database)
		if err != nil {
			return services.Stores{}, nil, err
		}
		logger.Info("mongo connected", zap.String("database", conf.Mongo.Database))
		return services.Stores{
				Users:     client.Users(),
				Profiles:  client.Profiles(),
				Schedules: client.Schedules(),
				Graphs:    client.FriendGraphs(),
			}, func() {
				_ = client.Disconnect(context.Background())
			}, nil
	}

	orm, err := db.ConnectDB(conf, logger)
	if err != nil {
		return services.Stores{}, nil, err
	}
	return services.Stores{
			Users:     db.NewUserRepository(orm),
			Profiles:  db.NewProfileRepository(orm),
			Schedules: db.NewScheduleRepository(orm),
			Graphs:    db.NewFriendGraphRepository(orm),
		}, func() {
			if sqlDB, err := orm.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}, nil
}

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	if err := run(configPath); err != nil {
		log.Fatalf("socialcal: %v", err)
	}
}

// run owns every resource it opens, so all deferred cleanups happen before
// main exits.
func run(configPath string) error {
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := newLogger(conf.Logs.Level)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	stores, closeStores, err := openStores(ctx, conf, logger)
	cancel()
	if err != nil {
		logger.Error("Failed to connect to the database", zap.Error(err))
		return err
	}
	defer closeStores()

	tokens, err := services.NewTokenService(services.TokenConfig{
		Secret: []byte(conf.Auth.JWTSecret),
		Issuer: conf.Auth.Issuer,
		TTL:    conf.TokenTTL(),
	})
	if err != nil {
		return fmt.Errorf("build token service: %w", err)
	}

	var revoked services.RevocationList
	if conf.Redis.Host != "" {
		client, err := services.NewRedisClient(context.Background(), services.RedisOptions{
			Host:     conf.Redis.Host,
			Port:     conf.Redis.Port,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		if err != nil {
			logger.Error("Failed to connect to Redis", zap.Error(err))
			return err
		}
		defer func() { _ = client.Close() }()
		revoked = services.NewRedisRevocationList(client)
	} else {
		logger.Warn("redis is not configured, signOut will not revoke tokens")
	}

	var events services.EventPublisher = services.NopPublisher{}
	if conf.AMQP.URL != "" {
		publisher, err := services.NewAMQPPublisher(conf.AMQP.URL, conf.AMQP.Exchange)
		if err != nil {
			logger.Error("Failed to connect to RabbitMQ", zap.Error(err))
			return err
		}
		defer func() { _ = publisher.Close() }()
		events = publisher
	}

	authz := services.NewAuthorizer(tokens, stores.Users, revoked, logger)
	dispatcher := handlers.NewDispatcher(
		services.NewAccountService(stores, tokens, revoked, logger),
		services.NewRelationshipEngine(stores, events, logger),
		services.NewScheduleService(stores.Schedules, logger),
		logger,
		serviceName,
	)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.PrometheusMiddleware(serviceName))

	routes.PublicApi(router, dispatcher, authz)

	logger.Info("Starting server", zap.String("addr", conf.ListenAddr()), zap.String("driver", conf.Storage.Driver))
	if err := router.Run(conf.ListenAddr()); err != nil {
		logger.Error("Server stopped", zap.Error(err))
		return err
	}
	return nil
}
