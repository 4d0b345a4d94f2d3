package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pollboard/pollboard/backend/go-services/handlers"
	"github.com/pollboard/pollboard/backend/go-services/internal/authclient"
	"github.com/pollboard/pollboard/backend/go-services/internal/config"
	"github.com/pollboard/pollboard/backend/go-services/internal/database"
	"github.com/pollboard/pollboard/backend/go-services/internal/polls"
	"github.com/pollboard/pollboard/backend/go-services/internal/sessions"
	"github.com/pollboard/pollboard/backend/go-services/internal/storage"
	"github.com/pollboard/pollboard/backend/go-services/internal/tokens"
	"github.com/pollboard/pollboard/backend/go-services/internal/users"
	"github.com/pollboard/pollboard/backend/go-services/internal/votes"
	"github.com/pollboard/pollboard/backend/go-services/pkg/logger"
	"github.com/pollboard/pollboard/backend/go-services/pkg/metrics"
	"github.com/pollboard/pollboard/backend/go-services/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// log level controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: provider=%v mongo=%v redis=%v minio=%v",
		cfg.AuthProvider.URL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "")

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond
	// to OPTIONS. Production should use a stricter policy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	r.Use(gin.Logger(), gin.Recovery())

	// Connect to Redis early: it backs the token blacklist, the listings cache
	// and the rate limiter when configured.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			sessions.SetBlacklistClient(redisClient)
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// shared runtime vars used by handlers/readiness
	var userSvc *users.Service
	var sessionsSvc *sessions.Service
	var mongoClient *mongo.Client

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when the critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["auth"] = userSvc != nil && sessionsSvc != nil
		if cfg.AuthProvider.URL != "" && !deps["auth"] {
			ready = false
		}
		deps["mongo"] = mongoClient != nil
		if cfg.MongoDB.URI != "" && mongoClient == nil {
			ready = false
		}
		deps["redis"] = redisClient != nil
		if cfg.Redis.Host != "" && redisClient == nil {
			ready = false
		}

		status := gin.H{"deps": deps, "uptime": time.Since(startTime).String()}
		if !ready {
			status["status"] = "not_ready"
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		status["status"] = "ready"
		c.JSON(http.StatusOK, status)
	})

	ctx := context.Background()

	// Prefer Redis-backed sessions when available
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
		logger.Infof("Using Redis for session storage")
	}

	// Poll and vote repositories fall back to in-memory stores so the service
	// still runs without MongoDB (dev mode, data is lost on restart).
	var pollsRepo polls.Repository = polls.NewMemoryRepository()
	var votesRepo votes.Repository = votes.NewMemoryRepository()

	if cfg.MongoDB.URI != "" {
		// retry/backoff to tolerate startup races with the database container
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
			mongoClient = nil
		} else {
			defer func() { _ = mongoClient.Disconnect(ctx) }()
			db := mongoClient.Database(cfg.MongoDB.Database)

			userSvc = users.NewService(users.NewMongoUserRepository(db.Collection("users")))
			pollsRepo = polls.NewMongoRepository(db.Collection("polls"))
			votesRepo = votes.NewMongoRepository(db.Collection("votes"))
			if sessionsSvc == nil {
				sessionsSvc = sessions.NewService(sessions.NewMongoRepository(db.Collection("sessions")))
			}
			logger.Infof("Connected to MongoDB: database=%s", cfg.MongoDB.Database)
		}
	}

	listings := polls.NewListingsCache(redisClient, 30*time.Second)
	pollsSvc := polls.NewService(pollsRepo, listings)
	votesSvc := votes.NewService(votesRepo, pollsSvc)

	// Object storage for results exports; optional
	var exports *storage.MinIOStorage
	if cfg.MinIO.Endpoint != "" {
		exports, err = storage.NewMinIOStorage(cfg.MinIO)
		if err != nil {
			logger.Warnf("results export disabled: %v", err)
			exports = nil
		} else {
			logger.Infof("Connected to MinIO: %s bucket=%s", cfg.MinIO.Endpoint, cfg.MinIO.Bucket)
		}
	}

	// Auth routes need the provider client plus user and session services
	if cfg.AuthProvider.URL != "" && userSvc != nil && sessionsSvc != nil {
		provider := authclient.NewHTTPClient(cfg.AuthProvider.URL, cfg.AuthProvider.APIKey)
		handlers.NewAuthHandler(cfg, provider, userSvc, sessionsSvc).Register(r.Group("/"))
	} else {
		logger.Warnf("auth routes not registered: provider=%v users=%v sessions=%v",
			cfg.AuthProvider.URL != "", userSvc != nil, sessionsSvc != nil)
	}

	handlers.RegisterSwagger(r)

	// API routes accept anonymous callers; the verifier attaches identity when
	// a valid token is present and the blacklist rejects revoked ones.
	verifier := tokens.NewBlacklistVerifier(tokens.NewHMACVerifier(cfg.JWT.Secret))
	api := r.Group("/api/v1")
	api.Use(middleware.OptionalAuthMiddleware(verifier))
	if userSvc != nil {
		handlers.NewIdentityHandler(userSvc).Register(api)
	}
	handlers.NewPollsHandler(pollsSvc, votesSvc).Register(api)
	handlers.NewVotesHandler(pollsSvc, votesSvc, exports).Register(api)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("services: users=%v sessions=%v exports=%v", userSvc != nil, sessionsSvc != nil, exports != nil)
	logger.Infof("Starting pollboard service on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
