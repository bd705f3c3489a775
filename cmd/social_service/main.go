package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	messageapp "social_network_service/internal/message/app"
	messagerepo "social_network_service/internal/message/repository"
	messagerouter "social_network_service/internal/message/router"
	postapp "social_network_service/internal/post/app"
	postrepo "social_network_service/internal/post/repository"
	postrouter "social_network_service/internal/post/router"
	rtapp "social_network_service/internal/realtime/app"
	rtdomain "social_network_service/internal/realtime/domain"
	rtrouter "social_network_service/internal/realtime/router"
	userapp "social_network_service/internal/user/app"
	userdomain "social_network_service/internal/user/domain"
	userrepo "social_network_service/internal/user/repository"
	userrouter "social_network_service/internal/user/router"
	"social_network_service/pkg/config"
	"social_network_service/pkg/database"
	"social_network_service/pkg/encrypt"
	"social_network_service/pkg/logger"
	"social_network_service/pkg/mail"
	"social_network_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.SocialService, config.EnvConfig.SocialServiceLogPath)
	cfg := config.LoadConfig[config.Social](config.EnvConfig.SocialService, config.EnvConfig.SocialServiceYAMLPath)

	// JWT secret 沒設就不該起得來
	if err := token.Setup(config.EnvConfig.JWTSecret, config.EnvConfig.JWTRefreshSecret); err != nil {
		logger.Log.Fatal("jwt secret not set", zap.Error(err))
	}

	ctx := context.Background()

	// 1. PostgreSQL (帳號)
	pgConnStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)
	pgPool, err := database.NewDatabaseConnection(database.Connection{
		ConnectStr:    pgConnStr,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to postgres database after retries", zap.Error(err))
	}
	defer pgPool.Close()

	// 2. MongoDB (貼文 / 留言 / 私訊)
	mongoURI := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.MongoSQL.User, cfg.MongoSQL.Password, cfg.MongoSQL.Host, cfg.MongoSQL.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    mongoURI,
			RetryCount:    cfg.MongoSQL.RetryCount,
			RetryInterval: time.Duration(cfg.MongoSQL.RetryInterval),
		},
		cfg.MongoSQL.Database)
	if err != nil {
		logger.Log.Fatal("Unable to connect to mongoDB database after retries", zap.Error(err))
	}
	defer mongo.Close(ctx)

	// 3. Redis (session)
	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	redisClient, err := database.NewRedisClient(redisAddr, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}
	sessionRepo := database.NewRedisRepository[userdomain.UserSession](redisClient)

	// 4. MinIO (貼文附件)
	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:      cfg.MinIO.Endpoint,
		User:          cfg.MinIO.User,
		Password:      cfg.MinIO.Password,
		BucketName:    cfg.MinIO.BucketName,
		UseSSL:        cfg.MinIO.UseSSL,
		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: time.Duration(cfg.MinIO.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to minio after retries", zap.Error(err))
	}

	// 5. OTP mail sender，本地開發不真的寄信
	var mailSender mail.Sender
	if config.IsLocal() {
		mailSender = &mail.LogSender{}
	} else {
		mailSender = mail.NewSMTPSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
	}

	// 6. Repository
	users := userrepo.NewUserRepository(pgPool)
	posts := postrepo.NewMongoPostRepository(mongo.Database)
	comments := postrepo.NewMongoCommentRepository(mongo.Database)
	messages := messagerepo.NewMongoMessageRepository(mongo.Database)

	// 7. Realtime hub 先建好，事件才有地方送
	hub := rtapp.NewHub()
	presence := rtdomain.NewPresenceRegistry()
	verifier := userapp.NewAccountVerifier(users)
	directory := rtapp.NewUserDirectory(users)
	gateway := rtapp.NewGateway(hub, presence, verifier, directory, cfg.Websocket.SendBuffer)
	bus := rtapp.NewHubPublisher(hub)

	// 8. UseCase
	userUC := userapp.NewUserUseCase(users, cfg.SessionTTL, cfg.OtpTTL, sessionRepo, mailSender,
		config.EnvConfig.SocialService, encrypt.HashPassword)
	postUC := postapp.NewPostUseCase(posts, comments, bus)
	messageUC := messageapp.NewMessageUseCase(messages, users, bus)

	// 9. 啟動 Fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.SocialServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	// 注冊路由
	userrouter.RegisterRoutes(r, userapp.NewUserHandler(userUC), verifier)
	postrouter.RegisterRoutes(r, postapp.NewPostHandler(postUC, postapp.NewMediaUploader(minioClient)), verifier)
	messagerouter.RegisterRoutes(r, messageapp.NewMessageHandler(messageUC), verifier)
	rtrouter.RegisterRoutes(r, gateway)

	// Listen
	port := ":" + cfg.Port
	log.Printf("Social Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
