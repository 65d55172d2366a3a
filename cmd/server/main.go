package main

import (
	"context"
	"flag"
	"time"

	"github.com/rs/zerolog"

	"github.com/kochabx/subook/internal/app"
	"github.com/kochabx/subook/internal/auth/jwt"
	"github.com/kochabx/subook/internal/auth/token"
	cacheredis "github.com/kochabx/subook/internal/cache/redis"
	"github.com/kochabx/subook/internal/config"
	"github.com/kochabx/subook/internal/handler"
	"github.com/kochabx/subook/internal/mail"
	"github.com/kochabx/subook/internal/model"
	"github.com/kochabx/subook/internal/repository"
	"github.com/kochabx/subook/internal/server"
	"github.com/kochabx/subook/internal/service"
	"github.com/kochabx/subook/internal/store/db"
	"github.com/kochabx/subook/internal/store/oss"
	redisstore "github.com/kochabx/subook/internal/store/redis"
	"github.com/kochabx/subook/pkg/log"
)

// mailPoolSize 异步邮件协程池大小
const mailPoolSize = 8

func main() {
	configName := flag.String("config", "config.yaml", "config file name")
	flag.Parse()

	cfg, err := config.Load(*configName, ".", "configs")
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}

	setupLogger(&cfg.Log)

	redisClient, err := redisstore.New(&cfg.Redis, redisstore.WithTracing(), redisstore.WithMetrics())
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis failed")
	}
	sessionCache := cacheredis.New(redisClient.UniversalClient())

	dbClient, err := db.New(&cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database failed")
	}
	if err := dbClient.AutoMigrate(&model.Account{}, &model.AccountInfo{}, &model.Carousel{}); err != nil {
		log.Fatal().Err(err).Msg("migrate database failed")
	}

	ossStore, err := oss.New(context.Background(), &cfg.OSS)
	if err != nil {
		log.Fatal().Err(err).Msg("connect object storage failed")
	}

	sender, err := mail.NewSendGrid(&cfg.Mail)
	if err != nil {
		log.Fatal().Err(err).Msg("init mail sender failed")
	}
	mailer, err := mail.NewAsync(sender, mailPoolSize)
	if err != nil {
		log.Fatal().Err(err).Msg("init mail pool failed")
	}

	codec, err := jwt.NewCodec(&cfg.JWT)
	if err != nil {
		log.Fatal().Err(err).Msg("init token codec failed")
	}
	tokens := token.NewService(codec, sessionCache)

	accounts := repository.NewAccountRepository(dbClient.DB())
	infos := repository.NewAccountInfoRepository(dbClient.DB())
	carousels := repository.NewCarouselRepository(dbClient.DB())

	accountService := service.NewAccountService(accounts, infos, tokens, sessionCache, mailer)
	profileService := service.NewProfileService(infos, ossStore)
	carouselService := service.NewCarouselService(carousels, ossStore)

	srv := server.New(cfg.Server, tokens,
		handler.NewAuthHandler(accountService, profileService),
		handler.NewCarouselHandler(carouselService),
	)

	application := app.New(
		app.WithServer(srv),
		app.WithShutdownTimeout(time.Duration(cfg.Server.ShutdownTimeout)*time.Second),
		app.WithClose("mail", func(ctx context.Context) error {
			mailer.Close()
			return nil
		}, 10*time.Second),
		app.WithClose("redis", func(ctx context.Context) error {
			return redisClient.Close()
		}, 5*time.Second),
		app.WithClose("db", func(ctx context.Context) error {
			return dbClient.Close()
		}, 5*time.Second),
	)

	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("application exited with error")
	}
	log.Info().Msg("application stopped")
}

// setupLogger 按配置重建全局日志
func setupLogger(cfg *config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if !cfg.ToFile {
		log.SetGlobalLogger(log.New(log.WithLevel(level)))
		return
	}

	logger, err := log.NewMulti(cfg.File, log.WithLevel(level))
	if err != nil {
		log.Fatal().Err(err).Msg("init file logger failed")
	}
	log.SetGlobalLogger(logger)
}
