package app

import (
	"context"
	"log/slog"

	httpapp "photoshare/internal/app/http"
	"photoshare/internal/config"
	"photoshare/internal/repository"
	categorysvc "photoshare/internal/services/category_service"
	gallerysvc "photoshare/internal/services/gallery_service"
	photosvc "photoshare/internal/services/photo_service"
	tokensvc "photoshare/internal/services/token_service"
	usersvc "photoshare/internal/services/user_service"
	filestorage "photoshare/internal/storage/filestorage"
	"photoshare/internal/storage/postgresql"
	redisapp "photoshare/internal/storage/redis"
	httprouters "photoshare/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server
	storage    *postgresql.Storage
	redis      *redisapp.Client
}

func New(log *slog.Logger, cfg *config.Config) *App {
	storage, err := postgresql.New(context.Background(), cfg.DSN)
	if err != nil {
		panic(err)
	}

	redisClient := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
	if err := redisClient.HealthCheck(context.Background()); err != nil {
		panic(err)
	}

	files, err := filestorage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL, cfg.FileStorage.MaxSize)
	if err != nil {
		panic(err)
	}

	repo := repository.NewRepository(storage.Pool())
	tokenRepo := repository.NewRedisTokenRepo(redisClient)

	userService := usersvc.NewUserService(log, repo.User)
	tokenService := tokensvc.NewTokenService(tokenRepo, cfg.TokenSecret, cfg.TokenTTL, cfg.RefreshTTL)
	galleryService := gallerysvc.NewGalleryService(log, repo.Gallery, files)
	photoService := photosvc.NewPhotoService(log, repo.Photo, repo.Gallery, repo.Rate, files)
	categoryService := categorysvc.NewCategoryService()

	routers := httprouters.NewRouter(log, userService, tokenService, galleryService, photoService, categoryService)

	server := httpapp.New(log, cfg.TokenSecret, cfg.SessionKey, cfg.HTTP.Host, cfg.HTTP.Port, routers)

	return &App{
		HTTPServer: server,
		storage:    storage,
		redis:      redisClient,
	}
}

func (a *App) Stop() {
	if err := a.HTTPServer.Stop(); err != nil {
		panic(err)
	}
	a.redis.Close()
	a.storage.Stop()
}
