package main

import (
	"log"
	"net/http"

	_ "planora/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"planora/internal/auth"
	"planora/internal/cache"
	"planora/internal/config"
	"planora/internal/db"
	"planora/internal/handler"
	"planora/internal/model"
	"planora/internal/repository"
	"planora/internal/router"
	"planora/internal/service"
)

// @title Planora API
// @version 1.0
// @description Task and event management API with JWT authentication.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Task{},
		&model.Event{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret)

	authService := service.NewAuthService(userRepo, jwtService, cacheClient)
	taskService := service.NewTaskService(taskRepo)
	eventService := service.NewEventService(eventRepo)

	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)
	eventHandler := handler.NewEventHandler(eventService)

	router.Register(e, cfg, authHandler, taskHandler, eventHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
