package main // Entry point package

import (
	"database/sql"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/stylish/clothing-store/internal/config"
	"github.com/stylish/clothing-store/internal/database"
	"github.com/stylish/clothing-store/internal/handler"
	"github.com/stylish/clothing-store/internal/queue"
	"github.com/stylish/clothing-store/internal/repository"
	"github.com/stylish/clothing-store/internal/router"
	queue_publisher "github.com/stylish/clothing-store/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env vars directly

	cfg := config.Load() // Load environment config

	var db *sql.DB
	var err error
	switch cfg.DBDriver {
	case "sqlite3":
		db, err = database.OpenSQLite(cfg.SQLitePath)
	default:
		db, err = database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err == nil {
			err = database.Migrate(db, "mysql")
		}
	}
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; cache and limiter pass through

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	categories := repository.NewCategoryRepo(db)
	subcategories := repository.NewSubcategoryRepo(db)
	products := repository.NewProductRepo(db)
	taggings := repository.NewTaggingRepo(db)
	orders := repository.NewOrderRepo(db)

	events := queue_publisher.New()
	defer events.Close()

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, users, sessions),
		Users:    handler.NewUserHandler(cfg, users),
		Taxonomy: handler.NewTaxonomyHandler(categories, subcategories),
		Products: handler.NewProductHandler(products),
		Taggings: handler.NewTaggingHandler(taggings),
		Orders:   handler.NewOrderHandler(orders, events),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e, h, sessions, rdb, config.LoadCacheConfig(), config.LoadRateLimitConfig())

	// Background consumer appends order events to logs/orders.log. It
	// reconnects on broker failures and never takes the server down.
	go func() {
		if err := queue.NewConsumer().Run(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
