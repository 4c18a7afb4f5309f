package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Znarfieeee/Numsthrift/internal/checkout"
	"github.com/Znarfieeee/Numsthrift/internal/config"
	"github.com/Znarfieeee/Numsthrift/internal/database"
	"github.com/Znarfieeee/Numsthrift/internal/handler"
	"github.com/Znarfieeee/Numsthrift/internal/middleware"
	"github.com/Znarfieeee/Numsthrift/internal/model"
	"github.com/Znarfieeee/Numsthrift/internal/queue"
	"github.com/Znarfieeee/Numsthrift/internal/repository"
	"github.com/Znarfieeee/Numsthrift/internal/router"
	queue_publisher "github.com/Znarfieeee/Numsthrift/internal/service"
	"github.com/Znarfieeee/Numsthrift/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if os.Getenv("DB_AUTO_MIGRATE") == "1" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("schema: %v", err)
		}
		cancel()
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache, rate limiting and profile cache disabled")
	}

	images, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	categories := repository.NewCategoryRepo(db)
	products := repository.NewProductRepo(db)
	carts := repository.NewCartRepo(db)
	orders := repository.NewOrderRepo(db)

	checkoutSvc := checkout.NewService(db, carts, orders, products)
	checkoutSvc.Publish = func(o model.Order, titles []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishOrderPlaced(ctx, queue.OrderPlacedEvent{
			OrderID:          o.ID,
			BuyerID:          o.BuyerID,
			SellerID:         o.SellerID,
			TotalAmountCents: o.TotalAmountCents,
			PaymentMethod:    string(o.PaymentMethod),
			ItemTitles:       titles,
			PlacedAt:         o.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	// hourly sweep of refresh sessions that can never validate again
	go func() {
		for range time.Tick(time.Hour) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if n, err := tokens.PruneExpired(ctx); err != nil {
				log.Printf("token prune: %v", err)
			} else if n > 0 {
				log.Printf("token prune: removed %d stale session(s)", n)
			}
			cancel()
		}
	}()

	e := echo.New()
	e.HideBanner = true

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e, cfg.UploadDir, cfg.PublicBaseURL)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, rdb), cfg.JWTSecret, limiter)
	router.RegisterCatalog(e, handler.NewCatalogHandler(products, categories), cache)
	router.RegisterBuyer(e,
		handler.NewCartHandler(carts, products),
		handler.NewCheckoutHandler(checkoutSvc),
		handler.NewOrderHandler(orders, products),
		handler.NewProfileHandler(cfg, users, tokens, rdb),
		cfg.JWTSecret)
	router.RegisterSeller(e, handler.NewSellerHandler(products, categories, images), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(users, products, orders, rdb), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
