package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"eshop-api/internal/config"
	"eshop-api/internal/db"
	"eshop-api/internal/email"
	"eshop-api/internal/httpserver"
	cartrepo "eshop-api/internal/repository/cart"
	orderrepo "eshop-api/internal/repository/order"
	productrepo "eshop-api/internal/repository/product"
	reviewrepo "eshop-api/internal/repository/review"
	userrepo "eshop-api/internal/repository/user"
	cartsvc "eshop-api/internal/service/cart"
	ordersvc "eshop-api/internal/service/order"
	productsvc "eshop-api/internal/service/product"
	reviewsvc "eshop-api/internal/service/review"
	usersvc "eshop-api/internal/service/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, db.Options{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	mailer := email.NewLogMailer(logger)
	tokens := usersvc.NewTokenManager(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	userRepo := userrepo.NewPostgres(dbpool, logger)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	reviewRepo := reviewrepo.NewPostgres(dbpool, logger)

	userService := usersvc.New(userRepo, tokens, mailer, logger)
	productService := productsvc.New(productRepo, logger)
	cartService := cartsvc.New(cartRepo, productRepo, logger)
	orderService := ordersvc.New(orderRepo, cartService, productRepo, mailer, logger)
	reviewService := reviewsvc.New(reviewRepo, logger)

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Users:    userService,
		Products: productService,
		Carts:    cartService,
		Orders:   orderService,
		Reviews:  reviewService,
	}, httpserver.Options{
		CORSOrigins:  cfg.CORSOrigins,
		CookieSecure: cfg.CookieSecure,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
