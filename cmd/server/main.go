package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lokapasar-be/internal/address"
	"lokapasar-be/internal/cart"
	"lokapasar-be/internal/config"
	"lokapasar-be/internal/db"
	"lokapasar-be/internal/handler"
	"lokapasar-be/internal/logger"
	"lokapasar-be/internal/order"
	"lokapasar-be/internal/payment"
	"lokapasar-be/internal/product"
	"lokapasar-be/internal/settings"
	"lokapasar-be/internal/store"
	"lokapasar-be/internal/ticket"
	"lokapasar-be/internal/user"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database, err := db.Open(cfg)
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}
	defer database.Close()

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo, cfg.JWTSecret)

	storeRepo := store.NewRepository(database)
	storeSvc := store.NewService(storeRepo)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	addressRepo := address.NewRepository(database)
	addressSvc := address.NewService(addressRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo)

	settingsRepo := settings.NewRepository(database)
	settingsSvc := settings.NewService(settingsRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, cartRepo, addressRepo, settingsSvc)

	ticketRepo := ticket.NewRepository(database)
	ticketSvc := ticket.NewService(ticketRepo)
	issuer := ticket.NewIssuer(ticketRepo, cfg.QRRetryQueueSize)
	issuer.Start()
	defer issuer.Close()
	orderSvc.SetTicketIssuer(issuer)

	gateway := payment.NewSnapGateway(cfg.GatewayServerKey, cfg.GatewayBaseURL)
	paymentRepo := payment.NewRepository(database)
	paymentSvc := payment.NewService(paymentRepo, orderRepo, orderSvc, userRepo, gateway, cfg.AppBaseURL+"/orders")

	router := handler.NewRouter(handler.Handlers{
		Auth:    handler.NewAuthHandler(userSvc, cfg.AppEnv),
		Cart:    handler.NewCartHandler(cartSvc),
		Product: handler.NewProductHandler(productSvc),
		Store:   handler.NewStoreHandler(storeSvc, cfg.JWTSecret, cfg.AppEnv),
		Address: handler.NewAddressHandler(addressSvc),
		Order:   handler.NewOrderHandler(orderSvc),
		Payment: handler.NewPaymentHandler(paymentSvc),
		Admin:   handler.NewAdminHandler(userSvc, settingsSvc),
		Tourism: handler.NewTourismHandler(orderSvc, ticketSvc),
	}, cfg.JWTSecret)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}
