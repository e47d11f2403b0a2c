package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"com.martdev.sellerhub/config"
	"com.martdev.sellerhub/docs"
	sellerhandler "com.martdev.sellerhub/internal/api/seller"
	"com.martdev.sellerhub/internal/auth/jwt"
	"com.martdev.sellerhub/internal/auth/otp"
	"com.martdev.sellerhub/internal/database"
	"com.martdev.sellerhub/internal/env"
	"com.martdev.sellerhub/internal/mail"
	sellerservice "com.martdev.sellerhub/internal/service/seller"
	"com.martdev.sellerhub/internal/session"
	"com.martdev.sellerhub/internal/util"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

const issuer = "sellerhub"

// @title						SellerHub API
// @description				API for SellerHub. A marketplace backend for sellers to register, activate and manage their accounts.
// @termsOfService				http://swagger.io/terms/
//
// @contact.name				API Support
// @contact.url				http://www.swagger.io/support
// @contact.email				support@swagger.io
//
// @licence.name				Apache 2.0
// @licence.url				http://www.apache.org/licenses/LICENSE-2.0.html
//
// @host						localhost
// @BasePath					/v1
func main() {
	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	cfg := config.Load()

	db, err := database.NewPostgreInstance(
		cfg.DB.Addr,
		cfg.DB.MaxOpenConns,
		cfg.DB.MaxIdleConns,
		cfg.DB.MaxIdleTime,
	)
	if err != nil {
		logger.Fatalf("db error - %s", err)
	}
	defer db.Close()
	logger.Info("database connection pool established")

	rdb, err := database.NewRedisInstance(cfg.Redis.URL)
	if err != nil {
		logger.Fatalf("redis error - %s", err)
	}
	defer rdb.Close()
	logger.Info("redis connection established")

	tokenIssuer, err := jwt.NewTokenIssuer(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.ActivationSecret,
		issuer,
		cfg.Auth.AccessExpire,
		cfg.Auth.RefreshExpire,
		cfg.Auth.ActivationExpire,
	)
	if err != nil {
		logger.Fatalf("token issuer error - %s", err)
	}

	mailer, err := mail.NewSMTPMailer(
		cfg.Mail.Host,
		cfg.Mail.Port,
		cfg.Mail.Username,
		cfg.Mail.Password,
		cfg.Mail.From,
		logger,
	)
	if err != nil {
		logger.Fatalf("mailer error - %s", err)
	}

	storage := database.NewStorage(db)
	sessions := session.NewStore(rdb)
	codes := otp.NewIssuer(tokenIssuer, cfg.Auth.CryptoSecret)

	service := sellerservice.NewAuthService(
		storage.Seller, sessions, tokenIssuer, codes, mailer, logger, cfg.Auth.CryptoSecret,
	)
	handler := sellerhandler.NewHandler(
		service, logger, cfg.IsProduction, cfg.Auth.AccessExpire, cfg.Auth.RefreshExpire,
	)

	mux := getChiMux()
	mux.Route("/v1", func(r chi.Router) {
		r.Get("/health", healthCheckHandler(logger))
		docsURL := "/v1/swagger/doc.json"
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))
		handler.RegisterRoutes(r)
	})

	if err := runServer(mux, cfg.Addr, logger); err != nil {
		logger.Fatal(err)
	}
}

func getChiMux() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{env.GetString("CORS_ALLOWED_ORIGIN", "http://127.0.0.1:4040")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Timeout(60 * time.Second))

	return r
}

func runServer(mux http.Handler, addr string, logger *zap.SugaredLogger) error {
	docs.SwaggerInfo.Host = "localhost:3000"
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit

		logger.Infow("shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		shutdown <- srv.Shutdown(ctx)
	}()

	logger.Infof("server has started at %s", addr)

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-shutdown
}

// healthcheckHandler godoc
//
//	@Summary		Healthcheck
//	@Description	Healthcheck endpoint
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	string	"ok"
//	@Router			/health [get]
func healthCheckHandler(logger *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status": "ok",
		}

		if err := util.JSONResponse(w, http.StatusOK, data); err != nil {
			util.InternalServerErrorResponse(w, r, err, logger)
		}
	}
}
