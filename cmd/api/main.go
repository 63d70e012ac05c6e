package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/bookmark"
	bookmarkrepo "github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/bookmark/repo"
	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/router"
	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/pkg/database"
	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/pkg/utilities"
)

const defaultAddr = "0.0.0.0:8431"

func main() {
	// best-effort: a missing .env falls back to the real environment
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-bookmark-go-stdlib")

	authCfg, err := auth.ConfigFromEnv()
	if err != nil {
		sugar.Fatalf("auth config: %v", err)
	}

	dbCfg := database.ConfigFromEnv()
	sqlDB, err := database.Connect(dbCfg)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()

	if dbCfg.Migrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(migrateCtx, sqlDB)
		cancel()
		if err != nil {
			sugar.Fatalf("db migrate: %v", err)
		}
		sugar.Info("migrations applied")
	}

	sqlxDB := sqlx.NewDb(sqlDB, "postgres")

	users := userrepo.NewUserRepo(sqlxDB)
	bookmarks := bookmarkrepo.NewRepo(sqlxDB)

	codec := auth.NewTokenCodec()
	issuer := auth.NewIssuer(users, nil, codec, authCfg, sugar)

	handler := router.RegisterRoutes(sugar, router.Handlers{
		Auth:      auth.NewHandler(issuer, sugar),
		Users:     user.NewHandler(user.NewUserService(users), sugar),
		Bookmarks: bookmark.NewHandler(bookmark.NewService(bookmarks), sugar),
		Guard:     auth.NewGuard(codec, authCfg, users, sugar),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = defaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()
	sugar.Infow("listening", "addr", addr)

	<-ctx.Done()

	sugar.Info("shutting down")

	// short grace period for in-flight requests
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
