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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/ovaphlow/pitchfork/service-academics/internal/academic"
	academicrepo "github.com/ovaphlow/pitchfork/service-academics/internal/academic/repo"
	"github.com/ovaphlow/pitchfork/service-academics/internal/auth"
	"github.com/ovaphlow/pitchfork/service-academics/internal/chat"
	"github.com/ovaphlow/pitchfork/service-academics/internal/config"
	"github.com/ovaphlow/pitchfork/service-academics/internal/router"
	"github.com/ovaphlow/pitchfork/service-academics/internal/semester"
	semesterrepo "github.com/ovaphlow/pitchfork/service-academics/internal/semester/repo"
	"github.com/ovaphlow/pitchfork/service-academics/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-academics/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-academics/pkg/database"
	"github.com/ovaphlow/pitchfork/service-academics/pkg/utilities"
)

func main() {
	// best-effort: without a .env file the real environment is used
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()
	sugar := lg.Sugar()

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("load config: %v", err)
	}
	dbCfg, err := database.ConfigFromEnv()
	if err != nil {
		sugar.Fatalf("load db config: %v", err)
	}

	sugar.Infow("starting service-academics", "addr", cfg.HTTPAddr, "env", cfg.Env)

	db, err := database.Connect(dbCfg)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.EnsureSchema(migrateCtx, db)
		cancel()
		if err != nil {
			sugar.Fatalf("ensure schema: %v", err)
		}
		sugar.Info("schema ensured")
	}

	var cache *semester.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			sugar.Warnw("redis unavailable, semester cache still attempted", "addr", cfg.RedisAddr, "err", err)
		}
		cancel()
		cache = semester.NewCache(rdb, cfg.SemesterCacheTTL)
	}

	codec := auth.NewCodec(cfg.JWTSecret, cfg.JWTIssuer)
	semesters := semester.NewService(semesterrepo.NewSemesterRepo(db), cache, sugar)
	users := user.NewService(userrepo.NewUserRepo(db), nil, codec, cfg.TokenTTL)
	academics := academic.NewService(academicrepo.NewAcademicRepo(db), semesters, sugar)

	handler := router.New(router.Deps{
		Logger:        sugar,
		Store:         db,
		Gate:          auth.NewGate(codec, sugar),
		Users:         user.NewHandler(users, sugar),
		Semesters:     semester.NewHandler(semesters, sugar),
		Academics:     academic.NewHandler(academics, sugar),
		Chat:          chat.NewHandler(chat.NewClient(cfg.AIAgentURL, cfg.AIAgentTimeout), sugar),
		CORSOrigin:    cfg.FrontendURL,
		Production:    cfg.IsProduction(),
		AuthRateLimit: cfg.LoginRateLimit,
	})
	if cfg.AIAgentURL == "" {
		sugar.Warn("AI_AGENT_URL not set; /api/chat will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()
	sugar.Infow("service is running", "addr", cfg.HTTPAddr)

	<-ctx.Done()
	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}
	sugar.Info("goodbye")
}
