// @title Coindo API
// @version 1.0
// @description API for gamified todo app "Coindo"
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"log/slog"
	"os"
	"strings"

	_ "github.com/limbo/coindo/docs"
	"github.com/limbo/coindo/internal/api"
	"github.com/limbo/coindo/internal/repository"
	"github.com/limbo/coindo/internal/service"
	"github.com/limbo/coindo/pkg/cleanup"
	"github.com/limbo/coindo/pkg/config"
	jwtservice "github.com/limbo/coindo/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.GetStringOr("LOG_LEVEL", "info")),
	})))
	defer cleanup.CleanUp()

	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	pool := repository.NewPool(&dbCfg)

	var tokensRepo repository.TokensRepositoryI
	store := cfg.GetStringOr("TOKEN_STORE", "postgres")
	switch store {
	case "redis":
		tokensRepo = repository.NewRedisTokensRepo(&repository.RedisCfg{
			Address:  cfg.GetString("REDIS_ADDR"),
			Password: cfg.GetString("REDIS_PASSWORD"),
			DB:       cfg.GetInt("REDIS_DB", 0),
		})
	case "postgres":
		tokensRepo = repository.NewTokensRepoWithConn(pool)
	default:
		slog.Error("unknown token store", slog.String("store", store))
		cleanup.CleanUp()
		os.Exit(1)
	}
	slog.Info("token store selected", slog.String("store", store))

	usersRepo := repository.NewUsersRepoWithConn(pool)
	categoriesRepo := repository.NewCategoriesRepoWithConn(pool)
	todosRepo := repository.NewTodosRepoWithConn(pool)
	jwtService := jwtservice.New(cfg.GetString("JWT_SECRET"), cfg.GetDuration("TOKEN_TTL", jwtservice.DefaultTokenTTL))

	serv := api.New(&api.ServicesList{
		UserService:       service.NewUserService(usersRepo, tokensRepo, jwtService),
		CategoriesService: service.NewCategoriesService(categoriesRepo, todosRepo),
		TodosService:      service.NewTodosService(todosRepo, categoriesRepo),
		CompletionService: service.NewCompletionService(
			repository.NewRewardsUnitOfWorkWithConn(pool),
			repository.NewTransactionsRepoWithConn(pool),
		),
		JwtService: jwtService,
	})
	if err := serv.Run(cfg.GetStringOr("API_ADDRESS", ":8080")); err != nil {
		slog.Error("server error", slog.String("error", err.Error()))
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
