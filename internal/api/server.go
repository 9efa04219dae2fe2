package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/limbo/coindo/internal/service"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	handlerTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

type Server struct {
	mx                *chi.Mux
	userService       service.UserServiceI
	categoriesService service.CategoriesServiceI
	todosService      service.TodosServiceI
	completionService service.CompletionServiceI
	jwtService        JWTServiceI
}

type ServicesList struct {
	UserService       service.UserServiceI
	CategoriesService service.CategoriesServiceI
	TodosService      service.TodosServiceI
	CompletionService service.CompletionServiceI
	JwtService        JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:                chi.NewMux(),
		userService:       servicesOptions.UserService,
		categoriesService: servicesOptions.CategoriesService,
		todosService:      servicesOptions.TodosService,
		completionService: servicesOptions.CompletionService,
		jwtService:        servicesOptions.JwtService,
	}
	s.mountRoutes()
	return s
}

func (s *Server) mountRoutes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/users/register", s.Register)
		r.Post("/users/login", s.Login)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)

			r.Post("/users/logout", s.Logout)
			r.Get("/users/me", s.GetProfile)
			r.Put("/users/me", s.UpdateProfile)
			r.Get("/users/me/transactions", s.GetTransactions)

			r.Post("/categories", s.CreateCategory)
			r.Get("/categories", s.GetCategories)
			r.Get("/categories/{id}", s.GetCategory)
			r.Put("/categories/{id}", s.UpdateCategory)
			r.Delete("/categories/{id}", s.DeleteCategory)

			r.Post("/todos", s.CreateTodo)
			r.Get("/todos", s.GetTodos)
			r.Get("/todos/{id}", s.GetTodo)
			r.Put("/todos/{id}", s.UpdateTodo)
			r.Delete("/todos/{id}", s.DeleteTodo)
			r.Put("/todos/{id}/complete", s.CompleteTodo)
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mx.ServeHTTP(w, r)
}

// Run serves until SIGINT or SIGTERM, then shuts server down gracefully
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(s.mx, "coindo-api"),
		ReadHeaderTimeout: 5 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", slog.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
