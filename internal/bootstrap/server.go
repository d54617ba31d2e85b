package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/dirabasi/api"
	"github.com/Domenick1991/dirabasi/config"
	"github.com/Domenick1991/dirabasi/internal/auth"
	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/Domenick1991/dirabasi/internal/http/middleware"
	"github.com/Domenick1991/dirabasi/internal/service/admin"
	"github.com/Domenick1991/dirabasi/internal/service/booking"
	"github.com/Domenick1991/dirabasi/internal/service/conductor"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Services groups the use cases exposed over HTTP.
type Services struct {
	Auth      auth.AuthUseCase
	Booking   booking.BookingUseCase
	Conductor conductor.ConductorUseCase
	Admin     admin.AdminUseCase
	Tokens    *auth.Tokens
}

// Run serves HTTP and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           NewRouter(cfg, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter wires middleware and handlers. Each section is restricted to its role.
func NewRouter(cfg *config.Config, svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(), middleware.CORS(cfg.HTTP.CORSOrigins))

	router.GET("/health", api.Health)

	authRequired := middleware.Auth(svc.Tokens)
	apiGroup := router.Group("/api")

	api.NewSessionHandler(svc.Auth).Register(apiGroup.Group("/sessions"), authRequired)

	dashboard := apiGroup.Group("/dashboard", authRequired, middleware.RequireRole(domain.RoleTraveler))
	api.NewDashboardHandler(svc.Booking).Register(dashboard)

	conductorGroup := apiGroup.Group("/conductor", authRequired, middleware.RequireRole(domain.RoleConductor))
	api.NewConductorHandler(svc.Conductor).Register(conductorGroup)

	adminGroup := apiGroup.Group("/admin", authRequired, middleware.RequireRole(domain.RoleAdmin))
	api.NewAdminHandler(svc.Admin).Register(adminGroup)

	if cfg.HTTP.SwaggerEnabled {
		router.GET("/swagger/openapi.json", api.OpenAPI)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/openapi.json"))))
	}

	router.NoRoute(api.NotFound)
	return router
}
