// Package router assembles the gin engine with all middleware and routes.
package router

import (
	"net/http"
	"net/url"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	docs "github.com/expensetrackr/backend/api"
	"github.com/expensetrackr/backend/internal/auth"
	"github.com/expensetrackr/backend/internal/config"
	"github.com/expensetrackr/backend/internal/controllers/healthz"
	v1 "github.com/expensetrackr/backend/internal/controllers/v1"
	"github.com/expensetrackr/backend/internal/notifications"
)

// This is set at build time, see Makefile.
var version = "0.0.0"

// New sets up the router with all middlewares and routes.
func New(cfg config.Config, signer *auth.Signer, sender notifications.Sender) (*gin.Engine, error) {
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, l zerolog.Logger) zerolog.Logger {
			return l.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	// CORS settings
	if len(cfg.CORSAllowOrigins) > 0 {
		log.Debug().Strs("allowOrigins", cfg.CORSAllowOrigins).Msg("CORS")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowOrigins,
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	apiURL, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, err
	}

	docs.SwaggerInfo.Host = apiURL.Host
	docs.SwaggerInfo.BasePath = apiURL.Path
	docs.SwaggerInfo.Title = "Expense Tracker"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Description = "The backend for a personal expense tracker: accounts, categories, expenses, budgets, and downloadable reports."

	r.GET("", getRoot)
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// pprof performance profiles, only in debug mode
	if gin.Mode() == gin.DebugMode {
		pprof.Register(r)
	}

	api := r.Group("/api")

	healthz.RegisterRoutes(api.Group("/health"))
	v1.RegisterAuthRoutes(api.Group("/auth"), signer, sender)

	// Everything below requires a valid access token of an active user
	authenticated := api.Group("", v1.Authenticate(signer))

	v1.RegisterUserRoutes(authenticated.Group("/users"))
	v1.RegisterCategoryRoutes(authenticated.Group("/categories"))
	v1.RegisterExpenseRoutes(authenticated.Group("/expenses"))
	v1.RegisterBudgetRoutes(authenticated.Group("/budgets"))
	v1.RegisterReportRoutes(authenticated.Group("/reports"))

	log.Info().Str("version", version).Msg("backend startup complete")

	return r, nil
}

type rootResponse struct {
	Links rootLinks `json:"links"`
}

type rootLinks struct {
	Docs    string `json:"docs" example:"https://example.com/docs/index.html"` // Swagger API documentation
	Health  string `json:"health" example:"https://example.com/api/health"`    // Health of the backend
	Metrics string `json:"metrics" example:"https://example.com/metrics"`      // Endpoint returning Prometheus metrics
}

// @Summary		API root
// @Description	Entrypoint for the API, listing the top level endpoints
// @Tags			General
// @Success		200	{object}	rootResponse
// @Router			/ [get]
func getRoot(c *gin.Context) {
	c.JSON(http.StatusOK, rootResponse{
		Links: rootLinks{
			Docs:    "/docs/index.html",
			Health:  "/api/health",
			Metrics: "/metrics",
		},
	})
}
