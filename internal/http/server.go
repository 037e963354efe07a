// README: API gateway; builds the gin engine and delegates to the pricing service.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"relo/internal/http/middleware"
	"relo/internal/modules/pricing"
)

type ServerDeps struct {
	Pricing *pricing.Service
	Logger  *zap.Logger
}

type Server struct {
	pricing *pricing.Service
	logger  *zap.Logger
}

func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		pricing: deps.Pricing,
		logger:  logger.Named("http"),
	}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(s.logger),
		middleware.Logging(s.logger),
		middleware.Metrics(),
	)
	registerRoutes(r, s.pricing)
	return r
}
