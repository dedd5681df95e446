package server

import (
	"log/slog"
	"net/http"

	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/Figo14045/pdf-to-excel-converter/internal/domain/convert/handler"
	"github.com/Figo14045/pdf-to-excel-converter/pkg/config"
)

// New builds the application handler: routes wrapped in request-ID,
// logging, rate-limit and CORS middleware.
func New(cfg *config.Config, convertHandler *handler.ConvertHandler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", convertHandler.Index)
	mux.HandleFunc("GET /healthz", convertHandler.Health)
	mux.HandleFunc("POST /v1/convert", convertHandler.Convert)

	limiter := rate.NewLimiter(
		rate.Limit(cfg.Server.RateLimitPerSecond),
		cfg.Server.RateLimitBurst,
	)

	var h http.Handler = mux
	h = RateLimit(limiter, h)
	h = Logging(logger, h)
	h = RequestID(h)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{cfg.Server.BaseURL, "http://localhost:3000"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{"Content-Disposition", "X-Conversion-Id", requestIDHeader},
	})
	return c.Handler(h)
}
