package httpapi

import (
	"log/slog"
	"net/http"
)

// RouterConfig carries the surface-level knobs for the HTTP router.
type RouterConfig struct {
	SwaggerEnabled      bool
	CORSAllowedOrigins  []string
	InternalJobToken    string
	CaptureRequestBody  bool
	RequestBodyMaxBytes int
}

func NewRouter(handler *Handler, verifier TokenVerifier, logger *slog.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.SwaggerEnabled)
	registerAuthorizedRoutes(mux, handler, verifier)
	registerInternalJobRoutes(mux, handler, cfg.InternalJobToken)

	chain := RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux)))
	chain = captureRequestBody(cfg.CaptureRequestBody, cfg.RequestBodyMaxBytes, chain)

	return RequestTracing(chain)
}

func recoverPanic(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
