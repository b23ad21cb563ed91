package httpapi

import (
	"net/http"

	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerResolutionRoutes(mux, handler)

	return RequestTracing(RequestLogging(logger, LimitBody(recoverPanic(logger, mux))))
}
