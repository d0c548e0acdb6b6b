// Package handlers holds the pieces of the HTTP interface that do not
// depend on the tracker: health checks and reusable middleware.
//
// # Health Checks
//
// Named checks run in parallel, each under its own timeout:
//
//	checker := handlers.NewCompositeHealthChecker("v0.1.0")
//	checker.AddCheck("storage", handlers.NewStorageCheck(backend))
//
//	status := checker.Check(ctx)
//	if !status.Healthy {
//	    log.Warn("health check failed", logger.String("reason", status.Message))
//	}
//
// # Middleware
//
// Middleware are plain func(http.Handler) http.Handler values and compose
// with Chain:
//
//	h := handlers.ChainHandler(mux,
//	    handlers.SecurityHeadersMiddleware,
//	    handlers.RequestSizeLimitMiddleware(64<<10),
//	)
package handlers
