package main

import (
	"net/http"

	"homehound/internal/httpapi"
	"homehound/internal/listings"
	"homehound/internal/middleware"
)

func newHTTPHandler(cfg Config, svc *listings.Service) http.Handler {
	handler := httpapi.New(svc).Routes()

	// Innermost first: auth resolves the actor, CORS and request logging
	// wrap it, recovery sits outermost.
	handler = middleware.ActorAuth(cfg.JWTSecret)(handler)
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	handler = middleware.RequestLogging()(handler)
	handler = middleware.Recovery()(handler)

	return handler
}
