package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/Kushal-prime/kushalwearback/api/responses"
	"github.com/Kushal-prime/kushalwearback/pkg/db"
	"github.com/Kushal-prime/kushalwearback/pkg/redis"
)

// Health reports liveness plus the state of each backing dependency.
func Health(dbClient *db.Client, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		status := http.StatusOK

		if err := dbClient.Ping(ctx); err != nil {
			checks["database"] = "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}

		if redisClient != nil {
			if err := redisClient.Ping(ctx); err != nil {
				checks["redis"] = "unreachable"
			} else {
				checks["redis"] = "ok"
			}
		}

		body := map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"checks":    checks,
		}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		responses.WriteJSON(w, status, body)
	}
}
