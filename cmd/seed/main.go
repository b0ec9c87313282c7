// Command seed installs the default category hierarchy through a running API.
//
// FINTRACK_API_URL selects the server (default http://localhost:$PORT). When
// API_TOKEN is empty an ADMIN token for subject "seed" is signed with JWT_SECRET.
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"fintrack/internal/client"
	"fintrack/internal/config"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatalf("failed to load config: %v", err)
	}

	logger.Init(cfg.Env, nil)
	defer logger.Sync()
	log := logger.Get()

	baseURL := os.Getenv("FINTRACK_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Port
	}

	token := os.Getenv("API_TOKEN")
	if token == "" {
		token, err = middleware.GenerateAccessToken("seed", middleware.RoleAdmin)
		if err != nil {
			log.Fatalf("failed to sign token: %v", err)
		}
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	api := client.NewCategoryClient(baseURL, token, httpClient)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := seed.NewSeeder(api, log).Run(ctx, seed.DefaultTree)
	if err != nil {
		log.Errorw("seed run failed", "error", err)
		os.Exit(1)
	}

	log.Infow("seed run completed",
		"created", result.Created,
		"existing", result.Existing,
		"skipped", len(result.Skipped),
	)
	if len(result.Skipped) > 0 {
		os.Exit(2)
	}
}
