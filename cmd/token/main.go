// Command token prints a signed access token for local development.
//
//	go run ./cmd/token -sub alice -role ADMIN
package main

import (
	"flag"
	"fmt"
	"os"

	"fintrack/internal/config"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
)

func main() {
	subject := flag.String("sub", "", "principal recorded as created_by/updated_by")
	role := flag.String("role", middleware.RoleUser, "role claim (ADMIN or USER)")
	flag.Parse()

	logger.Init(os.Getenv("ENV"), nil)
	defer logger.Sync()

	if *subject == "" {
		logger.Get().Fatal("-sub is required")
	}
	if *role != middleware.RoleAdmin && *role != middleware.RoleUser {
		logger.Get().Fatalf("unknown role %q", *role)
	}

	if _, err := config.Load(); err != nil {
		logger.Get().Fatalf("failed to load config: %v", err)
	}

	token, err := middleware.GenerateAccessToken(*subject, *role)
	if err != nil {
		logger.Get().Fatalf("failed to sign token: %v", err)
	}
	fmt.Println(token)
}
