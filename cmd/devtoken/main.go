package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// devtoken prints a bearer token for local testing against the API.
func main() {
	_ = godotenv.Load()

	id := flag.String("id", "", "employee id (uuid)")
	role := flag.String("role", string(domain.RoleEmployee), "EMPLOYEE, MANAGER, HR or ADMIN")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	actor, err := domain.NewActor(*id, *role)
	if err != nil {
		logger.Fatal("invalid actor", zap.Error(err))
	}

	token, err := middleware.SignActorToken([]byte(secret), actor, *ttl)
	if err != nil {
		logger.Fatal("sign token failed", zap.Error(err))
	}
	fmt.Println(token)
}
