// Command devtoken mints a bearer token for local testing against a server
// sharing the same signing secret.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/codele-api/internal/config"
	"github.com/phrazzld/codele-api/internal/service/auth"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "devtoken:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("devtoken", flag.ContinueOnError)
	user := fs.String("user", "", "player UUID (random when empty)")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	secret := fs.String("secret", os.Getenv(config.EnvPrefix+"_AUTH_JWT_SECRET"), "HMAC signing secret")
	issuer := fs.String("issuer", os.Getenv(config.EnvPrefix+"_AUTH_ISSUER"), "token issuer")
	if err := fs.Parse(args); err != nil {
		return err
	}

	userID := uuid.New()
	if *user != "" {
		parsed, err := uuid.Parse(*user)
		if err != nil {
			return fmt.Errorf("invalid -user: %w", err)
		}
		userID = parsed
	}

	svc, err := auth.NewJWTService(config.AuthConfig{JWTSecret: *secret, Issuer: *issuer})
	if err != nil {
		return err
	}
	token, err := svc.GenerateToken(context.Background(), userID, *ttl)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "user_id: %s\n", userID)
	fmt.Println(token)
	return nil
}
