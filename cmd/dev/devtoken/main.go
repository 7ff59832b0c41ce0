package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"tourbooking/internal/identity"
	"tourbooking/pkg/config"
	"tourbooking/pkg/db"
)

// devtoken seeds a profile and prints a signed access token for it, so the API
// can be exercised locally without the hosted auth service.
func main() {
	var (
		userID  = flag.String("user", "", "user id (uuid); a new one is generated when empty")
		email   = flag.String("email", "dev@example.com", "email claim")
		name    = flag.String("name", "Dev User", "display name (user_metadata.name)")
		isAdmin = flag.Bool("admin", false, "grant the admin flag on the profile")
		ttl     = flag.Duration("ttl", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	cfg := config.Load()
	if cfg.Auth.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "missing AUTH_JWT_SECRET in env/.env")
		os.Exit(2)
	}

	if strings.TrimSpace(*userID) == "" {
		*userID = uuid.NewString()
	} else if _, err := uuid.Parse(*userID); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -user: %v\n", err)
		os.Exit(2)
	}

	ctx := context.Background()
	pool, err := db.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db open: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.MigrationsPath != "" {
		if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			os.Exit(1)
		}
	}

	profiles := identity.NewRepository(pool)
	p, err := profiles.Ensure(ctx, *userID, *email, *name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ensure profile: %v\n", err)
		os.Exit(1)
	}
	if *isAdmin != p.IsAdmin {
		if err := profiles.SetAdmin(ctx, p.ID, *isAdmin); err != nil {
			fmt.Fprintf(os.Stderr, "set admin: %v\n", err)
			os.Exit(1)
		}
	}

	token, err := identity.SignSessionToken(p.ID, *email, *name, cfg.Auth.Audience, cfg.Auth.JWTSecret, *ttl, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("user_id=%s admin=%v\n", p.ID, *isAdmin)
	fmt.Printf("token=%s\n", token)
	fmt.Printf("\nTry:\n")
	fmt.Printf("  curl -H 'Authorization: Bearer %s' %s/v1/me\n", token, baseURL(cfg.HTTPAddr))
}

func baseURL(httpAddr string) string {
	// httpAddr is typically ":8081" or "0.0.0.0:8081".
	addr := strings.TrimSpace(httpAddr)
	switch {
	case addr == "":
		return "http://localhost:8081"
	case strings.HasPrefix(addr, ":"):
		return "http://localhost" + addr
	case strings.HasPrefix(addr, "0.0.0.0:"):
		return "http://localhost" + strings.TrimPrefix(addr, "0.0.0.0")
	default:
		return "http://" + addr
	}
}
