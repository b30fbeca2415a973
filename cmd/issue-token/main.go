package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/cursoteca/lms-backend/internal/config"
	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/cursoteca/lms-backend/internal/service"
	"github.com/google/uuid"
	"golang.org/x/term"
)

func main() {
	var (
		userStr string
		email   string
		role    string
		ttl     time.Duration
	)
	flag.StringVar(&userStr, "user", "", "User UUID (random when empty)")
	flag.StringVar(&email, "email", "", "Email claim")
	flag.StringVar(&role, "role", string(model.RoleStudent), "Role claim: student or admin")
	flag.DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to JWT_EXPIRY_HOURS)")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	userID := uuid.New()
	if userStr != "" {
		id, err := uuid.Parse(userStr)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error: -user must be a UUID")
			os.Exit(2)
		}
		userID = id
	}

	userRole := model.UserRole(role)
	if userRole != model.RoleStudent && userRole != model.RoleAdmin {
		fmt.Fprintln(os.Stderr, "Error: -role must be student or admin")
		os.Exit(2)
	}

	// ─── Signing Secret ────────────────────────────────────────────────
	// Without JWT_SECRET in the environment, ask for it instead of signing
	// with the built-in development default.
	if os.Getenv("JWT_SECRET") == "" && term.IsTerminal(int(syscall.Stdin)) {
		fmt.Fprint(os.Stderr, "Enter JWT secret: ")
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error reading secret")
			os.Exit(1)
		}
		if s := strings.TrimSpace(string(secret)); s != "" {
			cfg.JWTSecret = s
		}
	}

	token, err := service.NewAuthService(cfg).GenerateToken(userID, email, userRole, ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "user_id=%s role=%s\n", userID, userRole)
	fmt.Println(token)
}
