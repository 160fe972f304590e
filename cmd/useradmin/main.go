// Command useradmin manages site accounts.
//
//	useradmin default-admin
//	useradmin create -email jane@example.com -name "Jane Doe" -password secret -role user
//	useradmin stats -api https://softionyx.com -email admin@softionyx.com -password secret
//
// stats signs in over the HTTP API instead of the database and prints the
// admin dashboard totals, which confirms an account can reach the admin area.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/softionyx/site/internal/config"
	"github.com/softionyx/site/internal/database"
	"github.com/softionyx/site/internal/models"
	"github.com/softionyx/site/internal/modules/auth"
	"github.com/softionyx/site/pkg/client"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	configPath := fs.String("config", config.DefaultConfigPath, "Path to YAML config file")
	envFile := fs.String("env", config.DefaultEnvFile, "Path to .env file")

	var acc auth.Account
	switch cmd {
	case "default-admin":
		acc = auth.Account{
			Email:    auth.DefaultAdminEmail,
			Password: auth.DefaultAdminPassword,
			FullName: auth.DefaultAdminName,
			Role:     models.RoleAdmin,
		}
		_ = fs.Parse(args)
	case "create":
		var role string
		fs.StringVar(&acc.Email, "email", auth.DefaultAdminEmail, "Email address")
		fs.StringVar(&acc.FullName, "name", auth.DefaultAdminName, "Full name")
		fs.StringVar(&acc.Password, "password", auth.DefaultAdminPassword, "Password")
		fs.StringVar(&role, "role", string(models.RoleAdmin), "Role (admin|user)")
		fs.StringVar(&acc.CompanyName, "company", "", "Company name")
		fs.StringVar(&acc.Phone, "phone", "", "Phone number")
		_ = fs.Parse(args)
		acc.Role = models.Role(role)
	case "stats":
		api := fs.String("api", "http://localhost:3000", "Site base URL")
		email := fs.String("email", auth.DefaultAdminEmail, "Admin email")
		password := fs.String("password", "", "Admin password")
		tokenFile := fs.String("token-file", "", "Reuse and persist the session token in this file")
		_ = fs.Parse(args)
		if err := runStats(*api, *email, *password, *tokenFile); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	default:
		usage()
		os.Exit(2)
	}

	if err := run(*envFile, *configPath, acc); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(envFile, configPath string, acc auth.Account) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Connect(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("cannot connect to database, check the database settings: %w", err)
	}
	defer database.Close(db)

	u, err := auth.CreateAccount(ctx, db, acc)
	if errors.Is(err, auth.ErrAccountExists) {
		if u != nil {
			fmt.Printf("User already exists: %s (id %d, role %s)\n", u.Email, u.ID, u.Role)
		} else {
			fmt.Printf("User already exists: %s\n", auth.NormalizeEmail(acc.Email))
		}
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println("User created successfully")
	fmt.Printf("  ID:        %d\n", u.ID)
	fmt.Printf("  Email:     %s\n", u.Email)
	fmt.Printf("  Full name: %s\n", u.FullName)
	fmt.Printf("  Role:      %s\n", u.Role)
	return nil
}

func runStats(apiURL, email, password, tokenFile string) error {
	c, err := client.New(apiURL)
	if err != nil {
		return err
	}
	defer c.Close()

	var store client.TokenStore = &client.MemoryTokenStore{}
	if tokenFile != "" {
		store = client.FileTokenStore{Path: tokenFile}
	}
	sess, err := client.NewSession(c, store)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if sess.Authenticated() {
		if err := sess.LoadUser(ctx); err != nil && !client.IsStatus(err, http.StatusUnauthorized) {
			return err
		}
	}
	if !sess.Authenticated() {
		if password == "" {
			return errors.New("-password is required without a saved token")
		}
		if err := sess.Login(ctx, email, password); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}
	if !sess.User().IsAdmin() {
		return fmt.Errorf("%s is not an admin", sess.User().Email)
	}

	stats, err := sess.Stats(ctx)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s\n%s\n", sess.User().Email, out)
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: useradmin <default-admin|create|stats> [flags]")
	fmt.Fprintln(os.Stderr, "run 'useradmin <command> -h' for the flags of a command")
}
