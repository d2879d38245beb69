// Command createadmin creates an admin account or promotes an existing user.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"milkledger/auth"
	"milkledger/config"
	"milkledger/logging"
	"milkledger/models"
	"milkledger/repository"
)

func main() {
	email := flag.String("email", "", "admin email (required)")
	name := flag.String("name", "Administrator", "display name for a new account")
	username := flag.String("username", "", "username for a new account (defaults to the email local part)")
	passwordStdin := flag.Bool("password-stdin", false, "read the password from stdin instead of prompting")
	flag.Parse()

	if err := run(*email, *name, *username, *passwordStdin); err != nil {
		fmt.Fprintln(os.Stderr, "createadmin:", err)
		os.Exit(1)
	}
}

func run(email, name, username string, passwordStdin bool) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errors.New("-email is required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel)

	store, err := repository.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	existing, err := store.Users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		if _, err := store.Users.UpdateUserRole(ctx, existing.ID, models.RoleAdmin); err != nil {
			return err
		}
		if _, err := store.Users.UpdateUserStatus(ctx, existing.ID, true); err != nil {
			return err
		}
		slog.Info("promoted existing user to admin", "email", email, "user_id", existing.ID)
		return nil
	}

	password, err := readPassword(passwordStdin)
	if err != nil {
		return err
	}
	if err := auth.ValidatePassword(password); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	user := &models.AppUser{
		Name:     name,
		Username: strings.ToLower(username),
		Email:    email,
		Password: hash,
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := store.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("username %q is taken, pass -username", user.Username)
		}
		return err
	}
	slog.Info("created admin", "email", email, "user_id", user.ID)
	return nil
}

func readPassword(fromStdin bool) (string, error) {
	if fromStdin || !term.IsTerminal(int(os.Stdin.Fd())) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	fmt.Fprint(os.Stderr, "Confirm password: ")
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
