package database

import (
	"context"
	"fmt"
	"log/slog"
)

// DemoUser is an account created by SeedDemoUsers.
type DemoUser struct {
	Name     string
	Email    string
	Password string
}

// DemoUsers are the accounts seeded into an empty database.
var DemoUsers = []DemoUser{
	{Name: "Aditi Nair", Email: "aditi@example.com", Password: "aditi12345"},
	{Name: "Test User", Email: "test@example.com", Password: "test12345"},
}

// UserCounter reports how many users exist.
type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

// Registrar creates an account through the normal registration path.
type Registrar interface {
	Register(ctx context.Context, name, email, password string) (uint64, error)
}

// SeedDemoUsers registers DemoUsers when the users table is empty. It
// returns the number of accounts created.
func SeedDemoUsers(ctx context.Context, users UserCounter, reg Registrar, logger *slog.Logger) (int, error) {
	n, err := users.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	created := 0
	for _, u := range DemoUsers {
		id, err := reg.Register(ctx, u.Name, u.Email, u.Password)
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", u.Email, err)
		}
		logger.Info("seeded demo user", "id", id, "email", u.Email)
		created++
	}
	return created, nil
}
