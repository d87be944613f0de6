// create-user creates a login for the admin console, or resets the password,
// name and role of an existing one.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//	  go run ./cmd/create-user -username admin -password 'secret123' -name 'Store Admin' -role admin
//
// Set REDIS_ADDRESS to also drop the live sessions of an updated user.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/dshank05/nextjs-sub001/config"
	"github.com/dshank05/nextjs-sub001/models"
	"github.com/dshank05/nextjs-sub001/utils"
	"github.com/go-playground/validator/v10"
)

func main() {
	username := flag.String("username", "", "login name (required)")
	password := flag.String("password", "", "password, at least 8 characters (required)")
	name := flag.String("name", "", "display name (defaults to username)")
	role := flag.String("role", string(models.UserRoleStaff), "admin or staff")
	flag.Parse()

	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *name == "" {
		*name = *username
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	if os.Getenv("REDIS_ADDRESS") != "" {
		config.ConnectRedisWithRetry()
	}
	if err := models.MigrateUsers(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate users table: %v\n", err)
		os.Exit(1)
	}

	user, created, err := models.ProvisionUser(ctx, &models.NewUser{
		Username: *username,
		Password: *password,
		Name:     *name,
		Role:     models.UserRole(*role),
	})
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for field, tag := range utils.ProcessValidationErrors(err) {
				fmt.Fprintf(os.Stderr, "invalid %s: failed on %s\n", field, tag)
			}
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "failed to provision user: %v\n", err)
		os.Exit(1)
	}

	if created {
		fmt.Printf("Created user: username=%q role=%s id=%d\n", user.Username, user.Role, user.ID)
		return
	}
	fmt.Printf("Updated user: username=%q role=%s id=%d (sessions revoked)\n", user.Username, user.Role, user.ID)
}
