// Command adduser creates a user account directly in the configured store.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/term"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
	"github.com/ledgerbook/finance-tracker/internal/core/service"
	"github.com/ledgerbook/finance-tracker/internal/infrastructure/db"
	"github.com/ledgerbook/finance-tracker/internal/pkg/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// storeSettings is the part of the server configuration adduser needs.
type storeSettings struct {
	Store config.StoreConfig
	Mongo config.MongoConfig
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	ctx := context.Background()

	var defaults storeSettings
	if err := envconfig.Process(ctx, &defaults); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "Username")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	backend := fs.String("backend", defaults.Store.Backend, "Store backend: sqlite or mongo")
	dbPath := fs.String("db", defaults.Store.SQLitePath, "Path to the SQLite database file")
	mongoURI := fs.String("mongo-uri", defaults.Mongo.URI, "MongoDB connection URI")
	mongoDB := fs.String("mongo-db", defaults.Mongo.Database, "MongoDB database name")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*username) == "" {
		fmt.Fprintln(stdout, "Usage: adduser -user <username> [-password <password>] [-backend sqlite|mongo] [-db <db_path>]")
		fs.PrintDefaults()
		return errors.New("missing required flags: user")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	if strings.TrimSpace(password) == "" {
		return errors.New("password cannot be empty")
	}

	store, err := db.Open(ctx,
		config.StoreConfig{Backend: *backend, SQLitePath: *dbPath},
		config.MongoConfig{URI: *mongoURI, Database: *mongoDB},
	)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close(ctx)

	log := zerolog.New(stderr).Level(zerolog.WarnLevel)
	auth := service.NewAuthService(store.Users, nil, nil, log)

	user, err := auth.Signup(ctx, *username, password)
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return fmt.Errorf("user %s already exists", strings.TrimSpace(*username))
	case err != nil:
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d\n", user.Username, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Pipes and tests.
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
