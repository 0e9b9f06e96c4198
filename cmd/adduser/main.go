// Command adduser creates an account from the command line, prompting
// for the password without echo when stdin is a terminal.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "adduser:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (prompted if omitted)")
	dbPath := fs.String("db", "", "sqlite database path (defaults to DB_PATH)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	_ = godotenv.Load()
	if *dbPath == "" {
		*dbPath = os.Getenv("DB_PATH")
	}
	if *dbPath == "" {
		*dbPath = "./data/fintrack.db"
	}

	pw := *password
	if pw == "" {
		var err error
		pw, err = readPassword(stdin, stdout)
		if err != nil {
			return err
		}
	}

	*name = strings.TrimSpace(*name)
	*email = strings.ToLower(strings.TrimSpace(*email))
	if err := core.ValidateRegistration(*name, *email, pw); err != nil {
		return err
	}

	hash, err := auth.HashPassword(pw)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	repo, err := storage.NewRepository(*dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	user, err := repo.CreateUser(context.Background(), *name, *email, hash)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "created user %d (%s)\n", user.ID, user.Email)
	return nil
}

// readPassword prompts twice without echo on a terminal, or reads one
// line when stdin is a pipe.
func readPassword(stdin io.Reader, stdout io.Writer) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(stdout, "Password: ")
		first, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(stdout)
		if err != nil {
			return "", err
		}
		fmt.Fprint(stdout, "Repeat password: ")
		second, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(stdout)
		if err != nil {
			return "", err
		}
		if string(first) != string(second) {
			return "", fmt.Errorf("passwords do not match")
		}
		return string(first), nil
	}

	scanner := bufio.NewScanner(stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("no password provided")
	}
	return strings.TrimSpace(scanner.Text()), nil
}
