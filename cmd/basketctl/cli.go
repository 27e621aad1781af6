package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dukerupert/basket/internal/app"
	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/client"
	"github.com/dukerupert/basket/internal/config"
	"github.com/dukerupert/basket/internal/logging"
)

type cli struct {
	app *app.App
	in  *bufio.Reader
	out io.Writer
	// householdFile remembers the active household between runs.
	householdFile string
}

// run executes one command against the service described by cfg.
func run(ctx context.Context, cfg config.Client, args []string, in io.Reader, out io.Writer) error {
	c, err := client.New(client.Config{BaseURL: cfg.URL, APIKey: cfg.APIKey, SessionFile: cfg.SessionFile})
	if err != nil {
		return err
	}

	cl := &cli{
		in:            bufio.NewReader(in),
		out:           out,
		householdFile: filepath.Join(filepath.Dir(cfg.SessionFile), "household"),
	}
	cl.app = app.New(c,
		app.WithLogger(logging.New(os.Stderr, cfg.LogLevel, "text")),
		app.WithConfirmer(cl.confirm),
	)

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "signup", "signin":
		return cl.signIn(ctx, cmd == "signup", rest)
	}

	if err := cl.restore(ctx); err != nil {
		return err
	}
	switch cmd {
	case "signout":
		return cl.signOut(ctx)
	case "whoami":
		return cl.whoami(ctx)
	case "household":
		return cl.household(ctx, rest)
	case "categories":
		return cl.categories(ctx, rest)
	case "lists":
		return cl.lists(ctx, rest)
	case "list":
		return cl.list(ctx, rest)
	case "item":
		return cl.item(ctx, rest)
	case "search":
		return cl.search(ctx, rest)
	case "history":
		return cl.history(ctx, rest)
	case "spend":
		return cl.spend(ctx)
	}
	return apperr.Validation("basketctl", "unknown command %q", cmd)
}

// restore picks up the saved session and household. Every command other
// than signing in needs one.
func (c *cli) restore(ctx context.Context) error {
	session := c.app.Session()
	ok, err := session.CheckSession(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Auth("basketctl", "not signed in, run basketctl signin <email>")
	}

	saved := c.savedHousehold()
	if saved == "" || saved == session.HouseholdID() {
		return nil
	}
	if err := session.SwitchHousehold(ctx, saved); apperr.Is(err, apperr.KindNotFound) {
		c.saveHousehold("")
		return nil
	} else if err != nil {
		return err
	}
	return nil
}

func (c *cli) savedHousehold() string {
	data, err := os.ReadFile(c.householdFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (c *cli) saveHousehold(id string) {
	var err error
	if id == "" {
		err = os.Remove(c.householdFile)
		if errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
	} else {
		if err = os.MkdirAll(filepath.Dir(c.householdFile), 0o700); err == nil {
			err = os.WriteFile(c.householdFile, []byte(id+"\n"), 0o600)
		}
	}
	if err != nil {
		slog.Warn("save household", "error", err)
	}
}

// confirm asks a yes/no question on the terminal. Anything but y or yes is
// a no.
func (c *cli) confirm(_ context.Context, prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	answer, err := c.in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// readLine prompts for a single line of input.
func (c *cli) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", apperr.Validation("basketctl", "no input")
	}
	return strings.TrimSpace(line), nil
}

func need(args []string, n int, what string) error {
	if len(args) < n {
		return apperr.Validation("basketctl", "missing %s", what)
	}
	return nil
}
