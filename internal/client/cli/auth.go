package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/gophtodo/internal/client/storage"
	"github.com/iudanet/gophtodo/internal/validation"
)

func (c *Cli) registerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register [USERNAME]",
		Short: "Register new user",
		Long: "Creates an account on the server. The password is read from the\n" +
			"interactive prompt or from stdin when it is not a terminal.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRegister(cmd.Context(), args)
		},
	}
}

func (c *Cli) loginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login [USERNAME]",
		Short: "Login to server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLogin(cmd.Context(), args)
		},
	}
}

func (c *Cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout from server",
		Long:  "Ends the session on the server. The local session is deleted even if the server is unreachable.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runLogout(cmd.Context())
		},
	}
}

func (c *Cli) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runWhoami(cmd.Context())
		},
	}
}

func (c *Cli) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server and authentication status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runStatus(cmd.Context())
		},
	}
}

func (c *Cli) runRegister(ctx context.Context, args []string) error {
	c.io.Println("=== Registration ===")

	username, err := c.readUsername(args)
	if err != nil {
		return err
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if confirm != password {
		return errors.New("passwords do not match")
	}

	user, err := c.api.Register(ctx, username, password)
	if err != nil {
		return err
	}

	c.io.Printf("✓ User %s registered (id %s)\n", user.Username, user.ID)
	c.io.Println("Run 'gophtodo login' to start a session.")
	return nil
}

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	c.io.Println("=== Login ===")

	username, err := c.readUsername(args)
	if err != nil {
		return err
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	user, err := c.api.Login(ctx, username, password)
	if err != nil {
		return err
	}

	sessionID := c.api.SessionID()
	if sessionID == "" {
		return errors.New("server did not return a session cookie")
	}

	err = c.sessions.SaveSession(ctx, &storage.SessionData{
		ServerURL: c.cfg.ServerURL,
		Username:  user.Username,
		UserID:    user.ID,
		SessionID: sessionID,
		SavedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.io.Printf("✓ Logged in as %s\n", user.Username)
	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	c.io.Println("=== Logout ===")

	var serverErr error
	if c.api.SessionID() != "" {
		serverErr = c.api.Logout(ctx)
	}

	// Локальная сессия удаляется в любом случае
	if err := c.sessions.DeleteSession(ctx, c.cfg.ServerURL); err != nil {
		return fmt.Errorf("failed to delete local session: %w", err)
	}

	if serverErr != nil {
		c.io.Printf("Warning: server logout failed: %v\n", serverErr)
	}

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")
	return nil
}

func (c *Cli) runWhoami(ctx context.Context) error {
	user, err := c.api.Me(ctx)
	if err != nil {
		return err
	}

	if user == nil {
		c.io.Println("Not logged in.")
		return c.dropStaleSession(ctx)
	}

	c.io.Printf("%s (id %s)\n", user.Username, user.ID)
	return nil
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")

	health, err := c.api.Health(ctx)
	if err != nil {
		c.io.Printf("Server: %s (unreachable: %v)\n", c.cfg.ServerURL, err)
		return nil
	}
	c.io.Printf("Server: %s (%s, version %s)\n", c.cfg.ServerURL, health.Status, health.Version)

	user, err := c.api.Me(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		c.io.Println("Status: Not authenticated")
		c.io.Println("Run 'gophtodo login' to authenticate.")
		return c.dropStaleSession(ctx)
	}

	c.io.Println("Status: Authenticated")
	c.io.Printf("Username: %s\n", user.Username)
	return nil
}

// dropStaleSession удаляет сохраненную сессию, которую сервер уже не признает
func (c *Cli) dropStaleSession(ctx context.Context) error {
	if c.api.SessionID() == "" {
		return nil
	}
	if err := c.sessions.DeleteSession(ctx, c.cfg.ServerURL); err != nil {
		return fmt.Errorf("failed to delete local session: %w", err)
	}
	c.io.Println("Stored session has expired and was removed.")
	return nil
}

func (c *Cli) readUsername(args []string) (string, error) {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		input, err := c.io.ReadInput("Username: ")
		if err != nil {
			return "", fmt.Errorf("failed to read username: %w", err)
		}
		username = input
	}

	username = strings.TrimSpace(username)
	if err := validation.ValidateUsername(username); err != nil {
		return "", fmt.Errorf("invalid username: %w", err)
	}
	return username, nil
}
