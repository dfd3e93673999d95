package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/dsablic/healthlog/internal/auth"
	"github.com/dsablic/healthlog/internal/backend"
	"github.com/dsablic/healthlog/internal/ui"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the backend session",
	}

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the backend and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthLogin(cmd, a)
		},
	}
	loginCmd.Flags().String("email", "", "Account email")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.creds.Delete(a.cfg.Profile); err != nil {
				return fmt.Errorf("delete credentials: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Logged out of profile %s.\n", a.cfg.Profile)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Check the stored session against the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			sess, err := c.Session(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Logged in as %s (profile %s)\n", sess.Email, a.cfg.Profile)
			return nil
		},
	}

	cmd.AddCommand(loginCmd, logoutCmd, statusCmd)
	return cmd
}

func runAuthLogin(cmd *cobra.Command, a *app) error {
	email, _ := cmd.Flags().GetString("email")
	password := os.Getenv("HEALTHLOG_PASSWORD")

	if email == "" || password == "" {
		if !ui.IsInputTTY() {
			return fmt.Errorf("pass --email and set HEALTHLOG_PASSWORD when not running in a terminal")
		}
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Email").Value(&email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
		))
		if err := form.RunWithContext(cmd.Context()); err != nil {
			return err
		}
	}
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return fmt.Errorf("email and password are required")
	}

	res, err := backend.New(a.cfg.BackendURL, "", a.cfg.RequestsPerSecond).Login(cmd.Context(), email, password)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	cred := auth.Credentials{
		AccessToken:  res.Token,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    res.ExpiresAt,
		Email:        res.User.Email,
		UserID:       res.User.ID,
	}
	if err := a.creds.Save(a.cfg.Profile, cred); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Logged in as %s (profile %s).\n", cred.Email, a.cfg.Profile)
	return nil
}
