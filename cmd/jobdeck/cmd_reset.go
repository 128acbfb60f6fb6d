package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobdeck/cmd/jobdeck/ui"
	"jobdeck/internal/authapi"
)

var resetEmail string

// resetRequestCmd sends a password-reset email without opening the dashboard
var resetRequestCmd = &cobra.Command{
	Use:   "reset-request",
	Short: "Request a password-reset email for your platform account",
	Long: `Sends a password-reset request to the job platform and reports the
outcome with the same messages the dashboard's account form shows.

Example:
  jobdeck reset-request --email you@example.com`,
	RunE: runResetRequest,
}

func init() {
	resetRequestCmd.Flags().StringVar(&resetEmail, "email", "", "Account email address (required)")
	resetRequestCmd.MarkFlagRequired("email")
}

// runResetRequest validates the address and calls the auth service
func runResetRequest(cmd *cobra.Command, args []string) error {
	email, err := ui.ValidateEmail(resetEmail)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), appCfg.GetPlatformTimeout())
	defer cancel()

	logger.Info("Requesting password reset", zap.String("email", email))

	client := authapi.NewClient(appCfg.Platform.BaseURL, appCfg.GetPlatformTimeout())
	redirectURL := authapi.ResetRedirectURL(appCfg.Platform.BaseURL)
	if err := client.RequestReset(ctx, email, redirectURL); err != nil {
		logger.Warn("Reset request failed", zap.Error(err))
		return errors.New(ui.ClassifyResetError(err))
	}

	fmt.Printf("✓ Reset link sent to %s. Check your inbox.\n", email)
	return nil
}
