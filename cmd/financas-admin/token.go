package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"financas/internal/auth"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a development access token",
		Long: `Sign a JWT with AUTH_JWT_SECRET so the API can be exercised without the
hosted auth service. Send it as a Bearer token or as the financas_token
cookie.`,
		Args: cobra.NoArgs,
		RunE: runToken,
	}

	cmd.Flags().String("usuario", "", "auth user id (default: a new random UUID)")
	cmd.Flags().String("email", "", "email claim")
	cmd.Flags().Duration("ttl", time.Hour, "token lifetime")

	return cmd
}

func runToken(cmd *cobra.Command, _ []string) error {
	if appCfg.AuthJWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is not set")
	}
	userID, _ := cmd.Flags().GetString("usuario")
	email, _ := cmd.Flags().GetString("email")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	if userID == "" {
		userID = uuid.NewString()
	} else if _, err := uuid.Parse(userID); err != nil {
		return fmt.Errorf("--usuario must be a UUID: %w", err)
	}
	if ttl <= 0 {
		return errors.New("--ttl must be positive")
	}

	token, err := auth.NewVerifier(appCfg.AuthJWTSecret, appCfg.AuthJWTAudience).Sign(userID, email, ttl)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
