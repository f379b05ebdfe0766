package main

import (
	"context"
	"fmt"
	"time"

	"modulith/internal/config"
	"modulith/pkg/auth"
	"modulith/pkg/domain"
	"modulith/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// JWTCommand constructs the 'jwt' subcommand that generates a signed access
// token for a given user ID using the configured signing secret.
func JWTCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jwt",
		Short: "Generates an access token for the given user ID",
		Run: func(cmd *cobra.Command, _ []string) {
			ctx := context.Background()
			subject, _ := cmd.Flags().GetString("subject")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			userID, err := domain.ParseUserID(subject)
			if err != nil {
				logger.Fatal(ctx, "invalid subject, expected a user UUID", zap.Error(err))
			}

			tokens, err := auth.NewTokenManager(auth.TokenManagerOptions{
				Secret:     cfg.JWT.Secret,
				Issuer:     cfg.JWT.Issuer,
				AccessTTL:  ttl,
				RefreshTTL: cfg.JWT.RefreshTokenTTL,
			})
			if err != nil {
				logger.Fatal(ctx, "could not create token manager", zap.Error(err))
			}

			signed, err := tokens.IssueAccess(userID)
			if err != nil {
				logger.Fatal(ctx, "could not sign JWT", zap.Error(err))
			}

			fmt.Println(signed) //nolint: forbidigo
		},
	}

	cmd.Flags().String("subject", "", "JWT subject (user ID)")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Token TTL (e.g., 30s, 15m, 1h)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

// JWTSecretCommand constructs the 'auth-jwt-secret' subcommand that prints a
// freshly generated signing secret for the JWT_SECRET_KEY setting.
func JWTSecretCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "auth-jwt-secret",
		Short: "Generates a random JWT signing secret",
		Run: func(_ *cobra.Command, _ []string) {
			secret, err := auth.GenerateSecret()
			if err != nil {
				logger.Fatal(context.Background(), "could not generate secret", zap.Error(err))
			}

			fmt.Println(secret) //nolint: forbidigo
		},
	}
}
