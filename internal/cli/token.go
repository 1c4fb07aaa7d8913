package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/mindmap-backend/internal/platform/envutil"
	"github.com/yungbote/mindmap-backend/internal/platform/logger"
	"github.com/yungbote/mindmap-backend/internal/services"
)

func tokenCmd() *cobra.Command {
	var (
		user string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token signed with JWT_SECRET_KEY",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := envutil.String("JWT_SECRET_KEY", "")
			if secret == "" {
				return errors.New("JWT_SECRET_KEY is not set")
			}
			userID := uuid.New()
			if user != "" {
				parsed, err := uuid.Parse(user)
				if err != nil {
					return fmt.Errorf("--user: %w", err)
				}
				userID = parsed
			}
			auth := services.NewAuthService(logger.Nop(), services.AuthConfig{
				SecretKey: secret,
				Issuer:    envutil.String("JWT_ISSUER", "mindmap"),
			})
			tok, err := auth.IssueToken(userID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "User id (random when empty)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	return cmd
}
