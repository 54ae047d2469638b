package commands

import (
	"errors"
	"fmt"
	"time"

	"pixbatch/auth"
	"pixbatch/config"

	"github.com/spf13/cobra"
)

// NewTokenCommand creates the token command
func NewTokenCommand() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Args:  cobra.NoArgs,
		Short: "Issue a bearer token signed with PIXBATCH_JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := config.GetJWTSecret()
			if len(secret) == 0 {
				return errors.New("PIXBATCH_JWT_SECRET is not set")
			}
			token, err := auth.CreateToken(auth.NewClaims(config.GetJWTIssuer(), subject, ttl), secret)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "pixbatch-client", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
