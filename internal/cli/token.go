package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"voc-backend/internal/shared/auth"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator token for the seed and learn endpoints",
		Long: `Mint an HS256 operator token signed with OPERATOR_JWT_SECRET.

Example:
  curl -H "Authorization: Bearer $(vocctl token --sub oncall)" -X POST localhost:8080/api/v1/seed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			signer, err := auth.NewSigner(a.loadConfig().OperatorSecret)
			if err != nil {
				return err
			}
			claims := auth.Claims{Sub: subject}
			if ttl > 0 {
				claims.Exp = time.Now().UTC().Add(ttl).Unix()
			}
			token, err := signer.Sign(claims)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "sub", "vocctl", "operator name recorded in logs")
	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTTL, "token lifetime")
	return cmd
}
