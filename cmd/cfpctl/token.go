package main

import (
	"fmt"

	"cfp-engine/internal/auth"
	"cfp-engine/pkg/validator"

	"github.com/spf13/cobra"
)

var (
	tokenKind  string
	tokenEmail string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Bearer token helpers",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a bearer token for local testing",
	Long: `token signs a JWT with the configured secret. The principal must
already exist for the API to accept it: speakers are created on first
request, reviewers and admins must be invited and activated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !auth.ValidKind(tokenKind) {
			return fmt.Errorf("invalid kind %q (speaker, reviewer, admin)", tokenKind)
		}
		email := validator.SanitizeEmail(tokenEmail)
		if email == "" {
			return fmt.Errorf("--email is required")
		}

		token, err := auth.NewService(&settings.JWT).GenerateToken(tokenKind, email)
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenIssueCmd.Flags().StringVar(&tokenKind, "kind", auth.KindSpeaker, "Principal kind (speaker, reviewer, admin)")
	tokenIssueCmd.Flags().StringVar(&tokenEmail, "email", "", "Principal email")

	tokenCmd.AddCommand(tokenIssueCmd)
}
