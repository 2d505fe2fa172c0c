package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hotelhub/service-booking/internal/common/auth"
	"github.com/hotelhub/service-booking/internal/config"
	"github.com/hotelhub/service-booking/internal/domain/staff"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Work with staff access tokens",
	}
	cmd.AddCommand(tokenIssueCmd(nil))
	return cmd
}

// tokenIssueCmd signs an access token. When jwtManager is nil the secret is
// read from the service configuration.
func tokenIssueCmd(jwtManager *auth.JWTManager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue an access token for a staff member",
		RunE: func(cmd *cobra.Command, args []string) error {
			rawRole, _ := cmd.Flags().GetString("role")
			email, _ := cmd.Flags().GetString("email")
			rawUserID, _ := cmd.Flags().GetString("user-id")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			role := staff.Role(rawRole)
			if !role.IsValid() {
				return fmt.Errorf("unknown role %q (expected one of %v)", rawRole, staff.AllRoles())
			}

			userID := uuid.New()
			if rawUserID != "" {
				parsed, err := uuid.Parse(rawUserID)
				if err != nil {
					return fmt.Errorf("invalid --user-id: %w", err)
				}
				userID = parsed
			}

			manager := jwtManager
			if manager == nil {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				manager = auth.NewJWTManager(cfg.JWTConfig.Secret, ttl, ttl)
			}

			token, err := manager.GenerateAccessToken(userID, email, string(role))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().String("role", string(staff.RoleReceptionist), "staff role: admin, manager, staff or receptionist")
	cmd.Flags().String("email", "", "email claim")
	cmd.Flags().String("user-id", "", "user ID claim (random when empty)")
	cmd.Flags().Duration("ttl", 8*time.Hour, "token lifetime")
	return cmd
}
