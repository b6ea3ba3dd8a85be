package command

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pinduca/internal/microservices/http-api/repository"
	"pinduca/internal/microservices/http-api/service"
	"pinduca/internal/policy"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user roles",
		Long: `Change a user's role. Tokens carry the role they were issued with, so the
change takes effect the next time the user logs in.`,
	}

	cmd.AddCommand(
		roleSubcommand("promote <email>", "Grant ADMIN to the user with this email", cobra.ExactArgs(1), fixedRole(policy.RoleAdmin)),
		roleSubcommand("demote <email>", "Make the user with this email a regular USER", cobra.ExactArgs(1), fixedRole(policy.RoleUser)),
		roleSubcommand("set-role <email> <USER|ADMIN>", "Set the role of the user with this email", cobra.ExactArgs(2), parseRoleArgs),
	)
	return cmd
}

// roleArgs turns positional arguments into the stored email and the target role.
type roleArgs func(args []string) (email string, role policy.Role, err error)

func fixedRole(role policy.Role) roleArgs {
	return func(args []string) (string, policy.Role, error) {
		return service.NormalizeEmail(args[0]), role, nil
	}
}

func parseRoleArgs(args []string) (string, policy.Role, error) {
	role, err := policy.ParseRole(args[1])
	if err != nil {
		return "", "", err
	}
	return service.NormalizeEmail(args[0]), role, nil
}

func roleSubcommand(use, short string, nargs cobra.PositionalArgs, parse roleArgs) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  nargs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, role, err := parse(args)
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			user, err := repository.NewUserRepository(s.db).UpdateRole(cmd.Context(), email, role)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("no user with email %q", email)
			}
			if err != nil {
				return err
			}

			s.logger.Info("role updated", zap.Int64("user_id", user.ID), zap.String("role", string(role)))
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Email, role)
			return nil
		},
	}
}
