package usercmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/faciam-dev/gridbase/internal/domain"
)

// NewCreateCmd creates the user create subcommand.
func NewCreateCmd() *cobra.Command {
	var flags DBFlags
	var name, email, password, group string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || email == "" {
				return fmt.Errorf("--name and --email are required")
			}
			if password == "" {
				password = promptSecret("Password")
			}
			if password == "" {
				return fmt.Errorf("password must not be empty")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
			if err != nil {
				return err
			}
			u := &domain.User{Name: name, Email: email, PasswordHash: string(hash)}
			if group != "" {
				gid, err := primitive.ObjectIDFromHex(group)
				if err != nil {
					return fmt.Errorf("--group must be a group id: %w", err)
				}
				u.Group = gid
			}

			repos, closeFn, err := flags.Connect(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			if err := repos.Users.Create(cmd.Context(), u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", u.Email, u.ID.Hex())
			return nil
		},
	}
	flags.AddFlags(cmd)
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&group, "group", "", "user group id")
	cobra.CheckErr(cmd.MarkFlagRequired("name"))
	cobra.CheckErr(cmd.MarkFlagRequired("email"))
	return cmd
}
