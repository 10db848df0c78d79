package usercmd

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	mongorepo "github.com/faciam-dev/gridbase/internal/repository/mongo"
)

// NewListCmd creates the user list subcommand.
func NewListCmd() *cobra.Command {
	var flags DBFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, closeFn, err := flags.Connect(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			users, _, err := repos.Users.List(cmd.Context(), mongorepo.Page{PerPage: 500})
			if err != nil {
				return err
			}
			tw := tablewriter.NewWriter(os.Stdout)
			tw.SetHeader([]string{"ID", "Name", "Email", "Group"})
			for _, u := range users {
				group := ""
				if !u.Group.IsZero() {
					group = u.Group.Hex()
				}
				tw.Append([]string{u.ID.Hex(), u.Name, u.Email, group})
			}
			tw.Render()
			return nil
		},
	}
	flags.AddFlags(cmd)
	return cmd
}
