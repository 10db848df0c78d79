package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/faciam-dev/gridbase/internal/config"
	"github.com/faciam-dev/gridbase/internal/domain"
	"github.com/faciam-dev/gridbase/internal/rbac"
	mongorepo "github.com/faciam-dev/gridbase/internal/repository/mongo"
)

// newSeedCmd creates the groups a fresh installation needs: Administrators
// with every permission and Default with read access for self-registered
// accounts.
func newSeedCmd() *cobra.Command {
	var uri, dbName string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the default user groups and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			cli, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
			if err != nil {
				return err
			}
			defer func() { _ = cli.Disconnect(context.Background()) }()
			repos := mongorepo.New(cli.Database(dbName))
			if err := repos.EnsureIndexes(ctx); err != nil {
				return err
			}

			existing, err := repos.Groups.ListAll(ctx)
			if err != nil {
				return err
			}
			have := map[string]bool{}
			for _, g := range existing {
				have[g.Name] = true
			}

			groups := []domain.UserGroup{
				{Name: "Administrators", Permissions: rbac.All()},
				{Name: "Default", Permissions: []string{
					rbac.PermListTables, rbac.PermReadTable,
					rbac.PermListFields, rbac.PermReadField,
					rbac.PermListRows, rbac.PermReadRow, rbac.PermReactRow,
					rbac.PermListMenus, rbac.PermReadMenu,
					rbac.PermReadSetting,
				}},
			}
			for i := range groups {
				g := groups[i]
				if have[g.Name] {
					fmt.Fprintf(cmd.OutOrStdout(), "group %q already exists, skipping\n", g.Name)
					continue
				}
				if err := repos.Groups.Create(ctx, &g); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created group %q (%s)\n", g.Name, g.ID.Hex())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&uri, "db", config.GetEnv("DATABASE_URL", "mongodb://localhost:27017"), "MongoDB connection URI")
	cmd.Flags().StringVar(&dbName, "db-name", config.GetEnv("DB_NAME", "gridbase"), "database name")
	return cmd
}
