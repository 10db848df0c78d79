// Package usercmd holds the tablectl user subcommands.
package usercmd

import (
	"context"
	"fmt"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/term"

	"github.com/faciam-dev/gridbase/internal/config"
	mongorepo "github.com/faciam-dev/gridbase/internal/repository/mongo"
)

// DBFlags are the connection flags shared by the user subcommands.
type DBFlags struct {
	URI    string
	DBName string
}

// AddFlags registers the connection flags on cmd.
func (f *DBFlags) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.URI, "db", config.GetEnv("DATABASE_URL", "mongodb://localhost:27017"), "MongoDB connection URI")
	cmd.Flags().StringVar(&f.DBName, "db-name", config.GetEnv("DB_NAME", "gridbase"), "database name")
}

// Connect opens the repositories; the returned close func disconnects.
func (f *DBFlags) Connect(ctx context.Context) (*mongorepo.Repos, func(), error) {
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	cli, err := mongo.Connect(cctx, options.Client().ApplyURI(f.URI))
	if err != nil {
		return nil, nil, err
	}
	repos := mongorepo.New(cli.Database(f.DBName))
	return repos, func() { _ = cli.Disconnect(context.Background()) }, nil
}

func promptSecret(label string) string {
	fmt.Printf("%s: ", label)
	b, _ := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	return strings.TrimSpace(string(b))
}
