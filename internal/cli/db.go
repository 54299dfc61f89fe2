package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VladmirB/sigmah/internal/store"
)

// NewDBCommand creates the db command group.
func NewDBCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the site database",
	}
	cmd.AddCommand(newDBInitCommand(root))
	cmd.AddCommand(newDBSeedCommand(root))
	return cmd
}

type dbResult struct {
	Path     string `json:"path"`
	Driver   string `json:"driver"`
	Seeded   string `json:"seeded,omitempty"`
	Sites    int    `json:"sites,omitempty"`
	Users    int    `json:"users,omitempty"`
	Partners int    `json:"partners,omitempty"`
}

func (r dbResult) renderText(s styles) string {
	if r.Seeded == "" {
		return fmt.Sprintf("%s initialized %s", symbolPass, s.accent(r.Path))
	}
	return fmt.Sprintf("%s seeded %s from %s %s", symbolPass, s.accent(r.Path), r.Seeded,
		s.muted(fmt.Sprintf("(%d users, %d partners, %d sites)", r.Users, r.Partners, r.Sites)))
}

func newDBInitCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and apply the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := root.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			return root.formatter(cmd).Success(dbResult{Path: root.storePath(), Driver: st.Driver()})
		},
	}
}

func newDBSeedCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Load a YAML fixture into the database",
		Long: "Load a YAML fixture into the database in one transaction. " +
			"Rows with ids already present are replaced.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fixture, err := store.LoadFixtureFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load fixture", err)
			}

			st, err := root.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Seed(cmd.Context(), fixture); err != nil {
				return WrapExitError(ExitFailure, "failed to seed database", err)
			}

			return root.formatter(cmd).Success(dbResult{
				Path:     root.storePath(),
				Driver:   st.Driver(),
				Seeded:   args[0],
				Sites:    len(fixture.Sites),
				Users:    len(fixture.Users),
				Partners: len(fixture.Partners),
			})
		},
	}
}
