package commands

import (
	"encoding/json"
	"fmt"

	"github.com/satishbabariya/hdbwrap/internal/adapters/database"
	"github.com/satishbabariya/hdbwrap/internal/queryfile"
	"github.com/satishbabariya/hdbwrap/internal/ui"
	"github.com/satishbabariya/hdbwrap/query/sqlgen"
	"github.com/spf13/cobra"
)

type compiled struct {
	SQL   string  `json:"sql"`
	Args  []any   `json:"args,omitempty"`
	Batch [][]any `json:"batch,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	var (
		dialect string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "compile <query-file>",
		Short: "Print the SQL of a query file",
		Long:  "Compile a query file into parameterized SQL and print the statement with its parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := queryfile.ReadFile(args[0])
			if err != nil {
				return err
			}
			q, err := doc.Compile()
			if err != nil {
				return err
			}

			if dialect != "" {
				d, err := database.Dialect(dialect, "")
				if err != nil {
					return err
				}
				if d == database.PostgreSQL {
					q.SQL = sqlgen.Rebind(q.SQL, sqlgen.Dollar)
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(compiled{SQL: q.SQL, Args: q.Args, Batch: q.Batch})
			}
			ui.PrintQuery(q)
			return nil
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", "", fmt.Sprintf("Placeholder style of a dialect (%s, %s, %s)", database.SQLite, database.PostgreSQL, database.MySQL))
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}
