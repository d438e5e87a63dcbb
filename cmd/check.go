package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/minisharp/internal/compiler"
	"github.com/arnavsurve/minisharp/internal/compiler/ast"
)

// check: parse and type-check only
var CheckCmd = &cobra.Command{
	Use:   "check [file.msh]",
	Short: "Type-check a MiniSharp program without running it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := loadSource(cmd, args)
		if err != nil {
			return err
		}
		prog, err := compiler.Check(src)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✔︎ %s: %d classes\n", src.Name, len(prog.Classes))
		return nil
	},
}

// ast: print the checked tree
var ASTCmd = &cobra.Command{
	Use:   "ast [file.msh]",
	Short: "Print the syntax tree of a checked program",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := loadSource(cmd, args)
		if err != nil {
			return err
		}
		prog, err := compiler.Check(src)
		if err != nil {
			return err
		}
		return ast.Fprint(cmd.OutOrStdout(), prog)
	},
}
