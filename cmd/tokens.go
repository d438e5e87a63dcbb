package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/minisharp/internal/compiler"
)

// tokens: dump the scanner output, one token per line
var TokensCmd = &cobra.Command{
	Use:   "tokens <file.msh>",
	Short: "Print the token stream of a MiniSharp source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := compiler.Load(args[0])
		if err != nil {
			return err
		}
		toks, err := compiler.Tokens(src)
		out := cmd.OutOrStdout()
		for _, tok := range toks {
			fmt.Fprintln(out, tok)
		}
		return err
	},
}
