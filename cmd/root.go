package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	manifestPath string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "minisharp",
	Short: "MiniSharp CLI — checker, interpreter, and project tool",
	Long: `MiniSharp runs programs written in a small class-based language.

Commands:
  init    Scaffold a new MiniSharp project
  run     Check and execute a (.msh) program
  check   Type-check a program without running it
  ast     Print the checked syntax tree
  tokens  Print the token stream of a source file

Without a file argument, run, check and ast use the program named by the
nearest minisharp.yml.
`,
	SilenceUsage: true,
}

func Execute(ctx context.Context) error {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "", "project manifest (default: nearest minisharp.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress to stderr")

	rootCmd.AddCommand(InitCmd, RunCmd, CheckCmd, ASTCmd, TokensCmd)
}

// progress writes a status line to stderr when --verbose is set.
func progress(cmd *cobra.Command, format string, args ...any) {
	if verbose {
		cmd.PrintErrf(format+"\n", args...)
	}
}
