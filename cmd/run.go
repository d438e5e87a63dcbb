package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/minisharp/internal/compiler"
	"github.com/arnavsurve/minisharp/internal/runtime"
)

var (
	runTimeout  time.Duration
	runMaxDepth int
)

// run: check and execute a program
var RunCmd = &cobra.Command{
	Use:   "run [file.msh]",
	Short: "Check and execute a MiniSharp program",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := loadSource(cmd, args)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if runTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, runTimeout)
			defer cancel()
		}

		progress(cmd, "↪ running %s ...", src.Name)
		var opts []runtime.Option
		if runMaxDepth > 0 {
			opts = append(opts, runtime.WithMaxDepth(runMaxDepth))
		}
		if err := compiler.Run(ctx, src, cmd.OutOrStdout(), opts...); err != nil {
			return err
		}
		progress(cmd, "✔︎ %s finished", src.Name)
		return nil
	},
}

func init() {
	RunCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "stop the program after this long (0 means no limit)")
	RunCmd.Flags().IntVar(&runMaxDepth, "max-depth", 0, "maximum call depth (0 means the interpreter default)")
}
