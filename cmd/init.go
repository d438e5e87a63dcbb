package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/minisharp/internal/compiler/types"
	"github.com/arnavsurve/minisharp/internal/manifest"
)

const mainTemplate = `public class %s {
  public static void Main() {
    Console.Write("Hello from %s");
  }
}
`

// init: scaffold a new project
var InitCmd = &cobra.Command{
	Use:   "init <project-name>",
	Short: "Scaffold a new MiniSharp project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		cmd.Printf("↪ scaffolding new project %q ...\n", name)
		return scaffold(name)
	},
}

// scaffold creates dir name holding a manifest and a Main.msh whose class
// is named after the project.
func scaffold(name string) error {
	class, err := className(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(name); err == nil {
		return fmt.Errorf("%s already exists", name)
	}
	if err := os.MkdirAll(name, 0o755); err != nil {
		return err
	}

	m := &manifest.Manifest{Name: name, Version: "0.1.0", Main: "Main.msh"}
	if err := manifest.Write(filepath.Join(name, manifest.FileName), m); err != nil {
		return err
	}
	main := fmt.Sprintf(mainTemplate, class, class)
	return os.WriteFile(filepath.Join(name, m.Main), []byte(main), 0o644)
}

// className turns a project name into an identifier: letters and digits
// are kept, anything else starts a new capitalized word.
func className(name string) (string, error) {
	var out []byte
	upper := true
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case 'a' <= ch && ch <= 'z':
			if upper {
				ch -= 'a' - 'A'
			}
			out = append(out, ch)
			upper = false
		case 'A' <= ch && ch <= 'Z', '0' <= ch && ch <= '9' && len(out) > 0:
			out = append(out, ch)
			upper = false
		default:
			upper = true
		}
	}
	if len(out) == 0 {
		return "", fmt.Errorf("project name %q has no letters", name)
	}
	if string(out) == types.ConsoleClass {
		out = append(out, "App"...)
	}
	return string(out), nil
}
