package cmd

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/minisharp/internal/compiler"
	"github.com/arnavsurve/minisharp/internal/fetch"
	"github.com/arnavsurve/minisharp/internal/manifest"
)

// loadSource reads the program named on the command line, or else the one
// the project manifest points at.
func loadSource(cmd *cobra.Command, args []string) (compiler.Source, error) {
	if len(args) > 0 {
		progress(cmd, "↪ reading %s ...", args[0])
		return compiler.Load(args[0])
	}

	m, err := loadManifest(cmd)
	if err != nil {
		return compiler.Source{}, err
	}
	if m.Remote == nil {
		progress(cmd, "↪ reading %s ...", m.MainPath())
		return compiler.Load(m.MainPath())
	}

	r := m.Remote
	if path.Ext(r.Path) != compiler.Extension {
		return compiler.Source{}, fmt.Errorf("remote source must have %s extension", compiler.Extension)
	}
	progress(cmd, "↪ fetching %s from %s ...", r.Path, r.URL)
	text, err := fetch.Source(cmd.Context(), fetch.Remote{
		URL:    r.URL,
		Branch: r.Branch,
		Tag:    r.Tag,
		Rev:    r.Rev,
		Path:   r.Path,
	})
	if err != nil {
		return compiler.Source{}, err
	}
	return compiler.Source{Name: r.URL + "/" + r.Path, Text: text}, nil
}

func loadManifest(cmd *cobra.Command) (*manifest.Manifest, error) {
	p := manifestPath
	if p == "" {
		found, err := manifest.Find(".")
		if err != nil {
			return nil, fmt.Errorf("no source file given: %w", err)
		}
		p = found
	}
	progress(cmd, "↪ using manifest %s", p)
	return manifest.Load(p)
}
