package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPathsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "paths FILE...",
		Short: "Print the versioned output path of each source file",
		Example: `  stamp paths src/index.js src/styles/main.less fonts/Inter.ttf
  src/index.js -> 3f2a9c1/scripts/index.js
  src/styles/main.less -> 3f2a9c1/styles/main.css
  fonts/Inter.ttf -> 3f2a9c1/fonts/Inter.ttf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.layout()
			if err != nil {
				return err
			}
			hash := a.resolve()
			for _, source := range args {
				out, err := l.PathFor(hash, source)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", source, out); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
