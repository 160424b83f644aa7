package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raitses/stamp/internal/buildinfo"
	"github.com/raitses/stamp/pkg/version"
)

func newInfoCommand(a *app) *cobra.Command {
	var (
		format string
		sets   []string
	)

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print the build constants derived from the commit hash",
		Example: `  stamp info --format env --set DEBUG=false
  VERSION=5.0.0
  COMMIT_HASH=3f2a9c1
  DEBUG=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := buildinfo.New(a.cfg.Version, a.resolve())
			for _, kv := range sets {
				key, value, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("--set %q: expected KEY=VALUE", kv)
				}
				if err := info.Set(key, value); err != nil {
					return err
				}
			}
			return info.Encode(cmd.OutOrStdout(), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", buildinfo.FormatEnv, "output format (env, json, yaml)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "extra constant as KEY=VALUE (repeatable)")
	return cmd
}

func newLDFlagsCommand(a *app) *cobra.Command {
	var pkg string

	cmd := &cobra.Command{
		Use:     "ldflags",
		Short:   "Print -ldflags that compile the commit hash into a Go binary",
		Example: `  go build -ldflags "$(stamp ldflags)" ./cmd/app`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := buildinfo.New(a.cfg.Version, a.resolve())
			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.LDFlags(pkg))
			return err
		},
	}

	cmd.Flags().StringVar(&pkg, "package", buildinfo.DefaultPackage, "import path of the package holding Version and Commit")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of stamp itself",
		Args:  cobra.NoArgs,
		// the version command needs no configuration
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "stamp version %s\n", version.String())
			return err
		},
	}
}
