// Package buildinfo turns a resolved commit hash into the constants compiled
// into a build.
package buildinfo

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/raitses/stamp/internal/provenance"
)

// Constant names
const (
	KeyVersion = "VERSION"
	KeyCommit  = "COMMIT_HASH"
)

// DefaultPackage receives the linker flags generated by LDFlags
const DefaultPackage = "github.com/raitses/stamp/pkg/version"

// Supported output formats
const (
	FormatEnv  = "env"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Info is the build metadata for a single build invocation
type Info struct {
	Version string
	Commit  provenance.CommitHash
	Extra   map[string]string
}

// Constant is a single named build constant
type Constant struct {
	Key   string
	Value string
}

// New creates the build metadata for a resolved commit
func New(version string, commit provenance.CommitHash) *Info {
	return &Info{Version: version, Commit: commit, Extra: map[string]string{}}
}

// Set adds an extra constant. VERSION and COMMIT_HASH cannot be overridden.
func (i *Info) Set(key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("constant name must not be empty")
	}
	if key == KeyVersion || key == KeyCommit {
		return fmt.Errorf("constant %s is derived and cannot be set", key)
	}
	if i.Extra == nil {
		i.Extra = map[string]string{}
	}
	i.Extra[key] = value
	return nil
}

// Constants returns VERSION and COMMIT_HASH followed by extras sorted by key
func (i *Info) Constants() []Constant {
	out := []Constant{
		{Key: KeyVersion, Value: i.Version},
		{Key: KeyCommit, Value: i.Commit.String()},
	}
	keys := make([]string, 0, len(i.Extra))
	for k := range i.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, Constant{Key: k, Value: i.Extra[k]})
	}
	return out
}

// Encode writes the constants in the given format
func (i *Info) Encode(w io.Writer, format string) error {
	switch format {
	case FormatEnv:
		for _, c := range i.Constants() {
			if _, err := fmt.Fprintf(w, "%s=%s\n", c.Key, c.Value); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(i.asMap())
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(i.asNode()); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (supported: %s, %s, %s)", format, FormatEnv, FormatJSON, FormatYAML)
	}
}

// LDFlags renders -X flags setting Version and Commit in pkg
func (i *Info) LDFlags(pkg string) string {
	if pkg == "" {
		pkg = DefaultPackage
	}
	flags := []string{
		fmt.Sprintf("-X %s.Commit=%s", pkg, i.Commit),
	}
	if i.Version != "" {
		flags = append([]string{fmt.Sprintf("-X %s.Version=%s", pkg, i.Version)}, flags...)
	}
	return strings.Join(flags, " ")
}

func (i *Info) asMap() map[string]string {
	m := make(map[string]string, len(i.Extra)+2)
	for _, c := range i.Constants() {
		m[c.Key] = c.Value
	}
	return m
}

// asNode keeps the Constants order in YAML output
func (i *Info) asNode() *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range i.Constants() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: c.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: c.Value, Style: yaml.DoubleQuotedStyle},
		)
	}
	return node
}
