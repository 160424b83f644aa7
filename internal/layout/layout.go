// Package layout maps source assets to per-revision output paths.
package layout

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/raitses/stamp/internal/provenance"
)

// Kind is a category of emitted build artifact
type Kind string

const (
	Script Kind = "script"
	Style  Kind = "style"
	Font   Kind = "font"
	Binary Kind = "binary"
	Image  Kind = "image"
)

// Template tokens
const (
	TokenCommit = "[commit]"
	TokenName   = "[name]"
	TokenExt    = "[ext]"
)

// ErrUnknownKind is returned for sources whose extension maps to no kind
var ErrUnknownKind = errors.New("unknown asset kind")

var kindByExt = map[string]Kind{
	".js":   Script,
	".ts":   Script,
	".tsx":  Script,
	".less": Style,
	".css":  Style,
	".ttf":  Font,
	".wasm": Binary,
	".png":  Image,
	".jpg":  Image,
	".jpeg": Image,
	".svg":  Image,
}

// Layout holds one output template per kind
type Layout struct {
	Templates map[Kind]string `yaml:"templates"`
}

// Default returns the stock layout. Everything except images lives under a
// directory named after the commit.
func Default() *Layout {
	return &Layout{
		Templates: map[Kind]string{
			Script: "[commit]/scripts/[name].js",
			Style:  "[commit]/styles/[name].css",
			Font:   "[commit]/fonts/[name][ext]",
			Binary: "[commit]/binaries/[name][ext]",
			Image:  "images/[name][ext]",
		},
	}
}

// Versioned reports whether outputs of kind k must carry the commit
func Versioned(k Kind) bool {
	return k != Image
}

// Kinds returns every known kind in a stable order
func Kinds() []Kind {
	return []Kind{Script, Style, Font, Binary, Image}
}

// KindOf infers the kind from a source file extension
func KindOf(source string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(source))
	k, ok := kindByExt[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, source)
	}
	return k, nil
}

// Load reads template overrides from a YAML file on top of Default.
// A missing file is not an error unless required is set.
func Load(file string, required bool) (*Layout, error) {
	l := Default()

	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return l, nil
		}
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}

	var overrides Layout
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse layout file %s: %w", file, err)
	}
	for k, tmpl := range overrides.Templates {
		l.Templates[k] = tmpl
	}

	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout file %s: %w", file, err)
	}
	return l, nil
}

// Validate checks that every template is usable
func (l *Layout) Validate() error {
	var errs []error
	for _, k := range sortedKinds(l.Templates) {
		tmpl := l.Templates[k]
		if !known(k) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownKind, k))
			continue
		}
		if !strings.Contains(tmpl, TokenName) {
			errs = append(errs, fmt.Errorf("%s template %q lacks %s", k, tmpl, TokenName))
		}
		if Versioned(k) && !strings.Contains(tmpl, TokenCommit) {
			errs = append(errs, fmt.Errorf("%s template %q lacks %s", k, tmpl, TokenCommit))
		}
		if path.IsAbs(tmpl) {
			errs = append(errs, fmt.Errorf("%s template %q must be relative", k, tmpl))
		}
		if escapesRoot(tmpl) {
			errs = append(errs, fmt.Errorf("%s template %q leaves the output directory", k, tmpl))
		}
	}
	return errors.Join(errs...)
}

// Path renders the output path of source for the given commit
func (l *Layout) Path(k Kind, commit provenance.CommitHash, source string) (string, error) {
	tmpl, ok := l.Templates[k]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}

	base := filepath.Base(source)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	out := strings.NewReplacer(
		TokenCommit, commit.String(),
		TokenName, name,
		TokenExt, ext,
	).Replace(tmpl)
	return path.Clean(out), nil
}

// PathFor infers the kind of source and renders its output path
func (l *Layout) PathFor(commit provenance.CommitHash, source string) (string, error) {
	k, err := KindOf(source)
	if err != nil {
		return "", err
	}
	return l.Path(k, commit, source)
}

// escapesRoot reports whether tmpl resolves above the output directory
func escapesRoot(tmpl string) bool {
	cleaned := path.Clean(tmpl)
	return cleaned == ".." || strings.HasPrefix(cleaned, "../")
}

func known(k Kind) bool {
	for _, kk := range Kinds() {
		if kk == k {
			return true
		}
	}
	return false
}

func sortedKinds(m map[Kind]string) []Kind {
	kinds := make([]Kind, 0, len(m))
	for k := range m {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
