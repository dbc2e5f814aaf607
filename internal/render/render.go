// Package render substitutes resolved values into manifest templates and
// produces concrete manifests in cluster apply order.
package render

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/k8s-cicd/deployctl/internal/values"
)

// TemplateSuffix marks files in a template directory that are rendered.
// Files without the suffix are copied through verbatim.
const TemplateSuffix = ".tmpl"

// Template is a single named manifest template.
type Template struct {
	// Name is the logical manifest name, used as the output file name.
	Name string
	// Body is the raw template content.
	Body []byte
	// Raw marks a file that is copied through without substitution.
	Raw bool
}

// Manifest is a rendered manifest document ready to be applied.
type Manifest struct {
	// Name is the logical manifest name.
	Name string
	// Path is the output file location, set once the manifest is written.
	Path string
	// Body is the rendered content.
	Body []byte
}

// placeholderPattern matches {{NAME}} placeholders, with optional inner spaces.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Renderer renders manifest templates and writes them to an output directory.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer constructs a Renderer with the given logger.
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger}
}

// Render substitutes every placeholder in the template with the corresponding
// Set entry. It fails fast with a MissingVariableError when a placeholder has
// no value; no partial output is produced.
func Render(tmpl Template, vals values.Set) ([]byte, error) {
	if tmpl.Raw {
		return append([]byte(nil), tmpl.Body...), nil
	}

	body := string(tmpl.Body)
	for _, match := range placeholderPattern.FindAllStringSubmatch(body, -1) {
		name := match[1]
		if _, ok := vals[name]; !ok {
			return nil, &MissingVariableError{Template: tmpl.Name, Variable: name}
		}
	}

	out := placeholderPattern.ReplaceAllStringFunc(body, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		return vals[name]
	})
	return []byte(out), nil
}

// RenderAll renders every template in order, sorts the results into cluster
// apply order, and writes one file per manifest under outDir. The directory
// is created when absent and pre-existing files are overwritten, so rendering
// the same inputs twice yields byte-identical output.
func (r *Renderer) RenderAll(templates []Template, vals values.Set, outDir string) ([]Manifest, error) {
	manifests := make([]Manifest, 0, len(templates))
	for _, tmpl := range templates {
		body, err := Render(tmpl, vals)
		if err != nil {
			return nil, fmt.Errorf("render template %q: %w", tmpl.Name, err)
		}
		manifests = append(manifests, Manifest{Name: tmpl.Name, Body: body})
	}

	SortManifests(manifests)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %q: %w", outDir, err)
	}
	for i := range manifests {
		path := filepath.Join(outDir, manifests[i].Name)
		if err := os.WriteFile(path, manifests[i].Body, 0o644); err != nil {
			return nil, fmt.Errorf("write manifest %q: %w", path, err)
		}
		manifests[i].Path = path
		r.logger.Debug("rendered manifest", "name", manifests[i].Name, "path", path)
	}

	return manifests, nil
}

// LoadDir reads a template directory in lexical order. Files ending in
// TemplateSuffix become templates named without the suffix; other files are
// loaded as raw copy-through templates. Subdirectories are skipped.
func LoadDir(dir string) ([]Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read template directory %q: %w", dir, err)
	}

	var templates []Template
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		body, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read template %q: %w", entry.Name(), err)
		}
		name := entry.Name()
		raw := true
		if strings.HasSuffix(name, TemplateSuffix) {
			name = strings.TrimSuffix(name, TemplateSuffix)
			raw = false
		}
		templates = append(templates, Template{Name: name, Body: body, Raw: raw})
	}

	if len(templates) == 0 {
		return nil, fmt.Errorf("template directory %q contains no templates", dir)
	}
	return templates, nil
}
