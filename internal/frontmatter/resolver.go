package frontmatter

import (
	"git.home.luguber.info/inful/docsplit/internal/config"
	"git.home.luguber.info/inful/docsplit/internal/source"
)

// Resolver maps a classified source file to its metadata record. Lookup is by
// "<category>/<filename>"; files without a template entry receive the
// configured default record.
type Resolver struct {
	templates map[string]map[string]any
	def       map[string]any
}

// NewResolver creates a resolver over the metadata-template document.
func NewResolver(cfg *config.MCPConfig) *Resolver {
	return &Resolver{
		templates: cfg.FrontmatterTemplates,
		def:       cfg.DefaultFrontmatter,
	}
}

// Resolve returns the metadata record for a file. The returned map is a copy;
// the template document is never mutated during a build.
func (r *Resolver) Resolve(category source.Category, filename string) map[string]any {
	key := string(category) + "/" + filename
	if tmpl, ok := r.templates[key]; ok {
		return copyRecord(tmpl)
	}
	return copyRecord(r.def)
}

func copyRecord(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
