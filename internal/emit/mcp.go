package emit

import (
	"log/slog"

	"git.home.luguber.info/inful/docsplit/internal/frontmatter"
	"git.home.luguber.info/inful/docsplit/internal/logfields"
	"git.home.luguber.info/inful/docsplit/internal/source"
)

// RulesFileName is the synthesized usage-instructions artifact emitted into
// the MCP output tree. Its content is static, not derived from source files.
const RulesFileName = "markdown-rules.md"

const rulesContent = `# Markdown source conventions

These rules apply to everyone editing the documentation source tree.

## Layout

- ` + "`shared/`" + ` holds documents published to both the GitBook site and the
  MCP context set.
- ` + "`gitbook-only/`" + ` holds documents that only appear on the published site.
- ` + "`mcp-only/`" + ` holds documents that only feed the MCP context set.
- Keep files directly inside their category directory; nested directories are
  not picked up.

## Authoring

- Do not add frontmatter headers to source files. Metadata for the MCP target
  is attached at build time from the template configuration.
- Start every document with a single top-level heading; it doubles as the
  navigation title when the publishing manifest omits one.
- Reference sibling documents by bare filename (for example
  ` + "`architecture.md`" + `), never by output path.

## Publishing

- New GitBook pages must also be added to the publishing manifest; files
  without a manifest entry are not published.
- MCP metadata lives in the template map keyed by
  ` + "`<category>/<filename>`" + `; files without an entry receive the default
  record.
`

// MCPEmitter produces the machine-context output tree: every document from
// the shared and mcp-only categories, each with its resolved metadata header,
// plus the static usage-instructions artifact.
type MCPEmitter struct {
	resolver *frontmatter.Resolver
	outDir   string
}

// NewMCPEmitter creates the metadata-target emitter.
func NewMCPEmitter(resolver *frontmatter.Resolver, outDir string) *MCPEmitter {
	return &MCPEmitter{resolver: resolver, outDir: outDir}
}

// Emit runs a full clear-then-write pass over the MCP output tree. Files are
// processed in directory enumeration order; no manifest is involved.
func (e *MCPEmitter) Emit(set *source.Set) (*Result, error) {
	if err := resetDir(e.outDir); err != nil {
		return nil, err
	}

	res := &Result{}
	seen := make(map[string]source.Category)
	for _, cat := range []source.Category{source.CategoryShared, source.CategoryMCPOnly} {
		for _, file := range set.Category(cat) {
			if prev, dup := seen[file.RelPath]; dup {
				res.warnf("file %q exists in both %q and %q; the %q copy overwrites the other", file.RelPath, prev, cat, cat)
				slog.Warn("Duplicate filename across source categories",
					logfields.File(file.RelPath),
					logfields.Category(string(cat)))
			}
			seen[file.RelPath] = cat

			if frontmatter.HasHeader(file.Content) {
				res.warnf("source file %s already carries a frontmatter header", file.Key())
				slog.Warn("Source file already has a frontmatter header",
					logfields.File(file.RelPath),
					logfields.Category(string(cat)))
			}

			meta := e.resolver.Resolve(cat, file.RelPath)
			out, err := frontmatter.Compose(meta, file.Content)
			if err != nil {
				return nil, err
			}
			if err := writeFile(e.outDir, file.RelPath, out); err != nil {
				return nil, err
			}
			res.Written++
		}
	}

	if err := writeFile(e.outDir, RulesFileName, []byte(rulesContent)); err != nil {
		return nil, err
	}
	res.Written++

	slog.Info("MCP target emitted",
		logfields.Target("mcp"),
		logfields.Path(e.outDir),
		slog.Int("files", res.Written),
		slog.Int("warnings", len(res.Warnings)))
	return res, nil
}
