package emit

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docsplit/internal/config"
	"git.home.luguber.info/inful/docsplit/internal/logfields"
	"git.home.luguber.info/inful/docsplit/internal/markdown"
	"git.home.luguber.info/inful/docsplit/internal/source"
)

// GitBookEmitter produces the publishing output tree: one verbatim copy per
// manifest entry (no metadata header) plus synthesized README.md and
// SUMMARY.md mirroring the manifest order.
type GitBookEmitter struct {
	cfg    *config.GitBookConfig
	outDir string
}

// NewGitBookEmitter creates the publishing emitter.
func NewGitBookEmitter(cfg *config.GitBookConfig, outDir string) *GitBookEmitter {
	return &GitBookEmitter{cfg: cfg, outDir: outDir}
}

// Emit runs a full clear-then-write pass over the publishing output tree.
// Manifest entries with no matching source file are skipped with a warning;
// README.md and SUMMARY.md still list every manifest entry.
func (e *GitBookEmitter) Emit(set *source.Set) (*Result, error) {
	if err := resetDir(e.outDir); err != nil {
		return nil, err
	}

	res := &Result{}
	titles := make([]string, len(e.cfg.Structure))

	for i, entry := range e.cfg.Structure {
		titles[i] = entry.Title

		cat, err := source.ParseCategory(entry.Source)
		if err != nil || cat == source.CategoryMCPOnly {
			res.warnf("manifest entry %q references invalid source category %q", entry.File, entry.Source)
			slog.Warn("Manifest entry skipped: invalid source category",
				logfields.File(entry.File),
				logfields.Category(entry.Source))
			continue
		}

		file, ok := set.Find(cat, entry.File)
		if !ok {
			res.warnf("manifest entry %q not found in category %q", entry.File, entry.Source)
			slog.Warn("Manifest entry skipped: source file missing",
				logfields.File(entry.File),
				logfields.Category(entry.Source))
			continue
		}

		if titles[i] == "" {
			if t, ok := markdown.ExtractTitle(file.Content); ok {
				titles[i] = t
			} else {
				titles[i] = strings.TrimSuffix(entry.File, filepath.Ext(entry.File))
			}
		}

		if err := writeFile(e.outDir, entry.File, file.Content); err != nil {
			return nil, err
		}
		res.Written++
	}

	// Fill in titles for skipped entries so README/SUMMARY stay complete.
	for i, entry := range e.cfg.Structure {
		if titles[i] == "" {
			titles[i] = strings.TrimSuffix(entry.File, filepath.Ext(entry.File))
		}
	}

	if err := writeFile(e.outDir, "README.md", e.renderReadme(titles)); err != nil {
		return nil, err
	}
	if err := writeFile(e.outDir, "SUMMARY.md", e.renderSummary(titles)); err != nil {
		return nil, err
	}
	res.Written += 2

	slog.Info("GitBook target emitted",
		logfields.Target("gitbook"),
		logfields.Path(e.outDir),
		slog.Int("files", res.Written),
		slog.Int("warnings", len(res.Warnings)))
	return res, nil
}

func (e *GitBookEmitter) renderReadme(titles []string) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", e.cfg.Readme.Title)
	if e.cfg.Readme.Content != "" {
		sb.WriteString(strings.TrimRight(e.cfg.Readme.Content, "\n"))
		sb.WriteString("\n\n")
	}
	for i, entry := range e.cfg.Structure {
		fmt.Fprintf(&sb, "- [%s](%s)\n", titles[i], entry.File)
	}
	return []byte(sb.String())
}

func (e *GitBookEmitter) renderSummary(titles []string) []byte {
	var sb strings.Builder
	sb.WriteString("# Summary\n\n")
	fmt.Fprintf(&sb, "* [%s](README.md)\n", e.cfg.Readme.Title)
	for i, entry := range e.cfg.Structure {
		fmt.Fprintf(&sb, "* [%s](%s)\n", titles[i], entry.File)
	}
	return []byte(sb.String())
}
