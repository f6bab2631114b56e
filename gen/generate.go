package gen

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Generator runs the parse, resolve and synthesize steps for one package
// directory.
type Generator struct {
	cfg    Config
	logger *slog.Logger
}

func NewGenerator(cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	return &Generator{cfg: cfg, logger: logger}
}

// Generate returns the generated source for dir, or nil when the package
// declares nothing to generate.
func (g *Generator) Generate(dir string) ([]byte, error) {
	pkg, err := ParseDir(dir, g.cfg.Output)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("parsed package", "package", pkg.Name, "dir", dir, "declarations", len(pkg.Declarations))

	file, err := Plan(pkg, Resolver{DefaultIDColumn: g.cfg.IDColumn})
	if err != nil {
		return nil, err
	}
	file.StoreImport = g.cfg.StoreImport

	for _, b := range file.Bindings {
		g.logger.Debug("resolved repository",
			"repository", b.Repository,
			"entity", b.Entity,
			"id", b.ID,
			"backend", b.Backend.String(),
			"storage", b.StorageName,
			"id_column", b.IDColumn,
		)
	}

	if len(file.Bindings) == 0 && len(file.Entities) == 0 {
		g.logger.Info("nothing to generate", "package", pkg.Name)
		return nil, nil
	}

	return Synthesize(file)
}

// Write generates dir and writes the result to the configured output file.
// It returns the written path, or "" when there was nothing to generate.
// Nothing is written when generation fails.
func (g *Generator) Write(dir string) (string, error) {
	src, err := g.Generate(dir)
	if err != nil || src == nil {
		return "", err
	}

	out := g.cfg.Output
	if !filepath.IsAbs(out) {
		out = filepath.Join(dir, out)
	}

	if err := os.WriteFile(out, src, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	g.logger.Info("generated", "file", out, "bytes", len(src))

	return out, nil
}
