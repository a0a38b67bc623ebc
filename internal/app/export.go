package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mialiang/bridalcat/internal/catalog"
	"github.com/mialiang/bridalcat/internal/render"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// ExportCommand renders the whole catalog into one self-contained HTML
// document. Images are referenced by file URI so the artifact stays
// small; the page works as long as it is opened on the same machine.
type ExportCommand struct {
	dir    string
	root   string
	output string
}

func NewExportCommand() *ExportCommand { return &ExportCommand{} }

func (c *ExportCommand) Name() string { return "export" }

func (c *ExportCommand) Desc() string {
	return "导出目录预览 HTML"
}

func (c *ExportCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.dir, "dir", ".", "素材根目录")
	f.StringVar(&c.output, "out", "catalog-preview.html", "导出的 HTML 文件路径")
}

func (c *ExportCommand) PreRun(ctx context.Context) error {
	root, err := resolveRoot(c.dir)
	if err != nil {
		return err
	}
	c.root = root
	if strings.TrimSpace(c.output) == "" {
		return errors.New("export requires --out")
	}
	return nil
}

func (c *ExportCommand) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)
	entries, warnings, err := catalog.New(c.root).Load()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn("folder skipped", zap.String("slug", w.Slug), zap.Error(w.Err))
	}
	if len(entries) == 0 {
		return errors.New("catalog has no entries to export")
	}

	doc, err := render.New().Document(entries, render.FileImages())
	if err != nil {
		return err
	}
	if dir := filepath.Dir(c.output); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure output dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(c.output, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write export %s: %w", c.output, err)
	}

	logger.Info("export completed",
		zap.Int("entries", len(entries)),
		zap.String("output", c.output),
	)
	return nil
}

func (c *ExportCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("export", func() IRunner { return NewExportCommand() })
}
