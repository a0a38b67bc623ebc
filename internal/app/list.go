package app

import (
	"context"

	"github.com/mialiang/bridalcat/internal/catalog"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// ListCommand prints every entry the catalog root currently holds.
type ListCommand struct {
	dir  string
	root string
}

func NewListCommand() *ListCommand { return &ListCommand{} }

func (c *ListCommand) Name() string { return "list" }

func (c *ListCommand) Desc() string {
	return "列出素材目录下的所有婚纱产品"
}

func (c *ListCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.dir, "dir", ".", "素材根目录")
}

func (c *ListCommand) PreRun(ctx context.Context) error {
	root, err := resolveRoot(c.dir)
	if err != nil {
		return err
	}
	c.root = root
	return nil
}

func (c *ListCommand) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)
	entries, warnings, err := catalog.New(c.root).Load()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn("folder skipped",
			zap.String("slug", w.Slug),
			zap.Error(w.Err),
		)
	}
	for _, entry := range entries {
		logger.Info("entry",
			zap.String("slug", entry.Slug),
			zap.String("name", entry.Name),
			zap.String("price", entry.Price),
			zap.Int("blocks", len(entry.Blocks)),
		)
	}
	logger.Info("catalog loaded",
		zap.Int("entries", len(entries)),
		zap.Int("skipped", len(warnings)),
	)
	return nil
}

func (c *ListCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("list", func() IRunner { return NewListCommand() })
}
