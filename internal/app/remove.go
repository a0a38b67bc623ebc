package app

import (
	"context"
	"errors"
	"strings"

	"github.com/mialiang/bridalcat/internal/catalog"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// RemoveCommand deletes an entry folder, images and metadata included.
type RemoveCommand struct {
	dir  string
	root string
	slug string
}

func NewRemoveCommand() *RemoveCommand { return &RemoveCommand{} }

func (c *RemoveCommand) Name() string { return "remove" }

func (c *RemoveCommand) Desc() string {
	return "删除婚纱产品（包含图片与信息文件）"
}

func (c *RemoveCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.dir, "dir", ".", "素材根目录")
	f.StringVar(&c.slug, "slug", "", "产品目录名")
}

func (c *RemoveCommand) PreRun(ctx context.Context) error {
	root, err := resolveRoot(c.dir)
	if err != nil {
		return err
	}
	c.root = root
	if strings.TrimSpace(c.slug) == "" {
		return errors.New("remove requires --slug")
	}
	return nil
}

func (c *RemoveCommand) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)
	store := catalog.New(c.root)
	if err := store.Delete(c.slug); err != nil {
		return err
	}
	entries, _, err := store.Load()
	if err != nil {
		return err
	}
	logger.Info("entry removed",
		zap.String("slug", c.slug),
		zap.Int("entries", len(entries)),
	)
	return nil
}

func (c *RemoveCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("remove", func() IRunner { return NewRemoveCommand() })
}
