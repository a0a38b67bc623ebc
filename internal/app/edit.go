package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mialiang/bridalcat/internal/catalog"
	"github.com/mialiang/bridalcat/internal/constant"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// EditCommand updates the metadata of an existing entry and optionally
// replaces its images. Fields not passed on the command line keep their
// current values. The folder is never renamed.
type EditCommand struct {
	dir    string
	root   string
	slug   string
	name   string
	price  string
	desc   string
	images map[constant.ImageSlot]*string
	flags  *pflag.FlagSet
}

func NewEditCommand() *EditCommand {
	c := &EditCommand{}
	c.images = map[constant.ImageSlot]*string{
		constant.SlotFront:   new(string),
		constant.SlotBack:    new(string),
		constant.SlotDetail1: new(string),
		constant.SlotDetail2: new(string),
	}
	return c
}

func (c *EditCommand) Name() string { return "edit" }

func (c *EditCommand) Desc() string {
	return "修改婚纱产品的信息或图片"
}

func (c *EditCommand) Init(f *pflag.FlagSet) {
	c.flags = f
	f.StringVar(&c.dir, "dir", ".", "素材根目录")
	f.StringVar(&c.slug, "slug", "", "产品目录名")
	f.StringVar(&c.name, "name", "", "婚纱名称")
	f.StringVar(&c.price, "price", "", "婚纱价格")
	f.StringVar(&c.desc, "desc", "", "婚纱介绍")
	f.StringVar(c.images[constant.SlotFront], "front", "", "替换主图正面")
	f.StringVar(c.images[constant.SlotBack], "back", "", "替换主图背面")
	f.StringVar(c.images[constant.SlotDetail1], "detail1", "", "替换细节图一")
	f.StringVar(c.images[constant.SlotDetail2], "detail2", "", "替换细节图二")
}

func (c *EditCommand) PreRun(ctx context.Context) error {
	root, err := resolveRoot(c.dir)
	if err != nil {
		return err
	}
	c.root = root
	if strings.TrimSpace(c.slug) == "" {
		return errors.New("edit requires --slug")
	}
	for slot, path := range c.images {
		if *path == "" {
			continue
		}
		if err := requireFile(string(slot), *path); err != nil {
			return err
		}
	}
	return nil
}

func (c *EditCommand) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)
	store := catalog.New(c.root)

	entries, warnings, err := store.Load()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn("folder skipped", zap.String("slug", w.Slug), zap.Error(w.Err))
	}
	entry := catalog.FindBySlug(entries, c.slug)
	if entry == nil {
		return fmt.Errorf("entry %s not found", c.slug)
	}

	in := catalog.UpdateInput{
		Name:        entry.Name,
		Price:       entry.Price,
		Description: entry.Description,
		Images:      map[constant.ImageSlot]string{},
	}
	if c.flags.Changed("name") {
		in.Name = strings.TrimSpace(c.name)
	}
	if c.flags.Changed("price") {
		in.Price = strings.TrimSpace(c.price)
	}
	if c.flags.Changed("desc") {
		in.Description = strings.TrimSpace(c.desc)
	}
	if in.Name == "" || in.Price == "" {
		return errors.New("name and price must not be empty")
	}
	for slot, path := range c.images {
		if *path != "" {
			in.Images[slot] = *path
		}
	}

	if err := store.Update(entry, in); err != nil {
		return err
	}

	// Mutations are confirmed by a full reload, never by patching the
	// in-memory list.
	entries, _, err = store.Load()
	if err != nil {
		return err
	}
	updated := catalog.FindBySlug(entries, c.slug)
	if updated == nil {
		return fmt.Errorf("entry %s missing after update", c.slug)
	}
	logger.Info("entry updated",
		zap.String("slug", updated.Slug),
		zap.String("name", updated.Name),
		zap.String("price", updated.Price),
	)
	return nil
}

func (c *EditCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("edit", func() IRunner { return NewEditCommand() })
}
