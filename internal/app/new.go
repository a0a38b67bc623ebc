package app

import (
	"context"
	"errors"
	"strings"

	"github.com/mialiang/bridalcat/internal/catalog"
	"github.com/mialiang/bridalcat/internal/constant"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// NewCommand creates one entry folder with its four images and a fresh
// structured metadata file.
type NewCommand struct {
	dir       string
	root      string
	name      string
	price     string
	desc      string
	images    map[constant.ImageSlot]*string
	asciiSlug bool
}

func NewNewCommand() *NewCommand {
	c := &NewCommand{}
	c.images = map[constant.ImageSlot]*string{
		constant.SlotFront:   new(string),
		constant.SlotBack:    new(string),
		constant.SlotDetail1: new(string),
		constant.SlotDetail2: new(string),
	}
	return c
}

func (c *NewCommand) Name() string { return "new" }

func (c *NewCommand) Desc() string {
	return "新建婚纱产品（四张图片与信息文件）"
}

func (c *NewCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.dir, "dir", ".", "素材根目录")
	f.StringVar(&c.name, "name", "", "婚纱名称")
	f.StringVar(&c.price, "price", "", "婚纱价格")
	f.StringVar(&c.desc, "desc", "", "婚纱介绍")
	f.StringVar(c.images[constant.SlotFront], "front", "", "主图正面图片路径")
	f.StringVar(c.images[constant.SlotBack], "back", "", "主图背面图片路径")
	f.StringVar(c.images[constant.SlotDetail1], "detail1", "", "细节图一图片路径")
	f.StringVar(c.images[constant.SlotDetail2], "detail2", "", "细节图二图片路径")
	f.BoolVar(&c.asciiSlug, "ascii-slug", false, "目录名转写为拼音")
}

func (c *NewCommand) PreRun(ctx context.Context) error {
	root, err := resolveRoot(c.dir)
	if err != nil {
		return err
	}
	c.root = root
	if strings.TrimSpace(c.name) == "" {
		return errors.New("new requires --name")
	}
	if strings.TrimSpace(c.price) == "" {
		return errors.New("new requires --price")
	}
	for _, slot := range constant.ImageSlots {
		if err := requireFile(string(slot), *c.images[slot]); err != nil {
			return err
		}
	}
	return nil
}

func (c *NewCommand) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)
	store := catalog.New(c.root)

	images := make(map[constant.ImageSlot]string, len(c.images))
	for slot, path := range c.images {
		images[slot] = *path
	}
	slug, err := store.Create(catalog.CreateInput{
		Name:        c.name,
		Price:       c.price,
		Description: strings.TrimSpace(c.desc),
		Images:      images,
		ASCIISlug:   c.asciiSlug,
	})
	if err != nil {
		return err
	}

	entries, warnings, err := store.Load()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn("folder skipped", zap.String("slug", w.Slug), zap.Error(w.Err))
	}
	logger.Info("entry created",
		zap.String("slug", slug),
		zap.Int("entries", len(entries)),
	)
	return nil
}

func (c *NewCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("new", func() IRunner { return NewNewCommand() })
}
