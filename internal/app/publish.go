package app

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/mialiang/bridalcat/internal/catalog"
	"github.com/mialiang/bridalcat/internal/config"
	"github.com/mialiang/bridalcat/internal/constant"
	"github.com/mialiang/bridalcat/internal/render"
	"github.com/mialiang/bridalcat/internal/storage"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

var defaultConfigPaths = []string{
	"./config.json",
	"/etc/bridalcat/config.json",
}

// PublishCommand uploads the rendered catalog to an S3 compatible
// bucket: every entry image plus one index.html whose image references
// point at the uploaded objects.
type PublishCommand struct {
	dir        string
	root       string
	configPath string
	prefix     string
	cfg        *config.Config
}

func NewPublishCommand() *PublishCommand { return &PublishCommand{} }

func (c *PublishCommand) Name() string { return "publish" }

func (c *PublishCommand) Desc() string {
	return "将目录页面与图片上传到对象存储"
}

func (c *PublishCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.dir, "dir", ".", "素材根目录")
	f.StringVar(&c.configPath, "config", "", "配置文件路径")
	f.StringVar(&c.prefix, "prefix", "", "上传对象的 key 前缀")
}

func (c *PublishCommand) PreRun(ctx context.Context) error {
	root, err := resolveRoot(c.dir)
	if err != nil {
		return err
	}
	c.root = root

	paths := append([]string{c.configPath}, defaultConfigPaths...)
	cfg, err := config.LoadFirst(paths...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	if c.prefix == "" {
		c.prefix = cfg.Prefix
	}
	c.prefix = strings.Trim(c.prefix, "/")
	return nil
}

func (c *PublishCommand) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)
	client, err := storage.NewS3Client(ctx, c.cfg.S3)
	if err != nil {
		return err
	}

	entries, warnings, err := catalog.New(c.root).Load()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn("folder skipped", zap.String("slug", w.Slug), zap.Error(w.Err))
	}
	if len(entries) == 0 {
		return errors.New("catalog has no entries to publish")
	}

	uploaded := make(map[string]string)
	for _, entry := range entries {
		for _, slot := range constant.ImageSlots {
			imagePath := entry.Images[slot]
			key := c.objectKey(entry.Slug, constant.ImageFileNames[slot])
			if err := client.UploadFile(ctx, key, imagePath, "image/jpeg"); err != nil {
				return err
			}
			uploaded[imagePath] = client.ObjectURL(key)
			logger.Info("image uploaded",
				zap.String("slug", entry.Slug),
				zap.String("key", key),
			)
		}
	}

	resolver := func(imagePath string) string {
		return uploaded[imagePath]
	}
	doc, err := render.New().Document(entries, resolver)
	if err != nil {
		return err
	}
	indexKey := c.objectKey("", "index.html")
	if err := client.UploadBytes(ctx, indexKey, []byte(doc), "text/html; charset=utf-8"); err != nil {
		return err
	}

	logger.Info("publish completed",
		zap.Int("entries", len(entries)),
		zap.String("url", client.ObjectURL(indexKey)),
	)
	return nil
}

func (c *PublishCommand) PostRun(ctx context.Context) error { return nil }

func (c *PublishCommand) objectKey(slug, name string) string {
	return path.Join(c.prefix, slug, name)
}

func init() {
	RegisterRunner("publish", func() IRunner { return NewPublishCommand() })
}
