package app

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mialiang/bridalcat/internal/catalog"
	"github.com/mialiang/bridalcat/internal/model"
	"github.com/mialiang/bridalcat/internal/render"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const reloadDebounce = 300 * time.Millisecond

// ServeCommand previews the catalog in a browser. The template tree is
// watched and any change triggers a full reload, so the pages always
// reflect the directory state. One exclusive agent per root is still
// assumed; the watcher only serializes reloads against requests.
type ServeCommand struct {
	dir         string
	bind        string
	root        string
	templateDir string
	renderer    *render.Renderer
	server      *http.Server
	watcher     *fsnotify.Watcher
	indexTpl    *template.Template

	dataMu   sync.RWMutex
	entries  []*model.Entry
	warnings []model.Warning
}

func NewServeCommand() *ServeCommand {
	return &ServeCommand{bind: ":8080"}
}

func (c *ServeCommand) Name() string { return "serve" }

func (c *ServeCommand) Desc() string {
	return "启动本地预览服务"
}

func (c *ServeCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.dir, "dir", ".", "素材根目录")
	f.StringVar(&c.bind, "bind", ":8080", "HTTP 监听地址，例如 0.0.0.0:8080")
}

func (c *ServeCommand) PreRun(ctx context.Context) error {
	root, err := resolveRoot(c.dir)
	if err != nil {
		return err
	}
	c.root = root
	templateDir, err := catalog.New(root).TemplateDir()
	if err != nil {
		return err
	}
	c.templateDir = templateDir
	c.renderer = render.New()
	c.indexTpl = template.Must(template.New("index").Parse(serveIndexTemplate))
	return nil
}

func (c *ServeCommand) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)
	if err := c.reload(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	c.watcher = watcher
	c.refreshWatches(ctx)
	go c.watchLoop(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/", c.handleIndex)
	mux.HandleFunc("/entry/", c.handleEntry)
	mux.HandleFunc("/assets/", c.handleAsset)

	srv := &http.Server{
		Addr:    c.bind,
		Handler: mux,
	}
	c.server = srv

	logger.Info("preview ready",
		zap.String("addr", srv.Addr),
		zap.String("root", c.root),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (c *ServeCommand) PostRun(ctx context.Context) error {
	if c.server != nil {
		_ = c.server.Close()
	}
	if c.watcher != nil {
		_ = c.watcher.Close()
	}
	return nil
}

func (c *ServeCommand) reload(ctx context.Context) error {
	entries, warnings, err := catalog.New(c.root).Load()
	if err != nil {
		return err
	}
	c.dataMu.Lock()
	c.entries = entries
	c.warnings = warnings
	c.dataMu.Unlock()
	logutil.GetLogger(ctx).Info("catalog loaded",
		zap.Int("entries", len(entries)),
		zap.Int("skipped", len(warnings)),
	)
	return nil
}

// refreshWatches covers the template dir plus every entry folder; the
// watcher does not recurse on its own.
func (c *ServeCommand) refreshWatches(ctx context.Context) {
	if c.watcher == nil {
		return
	}
	logger := logutil.GetLogger(ctx)
	if err := c.watcher.Add(c.templateDir); err != nil {
		logger.Warn("watch template dir failed", zap.Error(err))
	}
	children, err := os.ReadDir(c.templateDir)
	if err != nil {
		return
	}
	for _, child := range children {
		if !child.IsDir() || strings.HasPrefix(child.Name(), ".") {
			continue
		}
		if err := c.watcher.Add(filepath.Join(c.templateDir, child.Name())); err != nil {
			logger.Warn("watch entry dir failed",
				zap.String("dir", child.Name()),
				zap.Error(err),
			)
		}
	}
}

func (c *ServeCommand) watchLoop(ctx context.Context) {
	logger := logutil.GetLogger(ctx)
	var timer *time.Timer
	fire := func() {
		if err := c.reload(ctx); err != nil {
			logger.Error("reload after change failed", zap.Error(err))
			return
		}
		c.refreshWatches(ctx)
	}
	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			logger.Debug("fs event", zap.String("event", event.String()))
			if timer == nil {
				timer = time.AfterFunc(reloadDebounce, fire)
			} else {
				timer.Reset(reloadDebounce)
			}
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (c *ServeCommand) snapshot() ([]*model.Entry, []model.Warning) {
	c.dataMu.RLock()
	defer c.dataMu.RUnlock()
	entries := append([]*model.Entry(nil), c.entries...)
	warnings := append([]model.Warning(nil), c.warnings...)
	return entries, warnings
}

type serveIndexEntry struct {
	Slug  string
	Name  string
	Price string
}

type serveIndexView struct {
	Entries  []serveIndexEntry
	Warnings []string
}

func (c *ServeCommand) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	entries, warnings := c.snapshot()
	view := serveIndexView{}
	for _, entry := range entries {
		view.Entries = append(view.Entries, serveIndexEntry{
			Slug:  entry.Slug,
			Name:  entry.Name,
			Price: entry.Price,
		})
	}
	for _, warning := range warnings {
		view.Warnings = append(view.Warnings, warning.Error())
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.indexTpl.Execute(w, view); err != nil {
		http.Error(w, "render index failed", http.StatusInternalServerError)
	}
}

func (c *ServeCommand) handleEntry(w http.ResponseWriter, r *http.Request) {
	// r.URL.Path is already percent decoded by net/http.
	slug := strings.TrimPrefix(r.URL.Path, "/entry/")
	if slug == "" || strings.Contains(slug, "/") {
		http.NotFound(w, r)
		return
	}
	entries, _ := c.snapshot()
	entry := catalog.FindBySlug(entries, slug)
	if entry == nil {
		http.NotFound(w, r)
		return
	}
	doc, err := c.renderer.Document([]*model.Entry{entry}, c.assetResolver())
	if err != nil {
		http.Error(w, fmt.Sprintf("render entry failed: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

// assetResolver maps image paths to /assets/ URLs served from the
// template dir.
func (c *ServeCommand) assetResolver() render.ImageResolver {
	return func(imagePath string) string {
		rel, err := filepath.Rel(c.templateDir, imagePath)
		if err != nil || strings.HasPrefix(rel, "..") {
			return ""
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		for i, part := range parts {
			parts[i] = url.PathEscape(part)
		}
		return "/assets/" + strings.Join(parts, "/")
	}
}

func (c *ServeCommand) handleAsset(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/assets/")
	if rel == "" {
		http.NotFound(w, r)
		return
	}
	fsPath := filepath.Join(c.templateDir, filepath.FromSlash(path.Clean("/"+rel)))
	if fsPath != c.templateDir && !strings.HasPrefix(fsPath, c.templateDir+string(os.PathSeparator)) {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-store, must-revalidate")
	http.ServeFile(w, r, fsPath)
}

const serveIndexTemplate = `<!DOCTYPE html>
<html lang='zh-CN'>
<head><meta charset='UTF-8'><title>婚纱目录</title></head>
<body style="font-family:'PingFang SC','Microsoft Yahei',sans-serif;background:#f4efe7;padding:20px;">
<h1>婚纱目录</h1>
{{if .Warnings}}<ul style="color:#a33;">{{range .Warnings}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{if .Entries}}<ul>
{{range .Entries}}<li><a href="/entry/{{.Slug}}">{{.Slug}}</a> {{.Name}}（¥{{.Price}}）</li>
{{end}}</ul>{{else}}<p>暂无产品。</p>{{end}}
</body></html>
`
