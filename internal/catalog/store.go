package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mialiang/bridalcat/internal/constant"
	"github.com/mialiang/bridalcat/internal/metadata"
	"github.com/mialiang/bridalcat/internal/model"
)

var (
	// ErrMissingMetadata reports a folder without any recognized metadata file.
	ErrMissingMetadata = errors.New("metadata file not found")
	// ErrMissingImage reports a folder lacking one of the fixed image files.
	ErrMissingImage = errors.New("image file missing")
)

const defaultEntryName = "新婚纱"

// Store owns the entry folders beneath one catalog root. It holds no
// in-memory state: every Load rebuilds the list from the directory
// tree, and mutations are expected to be followed by a fresh Load.
// A single exclusive agent per root is assumed; there is no locking.
type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

// TemplateDir returns the directory holding the entry folders, creating
// it if needed.
func (s *Store) TemplateDir() (string, error) {
	dir := filepath.Join(s.root, constant.TemplateDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure template dir %s: %w", dir, err)
	}
	return dir, nil
}

// Load walks the template directory and builds the canonical entry list
// in lexicographic folder order. A bad folder never aborts the load: it
// is skipped and reported as a warning.
func (s *Store) Load() ([]*model.Entry, []model.Warning, error) {
	dir, err := s.TemplateDir()
	if err != nil {
		return nil, nil, err
	}
	children, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read template dir %s: %w", dir, err)
	}

	var entries []*model.Entry
	var warnings []model.Warning
	for _, child := range children {
		if !child.IsDir() {
			continue
		}
		name := child.Name()
		if name == constant.ReservedDirName || strings.HasPrefix(name, ".") {
			continue
		}
		entry, err := s.loadEntry(filepath.Join(dir, name), name)
		if err != nil {
			warnings = append(warnings, model.Warning{Slug: name, Err: err})
			continue
		}
		entries = append(entries, entry)
	}
	return entries, warnings, nil
}

func (s *Store) loadEntry(folder, slug string) (*model.Entry, error) {
	metaPath, err := findMetadataFile(folder)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("read metadata %s: %w", metaPath, err)
	}
	parsed, err := metadata.Parse(data, metaPath)
	if err != nil {
		return nil, err
	}

	images := make(map[constant.ImageSlot]string, len(constant.ImageSlots))
	var missing []string
	for _, slot := range constant.ImageSlots {
		path := filepath.Join(folder, constant.ImageFileNames[slot])
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, constant.ImageFileNames[slot])
			continue
		}
		images[slot] = path
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingImage, strings.Join(missing, ", "))
	}

	name := parsed.Name
	if name == "" {
		name = slug
	}
	return &model.Entry{
		Slug:        slug,
		Name:        name,
		Price:       parsed.Price,
		Description: parsed.Description,
		Blocks:      parsed.Blocks,
		Images:      images,
		Origin:      parsed.Origin,
	}, nil
}

func findMetadataFile(folder string) (string, error) {
	for _, name := range []string{constant.MetadataFileJSON, constant.MetadataFileLegacy} {
		path := filepath.Join(folder, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrMissingMetadata, folder)
}

// CreateInput holds everything needed to create a fresh entry. All four
// image sources are required; validation happens at the command layer.
type CreateInput struct {
	Name        string
	Price       string
	Description string
	// Images maps each slot to the source file to copy in.
	Images map[constant.ImageSlot]string
	// ASCIISlug transliterates the folder name to pinyin.
	ASCIISlug bool
}

// Create builds a new entry folder, copies the images to their fixed
// names and writes a fresh structured metadata file. It returns the
// slug of the created folder. Partially applied changes are not rolled
// back on failure; a reload shows what actually landed.
func (s *Store) Create(in CreateInput) (string, error) {
	dir, err := s.TemplateDir()
	if err != nil {
		return "", err
	}
	base := strings.TrimSpace(in.Name)
	if in.ASCIISlug {
		base = asciiSlug(base)
	}
	if base == "" {
		base = defaultEntryName
	}
	target := uniqueDir(dir, base)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("create entry dir %s: %w", target, err)
	}
	for _, slot := range constant.ImageSlots {
		if err := copyFile(in.Images[slot], filepath.Join(target, constant.ImageFileNames[slot])); err != nil {
			return "", err
		}
	}

	origin := &model.Origin{Kind: model.OriginJSON, Tree: map[string]interface{}{}}
	payload, err := metadata.Serialize(origin, metadata.Edit{
		Name:        strings.TrimSpace(in.Name),
		Price:       strings.TrimSpace(in.Price),
		Description: in.Description,
	})
	if err != nil {
		return "", err
	}
	metaPath := filepath.Join(target, constant.MetadataFileJSON)
	if err := os.WriteFile(metaPath, payload, 0o644); err != nil {
		return "", fmt.Errorf("write metadata %s: %w", metaPath, err)
	}
	return filepath.Base(target), nil
}

// UpdateInput carries an edit for an existing entry. Image paths are
// optional replacements; empty slots keep the current file.
type UpdateInput struct {
	Name        string
	Price       string
	Description string
	Images      map[constant.ImageSlot]string
}

// Update rewrites the entry's metadata in its original format and
// copies any replacement images. The folder is never renamed: the slug
// stays the entry's identity even when the name changes.
func (s *Store) Update(entry *model.Entry, in UpdateInput) error {
	dir, err := s.TemplateDir()
	if err != nil {
		return err
	}
	folder := filepath.Join(dir, entry.Slug)

	origin := entry.Origin
	if origin == nil || origin.Path == "" {
		origin = &model.Origin{
			Path: filepath.Join(folder, constant.MetadataFileJSON),
			Kind: model.OriginJSON,
			Tree: map[string]interface{}{},
		}
	}
	payload, err := metadata.Serialize(origin, metadata.Edit{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(origin.Path, payload, 0o644); err != nil {
		return fmt.Errorf("write metadata %s: %w", origin.Path, err)
	}

	for _, slot := range constant.ImageSlots {
		src := in.Images[slot]
		if src == "" {
			continue
		}
		if err := copyFile(src, filepath.Join(folder, constant.ImageFileNames[slot])); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an entry folder and everything inside it.
func (s *Store) Delete(slug string) error {
	if slug == "" || slug != filepath.Base(slug) || strings.HasPrefix(slug, ".") {
		return fmt.Errorf("invalid entry slug %q", slug)
	}
	dir, err := s.TemplateDir()
	if err != nil {
		return err
	}
	target := filepath.Join(dir, slug)
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("stat entry dir %s: %w", target, err)
	}
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("remove entry dir %s: %w", target, err)
	}
	return nil
}

// FindBySlug returns the entry with the given slug from a loaded list.
func FindBySlug(entries []*model.Entry, slug string) *model.Entry {
	for _, entry := range entries {
		if entry.Slug == slug {
			return entry
		}
	}
	return nil
}

func uniqueDir(root, base string) string {
	candidate := filepath.Join(root, base)
	for idx := 1; ; idx++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = filepath.Join(root, fmt.Sprintf("%s-%d", base, idx))
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open image %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create image %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy image %s -> %s: %w", src, dst, err)
	}
	return nil
}
