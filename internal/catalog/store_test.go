package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mialiang/bridalcat/internal/constant"
	"github.com/mialiang/bridalcat/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEntryFolder(t *testing.T, root, slug, metaName, metaContent string, images ...string) string {
	t.Helper()
	folder := filepath.Join(root, constant.TemplateDirName, slug)
	require.NoError(t, os.MkdirAll(folder, 0o755))
	if metaName != "" {
		require.NoError(t, os.WriteFile(filepath.Join(folder, metaName), []byte(metaContent), 0o644))
	}
	for _, name := range images {
		require.NoError(t, os.WriteFile(filepath.Join(folder, name), []byte("img"), 0o644))
	}
	return folder
}

func allImages() []string {
	return []string{constant.ImageFront, constant.ImageBack, constant.ImageDetail1, constant.ImageDetail2}
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeEntryFolder(t, root, "dress-01", constant.MetadataFileJSON,
		`{"name":"A","price":"100","description":["line one","line two"]}`, allImages()...)
	writeEntryFolder(t, root, "dress-02", constant.MetadataFileLegacy,
		"名称：X\n介绍：hello\nworld\n价格：9\n", allImages()...)
	writeEntryFolder(t, root, constant.ReservedDirName, constant.MetadataFileJSON, `{}`, allImages()...)
	writeEntryFolder(t, root, ".hidden", constant.MetadataFileJSON, `{}`, allImages()...)

	entries, warnings, err := New(root).Load()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, entries, 2)

	assert.Equal(t, "dress-01", entries[0].Slug)
	assert.Equal(t, "A", entries[0].Name)
	assert.Equal(t, "line one\nline two", entries[0].Description)
	assert.Equal(t, "dress-02", entries[1].Slug)
	assert.Equal(t, "X", entries[1].Name)
	assert.Equal(t, "9", entries[1].Price)
	assert.Equal(t, "hello\nworld", entries[1].Description)
}

func TestLoadSkipsBrokenFolders(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeEntryFolder(t, root, "good", constant.MetadataFileJSON,
		`{"name":"ok","price":"1"}`, allImages()...)
	writeEntryFolder(t, root, "missing-image", constant.MetadataFileJSON,
		`{"name":"bad","price":"1"}`, constant.ImageFront, constant.ImageBack, constant.ImageDetail1)
	writeEntryFolder(t, root, "no-metadata", "", "", allImages()...)
	writeEntryFolder(t, root, "bad-json", constant.MetadataFileJSON, `{"name": `, allImages()...)

	entries, warnings, err := New(root).Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "good", entries[0].Slug)

	require.Len(t, warnings, 3)
	bySlug := map[string]model.Warning{}
	for _, w := range warnings {
		bySlug[w.Slug] = w
	}
	assert.ErrorIs(t, bySlug["missing-image"].Err, ErrMissingImage)
	assert.Contains(t, bySlug["missing-image"].Err.Error(), constant.ImageDetail2)
	assert.ErrorIs(t, bySlug["no-metadata"].Err, ErrMissingMetadata)
	assert.Contains(t, bySlug["bad-json"].Err.Error(), "malformed")
}

func TestLoadNameFallsBackToSlug(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeEntryFolder(t, root, "unnamed", constant.MetadataFileJSON, `{"price":"5"}`, allImages()...)

	entries, warnings, err := New(root).Load()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, entries, 1)
	assert.Equal(t, "unnamed", entries[0].Name)
}

func createInput(t *testing.T, name string) CreateInput {
	t.Helper()
	srcDir := t.TempDir()
	images := make(map[constant.ImageSlot]string, len(constant.ImageSlots))
	for _, slot := range constant.ImageSlots {
		path := filepath.Join(srcDir, string(slot)+".jpg")
		require.NoError(t, os.WriteFile(path, []byte("img-"+string(slot)), 0o644))
		images[slot] = path
	}
	return CreateInput{
		Name:        name,
		Price:       "100",
		Description: "介绍文字",
		Images:      images,
	}
}

func TestCreateAndReload(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := New(root)

	slug, err := store.Create(createInput(t, "月光"))
	require.NoError(t, err)
	assert.Equal(t, "月光", slug)

	entries, warnings, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, entries, 1)
	assert.Equal(t, "月光", entries[0].Name)
	assert.Equal(t, "100", entries[0].Price)
	assert.Equal(t, "介绍文字", entries[0].Description)
	assert.Equal(t, model.OriginJSON, entries[0].Origin.Kind)
}

func TestCreateUniqueSlugSuffix(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := New(root)

	first, err := store.Create(createInput(t, "同名"))
	require.NoError(t, err)
	second, err := store.Create(createInput(t, "同名"))
	require.NoError(t, err)
	assert.Equal(t, "同名", first)
	assert.Equal(t, "同名-1", second)
}

func TestCreateEmptyNameUsesDefault(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	slug, err := New(root).Create(createInput(t, "  "))
	require.NoError(t, err)
	assert.Equal(t, defaultEntryName, slug)
}

func TestCreateASCIISlug(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	in := createInput(t, "月光 Dream 01")
	in.ASCIISlug = true
	slug, err := New(root).Create(in)
	require.NoError(t, err)
	assert.Equal(t, "yue-guang-dream-01", slug)
}

func TestUpdatePreservesFormatAndShape(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeEntryFolder(t, root, "dress-01", constant.MetadataFileJSON,
		`{"name":"A","price":"100","description":["line one","line two"],"fabric":"silk"}`, allImages()...)
	store := New(root)

	entries, _, err := store.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	entry := entries[0]

	require.NoError(t, store.Update(entry, UpdateInput{
		Name:        entry.Name,
		Price:       "200",
		Description: entry.Description,
	}))

	entries, _, err = store.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "200", entries[0].Price)
	assert.Equal(t, "line one line two", entries[0].Description)
	assert.IsType(t, []interface{}{}, entries[0].Origin.Tree["description"])
	assert.Equal(t, "silk", entries[0].Origin.Tree["fabric"])
}

func TestUpdateLegacyStaysLegacy(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeEntryFolder(t, root, "old", constant.MetadataFileLegacy,
		"名称：X\n介绍：hello\n价格：9\n", allImages()...)
	store := New(root)

	entries, _, err := store.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, store.Update(entries[0], UpdateInput{
		Name:        "X",
		Price:       "19",
		Description: "hello",
	}))

	data, err := os.ReadFile(filepath.Join(root, constant.TemplateDirName, "old", constant.MetadataFileLegacy))
	require.NoError(t, err)
	assert.Equal(t, "名称：X\n介绍：hello\n价格：19\n", string(data))
}

func TestUpdateReplacesImages(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeEntryFolder(t, root, "dress-01", constant.MetadataFileJSON,
		`{"name":"A","price":"1"}`, allImages()...)
	store := New(root)

	entries, _, err := store.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	srcDir := t.TempDir()
	newFront := filepath.Join(srcDir, "new.jpg")
	require.NoError(t, os.WriteFile(newFront, []byte("fresh"), 0o644))

	require.NoError(t, store.Update(entries[0], UpdateInput{
		Name:        "A",
		Price:       "1",
		Description: "",
		Images:      map[constant.ImageSlot]string{constant.SlotFront: newFront},
	}))

	data, err := os.ReadFile(filepath.Join(root, constant.TemplateDirName, "dress-01", constant.ImageFront))
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
}

func TestDelete(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeEntryFolder(t, root, "doomed", constant.MetadataFileJSON, `{"name":"A","price":"1"}`, allImages()...)
	store := New(root)

	require.NoError(t, store.Delete("doomed"))
	entries, _, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Error(t, store.Delete("doomed"))
	assert.Error(t, store.Delete("../escape"))
}

func TestASCIISlugTransliteration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "月光", want: "yue-guang"},
		{in: "Dream 2024", want: "dream-2024"},
		{in: "雾面 Satin", want: "wu-mian-satin"},
		{in: "???", want: ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, asciiSlug(tc.in), "input %q", tc.in)
	}
}
