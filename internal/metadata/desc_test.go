package metadata

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mialiang/bridalcat/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeValue(t *testing.T, raw string) interface{} {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	require.NoError(t, dec.Decode(&v))
	return v
}

func TestCoerceDescriptionShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		raw        string
		wantText   string
		wantBlocks []model.DescriptionBlock
	}{
		{
			name:     "null",
			raw:      `null`,
			wantText: "",
		},
		{
			name:     "string",
			raw:      `"  轻盈缎面  "`,
			wantText: "轻盈缎面",
		},
		{
			name:     "number",
			raw:      `42`,
			wantText: "42",
		},
		{
			name:     "string list",
			raw:      `["line one", "  ", "line two"]`,
			wantText: "line one\nline two",
		},
		{
			name: "object list",
			raw:  `[{"title":"面料","text":"真丝"},{"text":"鱼尾剪裁"}]`,
			wantBlocks: []model.DescriptionBlock{
				{Title: "面料", Content: "真丝"},
				{Title: "要点 2", Content: "鱼尾剪裁"},
			},
		},
		{
			name:     "mixed list",
			raw:      `["段落一", {"label":"亮点", "content":"手工钉珠"}, "段落二"]`,
			wantText: "段落一\n段落二",
			wantBlocks: []model.DescriptionBlock{
				{Title: "亮点", Content: "手工钉珠"},
			},
		},
		{
			name: "single object",
			raw:  `{"name":"裙摆","value":"三米拖尾"}`,
			wantBlocks: []model.DescriptionBlock{
				{Title: "裙摆", Content: "三米拖尾"},
			},
		},
		{
			name:     "single object without content",
			raw:      `{"title":"空"}`,
			wantText: "",
		},
		{
			name:     "other scalar",
			raw:      `true`,
			wantText: "true",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			text, blocks := coerceDescription(decodeValue(t, tc.raw))
			assert.Equal(t, tc.wantText, text)
			assert.Equal(t, tc.wantBlocks, blocks)
		})
	}
}

func TestCoerceDescriptionAbsent(t *testing.T) {
	t.Parallel()

	text, blocks := coerceDescription(nil)
	assert.Empty(t, text)
	assert.Empty(t, blocks)
}

func TestCollectBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []model.DescriptionBlock
	}{
		{
			name: "object list with positional fallback",
			raw:  `[{"text":"first"},{"title":"剪裁","desc":"A字裙"}]`,
			want: []model.DescriptionBlock{
				{Title: "要点 1", Content: "first"},
				{Title: "剪裁", Content: "A字裙"},
			},
		},
		{
			name: "bare strings wrapped",
			raw:  `["全手工缝制", "", "附赠头纱"]`,
			want: []model.DescriptionBlock{
				{Title: "要点 1", Content: "全手工缝制"},
				{Title: "要点 3", Content: "附赠头纱"},
			},
		},
		{
			name: "single object keeps empty title",
			raw:  `{"description":"内衬舒适"}`,
			want: []model.DescriptionBlock{
				{Title: "", Content: "内衬舒适"},
			},
		},
		{
			name: "empty content dropped",
			raw:  `[{"title":"空", "text":"  "}]`,
			want: nil,
		},
		{
			name: "scalar yields nothing",
			raw:  `"just text"`,
			want: nil,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, collectBlocks(decodeValue(t, tc.raw)))
		})
	}
}

func TestBlockFromMappingKeyPriority(t *testing.T) {
	t.Parallel()

	m := decodeValue(t, `{"title":"", "label":"备选", "text":"", "content":"内容"}`).(map[string]interface{})
	block, ok := blockFromMapping(m, 0)
	require.True(t, ok)
	assert.Equal(t, "备选", block.Title)
	assert.Equal(t, "内容", block.Content)
}

func TestSplitParagraphs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: []string{}},
		{name: "single", in: "one line", want: []string{"one line"}},
		{
			name: "joined lines",
			in:   "first line\nsecond line",
			want: []string{"first line second line"},
		},
		{
			name: "blank separated",
			in:   "para one\n\npara two a\npara two b",
			want: []string{"para one", "para two a para two b"},
		},
		{
			name: "surrounding blanks dropped",
			in:   "\n\nonly\n\n",
			want: []string{"only"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, splitParagraphs(tc.in))
		})
	}
}

func TestConvertDescriptionValue(t *testing.T) {
	t.Parallel()

	listOrigin := decodeValue(t, `["a","b"]`)
	assert.Equal(t, []string{"one", "two"}, convertDescriptionValue(listOrigin, "one\n\ntwo"))
	assert.Equal(t, "plain text", convertDescriptionValue("old", " plain text "))
	assert.Equal(t, "fresh", convertDescriptionValue(nil, "fresh"))
}
