package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mialiang/bridalcat/internal/model"
)

const (
	labelName  = "名称："
	labelDesc  = "介绍："
	labelPrice = "价格："
)

// Parsed is the codec's view of one metadata file: the normalized fields
// plus the origin needed to rewrite the file without losing anything.
type Parsed struct {
	Name        string
	Price       string
	Description string
	Blocks      []model.DescriptionBlock
	Origin      *model.Origin
}

// Edit carries the fields an editor can change on an entry.
type Edit struct {
	Name        string
	Price       string
	Description string
}

// Parse decodes a metadata file into its normalized form. The path
// decides the format: a .json extension means structured, otherwise the
// content is probed for a JSON object before falling back to the legacy
// labeled-line format.
func Parse(data []byte, path string) (*Parsed, error) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyMetadata, path)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") || strings.HasPrefix(text, "{") {
		return parseJSON(text, path)
	}
	return parseLegacy(text, path), nil
}

func parseJSON(text, path string) (*Parsed, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedJSON, path, err)
	}
	tree, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidShape, path)
	}

	desc, blocks := coerceDescription(tree["description"])
	if desc == "" {
		if fallback, ok := tree["desc"].(string); ok {
			desc = strings.TrimSpace(fallback)
		}
	}
	blocks = append(blocks, collectBlocks(tree["description_blocks"])...)
	blocks = append(blocks, collectBlocks(tree["sections"])...)
	blocks = append(blocks, collectBlocks(tree["highlights"])...)

	return &Parsed{
		Name:        strings.TrimSpace(stringify(tree["name"])),
		Price:       strings.TrimSpace(stringify(tree["price"])),
		Description: desc,
		Blocks:      blocks,
		Origin: &model.Origin{
			Path: path,
			Kind: model.OriginJSON,
			Tree: tree,
		},
	}, nil
}

// parseLegacy scans the labeled-line format. A 介绍： line opens a
// description that keeps collecting until the next recognized label;
// blank lines inside the run become paragraph breaks. Unlabeled lines
// outside a description run are ignored.
func parseLegacy(text, path string) *Parsed {
	var name, price string
	var descLines []string
	collecting := false
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			if collecting {
				descLines = append(descLines, "")
			}
			continue
		}
		switch {
		case strings.HasPrefix(line, labelName):
			name = strings.TrimSpace(strings.TrimPrefix(line, labelName))
			collecting = false
		case strings.HasPrefix(line, labelDesc):
			descLines = []string{strings.TrimSpace(strings.TrimPrefix(line, labelDesc))}
			collecting = true
		case strings.HasPrefix(line, labelPrice):
			price = strings.TrimSpace(strings.TrimPrefix(line, labelPrice))
			collecting = false
		case collecting:
			descLines = append(descLines, line)
		}
	}
	return &Parsed{
		Name:        name,
		Price:       price,
		Description: strings.TrimSpace(strings.Join(descLines, "\n")),
		Origin: &model.Origin{
			Path: path,
			Kind: model.OriginLegacy,
			Text: text,
		},
	}
}

// Serialize renders an edit back into the origin's file format. A JSON
// origin keeps every key the codec did not understand; the description
// keeps the shape it had on disk. A legacy origin (or a missing one)
// produces the three fixed labeled lines. The legacy writer emits a
// multi-line description after a single 介绍： label even though the
// parser would treat later lines as continuations of it; that matches
// the historical files.
func Serialize(origin *model.Origin, edit Edit) ([]byte, error) {
	if origin == nil || origin.Kind != model.OriginJSON {
		legacy := fmt.Sprintf("%s%s\n%s%s\n%s%s\n",
			labelName, edit.Name,
			labelDesc, strings.TrimSpace(edit.Description),
			labelPrice, edit.Price)
		return []byte(legacy), nil
	}

	payload := make(map[string]interface{}, len(origin.Tree)+3)
	for k, v := range origin.Tree {
		payload[k] = v
	}
	payload["name"] = edit.Name
	payload["price"] = edit.Price
	payload["description"] = convertDescriptionValue(origin.Tree["description"], edit.Description)
	if _, ok := origin.Tree["desc"]; ok {
		payload["desc"] = strings.TrimSpace(edit.Description)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("encode metadata %s: %w", origin.Path, err)
	}
	return buf.Bytes(), nil
}
