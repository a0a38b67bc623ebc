package metadata

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mialiang/bridalcat/internal/model"
)

// Description content arrives in many legacy shapes: a plain string, a
// list of paragraphs, a list of titled blocks, a single block object, or
// a mix. The functions here collapse every shape into the canonical
// (plain text, ordered blocks) pair and provide the reverse mapping used
// when writing an edit back into a list-shaped origin.

var blockTitleKeys = []string{"title", "label", "name"}
var blockContentKeys = []string{"text", "content", "desc", "description", "value"}

// coerceDescription maps the value under the "description" key to plain
// text plus any inline blocks. List items contribute in list order:
// strings to the text, objects to the blocks.
func coerceDescription(value interface{}) (string, []model.DescriptionBlock) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	case json.Number:
		return v.String(), nil
	case []interface{}:
		var paragraphs []string
		var blocks []model.DescriptionBlock
		for idx, item := range v {
			switch it := item.(type) {
			case string:
				if cleaned := strings.TrimSpace(it); cleaned != "" {
					paragraphs = append(paragraphs, cleaned)
				}
			case map[string]interface{}:
				if block, ok := blockFromMapping(it, idx+1); ok {
					blocks = append(blocks, block)
				}
			}
		}
		return strings.Join(paragraphs, "\n"), blocks
	case map[string]interface{}:
		if block, ok := blockFromMapping(v, 0); ok {
			return "", []model.DescriptionBlock{block}
		}
		return "", nil
	default:
		return strings.TrimSpace(stringify(value)), nil
	}
}

// collectBlocks maps a block-list key (description_blocks, sections,
// highlights) to zero or more blocks. Bare strings become blocks with a
// positional placeholder title; a single object is mapped without one.
func collectBlocks(value interface{}) []model.DescriptionBlock {
	switch v := value.(type) {
	case []interface{}:
		var blocks []model.DescriptionBlock
		for idx, item := range v {
			switch it := item.(type) {
			case map[string]interface{}:
				if block, ok := blockFromMapping(it, idx+1); ok {
					blocks = append(blocks, block)
				}
			case string:
				if text := strings.TrimSpace(it); text != "" {
					blocks = append(blocks, model.DescriptionBlock{
						Title:   positionalTitle(idx + 1),
						Content: text,
					})
				}
			}
		}
		return blocks
	case map[string]interface{}:
		if block, ok := blockFromMapping(v, 0); ok {
			return []model.DescriptionBlock{block}
		}
		return nil
	default:
		return nil
	}
}

// blockFromMapping builds one block from an object. The title comes from
// the first non-empty title key, the content from the first non-empty
// content key. An object without usable content yields no block. pos is
// the 1-based list position used for the placeholder title; pass 0 when
// the object did not come from a list.
func blockFromMapping(mapping map[string]interface{}, pos int) (model.DescriptionBlock, bool) {
	var titleRaw interface{}
	for _, key := range blockTitleKeys {
		if v, ok := mapping[key]; ok && truthy(v) {
			titleRaw = v
			break
		}
	}
	var contentRaw interface{}
	for _, key := range blockContentKeys {
		if v, ok := mapping[key]; ok && truthy(v) {
			contentRaw = v
			break
		}
	}
	if contentRaw == nil {
		return model.DescriptionBlock{}, false
	}
	content := strings.TrimSpace(stringify(contentRaw))
	if content == "" {
		return model.DescriptionBlock{}, false
	}
	title := ""
	if titleRaw != nil {
		title = strings.TrimSpace(stringify(titleRaw))
	}
	if title == "" && pos > 0 {
		title = positionalTitle(pos)
	}
	return model.DescriptionBlock{Title: title, Content: content}, true
}

func positionalTitle(pos int) string {
	return fmt.Sprintf("要点 %d", pos)
}

// convertDescriptionValue is the serialize-direction mapping: an origin
// that stored the description as a list gets the edited text re-split
// into paragraphs, every other origin gets the trimmed text verbatim.
func convertDescriptionValue(existing interface{}, edited string) interface{} {
	trimmed := strings.TrimSpace(edited)
	if _, ok := existing.([]interface{}); ok {
		return splitParagraphs(trimmed)
	}
	return trimmed
}

// splitParagraphs joins consecutive non-blank lines with single spaces
// and treats blank lines as paragraph separators.
func splitParagraphs(text string) []string {
	if text == "" {
		return []string{}
	}
	var paragraphs []string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			current = append(current, line)
		} else if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}
	if paragraphs == nil {
		return []string{}
	}
	return paragraphs
}

// stringify renders a decoded JSON scalar as display text.
func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(v)
	}
}

// truthy mirrors the loose presence check the legacy files rely on:
// empty strings, zero numbers, false and empty containers do not count
// as a usable value.
func truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	case []interface{}:
		return len(v) > 0
	case map[string]interface{}:
		return len(v) > 0
	default:
		return true
	}
}
