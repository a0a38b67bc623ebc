package model

import (
	"github.com/mialiang/bridalcat/internal/constant"
)

// DescriptionBlock is one titled sub paragraph of an entry description.
// Blocks keep the order they appeared in the source metadata.
type DescriptionBlock struct {
	Title   string
	Content string
}

// OriginKind identifies the on-disk metadata format an entry came from.
type OriginKind string

const (
	OriginJSON   OriginKind = "json"
	OriginLegacy OriginKind = "legacy"
)

// Origin retains the metadata file location and the structure that was
// actually parsed, so a rewrite can preserve fields the normalizer did
// not understand. It is owned by its entry and never shared.
type Origin struct {
	Path string
	Kind OriginKind
	// Tree is the decoded JSON object for OriginJSON origins.
	Tree map[string]interface{}
	// Text is the trimmed raw content for OriginLegacy origins.
	Text string
}

// Entry is the canonical in-memory form of one catalog item. All
// components operate on this shape regardless of the source file format.
type Entry struct {
	Slug        string
	Name        string
	Price       string
	Description string
	Blocks      []DescriptionBlock
	// Images maps each fixed slot to an absolute image path.
	Images map[constant.ImageSlot]string
	Origin *Origin
}

// Warning records a folder that was skipped during a catalog load.
type Warning struct {
	Slug string
	Err  error
}

func (w Warning) Error() string {
	if w.Slug == "" {
		return w.Err.Error()
	}
	return w.Slug + ": " + w.Err.Error()
}
