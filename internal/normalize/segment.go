package normalize

import (
	"strings"

	"novelhub/pkg/models"
)

// Keys under which raw chapter records hide their content. Tried in
// order; first hit wins.
var contentKeys = []string{"content_blocks", "blocks", "content", "text", "body", "paragraphs"}

// segmentChapterContent extracts an ordered block sequence from a raw
// chapter record. A chapter with no extractable content yields an empty
// slice; that is a validator concern, not a segmenter failure.
func segmentChapterContent(raw map[string]any) []*models.ContentBlock {
	alloc := newBlockAllocator()
	for _, key := range contentKeys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if blocks := segmentValue(v, alloc); len(blocks) > 0 {
			return blocks
		}
	}
	return []*models.ContentBlock{}
}

// segmentValue coerces one content value into blocks. It accepts an
// array of block-like records, a flat string needing paragraph
// splitting, or a map nesting the real content one level down.
func segmentValue(v any, alloc *blockAllocator) []*models.ContentBlock {
	switch val := v.(type) {
	case string:
		return splitParagraphs(val, alloc)
	case []any:
		return coerceBlockList(val, alloc)
	case map[string]any:
		for _, key := range contentKeys {
			if inner, ok := val[key]; ok && inner != nil {
				if blocks := segmentValue(inner, alloc); len(blocks) > 0 {
					return blocks
				}
			}
		}
	}
	return nil
}

// coerceBlockList preserves the order of an already-segmented list and
// maps each record into a ContentBlock. Raw-supplied block IDs are kept;
// missing IDs and types are filled in.
func coerceBlockList(items []any, alloc *blockAllocator) []*models.ContentBlock {
	// Reserve raw IDs first so generated IDs cannot collide with a raw
	// ID appearing later in the list.
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			alloc.Reserve(stringField(m, "id"))
		}
	}

	var out []*models.ContentBlock
	for _, item := range items {
		switch rec := item.(type) {
		case string:
			text := strings.TrimSpace(rec)
			if text == "" {
				continue
			}
			out = append(out, &models.ContentBlock{
				ID:      alloc.BlockID(),
				Type:    models.BlockParagraph,
				Content: text,
			})
		case map[string]any:
			text := strings.TrimSpace(firstString(rec, "content", "text"))
			if text == "" {
				continue
			}
			blockType := stringField(rec, "type")
			if blockType == "" {
				blockType = models.BlockParagraph
			}
			id := stringField(rec, "id")
			if id == "" {
				id = alloc.BlockID()
			}
			out = append(out, &models.ContentBlock{
				ID:      id,
				Type:    blockType,
				Content: text,
				EpubID:  stringField(rec, "epub_id"),
			})
		}
	}
	return out
}

// splitParagraphs breaks a flat text blob on blank lines. Blobs with no
// blank lines fall back to single-newline splitting so one-line-per-
// paragraph sources still segment.
func splitParagraphs(text string, alloc *blockAllocator) []*models.ContentBlock {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(normalized, "\n\n")
	if len(parts) == 1 && strings.Contains(normalized, "\n") {
		parts = strings.Split(normalized, "\n")
	}

	var out []*models.ContentBlock
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, &models.ContentBlock{
			ID:      alloc.BlockID(),
			Type:    models.BlockParagraph,
			Content: p,
		})
	}
	return out
}
