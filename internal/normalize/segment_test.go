package normalize

import (
	"testing"

	"novelhub/pkg/models"
)

func TestSegmentBlockList(t *testing.T) {
	raw := map[string]any{
		"content": []any{
			map[string]any{"content": "第一段"},
			map[string]any{"content": "第二段", "type": "quote"},
		},
	}

	blocks := segmentChapterContent(raw)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Type != models.BlockParagraph {
		t.Errorf("missing type should default to paragraph, got %q", blocks[0].Type)
	}
	if blocks[1].Type != "quote" {
		t.Errorf("explicit type not preserved, got %q", blocks[1].Type)
	}
	if blocks[0].Content != "第一段" || blocks[1].Content != "第二段" {
		t.Errorf("block order not preserved: %q, %q", blocks[0].Content, blocks[1].Content)
	}
}

func TestSegmentFlatString(t *testing.T) {
	raw := map[string]any{
		"content": "第一段。\n\n第二段。\n\n第三段。",
	}

	blocks := segmentChapterContent(raw)
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}
	for i, blk := range blocks {
		if blk.Content == "" {
			t.Errorf("block %d has empty content", i)
		}
		if blk.Type != models.BlockParagraph {
			t.Errorf("block %d type = %q, want paragraph", i, blk.Type)
		}
	}
}

func TestSegmentSingleNewlineFallback(t *testing.T) {
	raw := map[string]any{"text": "one\ntwo\nthree"}

	blocks := segmentChapterContent(raw)
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}
}

func TestSegmentNestedContent(t *testing.T) {
	raw := map[string]any{
		"content": map[string]any{
			"paragraphs": []any{"甲", "乙"},
		},
	}

	blocks := segmentChapterContent(raw)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Content != "甲" {
		t.Errorf("first block = %q, want 甲", blocks[0].Content)
	}
}

func TestSegmentPreservesRawIDs(t *testing.T) {
	raw := map[string]any{
		"content_blocks": []any{
			map[string]any{"id": "block-0002", "content": "kept"},
			map[string]any{"content": "generated"},
		},
	}

	blocks := segmentChapterContent(raw)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].ID != "block-0002" {
		t.Errorf("raw ID not preserved: %q", blocks[0].ID)
	}
	if blocks[1].ID == "block-0002" {
		t.Error("generated ID collided with raw-supplied ID")
	}
	if blocks[1].ID == "" {
		t.Error("second block got no ID")
	}
}

func TestSegmentSkipsWhitespaceOnlyBlocks(t *testing.T) {
	raw := map[string]any{
		"content": []any{
			map[string]any{"content": "   "},
			map[string]any{"content": "real"},
			"\t\n",
		},
	}

	blocks := segmentChapterContent(raw)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].Content != "real" {
		t.Errorf("kept block = %q, want real", blocks[0].Content)
	}
}

func TestSegmentEmptyChapter(t *testing.T) {
	blocks := segmentChapterContent(map[string]any{"title": "placeholder"})
	if blocks == nil {
		t.Fatal("empty chapter should yield empty slice, not nil")
	}
	if len(blocks) != 0 {
		t.Errorf("got %d blocks, want 0", len(blocks))
	}
}
