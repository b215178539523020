// Package validate checks canonical books against their structural
// invariants. Every check runs even when earlier ones fail, so one pass
// surfaces the full problem set.
package validate

import (
	"fmt"
	"strings"

	"novelhub/pkg/models"
)

// Validate runs all structural checks over a canonical book and
// returns a fresh report. It never panics or returns an error:
// malformed structure yields findings.
func Validate(b *models.Book) *models.ValidationReport {
	report := models.NewValidationReport()
	checkMeta(b, report)
	checkChapterIDs(b, report)
	checkOrdinals(b, report)
	checkContent(b, report)
	return report
}

// checkMeta verifies the always-present metadata fields.
func checkMeta(b *models.Book, report *models.ValidationReport) {
	if strings.TrimSpace(b.Meta.Title) == "" {
		report.AddError(models.FindingMissingMeta, "meta.title is empty", "")
	}
	if strings.TrimSpace(b.Meta.Language) == "" {
		report.AddError(models.FindingMissingMeta, "meta.language is empty", "")
	}
}

// checkChapterIDs verifies chapter IDs are unique book-wide and block
// IDs are unique within their chapter.
func checkChapterIDs(b *models.Book, report *models.ValidationReport) {
	seen := make(map[string]bool)
	for _, ch := range b.AllChapters() {
		if ch.ID == "" {
			report.AddError(models.FindingDataQuality, "chapter has no ID", "")
			continue
		}
		if seen[ch.ID] {
			report.AddError(models.FindingDuplicateChapterID,
				fmt.Sprintf("chapter ID %q appears more than once", ch.ID), ch.ID)
		}
		seen[ch.ID] = true

		blockSeen := make(map[string]bool)
		for _, blk := range ch.ContentBlocks {
			if blockSeen[blk.ID] {
				report.AddError(models.FindingDuplicateBlockID,
					fmt.Sprintf("block ID %q appears more than once in chapter %q", blk.ID, ch.ID), blk.ID)
			}
			blockSeen[blk.ID] = true
		}
	}
}

// checkOrdinals verifies body ordinals form the contiguous sequence
// 1..N with no gaps or duplicates.
func checkOrdinals(b *models.Book, report *models.ValidationReport) {
	for i, ch := range b.Structure.Body.Chapters {
		want := i + 1
		if ch.Ordinal != want {
			report.AddError(models.FindingOrdinalGap,
				fmt.Sprintf("body chapter %q has ordinal %d, want %d", ch.ID, ch.Ordinal, want), ch.ID)
		}
	}
}

// checkContent flags empty chapters and blank blocks. These are
// warnings: a title-only placeholder chapter is legitimate, it just
// needs a human look.
func checkContent(b *models.Book, report *models.ValidationReport) {
	for _, ch := range b.AllChapters() {
		if len(ch.ContentBlocks) == 0 {
			report.AddWarning(models.FindingEmptyChapter,
				fmt.Sprintf("chapter %q has no content blocks", ch.ID), ch.ID)
			continue
		}
		for _, blk := range ch.ContentBlocks {
			if strings.TrimSpace(blk.Content) == "" {
				report.AddWarning(models.FindingEmptyBlock,
					fmt.Sprintf("block %q in chapter %q is empty", blk.ID, ch.ID), blk.ID)
			}
		}
	}
}
