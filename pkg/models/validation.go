package models

// Severity tags a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding codes. Kept as strings so batch tooling can group findings
// without parsing messages.
const (
	FindingDuplicateChapterID = "duplicate_chapter_id"
	FindingDuplicateBlockID   = "duplicate_block_id"
	FindingOrdinalGap         = "ordinal_gap"
	FindingEmptyChapter       = "empty_chapter"
	FindingEmptyBlock         = "empty_block"
	FindingMissingMeta        = "missing_meta"
	FindingNoChapters         = "no_chapters"
	FindingDataQuality        = "data_quality"
)

// Finding is one validation result tied to the offending entity.
type Finding struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	EntityID string   `json:"entity_id,omitempty"`
}

// ValidationReport aggregates the findings of one validation run.
// It is produced fresh per run and never persisted with the book.
type ValidationReport struct {
	Passed   bool      `json:"passed"`
	Findings []Finding `json:"findings"`
}

// NewValidationReport returns an empty, passing report.
func NewValidationReport() *ValidationReport {
	return &ValidationReport{Passed: true, Findings: []Finding{}}
}

// AddError records an error-severity finding and fails the report.
func (r *ValidationReport) AddError(code, message, entityID string) {
	r.Findings = append(r.Findings, Finding{
		Severity: SeverityError,
		Code:     code,
		Message:  message,
		EntityID: entityID,
	})
	r.Passed = false
}

// AddWarning records a warning-severity finding. Warnings never flip
// Passed; the book stays usable downstream.
func (r *ValidationReport) AddWarning(code, message, entityID string) {
	r.Findings = append(r.Findings, Finding{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		EntityID: entityID,
	})
}

// Errors returns only the error-severity findings.
func (r *ValidationReport) Errors() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}

// Warnings returns only the warning-severity findings.
func (r *ValidationReport) Warnings() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == SeverityWarning {
			out = append(out, f)
		}
	}
	return out
}

// Merge appends another report's findings into this one.
func (r *ValidationReport) Merge(other *ValidationReport) {
	if other == nil {
		return
	}
	r.Findings = append(r.Findings, other.Findings...)
	if !other.Passed {
		r.Passed = false
	}
}
