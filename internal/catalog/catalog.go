// Package catalog loads and indexes COA reference data and exposes
// code to description lookups for the six account segments.
package catalog

import (
	"strings"

	"fjacquet/treasury-docs/internal/docerror"
	"fjacquet/treasury-docs/internal/logging"
	"fjacquet/treasury-docs/internal/models"
)

// Row is one (code, description) pair from a segment table.
type Row struct {
	Code        string `csv:"code" yaml:"code"`
	Description string `csv:"description" yaml:"description"`
}

// SegmentTable is the already-loaded tabular data for one segment.
// The catalog does not read spreadsheet files itself.
type SegmentTable struct {
	Kind models.SegmentKind
	Rows []Row
}

// Catalog is the in-memory code index. Built once per run, read-only
// afterwards, so lookups need no locking.
type Catalog struct {
	entries map[models.SegmentKind]map[string]models.CodeEntry
	logger  logging.Logger
}

// requiredSegments are the tables that must be present for a load to
// succeed. The two future segments may legitimately be empty.
var requiredSegments = []models.SegmentKind{
	models.SegmentEntity,
	models.SegmentCostCenter,
	models.SegmentGLAccount,
	models.SegmentBudgetGroup,
}

// Normalize applies the canonical code normalization: trim whitespace,
// upper-case, and left-pad with zeros to the segment's fixed width.
// The same function runs at load time and lookup time, so "102" and
// "000102" index the same GL account entry.
func Normalize(kind models.SegmentKind, code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	if width := models.SegmentWidth(kind); len(c) < width {
		c = strings.Repeat("0", width-len(c)) + c
	}
	return c
}

// isAllZero reports whether a normalized code consists only of zeros.
func isAllZero(code string) bool {
	return code != "" && strings.Trim(code, "0") == ""
}

// New builds a Catalog from segment tables. It fails with a
// ReferenceLoadError when a required table is missing or a row has an
// empty code.
func New(tables []SegmentTable, logger logging.Logger) (*Catalog, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	entries := make(map[models.SegmentKind]map[string]models.CodeEntry, models.SegmentCount)
	for _, kind := range models.SegmentOrder() {
		entries[kind] = make(map[string]models.CodeEntry)
	}

	seen := make(map[models.SegmentKind]bool)
	for _, table := range tables {
		index, ok := entries[table.Kind]
		if !ok {
			return nil, &docerror.ReferenceLoadError{
				Segment: string(table.Kind),
				Reason:  "unknown segment kind",
			}
		}
		seen[table.Kind] = true

		for _, row := range table.Rows {
			code := Normalize(table.Kind, row.Code)
			if strings.TrimSpace(row.Code) == "" {
				return nil, &docerror.ReferenceLoadError{
					Segment: string(table.Kind),
					Reason:  "row with empty code",
				}
			}
			if _, dup := index[code]; dup {
				logger.Warn("Duplicate reference code, keeping first entry",
					logging.Field{Key: "segment", Value: string(table.Kind)},
					logging.Field{Key: "code", Value: code})
				continue
			}
			index[code] = models.CodeEntry{
				Kind:        table.Kind,
				Code:        code,
				Description: strings.TrimSpace(row.Description),
			}
		}
	}

	for _, kind := range requiredSegments {
		if !seen[kind] {
			return nil, &docerror.ReferenceLoadError{
				Segment: string(kind),
				Reason:  "required segment table missing",
			}
		}
	}

	c := &Catalog{entries: entries, logger: logger}
	logger.Debug("Reference catalog loaded",
		logging.Field{Key: "entries", Value: c.Size()})
	return c, nil
}

// Lookup resolves a code against the loaded reference data. The code
// is normalized before lookup. All-zero future codes resolve to an
// "N/A" entry rather than reporting unknown, since empty future
// segments are the common case.
func (c *Catalog) Lookup(kind models.SegmentKind, code string) (models.CodeEntry, bool) {
	normalized := Normalize(kind, code)
	if entry, ok := c.entries[kind][normalized]; ok {
		return entry, true
	}
	if (kind == models.SegmentFuture1 || kind == models.SegmentFuture2) && isAllZero(normalized) {
		return models.CodeEntry{Kind: kind, Code: normalized, Description: "N/A"}, true
	}
	return models.CodeEntry{}, false
}

// Size returns the total number of indexed entries.
func (c *Catalog) Size() int {
	total := 0
	for _, index := range c.entries {
		total += len(index)
	}
	return total
}
