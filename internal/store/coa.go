package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"fjacquet/treasury-docs/internal/catalog"
	"fjacquet/treasury-docs/internal/docerror"
	"fjacquet/treasury-docs/internal/logging"
	"fjacquet/treasury-docs/internal/models"
)

// segmentFileNames maps each segment kind to its table file under the
// COA directory. Each file is CSV with code,description columns.
var segmentFileNames = map[models.SegmentKind]string{
	models.SegmentEntity:      "entity.csv",
	models.SegmentCostCenter:  "cost_center.csv",
	models.SegmentGLAccount:   "gl_account.csv",
	models.SegmentBudgetGroup: "budget_group.csv",
	models.SegmentFuture1:     "future1.csv",
	models.SegmentFuture2:     "future2.csv",
}

// LoadSegmentTables reads the six COA tables from coaDir. Missing
// future tables load as empty; a missing required table surfaces as a
// ReferenceLoadError from catalog construction.
func (s *Store) LoadSegmentTables(coaDir string) ([]catalog.SegmentTable, error) {
	var tables []catalog.SegmentTable
	for _, kind := range models.SegmentOrder() {
		path := filepath.Join(coaDir, segmentFileNames[kind])
		rows, err := readSegmentFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				s.logger.Warn("Segment table file missing",
					logging.Field{Key: "segment", Value: string(kind)},
					logging.Field{Key: "file", Value: path})
				continue
			}
			return nil, &docerror.ReferenceLoadError{
				Segment: string(kind),
				Reason:  "table file unreadable or malformed",
				Err:     err,
			}
		}
		tables = append(tables, catalog.SegmentTable{Kind: kind, Rows: rows})
	}
	return tables, nil
}

func readSegmentFile(path string) ([]catalog.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	var rows []catalog.Row
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("could not parse segment table %s: %w", path, err)
	}
	return rows, nil
}
