// Package resolver matches account keys against the reference catalog.
package resolver

import (
	"fjacquet/treasury-docs/internal/catalog"
	"fjacquet/treasury-docs/internal/docerror"
	"fjacquet/treasury-docs/internal/logging"
	"fjacquet/treasury-docs/internal/models"
)

// AccountResolver resolves each segment of an account key against the
// reference catalog. Unknown codes are flagged, never raised; partial
// resolution is a valid, reportable state.
type AccountResolver struct {
	catalog *catalog.Catalog
	logger  logging.Logger
}

// New creates an AccountResolver backed by the given catalog.
func New(cat *catalog.Catalog, logger logging.Logger) *AccountResolver {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &AccountResolver{catalog: cat, logger: logger}
}

// Resolve looks up all six segments of the key. It returns a
// MalformedKeyError only when the key does not have exactly six
// segments; a key full of unknown codes still resolves.
func (r *AccountResolver) Resolve(key models.AccountKey) (models.ResolvedAccount, error) {
	if len(key) != models.SegmentCount {
		return models.ResolvedAccount{}, &docerror.MalformedKeyError{
			Key:      key.String(),
			Segments: len(key),
		}
	}

	resolved := models.ResolvedAccount{Key: key}
	for i, kind := range models.SegmentOrder() {
		normalized := catalog.Normalize(kind, key[i])
		entry, ok := r.catalog.Lookup(kind, key[i])
		if ok {
			resolved.Segments[i] = models.ResolvedSegment{
				Kind:        kind,
				Code:        entry.Code,
				Description: entry.Description,
				Known:       true,
			}
			continue
		}
		r.logger.Debug("Unknown reference code",
			logging.Field{Key: "segment", Value: string(kind)},
			logging.Field{Key: "code", Value: normalized})
		resolved.Segments[i] = models.ResolvedSegment{
			Kind:        kind,
			Code:        normalized,
			Description: normalized,
			Known:       false,
		}
	}
	return resolved, nil
}
