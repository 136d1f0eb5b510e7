package span

import (
	"github.com/ethpandaops/cubeplan/pkg/observability"
	"github.com/sirupsen/logrus"
)

// Resolver answers group and span queries for one axis during a layout pass
type Resolver struct {
	log     logrus.FieldLogger
	groups  []EdgeGroup
	headers HeaderLookup
}

// NewResolver creates a resolver over the axis groups; headers may be nil when the axis has no
// aggregation headers
func NewResolver(log logrus.FieldLogger, groups []EdgeGroup, headers HeaderLookup) *Resolver {
	return &Resolver{
		log:     log.WithField("component", "span"),
		groups:  groups,
		headers: headers,
	}
}

// Groups returns a copy of the resolver's groups
func (r *Resolver) Groups() []EdgeGroup {
	return append([]EdgeGroup(nil), r.groups...)
}

// GroupIndex see GroupIndex
func (r *Resolver) GroupIndex(dimensionIndex, levelIndex int) int {
	return GroupIndex(r.groups, dimensionIndex, levelIndex)
}

// GroupSpan see GroupSpan
func (r *Resolver) GroupSpan(dimensionIndex, levelIndex int) int {
	return GroupSpan(r.groups, dimensionIndex, levelIndex)
}

// PreviousGroup see PreviousGroup
func (r *Resolver) PreviousGroup(dimensionIndex, levelIndex int) (EdgeGroup, bool) {
	return PreviousGroup(r.groups, dimensionIndex, levelIndex)
}

// NextGroup see NextGroup
func (r *Resolver) NextGroup(dimensionIndex, levelIndex int) (EdgeGroup, bool) {
	return NextGroup(r.groups, dimensionIndex, levelIndex)
}

// IsLeafGroup reports whether the group at (dimensionIndex, levelIndex) is the innermost
// non-dummy group at the cursor's position. An unmatched group counts as a leaf.
func (r *Resolver) IsLeafGroup(cursor EdgeCursor, dimensionIndex, levelIndex int) (bool, error) {
	idx := GroupIndex(r.groups, dimensionIndex, levelIndex)
	if idx == -1 {
		return true, nil
	}

	return IsLeafGroup(cursor.DimensionCursors(), idx)
}

// RowSpan computes the row span of a group header at the cursor's position, see ComputeRowSpan
func (r *Resolver) RowSpan(cursor EdgeCursor, dimensionIndex, levelIndex int) (int, error) {
	span, walked, err := computeRowSpan(r.groups, dimensionIndex, levelIndex, cursor, r.headers)

	log := r.log.WithFields(logrus.Fields{
		"dimension": dimensionIndex,
		"level":     levelIndex,
	})

	switch {
	case err != nil:
		observability.RecordSpan("error", walked)
		observability.RecordError("span", "cursor")
		log.WithError(err).Debug("Row span computation failed")
	case walked == 0 && indexOf(r.groups, dimensionIndex, levelIndex) == -1:
		observability.RecordSpan("unmatched", 0)
	case walked == 0:
		observability.RecordSpan("leaf", 0)
	default:
		observability.RecordSpan("spanned", walked)
		log.WithFields(logrus.Fields{
			"span":   span,
			"walked": walked,
		}).Debug("Computed row span")
	}

	return span, err
}
