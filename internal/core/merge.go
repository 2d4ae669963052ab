package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"municipal-limits/internal/shared"
	"municipal-limits/internal/vector"
)

const (
	LastUpdateField = "LASTUPDATE"
	GlobalIDField   = "GlobalID"
)

// MergeOptions controls how normalized source layers become one dataset.
type MergeOptions struct {
	CanonicalCRS    string
	AssignGlobalIDs bool
}

// MergeResult is the combined dataset with its derived date.
type MergeResult struct {
	Layer       *Layer
	DatasetDate time.Time
}

type Merger struct {
	NewID func() string
}

func NewMerger() Merger {
	return Merger{NewID: newGlobalID}
}

// Merge concatenates layers in order, re-asserts the canonical CRS and
// derives the dataset date from the latest LASTUPDATE.
func (m Merger) Merge(ctx context.Context, layers []*Layer, opts MergeOptions) (MergeResult, error) {
	if strings.TrimSpace(opts.CanonicalCRS) == "" {
		return MergeResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("canonical crs is required to merge layers")
	}
	combined := Concat(layers)
	combined.SetProjection(opts.CanonicalCRS)
	if opts.AssignGlobalIDs {
		m.AssignGlobalIDs(combined)
	}
	date, err := DatasetDate(combined)
	if err != nil {
		return MergeResult{}, err
	}
	log.Ctx(ctx).Info().
		Int("layers", len(layers)).
		Int("rows", combined.Table.Len()).
		Str("dataset_date", date.Format("2006-01-02")).
		Msg("layers merged")
	return MergeResult{Layer: combined, DatasetDate: date}, nil
}

// AssignGlobalIDs fills GlobalID on rows that have none with a braced,
// upper-case UUID.
func (m Merger) AssignGlobalIDs(layer *Layer) {
	newID := m.NewID
	if newID == nil {
		newID = newGlobalID
	}
	layer.Table.SetFunc(GlobalIDField, func(row vector.Row) any {
		current := row.Get(GlobalIDField)
		if !vector.IsEmptyValue(current) {
			return current
		}
		return newID()
	})
}

// DatasetDate is the latest LASTUPDATE of the layer truncated to a date.
func DatasetDate(layer *Layer) (time.Time, error) {
	if layer == nil || layer.Table.Len() == 0 {
		return time.Time{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("cannot compute dataset date of an empty layer")
	}
	latest, ok := shared.MaxTime(layer.Table.Column(LastUpdateField))
	if !ok {
		return time.Time{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("no row has a usable %s value", LastUpdateField))
	}
	return shared.TruncateToDate(latest), nil
}

// OutputFilename names the dataset file for date, e.g.
// "2019-06-10--limestone_co_municipal_limits.shp".
func OutputFilename(date time.Time, stem string, extension string) string {
	return fmt.Sprintf("%s--%s%s", date.Format("2006-01-02"), stem, extension)
}

func newGlobalID() string {
	return "{" + strings.ToUpper(uuid.NewString()) + "}"
}
