package gapfill

import (
	"time"

	"github.com/yachtsql/yachtsql/sql/types"
	"github.com/yachtsql/yachtsql/yerrors"
)

// RawArgs is the loosely-typed argument bag the parser hands the core
// for a GAP_FILL(...) call before planning resolves column names to
// indices — mirroring how the Rust original accepts a map of argument
// name to a dynamically-typed value. Keeping this separate from Spec
// lets Apply stay strict over fully-resolved input while ParseArgs
// absorbs the source's documented tolerance for malformed shapes
// (spec.md section 9 open question: preserved here for compatibility).
type RawArgs map[string]interface{}

// ValueColumnArg is one entry of the value_columns argument: a column
// name paired with a fill-strategy name ("null"/"locf"/"linear").
type ValueColumnArg struct {
	Name     string
	Strategy string
}

// ParseArgs resolves RawArgs against schema into a Spec. Per spec.md
// section 4.5: missing ts_column or bucket_width is a fatal
// InvalidQuery error; ts_column given as a non-string is fatal;
// unknown parameter names are tolerated as benign no-ops; malformed
// value_columns shapes (non-array, wrong-arity tuples) fall back to
// an empty value-column list rather than erroring, matching the
// source's documented tolerant behavior.
func ParseArgs(args RawArgs, schema types.Schema) (Spec, error) {
	tsRaw, ok := args["ts_column"]
	if !ok {
		return Spec{}, yerrors.InvalidQuery.New("gap fill: missing required argument ts_column")
	}
	tsName, ok := tsRaw.(string)
	if !ok {
		return Spec{}, yerrors.InvalidQuery.New("gap fill: ts_column must be a string column name")
	}
	tsIdx := schema.IndexOf(tsName)
	if tsIdx < 0 {
		return Spec{}, yerrors.ColumnNotFound.New(tsName)
	}

	widthRaw, ok := args["bucket_width"]
	if !ok {
		return Spec{}, yerrors.InvalidQuery.New("gap fill: missing required argument bucket_width")
	}
	width, ok := widthRaw.(types.Interval)
	if !ok {
		return Spec{}, yerrors.InvalidQuery.New("gap fill: bucket_width must be an INTERVAL")
	}

	spec := Spec{
		TSIndex:     tsIdx,
		BucketWidth: width,
	}

	if originRaw, ok := args["origin"]; ok {
		if o, ok := originRaw.(time.Time); ok {
			spec.Origin = &o
		}
	}
	if spec.Origin == nil {
		zero := time.Unix(0, 0).UTC()
		spec.Origin = &zero
	}

	if partRaw, ok := args["partitioning_columns"]; ok {
		if names, ok := partRaw.([]string); ok {
			for _, n := range names {
				idx := schema.IndexOf(n)
				if idx >= 0 {
					spec.PartitioningIndices = append(spec.PartitioningIndices, idx)
				}
			}
		}
		// A non-[]string shape is tolerated as "no partitioning",
		// per the source's benign-default behavior for malformed
		// argument shapes.
	}

	if vcRaw, ok := args["value_columns"]; ok {
		if vcs, ok := vcRaw.([]ValueColumnArg); ok {
			for _, vc := range vcs {
				idx := schema.IndexOf(vc.Name)
				if idx < 0 {
					continue
				}
				spec.ValueColumns = append(spec.ValueColumns, ValueColumn{
					Name:     vc.Name,
					Index:    idx,
					Strategy: strategyFromName(vc.Strategy),
				})
			}
		}
		// Non-array value_columns or wrong-arity tuples fall back to
		// the empty list (every non-ts/partition column effectively
		// gets no fill, which downstream Apply treats as "NULL on
		// gaps" since it is simply absent from ValueColumns).
	}

	return spec, nil
}

func strategyFromName(name string) FillStrategy {
	switch name {
	case "locf":
		return FillLOCF
	case "linear":
		return FillLinear
	default:
		return FillNull
	}
}
