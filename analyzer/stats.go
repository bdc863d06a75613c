package analyzer

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hangxie/parquet-go/v2/parquet"

	"github.com/hangxie/parquet-analyzer/model"
)

// TimestampLayout is how INT64 timestamp statistics are rendered
const TimestampLayout = "2006-01-02 15:04:05"

var errIncomparable = errors.New("values are not comparable")

// chunkStats is the statistics view of one column chunk
type chunkStats struct {
	nullCount     *int64
	distinctCount *int64
	min           any
	max           any
	diagnostics   []model.Diagnostic
}

// extractStatistics reads the optional statistics of a chunk. Decoding is best
// effort: a value that can not be rendered keeps its raw form and the failure
// is recorded as a diagnostic.
func extractStatistics(rowGroup int, meta *parquet.ColumnMetaData, elem *parquet.SchemaElement, opts Options) chunkStats {
	var out chunkStats
	stats := meta.Statistics
	if stats == nil {
		return out
	}
	out.nullCount = copyInt64(stats.NullCount)
	out.distinctCount = copyInt64(stats.DistinctCount)

	// prefer MinValue/MaxValue over the deprecated Min/Max
	rawMin, rawMax := stats.MinValue, stats.MaxValue
	if rawMin == nil && rawMax == nil {
		rawMin, rawMax = stats.Min, stats.Max
	}
	if rawMin == nil || rawMax == nil {
		return out
	}

	path := strings.Join(meta.PathInSchema, ".")
	minValue, errMin := decodePlain(rawMin, meta.Type)
	maxValue, errMax := decodePlain(rawMax, meta.Type)
	if err := errors.Join(errMin, errMax); err != nil {
		out.diagnostics = append(out.diagnostics, warning(model.DiagStatDecode, rowGroup, "%s: %v", path, err))
		out.min, out.max = rawMin, rawMax
		return out
	}
	out.min, out.max = minValue, maxValue

	switch meta.Type {
	case parquet.Type_BYTE_ARRAY:
		if utf8.Valid(rawMin) && utf8.Valid(rawMax) {
			out.min, out.max = string(rawMin), string(rawMax)
		} else {
			out.diagnostics = append(out.diagnostics, info(model.DiagUTF8Decode, rowGroup, "%s: min/max are not valid UTF-8, kept as bytes", path))
		}
	case parquet.Type_INT64:
		unit, ok := timestampUnit(path, elem, opts)
		if !ok {
			break
		}
		minText, errMin := formatTimestamp(minValue.(int64), unit)
		maxText, errMax := formatTimestamp(maxValue.(int64), unit)
		if err := errors.Join(errMin, errMax); err != nil {
			out.diagnostics = append(out.diagnostics, info(model.DiagTimestampFormat, rowGroup, "%s: %v", path, err))
			break
		}
		out.min, out.max = minText, maxText
	}
	return out
}

// decodePlain decodes a PLAIN encoded statistics value. Integers widen to
// int64 and floats to float64 so values of one column always compare.
func decodePlain(raw []byte, t parquet.Type) (any, error) {
	need := map[parquet.Type]int{
		parquet.Type_BOOLEAN: 1,
		parquet.Type_INT32:   4,
		parquet.Type_INT64:   8,
		parquet.Type_FLOAT:   4,
		parquet.Type_DOUBLE:  8,
	}[t]
	if len(raw) < need {
		return nil, fmt.Errorf("%s statistics value has %d bytes, need %d", t, len(raw), need)
	}

	switch t {
	case parquet.Type_BOOLEAN:
		return raw[0] != 0, nil
	case parquet.Type_INT32:
		return int64(int32(binary.LittleEndian.Uint32(raw))), nil
	case parquet.Type_INT64:
		return int64(binary.LittleEndian.Uint64(raw)), nil
	case parquet.Type_FLOAT:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(raw))), nil
	case parquet.Type_DOUBLE:
		return math.Float64frombits(binary.LittleEndian.Uint64(raw)), nil
	}
	// BYTE_ARRAY, FIXED_LEN_BYTE_ARRAY and INT96 stay raw
	return bytes.Clone(raw), nil
}

// timestampUnit decides whether an INT64 column is rendered as a timestamp.
// A path containing "timestamp" is read as epoch milliseconds, the TIMESTAMP
// annotation is honoured only when enabled.
func timestampUnit(path string, elem *parquet.SchemaElement, opts Options) (string, bool) {
	if opts.TimestampFromLogicalType && elem != nil {
		if lt := elem.LogicalType; lt != nil && lt.IsSetTIMESTAMP() {
			return timeUnitAbbrev(lt.TIMESTAMP.Unit), true
		}
		if ct := elem.ConvertedType; ct != nil {
			switch *ct {
			case parquet.ConvertedType_TIMESTAMP_MILLIS:
				return "ms", true
			case parquet.ConvertedType_TIMESTAMP_MICROS:
				return "us", true
			}
		}
	}
	if strings.Contains(strings.ToLower(path), "timestamp") {
		return "ms", true
	}
	return "", false
}

func formatTimestamp(v int64, unit string) (string, error) {
	var ts time.Time
	switch unit {
	case "us":
		ts = time.UnixMicro(v)
	case "ns":
		ts = time.Unix(0, v)
	default:
		ts = time.UnixMilli(v)
	}
	ts = ts.UTC()
	if ts.Year() < 1 || ts.Year() > 9999 {
		return "", fmt.Errorf("%d is out of range for a %s timestamp", v, unit)
	}
	return ts.Format(TimestampLayout), nil
}

// compareValues orders two decoded statistics values
func compareValues(a, b any) (int, error) {
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return cmp.Compare(x, y), nil
		case float64:
			return cmp.Compare(float64(x), y), nil
		}
	case float64:
		switch y := b.(type) {
		case float64:
			return cmp.Compare(x, y), nil
		case int64:
			return cmp.Compare(x, float64(y)), nil
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), nil
		}
	case []byte:
		if y, ok := b.([]byte); ok {
			return bytes.Compare(x, y), nil
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0, nil
			case !x:
				return -1, nil
			}
			return 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %T and %T", errIncomparable, a, b)
}

func info(kind model.DiagnosticKind, rowGroup int, format string, args ...any) model.Diagnostic {
	return model.Diagnostic{Severity: model.SeverityInfo, Kind: kind, RowGroup: rowGroup, Message: fmt.Sprintf(format, args...)}
}

func warning(kind model.DiagnosticKind, rowGroup int, format string, args ...any) model.Diagnostic {
	return model.Diagnostic{Severity: model.SeverityWarning, Kind: kind, RowGroup: rowGroup, Message: fmt.Sprintf(format, args...)}
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
