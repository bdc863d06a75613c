package analyzer

import (
	"fmt"

	"github.com/hangxie/parquet-go/v2/parquet"
)

// FormatLogicalType formats the logical type for display, "-" when not set
func FormatLogicalType(logicalType *parquet.LogicalType) string {
	if logicalType == nil {
		return "-"
	}

	// LogicalType is a union type, check which field is set
	switch {
	case logicalType.IsSetSTRING():
		return "STRING"
	case logicalType.IsSetMAP():
		return "MAP"
	case logicalType.IsSetLIST():
		return "LIST"
	case logicalType.IsSetENUM():
		return "ENUM"
	case logicalType.IsSetDECIMAL():
		decimal := logicalType.DECIMAL
		return fmt.Sprintf("DECIMAL(%d,%d)", decimal.Precision, decimal.Scale)
	case logicalType.IsSetDATE():
		return "DATE"
	case logicalType.IsSetTIME():
		t := logicalType.TIME
		return fmt.Sprintf("TIME(%s,%s)", formatTimeUnit(t.Unit), adjustedLabel(t.IsAdjustedToUTC))
	case logicalType.IsSetTIMESTAMP():
		ts := logicalType.TIMESTAMP
		return fmt.Sprintf("TIMESTAMP(%s,%s)", formatTimeUnit(ts.Unit), adjustedLabel(ts.IsAdjustedToUTC))
	case logicalType.IsSetINTEGER():
		integer := logicalType.INTEGER
		sign := "signed"
		if !integer.IsSigned {
			sign = "unsigned"
		}
		return fmt.Sprintf("INTEGER(%d,%s)", integer.BitWidth, sign)
	case logicalType.IsSetUNKNOWN():
		return "UNKNOWN"
	case logicalType.IsSetJSON():
		return "JSON"
	case logicalType.IsSetBSON():
		return "BSON"
	case logicalType.IsSetUUID():
		return "UUID"
	case logicalType.IsSetFLOAT16():
		return "FLOAT16"
	case logicalType.IsSetVARIANT():
		return "VARIANT"
	case logicalType.IsSetGEOMETRY():
		return "GEOMETRY"
	case logicalType.IsSetGEOGRAPHY():
		return "GEOGRAPHY"
	}
	return "-"
}

func adjustedLabel(utc bool) string {
	if utc {
		return "UTC"
	}
	return "local"
}

func formatTimeUnit(unit *parquet.TimeUnit) string {
	switch {
	case unit == nil:
		return "unknown"
	case unit.IsSetMILLIS():
		return "MILLIS"
	case unit.IsSetMICROS():
		return "MICROS"
	case unit.IsSetNANOS():
		return "NANOS"
	}
	return "unknown"
}

// logicalLabel is the logical type of a schema element, falling back to the
// legacy converted type, nil when neither is set
func logicalLabel(elem *parquet.SchemaElement) *string {
	if label := FormatLogicalType(elem.LogicalType); label != "-" {
		return &label
	}
	if elem.ConvertedType != nil {
		label := elem.ConvertedType.String()
		return &label
	}
	return nil
}

// columnLogicalType is the logical type label of a column summary, the
// physical type when the column carries no annotation
func columnLogicalType(elem *parquet.SchemaElement, physical string) string {
	if elem == nil {
		return physical
	}
	if label := logicalLabel(elem); label != nil {
		return *label
	}
	return physical
}

func repetitionLabel(elem *parquet.SchemaElement) string {
	if elem == nil || elem.RepetitionType == nil {
		return "UNKNOWN"
	}
	return elem.RepetitionType.String()
}

func convertedLabel(elem *parquet.SchemaElement) string {
	if elem == nil || elem.ConvertedType == nil {
		return "NONE"
	}
	return elem.ConvertedType.String()
}
