package analyzer

import (
	"encoding/binary"
	"math"

	"github.com/hangxie/parquet-go/v2/parquet"
)

func intPtr(v int32) *int32 {
	return &v
}

func int64Ptr(v int64) *int64 {
	return &v
}

func stringPtr(v string) *string {
	return &v
}

func parquetTypePtr(t parquet.Type) *parquet.Type {
	return &t
}

func repetitionPtr(r parquet.FieldRepetitionType) *parquet.FieldRepetitionType {
	return &r
}

func convertedTypePtr(c parquet.ConvertedType) *parquet.ConvertedType {
	return &c
}

func rootElement(children int) *parquet.SchemaElement {
	return &parquet.SchemaElement{Name: "schema", NumChildren: intPtr(int32(children))}
}

func leafElement(name string, t parquet.Type, rep parquet.FieldRepetitionType) *parquet.SchemaElement {
	return &parquet.SchemaElement{Name: name, Type: parquetTypePtr(t), RepetitionType: repetitionPtr(rep)}
}

func groupElement(name string, children int, rep parquet.FieldRepetitionType) *parquet.SchemaElement {
	return &parquet.SchemaElement{Name: name, NumChildren: intPtr(int32(children)), RepetitionType: repetitionPtr(rep)}
}

func listGroup(name string, rep parquet.FieldRepetitionType) *parquet.SchemaElement {
	elem := groupElement(name, 1, rep)
	elem.ConvertedType = convertedTypePtr(parquet.ConvertedType_LIST)
	elem.LogicalType = &parquet.LogicalType{LIST: &parquet.ListType{}}
	return elem
}

func stringElement(name string, rep parquet.FieldRepetitionType) *parquet.SchemaElement {
	elem := leafElement(name, parquet.Type_BYTE_ARRAY, rep)
	elem.ConvertedType = convertedTypePtr(parquet.ConvertedType_UTF8)
	elem.LogicalType = &parquet.LogicalType{STRING: &parquet.StringType{}}
	return elem
}

func encodeInt64(v int64) []byte {
	return binary.LittleEndian.AppendUint64(nil, uint64(v))
}

func encodeInt32(v int32) []byte {
	return binary.LittleEndian.AppendUint32(nil, uint32(v))
}

func encodeDouble(v float64) []byte {
	return binary.LittleEndian.AppendUint64(nil, math.Float64bits(v))
}

// chunk builds the metadata of one column chunk
func chunk(path []string, t parquet.Type, uncompressed, compressed, values int64, stats *parquet.Statistics) *parquet.ColumnMetaData {
	return &parquet.ColumnMetaData{
		Type:                  t,
		Encodings:             []parquet.Encoding{parquet.Encoding_PLAIN, parquet.Encoding_RLE},
		PathInSchema:          path,
		Codec:                 parquet.CompressionCodec_SNAPPY,
		NumValues:             values,
		TotalUncompressedSize: uncompressed,
		TotalCompressedSize:   compressed,
		Statistics:            stats,
	}
}

func rowGroup(rows int64, chunks ...*parquet.ColumnMetaData) *parquet.RowGroup {
	rg := &parquet.RowGroup{NumRows: rows}
	for _, meta := range chunks {
		rg.Columns = append(rg.Columns, &parquet.ColumnChunk{MetaData: meta})
		rg.TotalByteSize += meta.TotalUncompressedSize
	}
	return rg
}

// flatFooter is a five column flat schema with two row groups of 100 and 900 rows
func flatFooter() *parquet.FileMetaData {
	schema := []*parquet.SchemaElement{
		rootElement(5),
		leafElement("id", parquet.Type_INT64, parquet.FieldRepetitionType_REQUIRED),
		stringElement("name", parquet.FieldRepetitionType_OPTIONAL),
		leafElement("age", parquet.Type_INT64, parquet.FieldRepetitionType_OPTIONAL),
		leafElement("salary", parquet.Type_DOUBLE, parquet.FieldRepetitionType_OPTIONAL),
		leafElement("active", parquet.Type_BOOLEAN, parquet.FieldRepetitionType_REQUIRED),
	}
	first := rowGroup(100,
		chunk([]string{"id"}, parquet.Type_INT64, 800, 400, 100, &parquet.Statistics{
			MinValue: encodeInt64(1), MaxValue: encodeInt64(100), NullCount: int64Ptr(0), DistinctCount: int64Ptr(100),
		}),
		chunk([]string{"name"}, parquet.Type_BYTE_ARRAY, 1200, 600, 100, &parquet.Statistics{
			MinValue: []byte("Bob"), MaxValue: []byte("Eve"), NullCount: int64Ptr(2),
		}),
		chunk([]string{"age"}, parquet.Type_INT64, 800, 200, 100, nil),
		chunk([]string{"salary"}, parquet.Type_DOUBLE, 800, 700, 100, &parquet.Statistics{
			MinValue: encodeDouble(1000.5), MaxValue: encodeDouble(5000), NullCount: int64Ptr(1),
		}),
		chunk([]string{"active"}, parquet.Type_BOOLEAN, 13, 13, 100, &parquet.Statistics{
			MinValue: []byte{0}, MaxValue: []byte{1},
		}),
	)
	second := rowGroup(900,
		chunk([]string{"id"}, parquet.Type_INT64, 7200, 3600, 900, &parquet.Statistics{
			MinValue: encodeInt64(101), MaxValue: encodeInt64(1000), NullCount: int64Ptr(0), DistinctCount: int64Ptr(900),
		}),
		chunk([]string{"name"}, parquet.Type_BYTE_ARRAY, 10800, 5400, 900, &parquet.Statistics{
			MinValue: []byte("Alice"), MaxValue: []byte("Dan"), NullCount: int64Ptr(3),
		}),
		chunk([]string{"age"}, parquet.Type_INT64, 7200, 1800, 900, nil),
		chunk([]string{"salary"}, parquet.Type_DOUBLE, 7200, 6300, 900, &parquet.Statistics{
			MinValue: encodeDouble(500), MaxValue: encodeDouble(4000), NullCount: int64Ptr(4),
		}),
		chunk([]string{"active"}, parquet.Type_BOOLEAN, 113, 113, 900, &parquet.Statistics{
			MinValue: []byte{0}, MaxValue: []byte{1},
		}),
	)
	return &parquet.FileMetaData{
		Version:   2,
		Schema:    schema,
		NumRows:   1000,
		RowGroups: []*parquet.RowGroup{first, second},
		CreatedBy: stringPtr("parquet-analyzer test"),
	}
}
