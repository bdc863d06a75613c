package analyzer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hangxie/parquet-go/v2/parquet"

	"github.com/hangxie/parquet-analyzer/model"
)

var errTruncatedSchema = errors.New("schema declares more children than elements")

// schemaNode is a schema element with its children resolved from the flat
// depth-first list
type schemaNode struct {
	elem     *parquet.SchemaElement
	path     []string
	children []*schemaNode
}

type schemaCursor struct {
	elems []*parquet.SchemaElement
	pos   int
}

func (c *schemaCursor) readNode(parent []string) (*schemaNode, error) {
	if c.pos >= len(c.elems) {
		return nil, errTruncatedSchema
	}
	elem := c.elems[c.pos]
	c.pos++

	node := &schemaNode{elem: elem}
	if parent != nil {
		node.path = append(append([]string{}, parent...), elem.Name)
	} else {
		node.path = []string{}
	}
	for range numChildren(elem) {
		child, err := c.readNode(node.path)
		if err != nil {
			return nil, err
		}
		node.children = append(node.children, child)
	}
	return node, nil
}

// parseSchemaTree rebuilds the element tree, the returned node is the root
func parseSchemaTree(elems []*parquet.SchemaElement) (*schemaNode, error) {
	if len(elems) == 0 {
		return &schemaNode{elem: &parquet.SchemaElement{}, path: []string{}}, nil
	}
	cursor := &schemaCursor{elems: elems}
	root, err := cursor.readNode(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrFormat, err)
	}
	if cursor.pos != len(elems) {
		return nil, fmt.Errorf("%w: %d schema elements not reachable from root", model.ErrFormat, len(elems)-cursor.pos)
	}
	return root, nil
}

// BuildNativeSchema converts the flat schema element list of a footer into
// native fields, one per top-level column
func BuildNativeSchema(elems []*parquet.SchemaElement) ([]NativeField, error) {
	root, err := parseSchemaTree(elems)
	if err != nil {
		return nil, err
	}
	fields := make([]NativeField, 0, len(root.children))
	for _, child := range root.children {
		fields = append(fields, nativeField(child))
	}
	return fields, nil
}

func nativeField(n *schemaNode) NativeField {
	field := NativeField{
		Name:        n.elem.Name,
		Nullable:    repetitionOf(n.elem) == parquet.FieldRepetitionType_OPTIONAL,
		LogicalType: logicalLabel(n.elem),
	}
	typ := nativeType(n)
	if repetitionOf(n.elem) == parquet.FieldRepetitionType_REPEATED {
		// an unannotated repeated field is a required list of itself
		field.Type = &List{Element: NativeField{Name: "element", Type: typ}}
		return field
	}
	field.Type = typ
	return field
}

func nativeType(n *schemaNode) NativeType {
	if len(n.children) == 0 {
		if n.elem.IsSetType() {
			return primitiveOf(n.elem)
		}
		return &Struct{}
	}
	switch {
	case isListAnnotated(n.elem):
		if t := listOf(n); t != nil {
			return t
		}
	case isMapAnnotated(n.elem):
		if t := mapOf(n); t != nil {
			return t
		}
	}
	return structOf(n)
}

func structOf(n *schemaNode) *Struct {
	fields := make([]NativeField, 0, len(n.children))
	for _, child := range n.children {
		fields = append(fields, nativeField(child))
	}
	return &Struct{Fields: fields}
}

// listOf applies the LIST backward compatibility rules, nil means the group
// does not have a valid list shape
func listOf(n *schemaNode) NativeType {
	if len(n.children) != 1 {
		return nil
	}
	repeated := n.children[0]
	if repetitionOf(repeated.elem) != parquet.FieldRepetitionType_REPEATED {
		return nil
	}

	var element NativeField
	switch {
	case len(repeated.children) == 0:
		// two-level list of primitives
		element = NativeField{
			Name:        repeated.elem.Name,
			Type:        primitiveOf(repeated.elem),
			LogicalType: logicalLabel(repeated.elem),
		}
	case len(repeated.children) > 1 || repeated.elem.Name == "array" || repeated.elem.Name == n.elem.Name+"_tuple":
		// two-level list whose repeated group is the element
		element = NativeField{Name: repeated.elem.Name, Type: structOf(repeated)}
	default:
		element = nativeField(repeated.children[0])
	}
	return &List{Element: element}
}

// mapOf turns MAP (key_value) groups into a list of key/value structs
func mapOf(n *schemaNode) NativeType {
	if len(n.children) != 1 {
		return nil
	}
	kv := n.children[0]
	if repetitionOf(kv.elem) != parquet.FieldRepetitionType_REPEATED || len(kv.children) == 0 || len(kv.children) > 2 {
		return nil
	}
	return &List{
		Element: NativeField{Name: kv.elem.Name, Type: structOf(kv)},
		Map:     true,
	}
}

func isListAnnotated(elem *parquet.SchemaElement) bool {
	if elem.LogicalType != nil && elem.LogicalType.IsSetLIST() {
		return true
	}
	return elem.ConvertedType != nil && *elem.ConvertedType == parquet.ConvertedType_LIST
}

func isMapAnnotated(elem *parquet.SchemaElement) bool {
	if elem.LogicalType != nil && elem.LogicalType.IsSetMAP() {
		return true
	}
	if elem.ConvertedType == nil {
		return false
	}
	return *elem.ConvertedType == parquet.ConvertedType_MAP || *elem.ConvertedType == parquet.ConvertedType_MAP_KEY_VALUE
}

//nolint:gocyclo // one case per physical type and annotation
func primitiveOf(elem *parquet.SchemaElement) *Primitive {
	lt := elem.LogicalType
	if lt == nil {
		lt = &parquet.LogicalType{}
	}
	ct := parquet.ConvertedType(-1)
	if elem.ConvertedType != nil {
		ct = *elem.ConvertedType
	}
	decimal := func() *Primitive {
		p := &Primitive{Kind: KindDecimal, Precision: valueOr(elem.Precision), Scale: valueOr(elem.Scale)}
		if lt.IsSetDECIMAL() {
			p.Precision, p.Scale = lt.DECIMAL.Precision, lt.DECIMAL.Scale
		}
		return p
	}

	if !elem.IsSetType() {
		return &Primitive{Kind: KindNull}
	}
	switch *elem.Type {
	case parquet.Type_BOOLEAN:
		return &Primitive{Kind: KindBool}
	case parquet.Type_INT32:
		switch {
		case lt.IsSetDATE() || ct == parquet.ConvertedType_DATE:
			return &Primitive{Kind: KindDate}
		case lt.IsSetTIME():
			return &Primitive{Kind: KindTime, BitWidth: 32, Unit: timeUnitAbbrev(lt.TIME.Unit)}
		case ct == parquet.ConvertedType_TIME_MILLIS:
			return &Primitive{Kind: KindTime, BitWidth: 32, Unit: "ms"}
		case lt.IsSetDECIMAL() || ct == parquet.ConvertedType_DECIMAL:
			return decimal()
		case lt.IsSetINTEGER():
			return &Primitive{Kind: KindInt, BitWidth: int(lt.INTEGER.BitWidth), Signed: lt.INTEGER.IsSigned}
		}
		if width, signed, ok := convertedInteger(ct); ok {
			return &Primitive{Kind: KindInt, BitWidth: width, Signed: signed}
		}
		return &Primitive{Kind: KindInt, BitWidth: 32, Signed: true}
	case parquet.Type_INT64:
		switch {
		case lt.IsSetTIMESTAMP():
			return &Primitive{Kind: KindTimestamp, Unit: timeUnitAbbrev(lt.TIMESTAMP.Unit), UTC: lt.TIMESTAMP.IsAdjustedToUTC}
		case ct == parquet.ConvertedType_TIMESTAMP_MILLIS:
			return &Primitive{Kind: KindTimestamp, Unit: "ms", UTC: true}
		case ct == parquet.ConvertedType_TIMESTAMP_MICROS:
			return &Primitive{Kind: KindTimestamp, Unit: "us", UTC: true}
		case lt.IsSetTIME():
			return &Primitive{Kind: KindTime, BitWidth: 64, Unit: timeUnitAbbrev(lt.TIME.Unit)}
		case ct == parquet.ConvertedType_TIME_MICROS:
			return &Primitive{Kind: KindTime, BitWidth: 64, Unit: "us"}
		case lt.IsSetDECIMAL() || ct == parquet.ConvertedType_DECIMAL:
			return decimal()
		case lt.IsSetINTEGER():
			return &Primitive{Kind: KindInt, BitWidth: int(lt.INTEGER.BitWidth), Signed: lt.INTEGER.IsSigned}
		}
		if width, signed, ok := convertedInteger(ct); ok {
			return &Primitive{Kind: KindInt, BitWidth: width, Signed: signed}
		}
		return &Primitive{Kind: KindInt, BitWidth: 64, Signed: true}
	case parquet.Type_INT96:
		return &Primitive{Kind: KindTimestamp, Unit: "ns"}
	case parquet.Type_FLOAT:
		return &Primitive{Kind: KindFloat, BitWidth: 32}
	case parquet.Type_DOUBLE:
		return &Primitive{Kind: KindFloat, BitWidth: 64}
	case parquet.Type_BYTE_ARRAY:
		switch {
		case lt.IsSetSTRING() || lt.IsSetENUM() || lt.IsSetJSON():
			return &Primitive{Kind: KindString}
		case ct == parquet.ConvertedType_UTF8 || ct == parquet.ConvertedType_ENUM || ct == parquet.ConvertedType_JSON:
			return &Primitive{Kind: KindString}
		case lt.IsSetDECIMAL() || ct == parquet.ConvertedType_DECIMAL:
			return decimal()
		}
		return &Primitive{Kind: KindBinary}
	case parquet.Type_FIXED_LEN_BYTE_ARRAY:
		switch {
		case lt.IsSetDECIMAL() || ct == parquet.ConvertedType_DECIMAL:
			return decimal()
		case lt.IsSetFLOAT16():
			return &Primitive{Kind: KindFloat, BitWidth: 16}
		case ct == parquet.ConvertedType_INTERVAL:
			return &Primitive{Kind: KindInterval}
		}
		return &Primitive{Kind: KindFixedSizeBinary, ByteWidth: valueOr(elem.TypeLength)}
	}
	return &Primitive{Kind: KindNull}
}

func convertedInteger(ct parquet.ConvertedType) (int, bool, bool) {
	switch ct {
	case parquet.ConvertedType_INT_8:
		return 8, true, true
	case parquet.ConvertedType_INT_16:
		return 16, true, true
	case parquet.ConvertedType_INT_32:
		return 32, true, true
	case parquet.ConvertedType_INT_64:
		return 64, true, true
	case parquet.ConvertedType_UINT_8:
		return 8, false, true
	case parquet.ConvertedType_UINT_16:
		return 16, false, true
	case parquet.ConvertedType_UINT_32:
		return 32, false, true
	case parquet.ConvertedType_UINT_64:
		return 64, false, true
	}
	return 0, false, false
}

func timeUnitAbbrev(unit *parquet.TimeUnit) string {
	switch {
	case unit == nil:
		return "ms"
	case unit.IsSetMICROS():
		return "us"
	case unit.IsSetNANOS():
		return "ns"
	}
	return "ms"
}

// leafIndex maps the dot-joined path of every leaf to its schema element
type leafIndex struct {
	exact  map[string]*parquet.SchemaElement
	folded map[string]*parquet.SchemaElement
}

func newLeafIndex(root *schemaNode) *leafIndex {
	idx := &leafIndex{
		exact:  map[string]*parquet.SchemaElement{},
		folded: map[string]*parquet.SchemaElement{},
	}
	var walk func(n *schemaNode)
	walk = func(n *schemaNode) {
		if len(n.children) == 0 && len(n.path) > 0 {
			key := strings.Join(n.path, ".")
			idx.exact[key] = n.elem
			if _, found := idx.folded[strings.ToLower(key)]; !found {
				idx.folded[strings.ToLower(key)] = n.elem
			}
		}
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(root)
	return idx
}

// lookup matches exactly first, then case-insensitively to handle writers
// that disagree on key_value vs Key_value
func (idx *leafIndex) lookup(path []string) *parquet.SchemaElement {
	key := strings.Join(path, ".")
	if elem, found := idx.exact[key]; found {
		return elem
	}
	return idx.folded[strings.ToLower(key)]
}

func numChildren(elem *parquet.SchemaElement) int {
	if elem.NumChildren == nil || *elem.NumChildren < 0 {
		return 0
	}
	return int(*elem.NumChildren)
}

func repetitionOf(elem *parquet.SchemaElement) parquet.FieldRepetitionType {
	if elem.RepetitionType == nil {
		return parquet.FieldRepetitionType_REQUIRED
	}
	return *elem.RepetitionType
}

func valueOr(v *int32) int32 {
	if v == nil {
		return 0
	}
	return *v
}
