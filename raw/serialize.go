package raw

import (
	"bytes"
	"fmt"
)

// Serialize writes the PDF-syntax byte representation of o. References are
// written as "<num> <gen> R" verbatim; the caller (engine.ChunkContainer) is
// responsible for having already remapped every ObjectRef to its final
// file-order number before calling this.
func Serialize(o Object) []byte {
	var buf bytes.Buffer
	serializeInto(&buf, o)
	return buf.Bytes()
}

func serializeInto(buf *bytes.Buffer, o Object) {
	switch v := o.(type) {
	case Name:
		buf.WriteByte('/')
		buf.WriteString(v.V)
	case Number:
		if v.IsInt {
			fmt.Fprintf(buf, "%d", v.I)
		} else {
			fmt.Fprintf(buf, "%g", v.F)
		}
	case Bool:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Null:
		buf.WriteString("null")
	case String:
		if v.Hex {
			buf.WriteByte('<')
			fmt.Fprintf(buf, "%X", v.V)
			buf.WriteByte('>')
		} else {
			buf.Write(escapeLiteralString(v.V))
		}
	case *Array:
		buf.WriteByte('[')
		for i, it := range v.Items {
			if i > 0 {
				buf.WriteByte(' ')
			}
			serializeInto(buf, it)
		}
		buf.WriteByte(']')
	case *Dict:
		buf.WriteString("<<")
		for _, k := range v.order {
			buf.WriteByte('/')
			buf.WriteString(k)
			buf.WriteByte(' ')
			serializeInto(buf, v.kv[k])
			buf.WriteByte(' ')
		}
		buf.WriteString(">>")
	case *Stream:
		serializeInto(buf, v.Dict)
		buf.WriteString("\nstream\n")
		buf.Write(v.Data)
		buf.WriteString("\nendstream")
	case Ref:
		fmt.Fprintf(buf, "%d %d R", v.To.Num, v.To.Gen)
	default:
		buf.WriteString("null")
	}
}

func escapeLiteralString(v []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte('(')
	for _, b := range v {
		switch b {
		case '(', ')', '\\':
			buf.WriteByte('\\')
			buf.WriteByte(b)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		default:
			buf.WriteByte(b)
		}
	}
	buf.WriteByte(')')
	return buf.Bytes()
}
