// Package raw is the lowest layer of sealpdf: the PDF object graph
// (dictionaries, arrays, streams, references) and its write-direction byte
// serialization. Everything the rest of the module produces eventually
// becomes one of these objects, assigned a reference by the engine package
// and serialized by Serialize.
package raw

import "fmt"

// ObjectRef uniquely identifies an indirect PDF object. Generation is always
// 0 for freshly written objects; the field exists because the PDF object
// model has one, not because this library ever reuses a generation number.
type ObjectRef struct {
	Num int
	Gen int
}

func (r ObjectRef) String() string { return fmt.Sprintf("%d %d R", r.Num, r.Gen) }

func (r ObjectRef) IsZero() bool { return r.Num == 0 && r.Gen == 0 }

// Object is the base interface for every PDF primitive.
type Object interface {
	Type() string
}

// Name is a PDF name object, e.g. /Type.
type Name struct{ V string }

func (Name) Type() string { return "name" }

// Number is a PDF numeric object, integer or real.
type Number struct {
	I     int64
	F     float64
	IsInt bool
}

func (Number) Type() string { return "number" }

func (n Number) Float() float64 {
	if n.IsInt {
		return float64(n.I)
	}
	return n.F
}

// Bool is a PDF boolean.
type Bool bool

func (Bool) Type() string { return "boolean" }

// Null is the PDF null object.
type Null struct{}

func (Null) Type() string { return "null" }

// String is a PDF string object, literal or hex-encoded on output.
type String struct {
	V  []byte
	Hex bool
}

func (String) Type() string { return "string" }

// Array is a PDF array object.
type Array struct{ Items []Object }

func (*Array) Type() string { return "array" }

func (a *Array) Append(items ...Object) *Array {
	a.Items = append(a.Items, items...)
	return a
}

// Dict is a PDF dictionary object. Keys are kept in insertion order so
// output is deterministic without needing to sort at serialize time.
type Dict struct {
	order []string
	kv    map[string]Object
}

func NewDict() *Dict { return &Dict{kv: make(map[string]Object)} }

func (*Dict) Type() string { return "dict" }

func (d *Dict) Set(key string, value Object) *Dict {
	if d.kv == nil {
		d.kv = make(map[string]Object)
	}
	if _, exists := d.kv[key]; !exists {
		d.order = append(d.order, key)
	}
	d.kv[key] = value
	return d
}

func (d *Dict) Get(key string) (Object, bool) {
	v, ok := d.kv[key]
	return v, ok
}

func (d *Dict) Keys() []string { return d.order }

func (d *Dict) Len() int { return len(d.order) }

// Stream is a PDF stream object: a dictionary plus already-filter-encoded
// bytes. The caller (engine/filters) is responsible for setting /Filter
// consistently with Data; NewStream sets /Length from len(data).
type Stream struct {
	Dict *Dict
	Data []byte
}

func (*Stream) Type() string { return "stream" }

func NewStream(dict *Dict, data []byte) *Stream {
	dict.Set("Length", Int(int64(len(data))))
	return &Stream{Dict: dict, Data: data}
}

// Ref is an indirect reference to another object.
type Ref struct{ To ObjectRef }

func (Ref) Type() string { return "ref" }

// Constructors mirroring the teacher's terse object-literal helpers.
func NameOf(v string) Name          { return Name{V: v} }
func Int(v int64) Number            { return Number{I: v, IsInt: true} }
func Real(v float64) Number         { return Number{F: v} }
func Str(v []byte) String           { return String{V: v} }
func HexStr(v []byte) String        { return String{V: v, Hex: true} }
func NewArray(items ...Object) *Array { return &Array{Items: items} }
func RefTo(r ObjectRef) Ref          { return Ref{To: r} }

// Floats converts a slice of float64 into a PDF array of reals.
func Floats(vs []float64) *Array {
	a := &Array{}
	for _, v := range vs {
		a.Append(Real(v))
	}
	return a
}

// Ints converts a slice of int into a PDF array of integers.
func Ints(vs []int) *Array {
	a := &Array{}
	for _, v := range vs {
		a.Append(Int(int64(v)))
	}
	return a
}
