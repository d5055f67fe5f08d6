package aisjson

// ValueType discriminates what a Value holds, mirroring JSON::Value's
// Type enum.
type ValueType int

const (
	TypeNull ValueType = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeObject
	TypeStringArray
	TypeArray
)

// Value is a tagged union holding exactly one of the fields implied by
// Type.
type Value struct {
	Type ValueType

	Bool    bool
	Int     int64
	Float   float64
	Str     string
	Object  *Object
	StrList []string
	List    []Value
}

func VBool(b bool) Value    { return Value{Type: TypeBool, Bool: b} }
func VInt(i int64) Value    { return Value{Type: TypeInt, Int: i} }
func VFloat(f float64) Value { return Value{Type: TypeFloat, Float: f} }
func VString(s string) Value { return Value{Type: TypeString, Str: s} }
func VObject(o *Object) Value { return Value{Type: TypeObject, Object: o} }
func VStringArray(ss []string) Value { return Value{Type: TypeStringArray, StrList: ss} }
func VNull() Value { return Value{Type: TypeNull} }

// Property is one ordered (key, value) pair in an Object.
type Property struct {
	Key   Key
	Value Value
}

// ExtraProperty is a JSON field the dictionary has no Key for —
// either an app-defined setting or a name the dictionary doesn't
// cover — kept by its literal name so it round-trips unchanged.
type ExtraProperty struct {
	Name  string
	Value Value
}

// Object is an ordered JSON object keyed by dictionary-coded Key
// values, mirroring JSON::JSON. Order of insertion is preserved so
// output matches the field order callers build it in. Extra holds
// fields the active dictionary didn't recognise at parse time.
type Object struct {
	Props []Property
	Extra []ExtraProperty
}

// NewObject returns an empty Object.
func NewObject() *Object { return &Object{} }

// Add appends a property, in insertion order.
func (o *Object) Add(k Key, v Value) {
	o.Props = append(o.Props, Property{Key: k, Value: v})
}

// AddExtra appends an undictionaried field by literal name.
func (o *Object) AddExtra(fieldName string, v Value) {
	o.Extra = append(o.Extra, ExtraProperty{Name: fieldName, Value: v})
}

// AddInt is a convenience wrapper for the common integer-field case.
func (o *Object) AddInt(k Key, v int64) { o.Add(k, VInt(v)) }

// AddFloat is a convenience wrapper for the common float-field case.
func (o *Object) AddFloat(k Key, v float64) { o.Add(k, VFloat(v)) }

// AddString is a convenience wrapper for the common string-field case.
func (o *Object) AddString(k Key, v string) { o.Add(k, VString(v)) }

// Get returns the first property with key k.
func (o *Object) Get(k Key) (Value, bool) {
	for _, p := range o.Props {
		if p.Key == k {
			return p.Value, true
		}
	}
	return Value{}, false
}
