package aisjson

import (
	"strconv"
	"strings"
)

// StringBuilder renders an Object tree to JSON text under one
// dictionary, skipping any Key that dictionary omits (spec §4.6,
// grounded on JSON/StringBuilder.h's stringify()).
type StringBuilder struct {
	Mode DictMode
}

// NewStringBuilder returns a builder for the given dictionary.
func NewStringBuilder(mode DictMode) *StringBuilder {
	return &StringBuilder{Mode: mode}
}

// Build renders obj as a JSON object string.
func (b *StringBuilder) Build(obj *Object) string {
	var sb strings.Builder
	b.writeObject(&sb, obj)
	return sb.String()
}

func (b *StringBuilder) writeObject(sb *strings.Builder, obj *Object) {
	sb.WriteByte('{')
	first := true
	for _, p := range obj.Props {
		fieldName := name(p.Key, b.Mode)
		if fieldName == "" {
			continue
		}
		if !first {
			sb.WriteByte(',')
		}
		first = false
		writeEscapedString(sb, fieldName)
		sb.WriteByte(':')
		b.writeValue(sb, p.Value)
	}
	for _, e := range obj.Extra {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		writeEscapedString(sb, e.Name)
		sb.WriteByte(':')
		b.writeValue(sb, e.Value)
	}
	sb.WriteByte('}')
}

func (b *StringBuilder) writeValue(sb *strings.Builder, v Value) {
	switch v.Type {
	case TypeNull:
		sb.WriteString("null")
	case TypeBool:
		if v.Bool {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case TypeInt:
		sb.WriteString(strconv.FormatInt(v.Int, 10))
	case TypeFloat:
		sb.WriteString(strconv.FormatFloat(v.Float, 'f', -1, 64))
	case TypeString:
		writeEscapedString(sb, v.Str)
	case TypeObject:
		if v.Object == nil {
			sb.WriteString("null")
			return
		}
		b.writeObject(sb, v.Object)
	case TypeStringArray:
		sb.WriteByte('[')
		for i, s := range v.StrList {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeEscapedString(sb, s)
		}
		sb.WriteByte(']')
	case TypeArray:
		sb.WriteByte('[')
		for i, e := range v.List {
			if i > 0 {
				sb.WriteByte(',')
			}
			b.writeValue(sb, e)
		}
		sb.WriteByte(']')
	}
}

// writeEscapedString writes s as a double-quoted JSON string literal
// (spec §4.6/§8's NMEA-adjacent property: output must remain valid
// JSON for every payload byte, including control characters).
func writeEscapedString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 {
				sb.WriteString("\\u00")
				const hex = "0123456789abcdef"
				sb.WriteByte(hex[c>>4])
				sb.WriteByte(hex[c&0xF])
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
}
