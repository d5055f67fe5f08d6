package aisjson

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Parser is a recursive-descent JSON parser that resolves field names
// back through the dictionary, for round-tripping settings/control
// messages received over the HTTP/WebSocket control plane (spec §4.6,
// grounded on JSON/JSON.h's tokenizer+Parser class). Unknown field
// names are kept in Object.Extra under their literal names, with their
// parsed values, rather than rejected, since control JSON may carry
// app-defined extensions.
type Parser struct {
	Mode DictMode

	src []byte
	pos int
}

// Parse parses a single JSON object from s.
func Parse(s string, mode DictMode) (*Object, error) {
	p := &Parser{Mode: mode, src: []byte(s)}
	p.skipSpace()
	obj, err := p.parseObject()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("aisjson: trailing data at offset %d", p.pos)
	}
	return obj, nil
}

func (p *Parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *Parser) peek() (byte, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *Parser) expect(c byte) error {
	b, ok := p.peek()
	if !ok || b != c {
		return fmt.Errorf("aisjson: expected %q at offset %d", c, p.pos)
	}
	p.pos++
	return nil
}

func (p *Parser) parseObject() (*Object, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	obj := NewObject()
	p.skipSpace()
	if b, ok := p.peek(); ok && b == '}' {
		p.pos++
		return obj, nil
	}
	for {
		p.skipSpace()
		fieldName, err := p.parseString()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		p.skipSpace()
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if k, ok := lookupKey(fieldName, p.Mode); ok {
			obj.Add(k, v)
		} else {
			// Preserve unknown fields so settings round-trip without loss.
			obj.AddExtra(fieldName, v)
		}
		p.skipSpace()
		b, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("aisjson: unterminated object")
		}
		if b == ',' {
			p.pos++
			continue
		}
		if b == '}' {
			p.pos++
			return obj, nil
		}
		return nil, fmt.Errorf("aisjson: expected , or } at offset %d", p.pos)
	}
}

func (p *Parser) parseValue() (Value, error) {
	b, ok := p.peek()
	if !ok {
		return Value{}, fmt.Errorf("aisjson: unexpected end of input")
	}
	switch {
	case b == '{':
		obj, err := p.parseObject()
		if err != nil {
			return Value{}, err
		}
		return VObject(obj), nil
	case b == '[':
		return p.parseArray()
	case b == '"':
		s, err := p.parseString()
		if err != nil {
			return Value{}, err
		}
		return VString(s), nil
	case b == 't':
		if err := p.literal("true"); err != nil {
			return Value{}, err
		}
		return VBool(true), nil
	case b == 'f':
		if err := p.literal("false"); err != nil {
			return Value{}, err
		}
		return VBool(false), nil
	case b == 'n':
		if err := p.literal("null"); err != nil {
			return Value{}, err
		}
		return VNull(), nil
	case b == '-' || (b >= '0' && b <= '9'):
		return p.parseNumber()
	default:
		return Value{}, fmt.Errorf("aisjson: unexpected character %q at offset %d", b, p.pos)
	}
}

func (p *Parser) literal(lit string) error {
	if p.pos+len(lit) > len(p.src) || string(p.src[p.pos:p.pos+len(lit)]) != lit {
		return fmt.Errorf("aisjson: expected %q at offset %d", lit, p.pos)
	}
	p.pos += len(lit)
	return nil
}

func (p *Parser) parseArray() (Value, error) {
	if err := p.expect('['); err != nil {
		return Value{}, err
	}
	var elems []Value
	p.skipSpace()
	if b, ok := p.peek(); ok && b == ']' {
		p.pos++
		return Value{Type: TypeArray, List: elems}, nil
	}
	for {
		p.skipSpace()
		v, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
		p.skipSpace()
		b, ok := p.peek()
		if !ok {
			return Value{}, fmt.Errorf("aisjson: unterminated array")
		}
		if b == ',' {
			p.pos++
			continue
		}
		if b == ']' {
			p.pos++
			strs := make([]string, 0, len(elems))
			for _, e := range elems {
				if e.Type != TypeString {
					return Value{Type: TypeArray, List: elems}, nil
				}
				strs = append(strs, e.Str)
			}
			return VStringArray(strs), nil
		}
		return Value{}, fmt.Errorf("aisjson: expected , or ] at offset %d", p.pos)
	}
}

func (p *Parser) parseString() (string, error) {
	if err := p.expect('"'); err != nil {
		return "", err
	}
	var sb strings.Builder
	for {
		if p.pos >= len(p.src) {
			return "", fmt.Errorf("aisjson: unterminated string")
		}
		c := p.src[p.pos]
		if c == '"' {
			p.pos++
			return sb.String(), nil
		}
		if c == '\\' {
			p.pos++
			if p.pos >= len(p.src) {
				return "", fmt.Errorf("aisjson: unterminated escape")
			}
			esc := p.src[p.pos]
			switch esc {
			case '"', '\\', '/':
				sb.WriteByte(esc)
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case 'u':
				if p.pos+4 >= len(p.src) {
					return "", fmt.Errorf("aisjson: truncated unicode escape")
				}
				code, err := strconv.ParseUint(string(p.src[p.pos+1:p.pos+5]), 16, 32)
				if err != nil {
					return "", fmt.Errorf("aisjson: bad unicode escape: %w", err)
				}
				var buf [utf8.UTFMax]byte
				n := utf8.EncodeRune(buf[:], rune(code))
				sb.Write(buf[:n])
				p.pos += 4
			default:
				return "", fmt.Errorf("aisjson: unknown escape \\%c", esc)
			}
			p.pos++
			continue
		}
		sb.WriteByte(c)
		p.pos++
	}
}

func (p *Parser) parseNumber() (Value, error) {
	start := p.pos
	if b, ok := p.peek(); ok && b == '-' {
		p.pos++
	}
	isFloat := false
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c >= '0' && c <= '9':
			p.pos++
		case c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-':
			isFloat = true
			p.pos++
		default:
			goto done
		}
	}
done:
	text := string(p.src[start:p.pos])
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("aisjson: bad number %q: %w", text, err)
		}
		return VFloat(f), nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Value{}, fmt.Errorf("aisjson: bad number %q: %w", text, err)
	}
	return VInt(i), nil
}
