package embed

import (
	"bytes"
	"strconv"
	"strings"
)

// objRef is a raw "N G R" indirect reference as it appears in an embedded
// PDF's bytes (distinct from raw.ObjectRef, which belongs to sealpdf's own
// output-side object graph).
type objRef struct{ num, gen int }

// pdfDict is a dictionary's fields with values kept as their original raw,
// unparsed byte spans; individual accessors parse a field's value on
// demand, since passthrough only ever needs a handful of fields per object.
type pdfDict struct {
	fields map[string][]byte
}

func (d pdfDict) rawField(key string) ([]byte, bool) {
	v, ok := d.fields[key]
	return v, ok
}

func (d pdfDict) nameField(key string) string {
	raw, ok := d.fields[key]
	if !ok {
		return ""
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '/' {
		return ""
	}
	end := 1
	for end < len(raw) && !isDelim(raw[end]) {
		end++
	}
	return string(raw[1:end])
}

func (d pdfDict) refField(key string) (objRef, bool) {
	raw, ok := d.fields[key]
	if !ok {
		return objRef{}, false
	}
	return parseRef(raw)
}

func (d pdfDict) refArrayField(key string) ([]objRef, bool) {
	raw, ok := d.fields[key]
	if !ok {
		return nil, false
	}
	inner, ok := stripArray(raw)
	if !ok {
		return nil, false
	}
	tokens := tokenize(inner)
	var refs []objRef
	for i := 0; i+2 < len(tokens); {
		if tokens[i+2] == "R" {
			num, err1 := strconv.Atoi(tokens[i])
			gen, err2 := strconv.Atoi(tokens[i+1])
			if err1 == nil && err2 == nil {
				refs = append(refs, objRef{num: num, gen: gen})
			}
			i += 3
			continue
		}
		i++
	}
	return refs, true
}

func (d pdfDict) floatArrayField(key string) ([]float64, bool) {
	raw, ok := d.fields[key]
	if !ok {
		return nil, false
	}
	inner, ok := stripArray(raw)
	if !ok {
		return nil, false
	}
	var out []float64
	for _, tok := range tokenize(inner) {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	return out, true
}

func parseRef(raw []byte) (objRef, bool) {
	tokens := tokenize(bytes.TrimSpace(raw))
	if len(tokens) < 3 || tokens[2] != "R" {
		return objRef{}, false
	}
	num, err1 := strconv.Atoi(tokens[0])
	gen, err2 := strconv.Atoi(tokens[1])
	if err1 != nil || err2 != nil {
		return objRef{}, false
	}
	return objRef{num: num, gen: gen}, true
}

func stripArray(raw []byte) ([]byte, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) < 2 || raw[0] != '[' || raw[len(raw)-1] != ']' {
		return nil, false
	}
	return raw[1 : len(raw)-1], true
}

func tokenize(b []byte) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			flush()
		case c == '/':
			flush()
			start := i
			i++
			for i < len(b) && !isDelim(b[i]) {
				i++
			}
			out = append(out, string(b[start:i]))
			i--
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return out
}

func isDelim(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '/', '[', ']', '<', '>', '(', ')':
		return true
	default:
		return false
	}
}

// extractDict finds the first "<<...>>" span in b, respecting nested
// dictionaries, and returns its inner bytes.
func extractDict(b []byte) ([]byte, error) {
	start := bytes.Index(b, []byte("<<"))
	if start < 0 {
		return nil, errMalformed("expected dictionary")
	}
	depth := 0
	i := start
	for i < len(b)-1 {
		switch {
		case b[i] == '<' && b[i+1] == '<':
			depth++
			i += 2
		case b[i] == '>' && b[i+1] == '>':
			depth--
			i += 2
			if depth == 0 {
				return b[start+2 : i-2], nil
			}
		default:
			i++
		}
	}
	return nil, errMalformed("unterminated dictionary")
}

// parseDict splits a dictionary's inner bytes into /Key -> raw-value spans.
// Values that are themselves dictionaries are captured whole (including
// their own << >> delimiters) so rawField can hand back e.g. a page's
// /Resources dictionary unparsed.
func parseDict(inner []byte) pdfDict {
	fields := make(map[string][]byte)
	i := 0
	for i < len(inner) {
		for i < len(inner) && (inner[i] == ' ' || inner[i] == '\t' || inner[i] == '\r' || inner[i] == '\n') {
			i++
		}
		if i >= len(inner) || inner[i] != '/' {
			i++
			continue
		}
		keyStart := i + 1
		i++
		for i < len(inner) && !isDelim(inner[i]) {
			i++
		}
		key := string(inner[keyStart:i])

		for i < len(inner) && (inner[i] == ' ' || inner[i] == '\t' || inner[i] == '\r' || inner[i] == '\n') {
			i++
		}
		valStart := i
		switch {
		case i+1 < len(inner) && inner[i] == '<' && inner[i+1] == '<':
			depth := 0
			for i < len(inner)-1 {
				if inner[i] == '<' && inner[i+1] == '<' {
					depth++
					i += 2
					continue
				}
				if inner[i] == '>' && inner[i+1] == '>' {
					depth--
					i += 2
					if depth == 0 {
						break
					}
					continue
				}
				i++
			}
		case i < len(inner) && inner[i] == '[':
			depth := 0
			for i < len(inner) {
				if inner[i] == '[' {
					depth++
				} else if inner[i] == ']' {
					depth--
					if depth == 0 {
						i++
						break
					}
				}
				i++
			}
		default:
			if i < len(inner) && inner[i] == '/' {
				// A name value (e.g. /Type /Catalog): consume just the
				// name itself, not up to the next key's leading slash.
				i++
				for i < len(inner) && !isDelim(inner[i]) {
					i++
				}
			} else {
				for i < len(inner) && inner[i] != '/' {
					i++
				}
			}
		}
		fields[key] = bytes.TrimSpace(inner[valStart:i])
	}
	return pdfDict{fields: fields}
}
