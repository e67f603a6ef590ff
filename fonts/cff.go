package fonts

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
)

// CFF is a structurally parsed Compact Font Format program: header plus
// Name, Top DICT, and String INDEXes. Ported from the teacher's CFF
// reader, which itself stops at the same three tables — no CharStrings
// INDEX, charset, or encoding table parsing exists here or there, so this
// package can validate and describe an embedded CFF/OpenType-CFF program
// but cannot decompose it into individual glyphs. See DESIGN.md for why
// FontResource.Finalize embeds CFF programs unsubsetted rather than
// fabricating a charstring-level subsetter this reader was never built to
// support.
type CFF struct {
	Header   CFFHeader
	Names    []string
	TopDicts []map[int][]Operand // operator -> operands
	Strings  []string
}

type CFFHeader struct {
	Major   uint8
	Minor   uint8
	HdrSize uint8
	OffSize uint8
}

type Operand struct {
	Int   int
	Float float64
	IsInt bool
}

// cffROSOperator is the Top DICT operator (12 30, escaped as 1200+30) that
// marks a CID-keyed CFF: its presence is the only CID-keyedness signal
// this structural reader can surface without parsing the charset table.
const cffROSOperator = 1230

// ParseCFF parses data's Header, Name INDEX, Top DICT INDEX, and String
// INDEX, for FontResource.Finalize to validate and log metadata about an
// embedded FontFile3 program before embedding it unmodified.
func ParseCFF(data []byte) (*CFF, error) {
	r := bytes.NewReader(data)

	var hdr CFFHeader
	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read cff header: %w", err)
	}
	if _, err := r.Seek(int64(hdr.HdrSize), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek past cff header: %w", err)
	}

	names, err := readCFFIndex(r)
	if err != nil {
		return nil, fmt.Errorf("read name index: %w", err)
	}
	nameStrings := make([]string, len(names))
	for i, b := range names {
		nameStrings[i] = string(b)
	}

	topDictData, err := readCFFIndex(r)
	if err != nil {
		return nil, fmt.Errorf("read top dict index: %w", err)
	}
	topDicts := make([]map[int][]Operand, len(topDictData))
	for i, d := range topDictData {
		topDicts[i], err = parseCFFDict(d)
		if err != nil {
			return nil, fmt.Errorf("parse top dict %d: %w", i, err)
		}
	}

	stringData, err := readCFFIndex(r)
	if err != nil {
		return nil, fmt.Errorf("read string index: %w", err)
	}
	strings := make([]string, len(stringData))
	for i, b := range stringData {
		strings[i] = string(b)
	}

	return &CFF{Header: hdr, Names: nameStrings, TopDicts: topDicts, Strings: strings}, nil
}

// IsCIDKeyed reports whether the font's first Top DICT carries a ROS
// operator, i.e. is a CID-keyed CFF rather than a name-keyed one.
func (c *CFF) IsCIDKeyed() bool {
	if len(c.TopDicts) == 0 {
		return false
	}
	_, ok := c.TopDicts[0][cffROSOperator]
	return ok
}

func readCFFIndex(r *bytes.Reader) ([][]byte, error) {
	var count uint16
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	offSize, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	offsets := make([]int, count+1)
	for i := 0; i <= int(count); i++ {
		off, err := readCFFOffset(r, int(offSize))
		if err != nil {
			return nil, err
		}
		offsets[i] = off
	}

	totalSize := offsets[count] - 1 // offsets are 1-based relative to data start
	data := make([]byte, totalSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}

	items := make([][]byte, count)
	for i := 0; i < int(count); i++ {
		start := offsets[i] - 1
		end := offsets[i+1] - 1
		if start < 0 || end > len(data) || start > end {
			return nil, fmt.Errorf("invalid cff index offsets")
		}
		items[i] = data[start:end]
	}
	return items, nil
}

func readCFFOffset(r io.Reader, size int) (int, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[4-size:]); err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint32(buf[:])), nil
}

func parseCFFDict(data []byte) (map[int][]Operand, error) {
	dict := make(map[int][]Operand)
	var operands []Operand

	r := bytes.NewReader(data)
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch {
		case b <= 21:
			op := int(b)
			if b == 12 {
				b2, err := r.ReadByte()
				if err != nil {
					return nil, err
				}
				op = 1200 + int(b2)
			}
			dict[op] = operands
			operands = nil
		case b == 28 || b == 29 || (b >= 32 && b <= 254):
			_ = r.UnreadByte()
			val, err := readCFFInteger(r)
			if err != nil {
				return nil, err
			}
			operands = append(operands, Operand{Int: val, IsInt: true})
		case b == 30:
			val, err := readCFFReal(r)
			if err != nil {
				return nil, err
			}
			operands = append(operands, Operand{Float: val})
		default:
			// reserved
		}
	}
	return dict, nil
}

func readCFFReal(r *bytes.Reader) (float64, error) {
	var s string
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		done := false
		for _, n := range [2]byte{b >> 4, b & 0x0f} {
			switch n {
			case 0xa:
				s += "."
			case 0xb:
				s += "E"
			case 0xc:
				s += "E-"
			case 0xd:
				// reserved
			case 0xe:
				s += "-"
			case 0xf:
				done = true
			default:
				s += strconv.Itoa(int(n))
			}
			if done {
				break
			}
		}
		if done {
			break
		}
	}
	return strconv.ParseFloat(s, 64)
}

func readCFFInteger(r *bytes.Reader) (int, error) {
	b0, err := r.ReadByte()
	if err != nil {
		return 0, err
	}

	switch {
	case b0 >= 32 && b0 <= 246:
		return int(b0) - 139, nil
	case b0 >= 247 && b0 <= 250:
		b1, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		return (int(b0)-247)*256 + int(b1) + 108, nil
	case b0 >= 251 && b0 <= 254:
		b1, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		return -(int(b0)-251)*256 - int(b1) - 108, nil
	case b0 == 28:
		var val int16
		if err := binary.Read(r, binary.BigEndian, &val); err != nil {
			return 0, err
		}
		return int(val), nil
	case b0 == 29:
		var val int32
		if err := binary.Read(r, binary.BigEndian, &val); err != nil {
			return 0, err
		}
		return int(val), nil
	default:
		return 0, fmt.Errorf("invalid cff integer prefix: %d", b0)
	}
}
