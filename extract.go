package tiffcore

import "math"

// Tags is the result of extracting a TagSpec against an IFD: a sparse set of
// decoded values keyed by tag code, with presence tracked separately so an
// absent optional tag is distinguishable from a zero value.
type Tags struct {
	values map[uint16]any
}

// Get type-asserts the value stored for code into T. ok is false when the
// tag is absent or was extracted as a different Go type than T.
func Get[T any](tags *Tags, code uint16) (T, bool) {
	var zero T
	if tags == nil {
		return zero, false
	}
	raw, present := tags.values[code]
	if !present {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}

// Has reports whether code was present in the IFD and extracted.
func (t *Tags) Has(code uint16) bool {
	if t == nil {
		return false
	}
	_, ok := t.values[code]
	return ok
}

func signExtend(word uint64, width uint64) int64 {
	switch width {
	case 1:
		return int64(int8(word))
	case 2:
		return int64(int16(word))
	case 4:
		return int64(int32(word))
	default:
		return int64(word)
	}
}

func readWord(raw []byte, endian Endian, width uint64) uint64 {
	bo := endian.byteOrder()
	switch width {
	case 1:
		return uint64(raw[0])
	case 2:
		return uint64(bo.Uint16(raw))
	case 4:
		return uint64(bo.Uint32(raw))
	default:
		return bo.Uint64(raw)
	}
}

// Extract walks spec's descriptors and ifd's entries in ascending tag-code
// order simultaneously (§4.4). Entries must already be sorted by code;
// Extract itself never sorts — callers in lenient mode call ifd.SortEntries
// first. A required descriptor with no matching entry, a present entry whose
// type cannot satisfy the descriptor, or a malformed value is a hard error
// unless the descriptor is Optional, in which case it is simply absent from
// the result.
func Extract(spec *TagSpec, ifd RawIFD, format Format, endian Endian, r Reader) (*Tags, error) {
	result := &Tags{values: make(map[uint16]any, len(spec.descriptors))}
	entries := ifd.Entries

	j := 0
	for _, d := range spec.Descriptors() {
		for j < len(entries) && entries[j].Code < d.Code {
			j++
		}

		if j >= len(entries) || entries[j].Code != d.Code {
			if d.Optional {
				continue
			}
			return nil, newErr(InvalidTag, "required tag %d is missing", d.Code)
		}

		entry := entries[j]
		fileType, ok := d.acceptsType(entry.Type)
		if !ok {
			if d.Optional {
				continue
			}
			return nil, newErr(InvalidTagType, "tag %d has type %d, expected %d", d.Code, entry.Type, d.PrimaryType)
		}

		value, err := parseValue(d, entry, fileType, format, endian, r)
		if err != nil {
			if d.Optional {
				continue
			}
			return nil, err
		}
		result.values[d.Code] = value
	}

	return result, nil
}

func parseValue(d TagDescriptor, entry RawTagEntry, fileType DataType, format Format, endian Endian, r Reader) (any, error) {
	switch {
	case d.isString():
		return parseString(entry, format, endian, r)
	case d.isRational():
		return parseRational(d, entry, fileType, format, endian, r)
	case d.isContainer():
		return parseContainer(d, entry, fileType, format, endian, r)
	default:
		return parseScalar(d, entry, fileType, format, endian, r)
	}
}

func fetchBytes(entry RawTagEntry, format Format, endian Endian, r Reader) ([]byte, error) {
	size := entry.valueSize()
	if size <= format.InlineLimit() {
		return entry.InlineOrOffset[:size], nil
	}
	off := entry.offset(format, endian)
	view, err := r.Read(off, size)
	if err != nil {
		return nil, wrapErr(ReadError, err, "failed to read external value for tag %d at offset %d", entry.Code, off)
	}
	data := view.Data()
	if uint64(len(data)) < size {
		return nil, newErr(UnexpectedEndOfFile, "truncated external value for tag %d", entry.Code)
	}
	return data, nil
}

func parseScalar(d TagDescriptor, entry RawTagEntry, fileType DataType, format Format, endian Endian, r Reader) (any, error) {
	if entry.Count != 1 {
		return nil, newErr(InvalidTag, "scalar tag %d must have count 1, got %d", d.Code, entry.Count)
	}
	raw, err := fetchBytes(entry, format, endian, r)
	if err != nil {
		return nil, err
	}
	width := tiffTypeSize(fileType)
	if uint64(len(raw)) < width {
		return nil, newErr(UnexpectedEndOfFile, "truncated scalar value for tag %d", d.Code)
	}

	switch d.Kind {
	case VScalarF32:
		if width != 4 {
			return nil, newErr(InvalidTagType, "tag %d: float32 requires 4-byte wire type", d.Code)
		}
		return math.Float32frombits(uint32(readWord(raw, endian, 4))), nil
	case VScalarF64:
		if width != 8 {
			return nil, newErr(InvalidTagType, "tag %d: float64 requires 8-byte wire type", d.Code)
		}
		return math.Float64frombits(readWord(raw, endian, 8)), nil
	}

	word := readWord(raw, endian, width)
	switch d.Kind {
	case VScalarU8:
		return uint8(word), nil
	case VScalarU16:
		return uint16(word), nil
	case VScalarU32:
		return uint32(word), nil
	case VScalarU64:
		return word, nil
	case VScalarI8:
		return int8(signExtend(word, width)), nil
	case VScalarI16:
		return int16(signExtend(word, width)), nil
	case VScalarI32:
		return int32(signExtend(word, width)), nil
	case VScalarI64:
		return signExtend(word, width), nil
	default:
		return nil, newErr(InvalidArgument, "tag %d: unsupported scalar kind", d.Code)
	}
}

func parseRational(d TagDescriptor, entry RawTagEntry, fileType DataType, format Format, endian Endian, r Reader) (any, error) {
	if entry.Count != 1 {
		return nil, newErr(InvalidTag, "rational tag %d must have count 1, got %d", d.Code, entry.Count)
	}
	raw, err := fetchBytes(entry, format, endian, r)
	if err != nil {
		return nil, err
	}
	if len(raw) < 8 {
		return nil, newErr(UnexpectedEndOfFile, "truncated rational value for tag %d", d.Code)
	}
	bo := endian.byteOrder()
	if d.Kind == VSRational {
		return SRational{
			Numerator:   int32(bo.Uint32(raw[0:4])),
			Denominator: int32(bo.Uint32(raw[4:8])),
		}, nil
	}
	return Rational{
		Numerator:   bo.Uint32(raw[0:4]),
		Denominator: bo.Uint32(raw[4:8]),
	}, nil
}

func parseString(entry RawTagEntry, format Format, endian Endian, r Reader) (any, error) {
	if entry.Count == 0 {
		return "", nil
	}
	raw, err := fetchBytes(entry, format, endian, r)
	if err != nil {
		return nil, err
	}
	n := len(raw)
	for i, b := range raw {
		if b == 0 {
			n = i
			break
		}
	}
	return string(raw[:n]), nil
}

func parseContainer(d TagDescriptor, entry RawTagEntry, fileType DataType, format Format, endian Endian, r Reader) (any, error) {
	if d.FixedLength != 0 && uint64(d.FixedLength) != entry.Count {
		return nil, newErr(InvalidTag, "container tag %d requires count %d, got %d", d.Code, d.FixedLength, entry.Count)
	}
	raw, err := fetchBytes(entry, format, endian, r)
	if err != nil {
		return nil, err
	}
	width := tiffTypeSize(fileType)
	count := entry.Count
	if uint64(len(raw)) < count*width {
		return nil, newErr(UnexpectedEndOfFile, "truncated container value for tag %d", d.Code)
	}

	switch d.Kind {
	case VContainerU8:
		out := make([]uint8, count)
		for i := uint64(0); i < count; i++ {
			out[i] = uint8(readWord(raw[i*width:], endian, width))
		}
		return out, nil
	case VContainerU16:
		out := make([]uint16, count)
		for i := uint64(0); i < count; i++ {
			out[i] = uint16(readWord(raw[i*width:], endian, width))
		}
		return out, nil
	case VContainerU32:
		out := make([]uint32, count)
		for i := uint64(0); i < count; i++ {
			out[i] = uint32(readWord(raw[i*width:], endian, width))
		}
		return out, nil
	case VContainerU64:
		out := make([]uint64, count)
		for i := uint64(0); i < count; i++ {
			out[i] = readWord(raw[i*width:], endian, width)
		}
		return out, nil
	default:
		return nil, newErr(InvalidArgument, "tag %d: unsupported container kind", d.Code)
	}
}
