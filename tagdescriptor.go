package tiffcore

import "sort"

// ValueKind selects how a tag's on-wire bytes are decoded into a Go value.
// Go has no compile-time binding from a tag code to a struct field offset,
// so — per the table-driven approach this kind of registry should take in a
// language without that facility — every TagDescriptor carries an explicit
// ValueKind instead of being derived from a declared field type.
type ValueKind uint8

const (
	VScalarU8 ValueKind = iota
	VScalarU16
	VScalarU32
	VScalarU64
	VScalarI8
	VScalarI16
	VScalarI32
	VScalarI64
	VScalarF32
	VScalarF64
	VRational
	VSRational
	VString
	VContainerU8
	VContainerU16
	VContainerU32
	VContainerU64
)

// TagDescriptor statically declares a (tag code, primary TIFF type, domain
// value kind) triple, with an optional flag and a list of alternate TIFF
// types accepted for read-time promotion (§4.4).
type TagDescriptor struct {
	Code        uint16
	PrimaryType DataType
	Kind        ValueKind
	Optional    bool
	Alternates  []DataType
	// FixedLength constrains a container descriptor to an exact element
	// count; zero means any count is accepted.
	FixedLength int
}

func (d TagDescriptor) isRational() bool {
	return d.Kind == VRational || d.Kind == VSRational
}

func (d TagDescriptor) isString() bool {
	return d.Kind == VString
}

func (d TagDescriptor) isContainer() bool {
	switch d.Kind {
	case VContainerU8, VContainerU16, VContainerU32, VContainerU64:
		return true
	default:
		return false
	}
}

// acceptsType reports whether entry.Type can satisfy this descriptor, either
// as the primary type or via promotion from an alternate.
func (d TagDescriptor) acceptsType(t DataType) (fileType DataType, ok bool) {
	if t == d.PrimaryType {
		return t, true
	}
	for _, alt := range d.Alternates {
		if t == alt {
			return t, true
		}
	}
	return 0, false
}

// TagSpec is an ordered, duplicate-free list of tag descriptors sorted by
// tag code, enabling the two-pointer merge Extract performs against an IFD.
type TagSpec struct {
	descriptors []TagDescriptor
}

// NewTagSpec validates and builds a TagSpec. Validation mirrors what a
// compile-time check would enforce in a language with richer generics
// (Design Note 1): strictly ascending unique codes, no promotion on
// rational descriptors, and string descriptors bound only to Ascii or
// Undefined.
func NewTagSpec(descriptors ...TagDescriptor) (*TagSpec, error) {
	sorted := make([]TagDescriptor, len(descriptors))
	copy(sorted, descriptors)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	for i, d := range sorted {
		if i > 0 && sorted[i-1].Code == d.Code {
			return nil, newErr(InvalidArgument, "duplicate tag code %d in tag spec", d.Code)
		}
		if d.isRational() && len(d.Alternates) > 0 {
			return nil, newErr(InvalidArgument, "rational tag %d must not declare alternate types", d.Code)
		}
		if d.isString() && d.PrimaryType != TypeASCII && d.PrimaryType != TypeUndefined {
			return nil, newErr(InvalidArgument, "string tag %d must bind to Ascii or Undefined", d.Code)
		}
	}

	return &TagSpec{descriptors: sorted}, nil
}

// Descriptors returns the spec's descriptors in ascending code order.
func (s *TagSpec) Descriptors() []TagDescriptor {
	return s.descriptors
}
