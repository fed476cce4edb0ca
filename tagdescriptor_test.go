package tiffcore

import "testing"

func TestNewTagSpecSortsByCode(t *testing.T) {
	spec, err := NewTagSpec(
		TagDescriptor{Code: 300, PrimaryType: TypeShort, Kind: VScalarU16},
		TagDescriptor{Code: 100, PrimaryType: TypeShort, Kind: VScalarU16},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	descs := spec.Descriptors()
	if descs[0].Code != 100 || descs[1].Code != 300 {
		t.Errorf("expected descriptors sorted by code, got %v then %v", descs[0].Code, descs[1].Code)
	}
}

func TestNewTagSpecRejectsDuplicateCodes(t *testing.T) {
	_, err := NewTagSpec(
		TagDescriptor{Code: 100, PrimaryType: TypeShort, Kind: VScalarU16},
		TagDescriptor{Code: 100, PrimaryType: TypeLong, Kind: VScalarU32},
	)
	if err == nil {
		t.Fatal("expected an error for a duplicate tag code")
	}
}

func TestNewTagSpecRejectsRationalWithAlternates(t *testing.T) {
	_, err := NewTagSpec(
		TagDescriptor{Code: 100, PrimaryType: TypeRational, Kind: VRational, Alternates: []DataType{TypeLong}},
	)
	if err == nil {
		t.Fatal("expected an error for a rational descriptor with alternates")
	}
}

func TestNewTagSpecRejectsNonStringPrimaryForStringKind(t *testing.T) {
	_, err := NewTagSpec(
		TagDescriptor{Code: 100, PrimaryType: TypeLong, Kind: VString},
	)
	if err == nil {
		t.Fatal("expected an error for a VString descriptor whose primary type isn't Ascii/Undefined")
	}
}

func TestBaselineTagSpecIsSorted(t *testing.T) {
	descs := BaselineTagSpec.Descriptors()
	for i := 1; i < len(descs); i++ {
		if descs[i-1].Code >= descs[i].Code {
			t.Fatalf("BaselineTagSpec not strictly sorted at index %d: %d >= %d", i, descs[i-1].Code, descs[i].Code)
		}
	}
}
