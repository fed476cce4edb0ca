package tiffcore

import "sort"

// RawTagEntry is the fixed-size on-wire tag record (§3). The inline value
// bytes are kept in source endianness; typed accessors convert lazily.
type RawTagEntry struct {
	Code     uint16
	Type     DataType
	Count    uint64 // number of items of Type, not bytes
	InlineOrOffset [8]byte // 4 bytes used for Classic, 8 for BigTIFF
}

// InlineLimit returns the byte count at or below which a value is stored inline in
// InlineOrOffset rather than at an external offset (§4.3/§4.4).
func (f Format) InlineLimit() uint64 {
	if f == BigTIFF {
		return 8
	}
	return 4
}

// valueSize is count * tiffTypeSize(type) in bytes.
func (e RawTagEntry) valueSize() uint64 {
	return e.Count * tiffTypeSize(e.Type)
}

// IsInline reports whether the entry's value lives in InlineOrOffset.
func (e RawTagEntry) IsInline(format Format) bool {
	return e.valueSize() <= format.InlineLimit()
}

// offset interprets InlineOrOffset as an external file offset in the given
// endianness and width.
func (e RawTagEntry) offset(format Format, endian Endian) uint64 {
	bo := endian.byteOrder()
	if format == BigTIFF {
		return bo.Uint64(e.InlineOrOffset[:8])
	}
	return uint64(bo.Uint32(e.InlineOrOffset[:4]))
}

// RawIFD is an unparsed Image File Directory: a sorted-or-not array of raw
// tag entries plus the offset of the next IFD (0 terminates the chain).
type RawIFD struct {
	Offset  uint64
	Entries []RawTagEntry
	NextIFD uint64
}

const (
	classicEntrySize = 12
	bigTIFFEntrySize = 20
)

func entrySize(format Format) uint64 {
	if format == BigTIFF {
		return bigTIFFEntrySize
	}
	return classicEntrySize
}

func countFieldSize(format Format) uint64 {
	if format == BigTIFF {
		return 8
	}
	return 2
}

func nextOffsetFieldSize(format Format) uint64 {
	if format == BigTIFF {
		return 8
	}
	return 4
}

// ReadIFD reads the tag count, all raw tag entries, and the next-IFD offset
// for the IFD at offset, in as few reads as possible (§4.3). Returned entries
// remain in source endianness; endianness conversion happens on typed access.
func ReadIFD(r Reader, format Format, endian Endian, offset uint64) (RawIFD, error) {
	bo := endian.byteOrder()

	countView, err := r.Read(offset, countFieldSize(format))
	if err != nil {
		return RawIFD{}, wrapErr(ReadError, err, "failed to read tag count at offset %d", offset)
	}
	countRaw := countView.Data()
	if uint64(len(countRaw)) < countFieldSize(format) {
		return RawIFD{}, newErr(UnexpectedEndOfFile, "truncated tag count at offset %d", offset)
	}

	var tagCount uint64
	if format == BigTIFF {
		tagCount = bo.Uint64(countRaw)
	} else {
		tagCount = uint64(bo.Uint16(countRaw))
	}

	bodySize := tagCount*entrySize(format) + nextOffsetFieldSize(format)
	bodyOffset := offset + countFieldSize(format)
	bodyView, err := r.Read(bodyOffset, bodySize)
	if err != nil {
		return RawIFD{}, wrapErr(ReadError, err, "failed to read IFD body at offset %d", bodyOffset)
	}
	body := bodyView.Data()
	if uint64(len(body)) < bodySize {
		return RawIFD{}, newErr(UnexpectedEndOfFile, "truncated IFD body at offset %d", bodyOffset)
	}

	entries := make([]RawTagEntry, tagCount)
	es := entrySize(format)
	for i := uint64(0); i < tagCount; i++ {
		rec := body[i*es : (i+1)*es]
		var e RawTagEntry
		e.Code = bo.Uint16(rec[0:2])
		e.Type = DataType(bo.Uint16(rec[2:4]))
		if format == BigTIFF {
			e.Count = bo.Uint64(rec[4:12])
			copy(e.InlineOrOffset[:8], rec[12:20])
		} else {
			e.Count = uint64(bo.Uint32(rec[4:8]))
			copy(e.InlineOrOffset[:4], rec[8:12])
		}
		entries[i] = e
	}

	nextOffBytes := body[tagCount*es:]
	var nextIFD uint64
	if format == BigTIFF {
		nextIFD = bo.Uint64(nextOffBytes[:8])
	} else {
		nextIFD = uint64(bo.Uint32(nextOffBytes[:4]))
	}

	return RawIFD{Offset: offset, Entries: entries, NextIFD: nextIFD}, nil
}

// IsSorted reports whether the entries are in ascending tag-code order, as
// the TIFF spec mandates. Entries sharing a code count as sorted.
func (ifd RawIFD) IsSorted() bool {
	return sort.SliceIsSorted(ifd.Entries, func(i, j int) bool {
		return ifd.Entries[i].Code < ifd.Entries[j].Code
	})
}

// SortEntries sorts the entries in place by ascending tag code. Used by the
// lenient extraction path (§4.4) when a malformed file violates ordering.
func (ifd *RawIFD) SortEntries() {
	sort.SliceStable(ifd.Entries, func(i, j int) bool {
		return ifd.Entries[i].Code < ifd.Entries[j].Code
	})
}

// WalkIFDChain follows next_ifd_offset links starting at first, collecting
// offsets until a zero terminator or maxPages is reached (§4.3, §8).
func WalkIFDChain(r Reader, format Format, endian Endian, first uint64, maxPages int) ([]uint64, error) {
	var offsets []uint64
	offset := first
	for offset != 0 && len(offsets) < maxPages {
		offsets = append(offsets, offset)
		ifd, err := ReadIFD(r, format, endian, offset)
		if err != nil {
			return offsets, err
		}
		offset = ifd.NextIFD
	}
	return offsets, nil
}
