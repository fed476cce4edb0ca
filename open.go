package tiffcore

// Document is a fully parsed TIFF/BigTIFF file: its header and the raw IFD
// chain, each entry kept in its original wire-endian bytes until a caller
// asks for a typed page (§4.3-§4.5).
type Document struct {
	Header Header
	reader Reader

	ifdOffsets []uint64
	ifds       []RawIFD
}

// defaultMaxPages bounds the IFD chain walk when a caller doesn't specify
// one, so a corrupt or adversarial file with a cyclic next-IFD link can't
// hang the reader (§4.3 edge case).
const defaultMaxPages = 65536

// OpenDocument reads the header and walks the IFD chain up to maxPages
// entries, without extracting or interpreting any tag values. Pass
// maxPages<=0 for the library default.
func OpenDocument(r Reader, maxPages int) (*Document, error) {
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	header, err := GetFirstIFDOffset(r)
	if err != nil {
		return nil, err
	}

	offsets, err := WalkIFDChain(r, header.Format, header.Endian, header.FirstIFDOffset, maxPages)
	if err != nil {
		return nil, err
	}

	ifds := make([]RawIFD, len(offsets))
	for i, offset := range offsets {
		ifd, err := ReadIFD(r, header.Format, header.Endian, offset)
		if err != nil {
			return nil, wrapErr(InvalidPageIndex, err, "reading IFD %d at offset %d", i, offset)
		}
		if !ifd.IsSorted() {
			ifd.SortEntries()
		}
		ifds[i] = ifd
	}

	return &Document{Header: header, reader: r, ifdOffsets: offsets, ifds: ifds}, nil
}

// PageCount returns the number of IFDs found in the chain.
func (d *Document) PageCount() int {
	return len(d.ifds)
}

// Page extracts the baseline tags of IFD index and assembles a
// PageDescriptor ready to hand to an ImageReader (§4.4, §4.11).
func (d *Document) Page(index int) (PageDescriptor, error) {
	if index < 0 || index >= len(d.ifds) {
		return PageDescriptor{}, newErr(InvalidPageIndex, "page index %d out of range [0,%d)", index, len(d.ifds))
	}
	tags, err := Extract(BaselineTagSpec, d.ifds[index], d.Header.Format, d.Header.Endian, d.reader)
	if err != nil {
		return PageDescriptor{}, wrapErr(InvalidTag, err, "extracting tags for page %d", index)
	}
	return PageDescriptorFromTags(tags, d.Header.Endian)
}

// Tags extracts the baseline tags of IFD index without assembling a
// PageDescriptor, for callers that need finer-grained tag access.
func (d *Document) Tags(index int) (*Tags, error) {
	if index < 0 || index >= len(d.ifds) {
		return nil, newErr(InvalidPageIndex, "page index %d out of range [0,%d)", index, len(d.ifds))
	}
	return Extract(BaselineTagSpec, d.ifds[index], d.Header.Format, d.Header.Endian, d.reader)
}

// OpenImageReader opens r, extracts page index, and wraps it in an
// ImageReader configured with opts, for the common case of a caller that
// wants to go straight from bytes to ReadRegion calls.
func OpenImageReader(r Reader, index int, opts ReaderOptions) (*ImageReader, PageDescriptor, error) {
	doc, err := OpenDocument(r, 0)
	if err != nil {
		return nil, PageDescriptor{}, err
	}
	page, err := doc.Page(index)
	if err != nil {
		return nil, PageDescriptor{}, err
	}
	ir, err := NewImageReader(r, opts)
	if err != nil {
		return nil, PageDescriptor{}, err
	}
	return ir, page, nil
}
