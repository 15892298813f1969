package catalog

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	dtcbor "github.com/datatrails/go-datatrails-common/cbor"

	"github.com/KuanWang-Astro/mergertools/sublink"
)

// Column file layout: an 8 byte magic, a little endian uint32 header length,
// a CBOR encoded ColFileHeader, then the column payload in little endian
// element order. One file holds exactly one column of one catalog file.
var colFileMagic = []byte("MRGTCOL1")

const (
	DTypeInt64   = "int64"
	DTypeFloat32 = "float32"
)

// colFileMaxCount bounds the rows one column file may declare. The largest
// public release chunks hold a few hundred million rows, so anything past
// this is a corrupt or hostile header, not data.
const colFileMaxCount = int64(1) << 31

type ColFileHeader struct {
	Catalog string `cbor:"1,keyasint"`
	FileNum int64  `cbor:"2,keyasint"`
	Field   string `cbor:"3,keyasint"`
	DType   string `cbor:"4,keyasint"`
	Count   int64  `cbor:"5,keyasint"`
}

// NewCatalogCodec creates the deterministic CBOR codec used for column file
// headers and catalog manifests.
func NewCatalogCodec() (dtcbor.CBORCodec, error) {
	codec, err := dtcbor.NewCBORCodec(
		dtcbor.NewDeterministicEncOpts(),
		dtcbor.NewDeterministicDecOpts(),
	)
	if err != nil {
		return dtcbor.CBORCodec{}, err
	}
	return codec, nil
}

// WriteColumn writes one column file. The header's DType and Count are filled
// in from the column.
func WriteColumn(w io.Writer, codec dtcbor.CBORCodec, hdr ColFileHeader, col sublink.Column) error {
	hdr.Count = int64(col.Len())

	var payload []byte
	switch c := col.(type) {
	case sublink.IntColumn:
		hdr.DType = DTypeInt64
		payload = make([]byte, 8*len(c))
		for i, v := range c {
			binary.LittleEndian.PutUint64(payload[8*i:], uint64(v))
		}
	case sublink.FloatColumn:
		hdr.DType = DTypeFloat32
		payload = make([]byte, 4*len(c))
		for i, v := range c {
			binary.LittleEndian.PutUint32(payload[4*i:], math.Float32bits(v))
		}
	default:
		return fmt.Errorf("%w: %T", ErrColFileDType, col)
	}

	hdrBytes, err := codec.MarshalCBOR(hdr)
	if err != nil {
		return err
	}
	if _, err = w.Write(colFileMagic); err != nil {
		return err
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(hdrBytes)))
	if _, err = w.Write(lenBuf[:]); err != nil {
		return err
	}
	if _, err = w.Write(hdrBytes); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// ReadColumn decodes one column file.
func ReadColumn(r io.Reader, codec dtcbor.CBORCodec) (ColFileHeader, sublink.Column, error) {
	var hdr ColFileHeader

	magic := make([]byte, len(colFileMagic)+4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return hdr, nil, fmt.Errorf("%w: %v", ErrColFileNoMagic, err)
	}
	for i, b := range colFileMagic {
		if magic[i] != b {
			return hdr, nil, ErrColFileNoMagic
		}
	}
	hdrLen := binary.LittleEndian.Uint32(magic[len(colFileMagic):])
	hdrBytes := make([]byte, hdrLen)
	if _, err := io.ReadFull(r, hdrBytes); err != nil {
		return hdr, nil, fmt.Errorf("%w: %v", ErrColFileBadHeader, err)
	}
	if err := codec.UnmarshalInto(hdrBytes, &hdr); err != nil {
		return hdr, nil, fmt.Errorf("%w: %v", ErrColFileBadHeader, err)
	}
	if hdr.Count < 0 || hdr.Count > colFileMaxCount {
		return hdr, nil, fmt.Errorf("%w: count %d out of range", ErrColFileBadHeader, hdr.Count)
	}

	switch hdr.DType {
	case DTypeInt64:
		payload := make([]byte, 8*hdr.Count)
		if _, err := io.ReadFull(r, payload); err != nil {
			return hdr, nil, fmt.Errorf("%w: %v", ErrColFileTruncated, err)
		}
		col := make(sublink.IntColumn, hdr.Count)
		for i := range col {
			col[i] = int64(binary.LittleEndian.Uint64(payload[8*i:]))
		}
		return hdr, col, nil
	case DTypeFloat32:
		payload := make([]byte, 4*hdr.Count)
		if _, err := io.ReadFull(r, payload); err != nil {
			return hdr, nil, fmt.Errorf("%w: %v", ErrColFileTruncated, err)
		}
		col := make(sublink.FloatColumn, hdr.Count)
		for i := range col {
			col[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[4*i:]))
		}
		return hdr, col, nil
	}
	return hdr, nil, fmt.Errorf("%w: %q", ErrColFileDType, hdr.DType)
}
