package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	dtcbor "github.com/datatrails/go-datatrails-common/cbor"
	"github.com/datatrails/go-datatrails-common/logger"

	"github.com/KuanWang-Astro/mergertools/sublink"
)

// Opener opens one file for reading. It exists so tests and alternative
// storage arrangements can substitute the file access.
type Opener interface {
	Open(string) (io.ReadCloser, error)
}

type osOpener struct{}

func (osOpener) Open(name string) (io.ReadCloser, error) { return os.Open(name) }

// DirReader reads catalog column files from a local directory tree laid out
// like the public data releases:
//
//	postprocessing/trees/SubLink/tree_extended.<chunk>/<Field>.col
//	postprocessing/offsets/offsets_<snap, zero padded>/<Field>.col
//	groups/groups_<snap>/<Field>.col
type DirReader struct {
	log      logger.Logger
	basePath string
	opener   Opener
	codec    dtcbor.CBORCodec
}

type DirReaderOption func(*DirReader)

func WithOpener(o Opener) DirReaderOption {
	return func(r *DirReader) {
		r.opener = o
	}
}

func NewDirReader(log logger.Logger, basePath string, opts ...DirReaderOption) (*DirReader, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", basePath)
	}
	codec, err := NewCatalogCodec()
	if err != nil {
		return nil, err
	}
	r := &DirReader{
		log:      log,
		basePath: basePath,
		opener:   osOpener{},
		codec:    codec,
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// ColFilePath resolves the relative path of one column file. Shared by
// DirReader and BlobReader so a local mirror matches the remote naming.
func ColFilePath(catalog string, num int64, field string) (string, error) {
	if err := validCatalog(catalog); err != nil {
		return "", err
	}
	switch catalog {
	case CatalogSubLink:
		return fmt.Sprintf("postprocessing/trees/SubLink/tree_extended.%d/%s.col", num, field), nil
	case CatalogOffsets:
		return fmt.Sprintf("postprocessing/offsets/offsets_%03d/%s.col", num, field), nil
	default:
		return fmt.Sprintf("groups/groups_%d/%s.col", num, field), nil
	}
}

func (r *DirReader) readOne(catalog string, num int64, field string) (sublink.Column, error) {
	rel, err := ColFilePath(catalog, num, field)
	if err != nil {
		return nil, err
	}
	name := filepath.Join(r.basePath, filepath.FromSlash(rel))
	f, err := r.opener.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hdr, col, err := ReadColumn(f, r.codec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if hdr.Catalog != catalog || hdr.FileNum != num || hdr.Field != field {
		return nil, fmt.Errorf("%w: %s holds %s %d %s",
			ErrColFileWrongName, name, hdr.Catalog, hdr.FileNum, hdr.Field)
	}
	return col, nil
}

func (r *DirReader) ReadColumns(
	ctx context.Context, catalog string, num int64, fields []string,
) (map[string]sublink.Column, error) {
	cols := make(map[string]sublink.Column, len(fields))
	for _, field := range fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		col, err := r.readOne(catalog, num, field)
		if err != nil {
			return nil, err
		}
		cols[field] = col
	}
	r.log.Debugf("dirreader: read %s %d: %d columns", catalog, num, len(fields))
	return cols, nil
}
