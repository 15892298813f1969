package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/datatrails/go-datatrails-common/azblob"
	dtcbor "github.com/datatrails/go-datatrails-common/cbor"
	"github.com/datatrails/go-datatrails-common/logger"

	"github.com/KuanWang-Astro/mergertools/sublink"
)

// catalogBlobReader is the subset of the azblob store api this reader needs.
type catalogBlobReader interface {
	Reader(
		ctx context.Context,
		identity string,
		opts ...azblob.Option,
	) (*azblob.ReaderResponse, error)
}

// BlobReader reads catalog column files from azure blob storage, one blob per
// column, named under prefix with the same scheme as DirReader.
type BlobReader struct {
	log    logger.Logger
	store  catalogBlobReader
	prefix string
	codec  dtcbor.CBORCodec

	// options forwarded on every read blob call
	readOpts []azblob.Option
}

type BlobReaderOption func(*BlobReader)

// WithReadBlobOption forwards an option on every read blob call, an etag
// match for example.
func WithReadBlobOption(opt azblob.Option) BlobReaderOption {
	return func(r *BlobReader) {
		r.readOpts = append(r.readOpts, opt)
	}
}

func NewBlobReader(
	log logger.Logger, store catalogBlobReader, prefix string, opts ...BlobReaderOption,
) (*BlobReader, error) {
	codec, err := NewCatalogCodec()
	if err != nil {
		return nil, err
	}
	r := &BlobReader{
		log:    log,
		store:  store,
		prefix: prefix,
		codec:  codec,
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

func (r *BlobReader) blobRead(ctx context.Context, blobPath string) ([]byte, error) {
	rr, err := r.store.Reader(ctx, blobPath, r.readOpts...)
	if err != nil {
		return nil, err
	}
	defer rr.Reader.Close()
	return io.ReadAll(rr.Reader)
}

func (r *BlobReader) ReadColumns(
	ctx context.Context, catalog string, num int64, fields []string,
) (map[string]sublink.Column, error) {
	cols := make(map[string]sublink.Column, len(fields))
	for _, field := range fields {
		rel, err := ColFilePath(catalog, num, field)
		if err != nil {
			return nil, err
		}
		blobPath := r.prefix + rel
		data, err := r.blobRead(ctx, blobPath)
		if err != nil {
			return nil, err
		}
		hdr, col, err := ReadColumn(bytes.NewReader(data), r.codec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", blobPath, err)
		}
		if hdr.Catalog != catalog || hdr.FileNum != num || hdr.Field != field {
			return nil, fmt.Errorf("%w: %s holds %s %d %s",
				ErrColFileWrongName, blobPath, hdr.Catalog, hdr.FileNum, hdr.Field)
		}
		cols[field] = col
	}
	r.log.Debugf("blobreader: read %s %d: %d columns", catalog, num, len(fields))
	return cols, nil
}
