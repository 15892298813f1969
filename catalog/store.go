package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/datatrails/go-datatrails-common/logger"

	"github.com/KuanWang-Astro/mergertools/sublink"
)

// Catalog names, matching the public data release naming.
const (
	CatalogSubLink = "SubLink"
	CatalogOffsets = "SubLinkOffsets"
	CatalogGroup   = "Group"
)

// DefaultFields are the columns loaded when the caller does not name any.
var DefaultFields = map[string][]string{
	CatalogSubLink: {
		sublink.FieldSnapNum, sublink.FieldSubhaloID, sublink.FieldSubfindID,
		sublink.FieldSubhaloGrNr, sublink.FieldGroupFirstSub,
		sublink.FieldFirstProgenitorID, sublink.FieldNextProgenitorID,
		sublink.FieldDescendantID, sublink.FieldLastProgenitorID,
		sublink.FieldMainLeafProgenitorID, sublink.FieldRootDescendantID,
		sublink.FieldFirstSubhaloInFOFGroupID, sublink.FieldNextSubhaloInFOFGroupID,
		sublink.FieldGroupMTopHat, sublink.FieldGroupMass, sublink.FieldSubhaloMass,
	},
	CatalogOffsets: {sublink.FieldSubhaloID},
	CatalogGroup:   {sublink.FieldGroupFirstSub},
}

// ColumnReader fetches catalog columns from wherever the catalog bytes live.
// Implementations own the byte level format; the store only sees columns.
type ColumnReader interface {
	ReadColumns(ctx context.Context, catalog string, num int64, fields []string) (map[string]sublink.Column, error)
}

// Store holds the resident catalog chunks for a sequence of queries. It is
// not safe for concurrent use; resident chunks are read only once loaded, so
// callers that want parallel queries construct one store per goroutine.
type Store struct {
	log      logger.Logger
	reader   ColumnReader
	manifest *Manifest
	resident map[string]*sublink.Chunk
}

type StoreOption func(*Store)

// WithManifest attaches a catalog manifest to the store. Chunk numbers are
// then range checked against the manifest before any read is issued.
func WithManifest(m *Manifest) StoreOption {
	return func(s *Store) {
		s.manifest = m
	}
}

func NewStore(log logger.Logger, reader ColumnReader, opts ...StoreOption) *Store {
	s := &Store{
		log:      log,
		reader:   reader,
		resident: map[string]*sublink.Chunk{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ResidentKey names the resident entry for a catalog file, for use with
// ClearResident.
func ResidentKey(catalog string, num int64) string {
	return catalog + strconv.FormatInt(num, 10)
}

func validCatalog(catalog string) error {
	switch catalog {
	case CatalogSubLink, CatalogOffsets, CatalogGroup:
		return nil
	}
	return fmt.Errorf("%w: %q, choose from %s, %s, %s",
		ErrUnknownCatalog, catalog, CatalogSubLink, CatalogOffsets, CatalogGroup)
}

// EnsureLoaded makes the named fields of a catalog file resident. Fields that
// are already resident are never re-read or disturbed; only missing fields
// are fetched from the reader and merged in. nil fields loads the catalog's
// default column set.
func (s *Store) EnsureLoaded(ctx context.Context, catalog string, num int64, fields []string) error {
	if err := validCatalog(catalog); err != nil {
		return err
	}
	if s.manifest != nil && catalog == CatalogSubLink {
		if num < 0 || num >= int64(s.manifest.ChunkCount) {
			return fmt.Errorf("%w: chunk %d of %d", ErrManifestChunkRange, num, s.manifest.ChunkCount)
		}
	}
	if fields == nil {
		fields = DefaultFields[catalog]
	}

	key := ResidentKey(catalog, num)
	chunk, ok := s.resident[key]
	if !ok {
		chunk = sublink.NewChunk(num)
	}
	var missing []string
	for _, f := range fields {
		if !chunk.HasColumn(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	cols, err := s.reader.ReadColumns(ctx, catalog, num, missing)
	if err != nil {
		return err
	}
	if err = chunk.MergeColumns(cols); err != nil {
		return err
	}
	s.resident[key] = chunk
	s.log.Debugf("catalog: loaded %s %d fields %v", catalog, num, missing)
	return nil
}

// Resident returns the resident chunk for a catalog file. The chunk is owned
// by the store and must be treated as read only.
func (s *Store) Resident(catalog string, num int64) (*sublink.Chunk, error) {
	if err := validCatalog(catalog); err != nil {
		return nil, err
	}
	chunk, ok := s.resident[ResidentKey(catalog, num)]
	if !ok {
		return nil, fmt.Errorf("%w: %s %d", ErrNotResident, catalog, num)
	}
	return chunk, nil
}

// SubLinkChunk loads the named fields of a tree chunk and returns it.
func (s *Store) SubLinkChunk(ctx context.Context, chunkNum int64, fields []string) (*sublink.Chunk, error) {
	if err := s.EnsureLoaded(ctx, CatalogSubLink, chunkNum, fields); err != nil {
		return nil, err
	}
	return s.Resident(CatalogSubLink, chunkNum)
}

// ChunkFor loads the named fields of the tree chunk holding the given subhalo.
func (s *Store) ChunkFor(ctx context.Context, subhaloID int64, fields []string) (*sublink.Chunk, error) {
	chunkNum, err := sublink.ChunkNum(subhaloID)
	if err != nil {
		return nil, err
	}
	return s.SubLinkChunk(ctx, chunkNum, fields)
}

// ClearResident evicts resident catalog files to release memory. With no
// arguments everything is evicted, otherwise only the entries whose
// ResidentKey is listed are kept.
func (s *Store) ClearResident(keep ...string) {
	if len(keep) == 0 {
		s.resident = map[string]*sublink.Chunk{}
		return
	}
	kept := make(map[string]*sublink.Chunk, len(keep))
	for _, k := range keep {
		if chunk, ok := s.resident[k]; ok {
			kept[k] = chunk
		}
	}
	s.resident = kept
}
