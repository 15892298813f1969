package catalog

import "errors"

var (
	ErrUnknownCatalog  = errors.New("unknown catalog name")
	ErrNotResident     = errors.New("catalog chunk is not resident")
	ErrIndexOutOfRange = errors.New("index is outside the catalog table")
)

var (
	ErrColFileNoMagic   = errors.New("the file is not recognized as a catalog column file")
	ErrColFileBadHeader = errors.New("a column file header was too short or badly formed")
	ErrColFileWrongName = errors.New("the column file header does not match the requested catalog, file number and field")
	ErrColFileTruncated = errors.New("the column file payload is shorter than the header count requires")
	ErrColFileDType     = errors.New("the column file declares an unsupported element type")
)

var (
	ErrManifestChunkRange = errors.New("the requested chunk is outside the manifest's chunk count")
)
