// Package catalog loads simulation catalogs and keeps their columns resident
// for the traversal engine in package sublink.
//
// Three catalogs are handled. SubLink tree chunks are keyed by chunk number
// and hold the merger tree rows. SubLinkOffsets tables are keyed by snapshot
// and map a snapshot local SubfindID to the global SubhaloID, which is how a
// traversal is seeded from a halo identifier. Group tables are keyed by
// snapshot and hold GroupFirstSub, the index of each group's primary subhalo.
//
// Residency is explicit state: a Store is constructed by the caller and
// passed by reference into every query, so independent queries can work
// against independently loaded chunks without interfering. Loading is
// idempotent and additive, asking again for a resident column is a no-op and
// new columns merge into the resident set without disturbing loaded ones.
//
// The byte level catalog format belongs to ColumnReader implementations.
// DirReader reads column files from a local directory tree and BlobReader
// reads the same files from azure blob storage. Catalog releases can carry a
// COSE signed manifest which binds the chunk layout to a named data release.
package catalog
