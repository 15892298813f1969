package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KuanWang-Astro/mergertools/sublink"
)

func writeColFile(t *testing.T, base string, hdr ColFileHeader, col sublink.Column) {
	t.Helper()
	codec, err := NewCatalogCodec()
	require.NoError(t, err)
	rel, err := ColFilePath(hdr.Catalog, hdr.FileNum, hdr.Field)
	require.NoError(t, err)

	name := filepath.Join(base, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	f, err := os.Create(name)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, WriteColumn(f, codec, hdr, col))
}

func TestColFilePath(t *testing.T) {
	type args struct {
		catalog string
		num     int64
		field   string
	}
	tests := []struct {
		name    string
		args    args
		want    string
		wantErr bool
	}{
		{
			"tree chunk",
			args{CatalogSubLink, 12, sublink.FieldSubhaloID},
			"postprocessing/trees/SubLink/tree_extended.12/SubhaloID.col",
			false,
		},
		{
			"offsets are zero padded",
			args{CatalogOffsets, 9, sublink.FieldSubhaloID},
			"postprocessing/offsets/offsets_009/SubhaloID.col",
			false,
		},
		{
			"group table",
			args{CatalogGroup, 99, sublink.FieldGroupFirstSub},
			"groups/groups_99/GroupFirstSub.col",
			false,
		},
		{"unknown catalog", args{"Trees", 0, "x"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ColFilePath(tt.args.catalog, tt.args.num, tt.args.field)
			if (err != nil) != tt.wantErr {
				t.Errorf("ColFilePath() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ColFilePath() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDirReaderReadColumns(t *testing.T) {
	logger.New("NOOP")
	base := t.TempDir()

	ids := sublink.IntColumn{0, 1, 2}
	masses := sublink.FloatColumn{5, 2.5, 1.25}
	writeColFile(t, base, ColFileHeader{
		Catalog: CatalogSubLink, FileNum: 0, Field: sublink.FieldSubhaloID,
	}, ids)
	writeColFile(t, base, ColFileHeader{
		Catalog: CatalogSubLink, FileNum: 0, Field: sublink.FieldGroupMass,
	}, masses)

	r, err := NewDirReader(logger.Sugar, base)
	require.NoError(t, err)

	cols, err := r.ReadColumns(context.Background(), CatalogSubLink, 0, []string{
		sublink.FieldSubhaloID, sublink.FieldGroupMass,
	})
	require.NoError(t, err)
	assert.Equal(t, sublink.Column(ids), cols[sublink.FieldSubhaloID])
	assert.Equal(t, sublink.Column(masses), cols[sublink.FieldGroupMass])

	// a column that was never written
	_, err = r.ReadColumns(context.Background(), CatalogSubLink, 0, []string{
		sublink.FieldSnapNum,
	})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// A file whose header names a different catalog coordinate than its path is
// a mislaid mirror, the reader must refuse it.
func TestDirReaderWrongName(t *testing.T) {
	logger.New("NOOP")
	base := t.TempDir()

	codec, err := NewCatalogCodec()
	require.NoError(t, err)
	rel, err := ColFilePath(CatalogSubLink, 0, sublink.FieldSubhaloID)
	require.NoError(t, err)
	name := filepath.Join(base, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	f, err := os.Create(name)
	require.NoError(t, err)
	require.NoError(t, WriteColumn(f, codec, ColFileHeader{
		Catalog: CatalogSubLink, FileNum: 3, Field: sublink.FieldSubhaloID,
	}, sublink.IntColumn{1}))
	require.NoError(t, f.Close())

	r, err := NewDirReader(logger.Sugar, base)
	require.NoError(t, err)
	_, err = r.ReadColumns(context.Background(), CatalogSubLink, 0, []string{
		sublink.FieldSubhaloID,
	})
	assert.ErrorIs(t, err, ErrColFileWrongName)
}

func TestNewDirReaderBadBase(t *testing.T) {
	logger.New("NOOP")

	_, err := NewDirReader(logger.Sugar, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestDirReaderCancelledContext(t *testing.T) {
	logger.New("NOOP")
	base := t.TempDir()
	writeColFile(t, base, ColFileHeader{
		Catalog: CatalogGroup, FileNum: 1, Field: sublink.FieldGroupFirstSub,
	}, sublink.IntColumn{0})

	r, err := NewDirReader(logger.Sugar, base)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.ReadColumns(ctx, CatalogGroup, 1, []string{sublink.FieldGroupFirstSub})
	assert.ErrorIs(t, err, context.Canceled)
}
