package sublink

import (
	"errors"
	"strings"
	"testing"
)

func TestChunkNum(t *testing.T) {
	type args struct {
		subhaloID int64
	}
	tests := []struct {
		name    string
		args    args
		want    int64
		wantErr bool
	}{
		{"zero", args{0}, 0, false},
		{"last id of chunk 0", args{ChunkModulus - 1}, 0, false},
		{"first id of chunk 1", args{ChunkModulus}, 1, false},
		{"chunk 67", args{67*ChunkModulus + 30598}, 67, false},
		{"negative", args{-1}, 0, true},
		{"sentinel is not an id", args{NoPointer}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ChunkNum(tt.args.subhaloID)
			if (err != nil) != tt.wantErr {
				t.Errorf("ChunkNum() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && !errors.Is(err, ErrInvalidIdentifier) {
				t.Errorf("ChunkNum() error = %v, want ErrInvalidIdentifier", err)
			}
			if got != tt.want {
				t.Errorf("ChunkNum() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChunkNumMany(t *testing.T) {
	type args struct {
		subhaloIDs []int64
	}
	tests := []struct {
		name    string
		args    args
		want    int64
		wantErr error
	}{
		{"single", args{[]int64{5}}, 0, nil},
		{"same chunk", args{[]int64{3*ChunkModulus + 1, 3*ChunkModulus + 9, 3 * ChunkModulus}}, 3, nil},
		{"empty batch", args{[]int64{}}, 0, ErrInvalidIdentifier},
		{"negative member", args{[]int64{1, -7}}, 0, ErrInvalidIdentifier},
		{"mixed chunks", args{[]int64{ChunkModulus, ChunkModulus + 1, 2 * ChunkModulus}}, 0, ErrCrossChunkQuery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ChunkNumMany(tt.args.subhaloIDs)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ChunkNumMany() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("ChunkNumMany() unexpected error = %v", err)
				return
			}
			if got != tt.want {
				t.Errorf("ChunkNumMany() = %v, want %v", got, tt.want)
			}
		})
	}
}

// The error for a mixed batch must identify the first offending position, not
// just the fact of the mismatch.
func TestChunkNumManyReportsFirstOffender(t *testing.T) {
	_, err := ChunkNumMany([]int64{1, 2, 2 * ChunkModulus, 3 * ChunkModulus})
	if !errors.Is(err, ErrCrossChunkQuery) {
		t.Fatalf("expected ErrCrossChunkQuery, got %v", err)
	}
	want := "index 2"
	if got := err.Error(); !strings.Contains(got, want) {
		t.Errorf("error %q does not name %q", got, want)
	}
}
