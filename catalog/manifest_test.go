package catalog

import (
	"crypto/elliptic"
	"testing"

	"github.com/datatrails/go-datatrails-common/azkeys"
	dtcose "github.com/datatrails/go-datatrails-common/cose"
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestSigner_Sign1(t *testing.T) {

	logger.New("TEST")

	type fields struct {
		issuer string
		curve  elliptic.Curve
	}
	type args struct {
		subject  string
		manifest Manifest
	}
	tests := []struct {
		name    string
		fields  fields
		args    args
		wantErr bool
	}{
		{
			name: "common case P-256 & ES256",
			fields: fields{
				issuer: "tng-project.org",
				curve:  elliptic.P256(),
			},
			args: args{
				subject:  "sublink-catalog-release",
				manifest: NewManifest("TNG100-1", []int64{0, 31_000_000, 58_200_000}, 100),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			key := TestGenerateECKey(t, tt.fields.curve)
			ms := TestNewManifestSigner(t, tt.fields.issuer)

			coseSigner := azkeys.NewTestCoseSigner(t, key)
			pubKey, err := coseSigner.PublicKey()
			require.NoError(t, err)

			coseMsg, err := ms.Sign1(coseSigner, coseSigner.KeyIdentifier(), pubKey, tt.args.subject, tt.args.manifest)
			if (err != nil) != tt.wantErr {
				t.Errorf("ManifestSigner.Sign1() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			signed, manifest, err := DecodeSignedManifest(ms.cborCodec, coseMsg)
			assert.NoError(t, err)

			// the payload survives the round trip, with the signing time
			// stamped in
			assert.Equal(t, tt.args.manifest.CatalogUUID, manifest.CatalogUUID)
			assert.Equal(t, tt.args.manifest.Simulation, manifest.Simulation)
			assert.Equal(t, tt.args.manifest.ChunkCount, manifest.ChunkCount)
			assert.Equal(t, tt.args.manifest.FirstSubhaloIDs, manifest.FirstSubhaloIDs)
			assert.NotZero(t, manifest.Timestamp)

			err = VerifySignedManifest(signed, dtcose.NewCWTPublicKeyProvider(signed))
			assert.NoError(t, err)
		})
	}
}

func TestVerifySignedManifestTamper(t *testing.T) {

	logger.New("TEST")

	key := TestGenerateECKey(t, elliptic.P256())
	ms := TestNewManifestSigner(t, "tng-project.org")

	coseSigner := azkeys.NewTestCoseSigner(t, key)
	pubKey, err := coseSigner.PublicKey()
	require.NoError(t, err)

	manifest := NewManifest("TNG50-4", []int64{0}, 100)
	coseMsg, err := ms.Sign1(coseSigner, coseSigner.KeyIdentifier(), pubKey, "sublink-catalog-release", manifest)
	require.NoError(t, err)

	signed, _, err := DecodeSignedManifest(ms.cborCodec, coseMsg)
	require.NoError(t, err)

	// flipping payload bytes must break verification
	signed.Payload[0] ^= 0xff
	err = VerifySignedManifest(signed, dtcose.NewCWTPublicKeyProvider(signed))
	assert.Error(t, err)
}

func TestNewManifestChunkCount(t *testing.T) {
	m := NewManifest("TNG300-1", []int64{0, 10, 20, 30}, 100)
	assert.Equal(t, uint32(4), m.ChunkCount)
	assert.Equal(t, uint32(100), m.SnapshotCount)
	assert.NotEmpty(t, m.CatalogUUID)
}
