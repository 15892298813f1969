package catalog

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"time"

	dtcbor "github.com/datatrails/go-datatrails-common/cbor"
	dtcose "github.com/datatrails/go-datatrails-common/cose"
	"github.com/google/uuid"
	"github.com/veraison/go-cose"
)

// Manifest describes one published catalog release: how the SubhaloID space
// is partitioned into chunks and which snapshots exist. A store configured
// with a manifest range checks chunk numbers before reading, and mirrors of
// public releases can verify the signed manifest against the publisher's key
// before trusting the layout.
type Manifest struct {
	// CatalogUUID identifies this release of the catalog.
	CatalogUUID string `cbor:"1,keyasint"`
	// Simulation names the simulation box the catalog was built from.
	Simulation string `cbor:"2,keyasint"`
	// ChunkCount is the number of SubLink tree chunks in the release.
	ChunkCount uint32 `cbor:"3,keyasint"`
	// SnapshotCount is the number of snapshots covered by the trees.
	SnapshotCount uint32 `cbor:"4,keyasint"`
	// FirstSubhaloIDs holds the first SubhaloID of each chunk, ascending.
	FirstSubhaloIDs []int64 `cbor:"5,keyasint"`
	// Timestamp is the unix time (milliseconds) the manifest was signed.
	Timestamp int64 `cbor:"6,keyasint"`
}

// NewManifest assembles an unsigned manifest for a catalog release.
func NewManifest(simulation string, firstSubhaloIDs []int64, snapshotCount uint32) Manifest {
	return Manifest{
		CatalogUUID:     uuid.NewString(),
		Simulation:      simulation,
		ChunkCount:      uint32(len(firstSubhaloIDs)),
		SnapshotCount:   snapshotCount,
		FirstSubhaloIDs: firstSubhaloIDs,
	}
}

type publicKeyProvider interface {
	PublicKey() (crypto.PublicKey, cose.Algorithm, error)
}

// ManifestSigner produces the COSE Sign1 attestation over a catalog manifest
// that accompanies a published release.
type ManifestSigner struct {
	issuer    string
	cborCodec dtcbor.CBORCodec
}

func NewManifestSigner(issuer string, cborCodec dtcbor.CBORCodec) ManifestSigner {
	return ManifestSigner{
		issuer:    issuer,
		cborCodec: cborCodec,
	}
}

// Sign1 signs the manifest. The timestamp is stamped here so a re-issued
// release is distinguishable from the original.
func (ms ManifestSigner) Sign1(
	coseSigner cose.Signer, keyIdentifier string, publicKey *ecdsa.PublicKey,
	subject string, manifest Manifest,
) ([]byte, error) {
	manifest.Timestamp = time.Now().UnixMilli()
	payload, err := ms.cborCodec.MarshalCBOR(manifest)
	if err != nil {
		return nil, err
	}

	coseHeaders := cose.Headers{
		Protected: cose.ProtectedHeader{
			dtcose.HeaderLabelCWTClaims: dtcose.NewCNFClaim(
				ms.issuer, subject, keyIdentifier, coseSigner.Algorithm(), *publicKey),
		},
	}

	msg := cose.Sign1Message{
		Headers: coseHeaders,
		Payload: payload,
	}
	err = msg.Sign(rand.Reader, nil, coseSigner)
	if err != nil {
		return nil, err
	}
	return msg.MarshalCBOR()
}

func manifestDecOptions() []dtcose.SignOption {
	return []dtcose.SignOption{dtcose.WithDecOptions(dtcbor.NewDeterministicDecOpts())}
}

// DecodeSignedManifest decodes the manifest carried by a signed message
// without verifying it. Use VerifySignedManifest before trusting the values.
func DecodeSignedManifest(
	codec dtcbor.CBORCodec, msg []byte,
) (*dtcose.CoseSign1Message, Manifest, error) {
	signed, err := dtcose.NewCoseSign1MessageFromCBOR(msg, manifestDecOptions()...)
	if err != nil {
		return nil, Manifest{}, err
	}
	var manifest Manifest
	err = codec.UnmarshalInto(signed.Payload, &manifest)
	if err != nil {
		return nil, Manifest{}, err
	}
	return signed, manifest, nil
}

// VerifySignedManifest verifies the signature over a decoded manifest using
// the key material from the provider.
func VerifySignedManifest(signed *dtcose.CoseSign1Message, keyProvider publicKeyProvider) error {
	return signed.VerifyWithProvider(keyProvider, nil)
}
