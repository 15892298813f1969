package catalog

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateECKey(t *testing.T, curve elliptic.Curve) ecdsa.PrivateKey {
	privateKey, err := ecdsa.GenerateKey(curve, rand.Reader)
	require.NoError(t, err)
	return *privateKey
}

func TestNewManifestSigner(t *testing.T, issuer string) ManifestSigner {
	cborCodec, err := NewCatalogCodec()
	require.NoError(t, err)
	return NewManifestSigner(issuer, cborCodec)
}
