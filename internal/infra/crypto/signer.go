package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// Ed25519Signer signs credential documents over their canonical JSON form,
// so byte-level differences in whitespace or key order never invalidate a
// signature.
type Ed25519Signer struct {
	priv      ed25519.PrivateKey
	issuerDID string
}

// NewSignerFromConfig builds a signer from the configured key material:
// a full private key in base64, a 32-byte seed in hex, or, when neither is
// set, a fresh ephemeral key. Ephemeral keys are for development only;
// credentials signed with one cannot be verified after restart.
func NewSignerFromConfig(privateKeyBase64, seedHex, issuerDID string) (*Ed25519Signer, error) {
	switch {
	case privateKeyBase64 != "":
		raw, err := base64.StdEncoding.DecodeString(privateKeyBase64)
		if err != nil {
			return nil, fmt.Errorf("decode signing key: %w", err)
		}
		if len(raw) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("signing key must be %d bytes, got %d", ed25519.PrivateKeySize, len(raw))
		}
		return &Ed25519Signer{priv: ed25519.PrivateKey(raw), issuerDID: issuerDID}, nil
	case seedHex != "":
		seed, err := hex.DecodeString(seedHex)
		if err != nil {
			return nil, fmt.Errorf("decode signing seed: %w", err)
		}
		if len(seed) != ed25519.SeedSize {
			return nil, fmt.Errorf("signing seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
		}
		return &Ed25519Signer{priv: ed25519.NewKeyFromSeed(seed), issuerDID: issuerDID}, nil
	default:
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
		return &Ed25519Signer{priv: priv, issuerDID: issuerDID}, nil
	}
}

func (s *Ed25519Signer) Sign(payload []byte) ([]byte, error) {
	canonical, err := CanonicalizeJSON(payload)
	if err != nil {
		return nil, err
	}
	return ed25519.Sign(s.priv, canonical), nil
}

// Verify checks a signature produced by Sign against the same payload.
func (s *Ed25519Signer) Verify(payload, sig []byte) (bool, error) {
	canonical, err := CanonicalizeJSON(payload)
	if err != nil {
		return false, err
	}
	return ed25519.Verify(s.PublicKey(), canonical, sig), nil
}

func (s *Ed25519Signer) PublicKey() ed25519.PublicKey {
	return s.priv.Public().(ed25519.PublicKey)
}

func (s *Ed25519Signer) VerificationMethod() string {
	return s.issuerDID + "#key-1"
}
