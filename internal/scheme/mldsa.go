package scheme

import (
	"io"

	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
)

// ML-DSA-65 key and signature sizes in bytes.
const (
	// MLDSA65PublicKeySize is the size of an ML-DSA-65 public key.
	MLDSA65PublicKeySize = 1952
	// MLDSA65SecretKeySize is the size of an ML-DSA-65 secret key.
	MLDSA65SecretKeySize = 4032
	// MLDSA65SignatureSize is the size of an ML-DSA-65 signature.
	MLDSA65SignatureSize = 3309
)

// mldsa is a detached-signature backend over a circl sign.Scheme.
type mldsa struct {
	sch  sign.Scheme
	name string
}

// MLDSA65 returns the ML-DSA-65 signature provider.
func MLDSA65() SignatureProvider {
	return &envelope{d: &mldsa{sch: mldsa65.Scheme(), name: "ML-DSA-65"}}
}

func (m *mldsa) algorithm() string  { return m.name }
func (m *mldsa) publicKeySize() int { return m.sch.PublicKeySize() }
func (m *mldsa) secretKeySize() int { return m.sch.PrivateKeySize() }
func (m *mldsa) signatureSize() int { return m.sch.SignatureSize() }

func (m *mldsa) keyGen() ([]byte, []byte, error) {
	var (
		pub  sign.PublicKey
		priv sign.PrivateKey
		err  error
	)
	if randReader != nil {
		// Derive deterministically from the overridden random source so
		// tests can reproduce key material.
		seed := make([]byte, m.sch.SeedSize())
		if _, err := io.ReadFull(randReader, seed); err != nil {
			return nil, nil, err
		}
		pub, priv = m.sch.DeriveKey(seed)
	} else {
		pub, priv, err = m.sch.GenerateKey()
		if err != nil {
			return nil, nil, err
		}
	}

	pkBytes, err := pub.MarshalBinary()
	if err != nil {
		return nil, nil, err
	}
	skBytes, err := priv.MarshalBinary()
	if err != nil {
		return nil, nil, err
	}
	return pkBytes, skBytes, nil
}

func (m *mldsa) sign(msg, sk []byte) ([]byte, error) {
	priv, err := m.sch.UnmarshalBinaryPrivateKey(sk)
	if err != nil {
		return nil, err
	}
	return m.sch.Sign(priv, msg, nil), nil
}

func (m *mldsa) verify(msg, sig, pk []byte) bool {
	pub, err := m.sch.UnmarshalBinaryPublicKey(pk)
	if err != nil {
		return false
	}
	return m.sch.Verify(pub, msg, sig, nil)
}
