package scheme

import (
	"crypto"

	"github.com/pornin/go-fn-dsa/fndsa"
)

// Falcon key and signature sizes in bytes. The FN-DSA encoding at degrees
// 512 and 1024 matches the PQClean Falcon constants exactly.
const (
	// Falcon512PublicKeySize is the size of a Falcon-512 public key.
	Falcon512PublicKeySize = 897
	// Falcon512SecretKeySize is the size of a Falcon-512 secret key.
	Falcon512SecretKeySize = 1281
	// Falcon512SignatureSize is the size of a Falcon-512 signature, and the
	// maximum overhead a signed message adds beyond the raw message.
	Falcon512SignatureSize = 666

	// Falcon1024PublicKeySize is the size of a Falcon-1024 public key.
	Falcon1024PublicKeySize = 1793
	// Falcon1024SecretKeySize is the size of a Falcon-1024 secret key.
	Falcon1024SecretKeySize = 2305
	// Falcon1024SignatureSize is the size of a Falcon-1024 signature.
	Falcon1024SignatureSize = 1280
)

// falcon is a detached-signature backend over the pure-Go FN-DSA
// implementation. The degree is logarithmic: logn 9 is Falcon-512,
// logn 10 is Falcon-1024.
type falcon struct {
	logn uint
	name string
}

// Falcon512 returns the Falcon-512 signature provider.
func Falcon512() SignatureProvider {
	return &envelope{d: &falcon{logn: 9, name: "Falcon-512"}}
}

// Falcon1024 returns the Falcon-1024 signature provider.
func Falcon1024() SignatureProvider {
	return &envelope{d: &falcon{logn: 10, name: "Falcon-1024"}}
}

func (f *falcon) algorithm() string  { return f.name }
func (f *falcon) publicKeySize() int { return fndsa.VerifyingKeySize(f.logn) }
func (f *falcon) secretKeySize() int { return fndsa.SigningKeySize(f.logn) }
func (f *falcon) signatureSize() int { return fndsa.SignatureSize(f.logn) }

func (f *falcon) keyGen() ([]byte, []byte, error) {
	// fndsa returns (signing, verifying); the provider contract orders
	// public key first.
	sk, pk, err := fndsa.KeyGen(f.logn, randReader)
	if err != nil {
		return nil, nil, err
	}
	return pk, sk, nil
}

func (f *falcon) sign(msg, sk []byte) ([]byte, error) {
	// crypto.Hash(0) marks the message as raw, i.e. not pre-hashed.
	return fndsa.Sign(randReader, sk, fndsa.DOMAIN_NONE, crypto.Hash(0), msg)
}

func (f *falcon) verify(msg, sig, pk []byte) bool {
	return fndsa.Verify(pk, fndsa.DOMAIN_NONE, crypto.Hash(0), msg, sig)
}
