// Package scheme adapts concrete post-quantum implementations to the fixed
// provider contracts exercised by the conformance harness.
//
// The contracts are deliberately low-level: callers allocate every buffer,
// providers write into them and report integer status codes, mirroring the
// PQClean crypto_sign/crypto_kem conventions that native libraries expose.
// The harness treats providers as untrusted collaborators and re-validates
// every size and length they report.
package scheme

import "io"

// Provider status codes. Zero means success; any non-zero value is a
// provider-reported failure, preserved verbatim for reporting.
const (
	StatusOK      = 0
	StatusFailure = -1
)

// randReader is the random source used by all providers in this package.
// It defaults to nil (which uses crypto/rand) but can be overridden for testing.
var randReader io.Reader

// SignatureProvider is the three-operation signing contract the harness
// exercises. Implementations must be stateless across calls (reentrant):
// the harness may run scenarios back to back against one value.
type SignatureProvider interface {
	// Algorithm returns the scheme name, e.g. "Falcon-512".
	Algorithm() string
	// PublicKeySize returns the exact public key length in bytes.
	PublicKeySize() int
	// SecretKeySize returns the exact secret key length in bytes.
	SecretKeySize() int
	// SignatureOverhead returns the maximum number of bytes a signed
	// message adds beyond the raw message length.
	SignatureOverhead() int

	// KeyGen writes a fresh key pair into pk and sk. Both buffers must be
	// exactly PublicKeySize and SecretKeySize bytes.
	KeyGen(pk, sk []byte) int
	// Sign writes the signed message (signature envelope plus message)
	// into sm and returns the number of bytes written. sm must hold at
	// least len(msg)+SignatureOverhead bytes.
	Sign(sm, msg, sk []byte) (smlen, status int)
	// Open verifies sm against pk and writes the recovered message into
	// msg, returning the number of bytes recovered. A non-zero status is
	// the normal outcome for a forged or corrupted signed message.
	Open(msg, sm, pk []byte) (mlen, status int)
}

// KEMProvider is the key-encapsulation contract for the KEM round-trip
// scenario. Same buffer and status conventions as SignatureProvider.
type KEMProvider interface {
	// Algorithm returns the scheme name, e.g. "ML-KEM-768".
	Algorithm() string
	// PublicKeySize returns the exact public key length in bytes.
	PublicKeySize() int
	// SecretKeySize returns the exact secret key length in bytes.
	SecretKeySize() int
	// CiphertextSize returns the exact ciphertext length in bytes.
	CiphertextSize() int
	// SharedSecretSize returns the exact shared secret length in bytes.
	SharedSecretSize() int

	// KeyGen writes a fresh key pair into pk and sk.
	KeyGen(pk, sk []byte) int
	// Encap writes a ciphertext and the encapsulated shared secret.
	Encap(ct, ss, pk []byte) int
	// Decap recovers the shared secret from a ciphertext.
	Decap(ss, ct, sk []byte) int
}

// detached is the scheme-native API the individual backends expose.
// All supported signature schemes produce fixed-size detached signatures;
// envelope turns such a backend into the signed-message contract.
type detached interface {
	algorithm() string
	publicKeySize() int
	secretKeySize() int
	signatureSize() int

	keyGen() (pk, sk []byte, err error)
	sign(msg, sk []byte) ([]byte, error)
	verify(msg, sig, pk []byte) bool
}

// envelope implements SignatureProvider over a detached-signature backend.
// The signed-message layout is signature || message, so the reported length
// of a well-formed signed message is always signatureSize+len(msg).
type envelope struct {
	d detached
}

func (e *envelope) Algorithm() string      { return e.d.algorithm() }
func (e *envelope) PublicKeySize() int     { return e.d.publicKeySize() }
func (e *envelope) SecretKeySize() int     { return e.d.secretKeySize() }
func (e *envelope) SignatureOverhead() int { return e.d.signatureSize() }

func (e *envelope) KeyGen(pk, sk []byte) int {
	genPK, genSK, err := e.d.keyGen()
	if err != nil {
		return StatusFailure
	}
	// Refuse to write a key that does not fit its destination exactly.
	if len(pk) != len(genPK) || len(sk) != len(genSK) {
		return StatusFailure
	}
	copy(pk, genPK)
	copy(sk, genSK)
	return StatusOK
}

func (e *envelope) Sign(sm, msg, sk []byte) (int, int) {
	sig, err := e.d.sign(msg, sk)
	if err != nil {
		return 0, StatusFailure
	}
	if len(sm) < len(sig)+len(msg) {
		return 0, StatusFailure
	}
	n := copy(sm, sig)
	n += copy(sm[n:], msg)
	return n, StatusOK
}

func (e *envelope) Open(msg, sm, pk []byte) (int, int) {
	sigSize := e.d.signatureSize()
	if len(sm) < sigSize {
		return 0, StatusFailure
	}
	sig := sm[:sigSize]
	body := sm[sigSize:]
	if !e.d.verify(body, sig, pk) {
		return 0, StatusFailure
	}
	if len(msg) < len(body) {
		return 0, StatusFailure
	}
	return copy(msg, body), StatusOK
}
