package pqconform

import (
	"bytes"
	"fmt"

	"github.com/qudslab/conformance-go/internal/bufcheck"
	"github.com/qudslab/conformance-go/internal/scheme"
)

// KeyPair holds one freshly generated key pair. The harness owns both
// buffers for the duration of a single scenario run; they are never shared
// across runs.
type KeyPair struct {
	PublicKey []byte
	SecretKey []byte
}

// SignedMessage is the provider's signed output, trimmed to the length the
// provider reported. Capacity records the buffer size the harness allocated,
// so the length contract can be re-checked by callers.
type SignedMessage struct {
	Bytes    []byte
	Capacity int
}

// RecoveredMessage is the plaintext recovered by a successful verification.
type RecoveredMessage struct {
	Bytes    []byte
	Capacity int
}

// Harness runs the keygen → sign → verify → compare lifecycle against one
// signature provider and validates every size and length the provider
// reports. A stage failure aborts the scenario: each later stage's input
// would be the unverified output of the failed one, and a deterministic
// cryptographic failure will fail identically on retry.
//
// A Harness is stateless between runs and safe to reuse sequentially. Each
// run allocates its own buffers, so runs never contaminate each other.
type Harness struct {
	provider SignatureProvider
}

// New creates a harness for the given signature provider.
func New(provider SignatureProvider) (*Harness, error) {
	if provider == nil {
		return nil, ErrNoProvider
	}
	return &Harness{provider: provider}, nil
}

// Algorithm returns the provider's scheme name.
func (h *Harness) Algorithm() string { return h.provider.Algorithm() }

// GenerateKeyPair allocates key buffers at the scheme-declared sizes and
// invokes the provider's KeyGen.
func (h *Harness) GenerateKeyPair() (*KeyPair, error) {
	pkSize := h.provider.PublicKeySize()
	skSize := h.provider.SecretKeySize()

	pk := make([]byte, pkSize)
	sk := make([]byte, skSize)
	if err := bufcheck.CheckAllocation(pk, pkSize); err != nil {
		return nil, wrapContractError(StageKeyGen, err)
	}
	if err := bufcheck.CheckAllocation(sk, skSize); err != nil {
		return nil, wrapContractError(StageKeyGen, err)
	}

	if status := h.provider.KeyGen(pk, sk); status != scheme.StatusOK {
		return nil, &StageError{Stage: StageKeyGen, Algorithm: h.Algorithm(), Status: status}
	}
	return &KeyPair{PublicKey: pk, SecretKey: sk}, nil
}

// SignMessage signs msg with the given secret key. The output buffer holds
// len(msg) plus the scheme's maximum signature overhead; the provider's
// reported length must land in (0, capacity].
func (h *Harness) SignMessage(msg, secretKey []byte) (*SignedMessage, error) {
	if len(msg) == 0 {
		return nil, ErrEmptyMessage
	}

	capacity := len(msg) + h.provider.SignatureOverhead()
	sm := make([]byte, capacity)
	if err := bufcheck.CheckAllocation(sm, capacity); err != nil {
		return nil, wrapContractError(StageSign, err)
	}

	smlen, status := h.provider.Sign(sm, msg, secretKey)
	if status != scheme.StatusOK {
		return nil, &StageError{Stage: StageSign, Algorithm: h.Algorithm(), Status: status}
	}
	if err := bufcheck.CheckLength(smlen, capacity); err != nil {
		return nil, wrapContractError(StageSign, err)
	}

	return &SignedMessage{Bytes: sm[:smlen], Capacity: capacity}, nil
}

// VerifySignature opens the signed message against the given public key and
// returns the recovered plaintext. A provider rejection becomes a
// *StageError matching ErrVerifyFailed, which is distinct from the buffer
// contract errors: rejection is the correct response to forged input.
func (h *Harness) VerifySignature(sm *SignedMessage, publicKey []byte) (*RecoveredMessage, error) {
	// The recovered message can never exceed the signed payload.
	capacity := len(sm.Bytes)
	msg := make([]byte, capacity)
	if err := bufcheck.CheckAllocation(msg, capacity); err != nil {
		return nil, wrapContractError(StageVerify, err)
	}

	mlen, status := h.provider.Open(msg, sm.Bytes, publicKey)
	if status != scheme.StatusOK {
		return nil, &StageError{Stage: StageVerify, Algorithm: h.Algorithm(), Status: status}
	}
	if err := bufcheck.CheckLength(mlen, capacity); err != nil {
		return nil, wrapContractError(StageVerify, err)
	}

	return &RecoveredMessage{Bytes: msg[:mlen], Capacity: capacity}, nil
}

// CompareRoundTrip is the correctness oracle: the recovered plaintext must
// be byte-identical to the original message.
func (h *Harness) CompareRoundTrip(rec *RecoveredMessage, original []byte) error {
	if len(rec.Bytes) != len(original) {
		return &MismatchError{WantLen: len(original), GotLen: len(rec.Bytes), Index: -1}
	}
	if !bytes.Equal(rec.Bytes, original) {
		for i := range original {
			if rec.Bytes[i] != original[i] {
				return &MismatchError{WantLen: len(original), GotLen: len(rec.Bytes), Index: i}
			}
		}
	}
	return nil
}

// Run executes one full conformance scenario over msg, short-circuiting on
// the first stage failure.
func (h *Harness) Run(msg []byte) *Report {
	r := newReport(h.Algorithm(), "Digital Signature")

	kp, err := h.GenerateKeyPair()
	if err != nil {
		r.add(StageKeyGen, "", err)
		return r
	}
	r.add(StageKeyGen, fmt.Sprintf("public key fingerprint: %s", keyFingerprint(kp.PublicKey)), nil)

	sm, err := h.SignMessage(msg, kp.SecretKey)
	if err != nil {
		r.add(StageSign, "", err)
		return r
	}
	r.add(StageSign, fmt.Sprintf("signed size: %d bytes", len(sm.Bytes)), nil)

	rec, err := h.VerifySignature(sm, kp.PublicKey)
	if err != nil {
		r.add(StageVerify, "", err)
		return r
	}
	r.add(StageVerify, fmt.Sprintf("recovered %d bytes", len(rec.Bytes)), nil)

	if err := h.CompareRoundTrip(rec, msg); err != nil {
		r.add(StageCompare, "", err)
		return r
	}
	r.add(StageCompare, "", nil)

	return r
}
