package pqconform

import (
	"bytes"

	"github.com/qudslab/conformance-go/internal/bufcheck"
	"github.com/qudslab/conformance-go/internal/scheme"
)

// KEMHarness runs the keygen → encapsulate → decapsulate → compare lifecycle
// against one KEM provider, with the same buffer-contract discipline as the
// signature harness. The comparison oracle here is equality of the two
// shared secrets.
type KEMHarness struct {
	provider KEMProvider
}

// NewKEM creates a harness for the given KEM provider.
func NewKEM(provider KEMProvider) (*KEMHarness, error) {
	if provider == nil {
		return nil, ErrNoProvider
	}
	return &KEMHarness{provider: provider}, nil
}

// Algorithm returns the provider's scheme name.
func (h *KEMHarness) Algorithm() string { return h.provider.Algorithm() }

// GenerateKeyPair allocates key buffers at the scheme-declared sizes and
// invokes the provider's KeyGen.
func (h *KEMHarness) GenerateKeyPair() (*KeyPair, error) {
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

// Encapsulate produces a ciphertext and shared secret under the public key.
func (h *KEMHarness) Encapsulate(publicKey []byte) (ciphertext, sharedSecret []byte, err error) {
	ctSize := h.provider.CiphertextSize()
	ssSize := h.provider.SharedSecretSize()

	ct := make([]byte, ctSize)
	ss := make([]byte, ssSize)
	if err := bufcheck.CheckAllocation(ct, ctSize); err != nil {
		return nil, nil, wrapContractError(StageEncapsulate, err)
	}
	if err := bufcheck.CheckAllocation(ss, ssSize); err != nil {
		return nil, nil, wrapContractError(StageEncapsulate, err)
	}

	if status := h.provider.Encap(ct, ss, publicKey); status != scheme.StatusOK {
		return nil, nil, &StageError{Stage: StageEncapsulate, Algorithm: h.Algorithm(), Status: status}
	}
	return ct, ss, nil
}

// Decapsulate recovers the shared secret from a ciphertext.
func (h *KEMHarness) Decapsulate(ciphertext, secretKey []byte) ([]byte, error) {
	ssSize := h.provider.SharedSecretSize()

	ss := make([]byte, ssSize)
	if err := bufcheck.CheckAllocation(ss, ssSize); err != nil {
		return nil, wrapContractError(StageDecapsulate, err)
	}

	if status := h.provider.Decap(ss, ciphertext, secretKey); status != scheme.StatusOK {
		return nil, &StageError{Stage: StageDecapsulate, Algorithm: h.Algorithm(), Status: status}
	}
	return ss, nil
}

// CompareSecrets is the KEM correctness oracle: both sides of the
// encapsulation must hold the same shared secret.
func (h *KEMHarness) CompareSecrets(encapsulated, decapsulated []byte) error {
	if len(decapsulated) != len(encapsulated) {
		return &MismatchError{WantLen: len(encapsulated), GotLen: len(decapsulated), Index: -1}
	}
	if !bytes.Equal(encapsulated, decapsulated) {
		for i := range encapsulated {
			if decapsulated[i] != encapsulated[i] {
				return &MismatchError{WantLen: len(encapsulated), GotLen: len(decapsulated), Index: i}
			}
		}
	}
	return nil
}

// Run executes one full KEM conformance scenario, short-circuiting on the
// first stage failure.
func (h *KEMHarness) Run() *Report {
	r := newReport(h.Algorithm(), "Key Encapsulation")

	kp, err := h.GenerateKeyPair()
	if err != nil {
		r.add(StageKeyGen, "", err)
		return r
	}
	r.add(StageKeyGen, "public key fingerprint: "+keyFingerprint(kp.PublicKey), nil)

	ct, ss1, err := h.Encapsulate(kp.PublicKey)
	if err != nil {
		r.add(StageEncapsulate, "", err)
		return r
	}
	r.add(StageEncapsulate, "", nil)

	ss2, err := h.Decapsulate(ct, kp.SecretKey)
	if err != nil {
		r.add(StageDecapsulate, "", err)
		return r
	}
	r.add(StageDecapsulate, "", nil)

	if err := h.CompareSecrets(ss1, ss2); err != nil {
		r.add(StageCompare, "", err)
		return r
	}
	r.add(StageCompare, "", nil)

	return r
}
