package scheme

import (
	"crypto/rand"
	"io"

	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
)

// ML-KEM-768 sizes in bytes.
const (
	// MLKEM768PublicKeySize is the size of an ML-KEM-768 public key.
	MLKEM768PublicKeySize = 1184
	// MLKEM768SecretKeySize is the size of an ML-KEM-768 secret key.
	MLKEM768SecretKeySize = 2400
	// MLKEM768CiphertextSize is the size of an ML-KEM-768 ciphertext.
	MLKEM768CiphertextSize = 1088
	// MLKEM768SharedSecretSize is the size of the encapsulated shared secret.
	MLKEM768SharedSecretSize = 32
)

// mlkem implements the KEM provider contract over circl's ML-KEM-768.
type mlkem struct{}

// MLKEM768 returns the ML-KEM-768 encapsulation provider.
func MLKEM768() KEMProvider {
	return &mlkem{}
}

func (k *mlkem) Algorithm() string     { return "ML-KEM-768" }
func (k *mlkem) PublicKeySize() int    { return MLKEM768PublicKeySize }
func (k *mlkem) SecretKeySize() int    { return MLKEM768SecretKeySize }
func (k *mlkem) CiphertextSize() int   { return MLKEM768CiphertextSize }
func (k *mlkem) SharedSecretSize() int { return MLKEM768SharedSecretSize }

func (k *mlkem) KeyGen(pk, sk []byte) int {
	pub, priv, err := mlkem768.GenerateKeyPair(randReader)
	if err != nil {
		return StatusFailure
	}

	// MarshalBinary never fails for valid keys from GenerateKeyPair
	pkBytes, _ := pub.MarshalBinary()
	skBytes, _ := priv.MarshalBinary()
	if len(pk) != len(pkBytes) || len(sk) != len(skBytes) {
		return StatusFailure
	}
	copy(pk, pkBytes)
	copy(sk, skBytes)
	return StatusOK
}

func (k *mlkem) Encap(ct, ss, pk []byte) int {
	if len(pk) != MLKEM768PublicKeySize ||
		len(ct) != MLKEM768CiphertextSize ||
		len(ss) != MLKEM768SharedSecretSize {
		return StatusFailure
	}

	var pub mlkem768.PublicKey
	if err := pub.Unpack(pk); err != nil {
		return StatusFailure
	}

	seed := make([]byte, mlkem768.EncapsulationSeedSize)
	rng := io.Reader(randReader)
	if rng == nil {
		rng = rand.Reader
	}
	if _, err := io.ReadFull(rng, seed); err != nil {
		return StatusFailure
	}

	pub.EncapsulateTo(ct, ss, seed)
	return StatusOK
}

func (k *mlkem) Decap(ss, ct, sk []byte) int {
	if len(sk) != MLKEM768SecretKeySize ||
		len(ct) != MLKEM768CiphertextSize ||
		len(ss) != MLKEM768SharedSecretSize {
		return StatusFailure
	}

	var priv mlkem768.PrivateKey
	if err := priv.Unpack(sk); err != nil {
		return StatusFailure
	}

	priv.DecapsulateTo(ss, ct)
	return StatusOK
}
