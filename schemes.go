package pqconform

import "github.com/qudslab/conformance-go/internal/scheme"

// SignatureProvider is the three-operation signing contract the harness
// exercises: caller-allocated buffers, provider-reported lengths, integer
// status codes. Zero is success; any other value is a provider failure and
// is preserved verbatim in the resulting error.
type SignatureProvider = scheme.SignatureProvider

// KEMProvider is the encapsulation contract exercised by KEMHarness.
type KEMProvider = scheme.KEMProvider

// StatusOK is the provider status code for success.
const StatusOK = scheme.StatusOK

// Version is the harness library version.
const Version = scheme.Version

// Platform returns the normalized platform identifier, e.g. "linux-x86_64".
func Platform() string { return scheme.Platform() }

// Falcon512 returns the Falcon-512 signature provider (897-byte public
// keys, 1281-byte secret keys, 666 bytes of signature overhead).
func Falcon512() SignatureProvider { return scheme.Falcon512() }

// Falcon1024 returns the Falcon-1024 signature provider (1793-byte public
// keys, 2305-byte secret keys, 1280 bytes of signature overhead).
func Falcon1024() SignatureProvider { return scheme.Falcon1024() }

// MLDSA65 returns the ML-DSA-65 signature provider.
func MLDSA65() SignatureProvider { return scheme.MLDSA65() }

// MLKEM768 returns the ML-KEM-768 encapsulation provider.
func MLKEM768() KEMProvider { return scheme.MLKEM768() }
