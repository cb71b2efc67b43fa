// Package pqconform is a conformance harness for post-quantum signature and
// KEM providers.
//
// A provider exposes the PQClean-shaped buffer contract (caller-allocated
// buffers, reported lengths, integer status codes); the harness drives it
// through its full lifecycle and independently validates every size and
// length it reports, so a misbehaving provider cannot silently truncate
// output or claim out-of-bounds writes.
//
// Basic usage:
//
//	harness, err := pqconform.New(pqconform.Falcon512())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report := harness.Run([]byte("Test message from Go"))
//	report.WriteText(os.Stdout)
//	if !report.Passed() {
//	    os.Exit(1)
//	}
//
// The bundled providers are Falcon-512 and Falcon-1024 (FN-DSA), ML-DSA-65
// and, for the encapsulation scenario, ML-KEM-768.
package pqconform
