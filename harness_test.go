package pqconform

import (
	"bytes"
	"errors"
	"testing"

	"github.com/qudslab/conformance-go/internal/scheme"
	"golang.org/x/crypto/sha3"
)

// fakeProvider is a configurable SignatureProvider used to exercise the
// harness against misbehaving collaborators. By default it "signs" by
// prefixing the message with a fixed-size zero envelope and opens by
// stripping it again, so round trips succeed.
type fakeProvider struct {
	keyGenStatus int
	signStatus   int
	openStatus   int

	// reportedSignLen overrides the length Sign reports (capacity-relative
	// values don't compose well in a struct literal, so this is absolute).
	// Zero means "report the true length".
	reportedSignLen int

	// corruptRecovered makes Open flip the first recovered byte while
	// still reporting success.
	corruptRecovered bool
}

const (
	fakePKSize   = 32
	fakeSKSize   = 64
	fakeOverhead = 96
)

func (f *fakeProvider) Algorithm() string      { return "Fake-Scheme" }
func (f *fakeProvider) PublicKeySize() int     { return fakePKSize }
func (f *fakeProvider) SecretKeySize() int     { return fakeSKSize }
func (f *fakeProvider) SignatureOverhead() int { return fakeOverhead }

func (f *fakeProvider) KeyGen(pk, sk []byte) int {
	if f.keyGenStatus != scheme.StatusOK {
		return f.keyGenStatus
	}
	for i := range pk {
		pk[i] = 0xa5
	}
	for i := range sk {
		sk[i] = 0x5a
	}
	return scheme.StatusOK
}

func (f *fakeProvider) Sign(sm, msg, sk []byte) (int, int) {
	if f.signStatus != scheme.StatusOK {
		return 0, f.signStatus
	}
	n := fakeOverhead + copy(sm[fakeOverhead:], msg)
	if f.reportedSignLen != 0 {
		return f.reportedSignLen, scheme.StatusOK
	}
	return n, scheme.StatusOK
}

func (f *fakeProvider) Open(msg, sm, pk []byte) (int, int) {
	if f.openStatus != scheme.StatusOK {
		return 0, f.openStatus
	}
	n := copy(msg, sm[fakeOverhead:])
	if f.corruptRecovered && n > 0 {
		msg[0] ^= 0xff
	}
	return n, scheme.StatusOK
}

func newTestRand(seed string) sha3.ShakeHash {
	h := sha3.NewShake128()
	h.Write([]byte(seed))
	return h
}

func TestNew_NilProvider(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoProvider) {
		t.Errorf("New(nil) error = %v, want ErrNoProvider", err)
	}
}

func TestHarness_Run_Pass(t *testing.T) {
	h, err := New(&fakeProvider{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	report := h.Run([]byte("Test message from Go"))
	if !report.Passed() {
		t.Fatalf("Run() verdict = %s, want pass (failed stage: %+v)", report.Verdict, report.FailedStage())
	}
	if len(report.Stages) != 4 {
		t.Fatalf("Run() executed %d stages, want 4", len(report.Stages))
	}

	wantOrder := []Stage{StageKeyGen, StageSign, StageVerify, StageCompare}
	for i, s := range report.Stages {
		if s.Stage != wantOrder[i] {
			t.Errorf("stage %d = %s, want %s", i, s.Stage, wantOrder[i])
		}
	}
}

func TestHarness_Run_ShortCircuits(t *testing.T) {
	tests := []struct {
		name       string
		provider   *fakeProvider
		wantStages int
		failStage  Stage
		sentinel   error
	}{
		{
			name:       "keygen failure",
			provider:   &fakeProvider{keyGenStatus: -1},
			wantStages: 1,
			failStage:  StageKeyGen,
			sentinel:   ErrKeyGenFailed,
		},
		{
			name:       "sign failure",
			provider:   &fakeProvider{signStatus: -3},
			wantStages: 2,
			failStage:  StageSign,
			sentinel:   ErrSignFailed,
		},
		{
			name:       "verify rejection",
			provider:   &fakeProvider{openStatus: -1},
			wantStages: 3,
			failStage:  StageVerify,
			sentinel:   ErrVerifyFailed,
		},
		{
			name:       "silent corruption caught by compare",
			provider:   &fakeProvider{corruptRecovered: true},
			wantStages: 4,
			failStage:  StageCompare,
			sentinel:   ErrMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := New(tt.provider)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			report := h.Run([]byte("Test message from Go"))
			if report.Passed() {
				t.Fatal("Run() passed, want failure")
			}
			if len(report.Stages) != tt.wantStages {
				t.Errorf("Run() executed %d stages, want %d", len(report.Stages), tt.wantStages)
			}

			failed := report.FailedStage()
			if failed == nil {
				t.Fatal("FailedStage() = nil")
			}
			if failed.Stage != tt.failStage {
				t.Errorf("failed stage = %s, want %s", failed.Stage, tt.failStage)
			}
			if !errors.Is(failed.Err, tt.sentinel) {
				t.Errorf("failed stage error = %v, want %v", failed.Err, tt.sentinel)
			}
		})
	}
}

func TestHarness_SignMessage_LengthContract(t *testing.T) {
	msg := []byte("Test message from Go")
	capacity := len(msg) + fakeOverhead

	tests := []struct {
		name        string
		reportedLen int
		sentinel    error
	}{
		{"overflow by one", capacity + 1, ErrLengthOverflow},
		{"overflow large", capacity * 2, ErrLengthOverflow},
		{"negative", -5, ErrEmptyOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := New(&fakeProvider{reportedSignLen: tt.reportedLen})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			kp, err := h.GenerateKeyPair()
			if err != nil {
				t.Fatalf("GenerateKeyPair() error = %v", err)
			}

			_, err = h.SignMessage(msg, kp.SecretKey)
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("SignMessage() error = %v, want %v", err, tt.sentinel)
			}

			var contractErr *ContractError
			if !errors.As(err, &contractErr) {
				t.Fatalf("SignMessage() error = %T, want *ContractError", err)
			}
			if contractErr.Stage != StageSign {
				t.Errorf("contract error stage = %s, want %s", contractErr.Stage, StageSign)
			}
		})
	}
}

func TestHarness_SignMessage_EmptyMessage(t *testing.T) {
	h, err := New(&fakeProvider{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	kp, err := h.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}

	if _, err := h.SignMessage(nil, kp.SecretKey); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("SignMessage(nil) error = %v, want ErrEmptyMessage", err)
	}
}

func TestHarness_StageErrorPreservesStatus(t *testing.T) {
	h, err := New(&fakeProvider{signStatus: -7})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	kp, err := h.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}

	_, err = h.SignMessage([]byte("Test message from Go"), kp.SecretKey)
	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("SignMessage() error = %T, want *StageError", err)
	}
	if stageErr.Status != -7 {
		t.Errorf("StageError.Status = %d, want -7", stageErr.Status)
	}
	if stageErr.Algorithm != "Fake-Scheme" {
		t.Errorf("StageError.Algorithm = %q, want %q", stageErr.Algorithm, "Fake-Scheme")
	}
}

func TestHarness_CompareRoundTrip(t *testing.T) {
	h, err := New(&fakeProvider{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	original := []byte("Test message from Go")

	t.Run("match", func(t *testing.T) {
		rec := &RecoveredMessage{Bytes: append([]byte(nil), original...)}
		if err := h.CompareRoundTrip(rec, original); err != nil {
			t.Errorf("CompareRoundTrip() error = %v, want nil", err)
		}
	})

	t.Run("length mismatch", func(t *testing.T) {
		rec := &RecoveredMessage{Bytes: original[:len(original)-1]}
		err := h.CompareRoundTrip(rec, original)

		var mismatch *MismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("CompareRoundTrip() error = %T, want *MismatchError", err)
		}
		if mismatch.Index != -1 {
			t.Errorf("MismatchError.Index = %d, want -1", mismatch.Index)
		}
	})

	t.Run("content mismatch", func(t *testing.T) {
		altered := append([]byte(nil), original...)
		altered[5] ^= 0x01
		rec := &RecoveredMessage{Bytes: altered}
		err := h.CompareRoundTrip(rec, original)

		var mismatch *MismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("CompareRoundTrip() error = %T, want *MismatchError", err)
		}
		if mismatch.Index != 5 {
			t.Errorf("MismatchError.Index = %d, want 5", mismatch.Index)
		}
		if !errors.Is(err, ErrMismatch) {
			t.Errorf("CompareRoundTrip() error = %v, want ErrMismatch", err)
		}
	})
}

func TestHarness_Falcon512_EndToEnd(t *testing.T) {
	restore := scheme.SetRandReaderForTesting(newTestRand("harness-falcon512"))
	defer restore()

	h, err := New(Falcon512())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	msg := []byte("Test message from Go")
	report := h.Run(msg)
	if !report.Passed() {
		t.Fatalf("Run() verdict = %s, want pass (failed stage: %+v)", report.Verdict, report.FailedStage())
	}
}

func TestHarness_Falcon512_FixedScenarioContract(t *testing.T) {
	restore := scheme.SetRandReaderForTesting(newTestRand("harness-falcon512-fixed"))
	defer restore()

	h, err := New(Falcon512())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	msg := []byte("Test message from Go") // 20 bytes
	kp, err := h.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}
	if len(kp.PublicKey) != 897 {
		t.Errorf("public key length = %d, want 897", len(kp.PublicKey))
	}
	if len(kp.SecretKey) != 1281 {
		t.Errorf("secret key length = %d, want 1281", len(kp.SecretKey))
	}

	sm, err := h.SignMessage(msg, kp.SecretKey)
	if err != nil {
		t.Fatalf("SignMessage() error = %v", err)
	}
	if len(sm.Bytes) <= 0 || len(sm.Bytes) > len(msg)+666 {
		t.Errorf("signed length = %d, want in (0, %d]", len(sm.Bytes), len(msg)+666)
	}

	rec, err := h.VerifySignature(sm, kp.PublicKey)
	if err != nil {
		t.Fatalf("VerifySignature() error = %v", err)
	}
	if len(rec.Bytes) != len(msg) {
		t.Errorf("recovered length = %d, want %d", len(rec.Bytes), len(msg))
	}
	if !bytes.Equal(rec.Bytes, msg) {
		t.Error("recovered content differs from original")
	}
}

func TestHarness_Falcon512_TamperedPayloadRejected(t *testing.T) {
	restore := scheme.SetRandReaderForTesting(newTestRand("harness-falcon512-tamper"))
	defer restore()

	h, err := New(Falcon512())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	msg := []byte("Test message from Go")
	kp, err := h.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}
	sm, err := h.SignMessage(msg, kp.SecretKey)
	if err != nil {
		t.Fatalf("SignMessage() error = %v", err)
	}

	tampered := append([]byte(nil), sm.Bytes...)
	tampered[17] ^= 0x20

	_, err = h.VerifySignature(&SignedMessage{Bytes: tampered, Capacity: sm.Capacity}, kp.PublicKey)
	if !errors.Is(err, ErrVerifyFailed) {
		t.Errorf("VerifySignature(tampered) error = %v, want ErrVerifyFailed", err)
	}
}

// Back-to-back runs must not contaminate each other: each run allocates its
// own buffers and key material.
func TestHarness_SequentialRunsIndependent(t *testing.T) {
	restore := scheme.SetRandReaderForTesting(newTestRand("harness-sequential"))
	defer restore()

	h, err := New(Falcon512())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	msg := []byte("Test message from Go")
	for i := 0; i < 3; i++ {
		report := h.Run(msg)
		if !report.Passed() {
			t.Fatalf("run %d verdict = %s, want pass", i, report.Verdict)
		}
	}
}
