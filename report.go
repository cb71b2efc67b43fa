package pqconform

import (
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/sha3"
)

// Stage identifies one step of a conformance scenario.
type Stage string

// Scenario stages.
const (
	StageKeyGen      Stage = "keygen"
	StageSign        Stage = "sign"
	StageVerify      Stage = "verify"
	StageEncapsulate Stage = "encapsulate"
	StageDecapsulate Stage = "decapsulate"
	StageCompare     Stage = "compare"
)

// Verdict is the aggregate outcome of a scenario run.
type Verdict string

const (
	// VerdictPass means every stage completed and the round trip matched.
	VerdictPass Verdict = "pass"
	// VerdictFail means at least one stage failed; later stages were skipped.
	VerdictFail Verdict = "fail"
)

// stage labels for human-readable report output, mirroring the native test
// binaries these scenarios are checked against.
var stageOKLabels = map[Stage]string{
	StageKeyGen:      "Keypair generated",
	StageSign:        "Message signed",
	StageVerify:      "Signature verified",
	StageEncapsulate: "Shared secret encapsulated",
	StageDecapsulate: "Shared secret decapsulated",
	StageCompare:     "Round-trip output matches",
}

var stageFailLabels = map[Stage]string{
	StageKeyGen:      "Keypair generation failed",
	StageSign:        "Signing failed",
	StageVerify:      "Verification failed",
	StageEncapsulate: "Encapsulation failed",
	StageDecapsulate: "Decapsulation failed",
	StageCompare:     "Round-trip output doesn't match original",
}

// StageResult is the outcome of a single stage. It is created when the stage
// completes and consumed by the report; stages after a failure do not run.
type StageResult struct {
	Stage  Stage
	Detail string
	Err    error
}

// OK reports whether the stage completed successfully.
func (r StageResult) OK() bool { return r.Err == nil }

// Report is the per-scenario conformance result: one entry per executed
// stage plus the aggregate verdict.
type Report struct {
	// Algorithm is the scheme name, e.g. "Falcon-512".
	Algorithm string
	// Title is the scenario heading, e.g. "Falcon-512 Digital Signature".
	Title string
	// Stages holds the executed stages in order.
	Stages []StageResult
	// Verdict is the aggregate outcome.
	Verdict Verdict
}

func newReport(algorithm, kind string) *Report {
	return &Report{
		Algorithm: algorithm,
		Title:     fmt.Sprintf("%s %s", algorithm, kind),
		Verdict:   VerdictPass,
	}
}

// add records a stage outcome. Any stage error turns the verdict to fail.
func (r *Report) add(stage Stage, detail string, err error) {
	r.Stages = append(r.Stages, StageResult{Stage: stage, Detail: detail, Err: err})
	if err != nil {
		r.Verdict = VerdictFail
	}
}

// Passed reports whether every executed stage succeeded.
func (r *Report) Passed() bool { return r.Verdict == VerdictPass }

// FailedStage returns the first failed stage result, or nil if all passed.
func (r *Report) FailedStage() *StageResult {
	for i := range r.Stages {
		if !r.Stages[i].OK() {
			return &r.Stages[i]
		}
	}
	return nil
}

// WriteText renders the report as the stage-by-stage text the conformance
// binary prints.
func (r *Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "[TEST] %s\n", r.Title); err != nil {
		return err
	}
	for _, s := range r.Stages {
		var line string
		switch {
		case s.OK() && s.Detail != "":
			line = fmt.Sprintf("  [OK] %s (%s)\n", stageOKLabels[s.Stage], s.Detail)
		case s.OK():
			line = fmt.Sprintf("  [OK] %s\n", stageOKLabels[s.Stage])
		default:
			line = fmt.Sprintf("  [FAILED] %s: %v\n", stageFailLabels[s.Stage], s.Err)
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("  [SUCCESS] %s test passed\n", r.Algorithm)
	if !r.Passed() {
		summary = fmt.Sprintf("  [FAILED] %s test failed\n", r.Algorithm)
	}
	_, err := io.WriteString(w, summary)
	return err
}

// keyFingerprint returns a short SHAKE-256 fingerprint of a public key,
// used only for report output.
func keyFingerprint(key []byte) string {
	sh := sha3.NewShake256()
	sh.Write(key)
	var sum [8]byte
	sh.Read(sum[:])
	return hex.EncodeToString(sum[:])
}
