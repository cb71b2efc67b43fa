// Command pqconform runs the post-quantum conformance scenarios against the
// bundled providers and reports stage-by-stage results. It takes no
// arguments and exits 0 only if every scenario passed.
package main

import (
	"fmt"
	"io"

	pqconform "github.com/qudslab/conformance-go"
)

// testMessage is the fixed input for every signature scenario.
const testMessage = "Test message from Go"

const rule = "=========================================================="

// run executes all conformance scenarios, writing the report to w, and
// returns the process exit code.
func run(w io.Writer) int {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "PQC Conformance Test")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Library version: %s\n", pqconform.Version)
	fmt.Fprintf(w, "Platform: %s\n", pqconform.Platform())

	failed := 0
	total := 0

	for _, provider := range []pqconform.SignatureProvider{
		pqconform.Falcon512(),
		pqconform.Falcon1024(),
		pqconform.MLDSA65(),
	} {
		harness, err := pqconform.New(provider)
		if err != nil {
			fmt.Fprintf(w, "\n[FAILED] %s: %v\n", provider.Algorithm(), err)
			failed++
			total++
			continue
		}

		fmt.Fprintln(w)
		report := harness.Run([]byte(testMessage))
		report.WriteText(w)
		total++
		if !report.Passed() {
			failed++
		}
	}

	if kemFailed := runKEM(w, pqconform.MLKEM768()); kemFailed {
		failed++
	}
	total++

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	if failed > 0 {
		fmt.Fprintf(w, "[FAILED] %d of %d conformance tests failed\n", failed, total)
		fmt.Fprintln(w, rule)
		return 1
	}
	fmt.Fprintln(w, "[SUCCESS] All conformance tests passed!")
	fmt.Fprintln(w, rule)
	return 0
}

func runKEM(w io.Writer, provider pqconform.KEMProvider) (failed bool) {
	harness, err := pqconform.NewKEM(provider)
	if err != nil {
		fmt.Fprintf(w, "\n[FAILED] %s: %v\n", provider.Algorithm(), err)
		return true
	}

	fmt.Fprintln(w)
	report := harness.Run()
	report.WriteText(w)
	return !report.Passed()
}
