//go:build !testcoverage

package main

import "os"

func main() {
	os.Exit(run(os.Stdout))
}
