package scheme

import (
	"fmt"
	"runtime"
)

// Version is the harness library version string.
const Version = "1.0.0"

// Platform returns a normalized platform identifier such as "linux-x86_64"
// or "macos-arm64", matching the naming the native binary distributions use.
func Platform() string {
	system := runtime.GOOS
	arch := runtime.GOARCH

	switch system {
	case "darwin":
		system = "macos"
	}

	switch arch {
	case "amd64":
		if system == "windows" {
			arch = "x64"
		} else {
			arch = "x86_64"
		}
	case "arm64":
		if system != "macos" {
			arch = "aarch64"
		}
	case "386":
		arch = "x86"
	}

	return fmt.Sprintf("%s-%s", system, arch)
}
