// Package build holds build-time information.
package build

// Build information, overwritten by linker flags:
//
//	-ldflags "-X go.trai.ch/dll/internal/build.Version=v1.0.0"
var (
	// Version is the application version.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// Date is the build date.
	Date = "unknown"
)
