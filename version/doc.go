// Package version reports the build metadata of the operalote binary.
//
// Values injected at link time win:
//
//	-ldflags "-X github.com/dendrascience/operalote/version.Version=v1.0.0 \
//	          -X github.com/dendrascience/operalote/version.Commit=abc1234 \
//	          -X github.com/dendrascience/operalote/version.Date=2026-01-01T00:00:00Z"
//
// Without them the module version and VCS settings recorded by the Go
// toolchain are used, and plain development builds report "development".
package version
