// Package version exposes the av build version.
package version

// Version is the current av version. Overridden at release time via
// -ldflags "-X github.com/vanderheijden86/arborview/pkg/version.Version=...".
var Version = "0.3.0-dev"
