// Package common holds identity shared by the university service binaries.
package common

// PackageName identifies this deployment in logs and metrics.
const PackageName = "university"

// Version is set at build time via -ldflags.
var Version = "dev"
