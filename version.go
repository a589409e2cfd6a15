package home360

import _ "embed"

// Version is the release version, read from the VERSION file. It carries the
// file's trailing newline; display paths trim it.
//
//go:embed VERSION
var Version string
