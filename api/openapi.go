// Package api carries the HTTP contract. The YAML is the source of truth:
// the server serves it at /openapi.yaml and the adapter tests validate real
// traffic against it.
package api

import _ "embed"

//go:embed openapi.yaml
var Spec []byte
