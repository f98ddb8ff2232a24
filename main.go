// Glci is a schema validator for GitLab CI configuration files.
//
// Glci parses a configuration into a typed model, resolves !reference
// tags and reports every violation it finds in one pass.
package main

import (
	"github.com/opnlabs/glci/cmd/glci"
)

func main() {
	glci.Execute()
}
