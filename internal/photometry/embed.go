package photometry

import _ "embed"

// defaultBandpasses holds the built-in filter table.
//
//go:embed bandpasses.yaml
var defaultBandpasses []byte
