package assets

import _ "embed"

// SampleData is the bundled seed dataset used to pre-populate an empty
// development installation.
//
//go:embed sample_data.json
var SampleData []byte
