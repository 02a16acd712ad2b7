// Package res ships the default skybox atlas inside the binary, so the
// demo runs without an asset directory.
package res

import "embed"

// Skybox is the file name of the bundled atlas.
const Skybox = "skybox.png"

// FS holds the bundled resources. skybox.png is regenerated with
// cmd/skyboxgen.
//
//go:embed skybox.png
var FS embed.FS
