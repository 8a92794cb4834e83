package assets

import "embed"

// FS holds the stylesheet and script shared by every view.
//
//go:embed *.css *.js
var FS embed.FS
