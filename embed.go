package spacetraveling

import "embed"

// EmbeddedAssets contains the stylesheet served under /public/.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
