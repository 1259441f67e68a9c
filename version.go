package main

import (
	"runtime/debug"
)

// Version is set at build time with
//
//	go build -ldflags "-X main.Version=$(gitver render "$(git describe --tags --long --dirty)")"
//
//nolint:gochecknoglobals // set by the linker
var Version = ""

func buildVersion() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(unknown)"
}
