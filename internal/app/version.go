package app

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// Build information, set at link time:
//
//	go build -ldflags "-X github.com/agbru/parsort/internal/app.Version=v1.2.0"
var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)

// HasVersionFlag reports whether args request the version.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--version", "-version", "-V":
			return true
		}
	}
	return false
}

// PrintVersion writes the version banner to out.
func PrintVersion(out io.Writer) {
	commit := Commit
	if commit == "" {
		commit = vcsRevision()
	}
	fmt.Fprintf(out, "parsort %s\n", Version)
	if commit != "" {
		fmt.Fprintf(out, "  commit:  %s\n", commit)
	}
	if BuildDate != "" {
		fmt.Fprintf(out, "  built:   %s\n", BuildDate)
	}
	fmt.Fprintf(out, "  go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// vcsRevision returns the short revision recorded by the go tool, if any.
func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return ""
}
