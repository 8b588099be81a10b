package version

import (
	"fmt"
	"io"

	"github.com/alvarorichard/animesama-cli/internal/tracking"
)

const (
	Version = "1.0.0"
)

// String describes the build, including whether history support was compiled in
func String() string {
	if tracking.IsCgoEnabled {
		return fmt.Sprintf("animesama-cli v%s (with SQLite history)", Version)
	}
	return fmt.Sprintf("animesama-cli v%s (without SQLite history)", Version)
}

func ShowVersion(w io.Writer) {
	_, _ = fmt.Fprintln(w, String())
}
