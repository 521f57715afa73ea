// pkg/core/crashlog.go
package core

import (
	"io"

	"github.com/joeydtaylor/flint-core/pkg/codec"
)

// crashLine is the platform log contract for execution failures: one
// JSON object per line on stderr, unicode and "/" left unescaped.
type crashLine struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

func writeCrashLine(w io.Writer, execErr error) {
	b, err := codec.JSONStrict.Marshal(crashLine{
		Message:  execErr.Error(),
		Severity: "error",
	})
	if err != nil {
		return
	}
	_, _ = w.Write(append(b, '\n'))
}
