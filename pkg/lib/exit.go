package lib

import (
	"fmt"
	"os"
)

// ExitCode prints the error, one "Error:" prefix for the first line and an
// indent for the rest, and exits with code.
func ExitCode(err error, code int) {
	fmt.Fprintln(os.Stderr, "Error:", indentTail(err.Error()))
	os.Exit(code)
}

func indentTail(msg string) string {
	out := make([]byte, 0, len(msg))
	for i := 0; i < len(msg); i++ {
		out = append(out, msg[i])
		if msg[i] == '\n' && i+1 < len(msg) {
			out = append(out, ' ', ' ')
		}
	}
	return string(out)
}
