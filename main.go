// rvsim is a cycle-level simulator of a five-stage RV32 integer core.
//
// The simulator lives in ./cmd/rvsim and the benchmark harness in
// ./cmd/benchmark; run either with -h for its flags.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	usage(os.Stderr)
	os.Exit(2)
}

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "rvsim: use 'go run ./cmd/rvsim -h' or 'go run ./cmd/benchmark -h'")
}
