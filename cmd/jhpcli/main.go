// Command jhpcli is a tiny batch driver that processes a single file
// through the jhp engine and writes the result to stdout. It mirrors the
// teacher's example/main.go in spirit (minimal wiring, no framework) but
// for a one-shot file transform instead of an HTTP server: the surrounding
// build driver (directory walking, writing outputs) is explicitly out of
// this spec's scope (§1), so this stays an illustrative wrapper only.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caboodle-tech/jhp-go"
)

func main() {
	root := flag.String("root", "", "root directory for root-relative includes (defaults to the input file's directory)")
	relPath := flag.String("rel-path", "", "rel-path value passed to URL-rewriting hooks")
	builtinHooks := flag.Bool("builtin-hooks", false, "register the built-in URL-rewrite hook")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: jhpcli [flags] <file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	engine := &jhp.Engine{
		RootDirectory:        *root,
		RegisterBuiltinHooks: *builtinHooks,
		Logger:               logger,
		ReadFile:             os.ReadFile,
	}

	out := engine.Process(path, jhp.ProcessOptions{
		Cwd:     filepath.Dir(path),
		RelPath: *relPath,
	})

	fmt.Print(out)
}
