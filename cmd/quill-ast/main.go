// Command quill-ast reads a quill tree dump, verifies it, and prints either
// the canonical dump or a colorized outline of the tree. It operates on the
// debug dump format only; parsing quill source is the parser's job.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cloudcmds/quill/ast"
	"github.com/cloudcmds/quill/dump"
	"github.com/cloudcmds/quill/internal/token"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = msg.Error()
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(s))
	os.Exit(1)
}

// outliner prints one line per node, indented by depth.
type outliner struct {
	w     io.Writer
	depth int
}

func (o *outliner) Visit(n ast.Node) ast.Visitor {
	fmt.Fprintf(o.w, "%s%s %s\n",
		strings.Repeat("  ", o.depth),
		cyan(nodeName(n)),
		yellow(posLabel(n.Pos())))
	return &outliner{w: o.w, depth: o.depth + 1}
}

func nodeName(n ast.Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
}

func posLabel(p token.Pos) string {
	if p.IsValid() {
		return fmt.Sprintf("@%d", p)
	}
	return "@-"
}

func main() {
	outline := flag.Bool("outline", false, "print a tree outline instead of the canonical dump")
	source := flag.Bool("source", false, "print a source-like rendering of the tree")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var data []byte
	var err error
	switch flag.NArg() {
	case 0:
		data, err = io.ReadAll(os.Stdin)
	case 1:
		data, err = os.ReadFile(flag.Arg(0))
	default:
		fatal("usage: quill-ast [-outline] [-source] [-verbose] [dump-file]")
	}
	if err != nil {
		fatal(err)
	}

	tree, err := dump.Read(string(data))
	if err != nil {
		fatal(err)
	}

	var count int
	for range ast.Preorder(tree) {
		count++
	}
	log.Debug().Int("nodes", count).Msg("dump verified")

	switch {
	case *outline:
		ast.Walk(&outliner{w: os.Stdout}, tree)
	case *source:
		fmt.Println(tree.String())
	default:
		fmt.Println(dump.Dump(tree))
	}
}
