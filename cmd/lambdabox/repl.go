package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"github.com/vic/lambdabox/pkg/defs"
	"github.com/vic/lambdabox/pkg/lambda"
	"github.com/vic/lambdabox/pkg/session"
)

const (
	historyFile = ".lambdabox_history"
	promptMain  = "λ> "
	banner      = `lambdabox: enter a term to reduce it, "!name=term" to define a name.
Type \ for λ. Commands: :step <term>, :defs, :clear, :quit`
)

func runREPL(cfg session.Config, opts Options) error {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	r := newRepl(session.New(cfg), opts, os.Stdout)
	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if r.handle(line) {
			return nil
		}
	}
}

// repl keeps the definition lines entered so far; together with each new
// term they form the buffer handed to the session.
type repl struct {
	s    *session.Session
	opts Options
	defs []string
	out  io.Writer
}

func newRepl(s *session.Session, opts Options, out io.Writer) *repl {
	return &repl{s: s, opts: opts, out: out}
}

// handle processes one input line and reports whether the REPL should exit.
func (r *repl) handle(line string) (exit bool) {
	line = expandLambda(strings.TrimSpace(line))

	switch {
	case line == ":quit" || line == ":q":
		return true
	case line == ":defs":
		r.listDefs()
	case line == ":clear":
		r.defs = nil
	case strings.HasPrefix(line, ":step "):
		r.eval(strings.TrimSpace(strings.TrimPrefix(line, ":step ")), true)
	case strings.HasPrefix(line, ":"):
		r.println("unknown command. Type :quit to exit.")
	case defs.IsDefinition(line):
		if _, err := r.s.Context(r.buffer(line)); err != nil {
			r.fail(err)
			return false
		}
		r.defs = append(r.defs, line)
	default:
		r.eval(line, r.opts.Single)
	}
	return false
}

func (r *repl) eval(term string, single bool) {
	opts := r.opts
	opts.Single = single
	out, _, err := evaluate(r.s, r.buffer(term), opts)
	if err != nil {
		r.fail(err)
		return
	}
	_, _ = lipgloss.Fprint(r.out, out)
}

func (r *repl) listDefs() {
	ctx, err := r.s.Context(r.buffer())
	if err != nil {
		r.fail(err)
		return
	}
	for _, name := range ctx.Defined() {
		snap, _ := ctx.Lookup(name)
		r.println(fmt.Sprintf("%s = %s", name, lambda.Render(snap.Thaw(), nil)))
	}
}

func (r *repl) buffer(extra ...string) string {
	lines := append(append([]string{}, r.defs...), extra...)
	return strings.Join(lines, "\n")
}

func (r *repl) println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

func (r *repl) fail(err error) {
	_, _ = lipgloss.Fprintln(r.out, errorStyle.Render(errorMessage(err)))
}

// expandLambda turns every \ into λ except inside names: quoted names
// and the name of a definition line.
func expandLambda(line string) string {
	var b strings.Builder
	naming := defs.IsDefinition(line)
	quoted := false
	for _, ch := range line {
		switch {
		case naming:
			naming = ch != '='
		case ch == '"':
			quoted = !quoted
		case ch == '\\' && !quoted:
			ch = lambda.Lambda
		}
		b.WriteRune(ch)
	}
	return b.String()
}
