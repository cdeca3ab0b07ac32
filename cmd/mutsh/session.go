package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/natefinch/atomic"

	"github.com/calvinalkan/bytemut/pkg/bytemut"
)

var (
	errUsage    = errors.New("usage")
	errInactive = errors.New("strategy not active")
)

var (
	tagColor    = color.New(color.FgCyan, color.Bold)
	forcedColor = color.New(color.FgYellow, color.Bold)
	lenColor    = color.New(color.FgGreen)
)

// maxStep caps "next n" so a typo cannot hang the shell.
const maxStep = 1_000_000

var commands = []string{
	"next", "force", "show", "hex", "strategies",
	"stats", "save", "help", "exit", "quit", "q",
}

// session holds the shell state independent of the terminal. Each step
// mutates the previous result, so changes accumulate.
type session struct {
	engine *bytemut.Engine
	out    io.Writer
	forced bytemut.Strategy
	pinned bool
	steps  int
}

func newSession(e *bytemut.Engine, out io.Writer) *session {
	return &session{engine: e, out: out}
}

// exec runs one command line. quit reports whether the shell should exit.
func (s *session) exec(line string) (quit bool, err error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false, nil
	}

	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "exit", "quit", "q":
		return true, nil
	case "help", "?":
		s.printHelp()
	case "next", "n":
		return false, s.cmdNext(args)
	case "force":
		return false, s.cmdForce(args)
	case "show":
		s.printf("len=%s %q\n", lenColor.Sprint(len(s.engine.Bytes())), s.engine.Bytes())
	case "hex":
		s.printf("%s", hex.Dump(s.engine.Bytes()))
	case "strategies", "ls":
		s.cmdStrategies()
	case "stats":
		s.cmdStats()
	case "save":
		return false, s.cmdSave(args)
	default:
		return false, fmt.Errorf("unknown command: %s (type 'help' for commands)", cmd)
	}

	return false, nil
}

func (s *session) cmdNext(args []string) error {
	n := 1

	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 || v > maxStep {
			return fmt.Errorf("%w: next [1..%d]", errUsage, maxStep)
		}

		n = v
	}

	for range n {
		cur := bytes.Clone(s.engine.Bytes())

		var out []byte
		if s.pinned {
			out = s.engine.ApplyInput(s.forced, cur)
		} else {
			out = s.engine.MutateInput(cur)
		}

		s.steps++

		if n <= 20 {
			s.printf("#%d %s len=%s\n", s.steps, tagColor.Sprint(s.engine.Strategy()), lenColor.Sprint(len(out)))
		}
	}

	if n > 20 {
		s.printf("#%d applied %d mutations, len=%s\n", s.steps, n, lenColor.Sprint(len(s.engine.Bytes())))
	}

	return nil
}

func (s *session) cmdForce(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: force <strategy|off>", errUsage)
	}

	if strings.EqualFold(args[0], "off") {
		s.pinned = false
		s.printf("selection is random again\n")

		return nil
	}

	st, err := bytemut.ParseStrategy(args[0])
	if err != nil {
		return err
	}

	if !slices.Contains(s.engine.Active(), st) {
		return fmt.Errorf("%w: %s", errInactive, st)
	}

	s.forced, s.pinned = st, true
	s.printf("forcing %s\n", forcedColor.Sprint(st))

	return nil
}

func (s *session) cmdStrategies() {
	for _, st := range s.engine.Active() {
		mark := " "
		if s.pinned && st == s.forced {
			mark = "*"
		}

		s.printf("%s %-18s %s\n", mark, st, st.SizeEffect())
	}
}

func (s *session) cmdStats() {
	st := s.engine.Stats()
	s.printf("total=%d bytes=%d\n", st.Total, st.Bytes)

	for _, tag := range bytemut.AllStrategies() {
		if n := st.Count(tag); n > 0 {
			s.printf("  %-18s %d\n", tagColor.Sprint(tag), n)
		}
	}
}

func (s *session) cmdSave(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: save <path>", errUsage)
	}

	err := os.MkdirAll(filepath.Dir(args[0]), 0o750)
	if err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	err = atomic.WriteFile(args[0], bytes.NewReader(s.engine.Bytes()))
	if err != nil {
		return err
	}

	s.printf("saved %d bytes to %s\n", len(s.engine.Bytes()), args[0])

	return nil
}

func (s *session) complete(line string) []string {
	fields := strings.Fields(line)
	if len(fields) >= 1 && strings.EqualFold(fields[0], "force") && (len(fields) == 2 || strings.HasSuffix(line, " ")) {
		prefix := ""
		if len(fields) == 2 {
			prefix = strings.ToLower(fields[1])
		}

		var out []string

		for _, name := range s.forceTargets() {
			if strings.HasPrefix(name, prefix) {
				out = append(out, "force "+name)
			}
		}

		return out
	}

	var out []string

	lower := strings.ToLower(line)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			out = append(out, cmd)
		}
	}

	return out
}

func (s *session) forceTargets() []string {
	names := make([]string, 0, len(s.engine.Active())+1)
	for _, st := range s.engine.Active() {
		names = append(names, st.String())
	}

	return append(names, "off")
}

func (s *session) printHelp() {
	s.printf(`Commands:
  next [n]              Apply n mutations (default 1)
  force <strategy|off>  Pin every following mutation to one strategy
  show                  Print the buffer as a quoted string
  hex                   Hex dump of the buffer
  strategies            List active strategies
  stats                 Per-strategy counts so far
  save <path>           Write the buffer to a file
  help                  Show this help
  exit / quit / q       Exit
`)
}

func (s *session) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}
