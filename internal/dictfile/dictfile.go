// Package dictfile reads AFL/libFuzzer style token dictionaries.
//
// One token per line:
//
//	# comment
//	kw_get="GET"
//	"\x00\x01"
//	bare-token
//
// Quoted values understand \\, \" and \xNN escapes. Anything after the
// closing quote is rejected. Unquoted lines are taken literally.
package dictfile

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/calvinalkan/bytemut/pkg/bytemut"
)

var (
	ErrSyntax = errors.New("dictfile: syntax error")
	ErrEmpty  = errors.New("dictfile: no tokens")
)

// Load parses the dictionary at path.
func Load(path string) (*bytemut.Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	d, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return d, nil
}

// Parse reads a dictionary from r.
func Parse(r io.Reader) (*bytemut.Dictionary, error) {
	tokens, err := ParseTokens(r)
	if err != nil {
		return nil, err
	}

	if len(tokens) == 0 {
		return nil, ErrEmpty
	}

	return bytemut.NewDictionary(tokens)
}

// ParseTokens returns the raw tokens in file order.
func ParseTokens(r io.Reader) ([][]byte, error) {
	var tokens [][]byte

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++

		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tok, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrSyntax, lineNo, err)
		}

		if len(tok) == 0 {
			return nil, fmt.Errorf("%w: line %d: %w", ErrSyntax, lineNo, bytemut.ErrEmptyToken)
		}

		tokens = append(tokens, tok)
	}

	err := sc.Err()
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}

	return tokens, nil
}

func parseLine(line string) ([]byte, error) {
	open := strings.IndexByte(line, '"')
	if open < 0 {
		return []byte(line), nil
	}

	if !strings.HasSuffix(line, `"`) || open == len(line)-1 {
		return nil, errors.New("unterminated quote")
	}

	name := strings.TrimSpace(line[:open])
	if name != "" && !strings.HasSuffix(name, "=") {
		return nil, fmt.Errorf("expected name=\"value\", got %q", line)
	}

	return unescape(line[open+1 : len(line)-1])
}

func unescape(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch c {
		case '"':
			return nil, errors.New("unescaped quote inside value")
		case '\\':
		default:
			out = append(out, c)

			continue
		}

		if i+1 >= len(s) {
			return nil, errors.New("trailing backslash")
		}

		i++

		switch s[i] {
		case '\\', '"':
			out = append(out, s[i])
		case 'x':
			if i+2 >= len(s) {
				return nil, errors.New(`short \x escape`)
			}

			b, err := hex.DecodeString(s[i+1 : i+3])
			if err != nil {
				return nil, fmt.Errorf(`bad \x escape %q`, s[i-1:i+3])
			}

			out = append(out, b...)
			i += 2
		default:
			return nil, fmt.Errorf(`unknown escape \%c`, s[i])
		}
	}

	return out, nil
}
