package bytemut

import (
	"fmt"
	"slices"
)

// Corpus is an immutable, non-empty list of inputs used for resampling and
// splicing.
//
// It is safe for concurrent use by any number of engines.
type Corpus struct {
	entries [][]byte
}

// NewCorpus returns a corpus holding deep copies of entries.
//
// Returns [ErrEmptyCorpus] if entries is empty. Individual entries may be
// empty; splicing skips them.
func NewCorpus(entries [][]byte) (*Corpus, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCorpus
	}

	c := &Corpus{entries: make([][]byte, len(entries))}
	for i, e := range entries {
		c.entries[i] = slices.Clone(e)
		if c.entries[i] == nil {
			c.entries[i] = []byte{}
		}
	}

	return c, nil
}

// Len returns the number of entries.
func (c *Corpus) Len() int {
	return len(c.entries)
}

// Entry returns entry i. The returned slice must not be modified.
func (c *Corpus) Entry(i int) []byte {
	return c.entries[i]
}

// pick returns entries[Next() % Len()].
func (c *Corpus) pick(d drawer) []byte {
	return choose(d, c.entries)
}

// Dictionary is an immutable ordered list of non-empty tokens.
//
// It is safe for concurrent use by any number of engines.
type Dictionary struct {
	tokens [][]byte
}

// NewDictionary returns a dictionary holding deep copies of tokens.
//
// Returns [ErrEmptyDictionary] if tokens is empty and [ErrEmptyToken] if any
// token has length zero.
func NewDictionary(tokens [][]byte) (*Dictionary, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptyDictionary
	}

	d := &Dictionary{tokens: make([][]byte, len(tokens))}
	for i, tok := range tokens {
		if len(tok) == 0 {
			return nil, fmt.Errorf("token %d: %w", i, ErrEmptyToken)
		}

		d.tokens[i] = slices.Clone(tok)
	}

	return d, nil
}

// Len returns the number of tokens.
func (d *Dictionary) Len() int {
	return len(d.tokens)
}

// Token returns token i. The returned slice must not be modified.
func (d *Dictionary) Token(i int) []byte {
	return d.tokens[i]
}
