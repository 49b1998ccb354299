package feed

import (
	"fmt"
	"io"
	"os"

	"placsp/internal"
)

// ReadDocument extracts every entry of an already-parsed feed document.
// Entries are searched under their Atom namespace first; documents that
// declare no namespace fall back to bare <entry> elements.
func ReadDocument(root *Node) []internal.Record {
	entries := root.Descendants("atom:entry")
	if len(entries) == 0 {
		entries = root.Descendants("entry")
	}

	out := make([]internal.Record, 0, len(entries))
	for _, entry := range entries {
		out = append(out, ExtractEntry(entry))
	}
	return out
}

// Read parses one feed document from r. A document that is not well-formed
// yields an error and no records; the caller decides whether the run
// continues.
func Read(r io.Reader) ([]internal.Record, error) {
	root, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return ReadDocument(root), nil
}

// ReadFile reads one .atom document from disk.
func ReadFile(path string) ([]internal.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}
