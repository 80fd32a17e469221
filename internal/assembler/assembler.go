// Package assembler renders the code block registry as one Python program
// in canonical section order, and exports it to files.
package assembler

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/vk/meepgen/internal/blockstore"
	"github.com/vk/meepgen/internal/section"
)

// DefaultFilename is used when a title yields no usable characters.
const DefaultFilename = "simulation.py"

// Assemble concatenates the stored blocks in canonical order, whatever
// order they were generated in. Sections that never generated are left
// out; see Missing.
func Assemble(ctx context.Context, st blockstore.Store) (string, error) {
	blocks, err := blockstore.Blocks(ctx, st)
	if err != nil {
		return "", fmt.Errorf("reading code blocks: %w", err)
	}
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, strings.TrimRight(b.Content, "\n"))
	}
	if len(parts) == 0 {
		return "", nil
	}
	return strings.Join(parts, "\n\n\n") + "\n", nil
}

// Missing returns the sections without a stored block.
func Missing(ctx context.Context, st blockstore.Store) ([]section.Section, error) {
	var out []section.Section
	for _, s := range section.All() {
		_, ok, err := st.Get(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("reading %s block: %w", s, err)
		}
		if !ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// Export writes the assembled program to w.
func Export(ctx context.Context, w io.Writer, st blockstore.Store) error {
	text, err := Assemble(ctx, st)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("writing script: %w", err)
	}
	return nil
}

// ExportFile writes the assembled program to path, replacing it atomically.
func ExportFile(ctx context.Context, path string, st blockstore.Store) error {
	text, err := Assemble(ctx, st)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// ExportFilename derives the download filename from a project title:
// diacritics stripped, lower snake case, ".py" extension.
func ExportFilename(title string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err != nil {
		stripped = title
	}
	var b strings.Builder
	pendingSep := false
	for _, r := range stripped {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingSep = true
		}
	}
	if b.Len() == 0 {
		return DefaultFilename
	}
	return b.String() + ".py"
}
