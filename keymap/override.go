package keymap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ErrNoMappings is returned when an override file applies no mapping at all.
var ErrNoMappings = errors.New("no valid key mappings found")

// LoadOverride reads an override file of REMOTE_KEY=OUTPUT_KEY lines. The
// result starts from a fresh copy of the defaults; when no line applies the
// error wraps ErrNoMappings and the caller should keep its current table.
func LoadOverride(path string, names *Names, logger *slog.Logger) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open key map %s: %w", path, err)
	}
	defer f.Close()

	t, err := ParseOverride(f, names, logger)
	if err != nil {
		return nil, fmt.Errorf("key map %s: %w", path, err)
	}
	return t, nil
}

// ParseOverride is LoadOverride on an already opened reader.
func ParseOverride(r io.Reader, names *Names, logger *slog.Logger) (*Table, error) {
	t := Default()
	applied := 0
	lineNo := 0

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Count(line, "=") != 1 {
			logger.Warn("Invalid key map line", "line", lineNo, "text", line)
			continue
		}
		lhs, rhs, _ := strings.Cut(line, "=")
		lhs, rhs = strings.TrimSpace(lhs), strings.TrimSpace(rhs)

		code, ok := names.Remote(lhs)
		if !ok {
			logger.Warn("Unknown CEC key", "line", lineNo, "key", lhs)
			continue
		}
		key, ok := names.Output(rhs)
		if !ok {
			logger.Warn("Unknown uinput key", "line", lineNo, "key", rhs)
			continue
		}
		t.set(code, NewChord(key))
		applied++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if applied == 0 {
		return nil, ErrNoMappings
	}
	logger.Info("Loaded key mappings", "count", applied)
	return t, nil
}

// WriteOverride writes t in override file syntax. Entries that are not a
// single named key cannot be expressed by the format and are written as
// comments.
func WriteOverride(w io.Writer, t *Table, names *Names) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# cecinput key map")
	fmt.Fprintln(bw, "# REMOTE_KEY=OUTPUT_KEY, one per line. Lines starting with # are ignored.")
	fmt.Fprintln(bw, "# Loading a file replaces the built-in table only if at least one line applies.")
	fmt.Fprintln(bw)

	for _, name := range names.RemoteNames() {
		code, _ := names.Remote(name)
		c, _ := t.Lookup(code)
		switch c.Len() {
		case 0:
			fmt.Fprintf(bw, "# %s=\n", name)
		case 1:
			if out, ok := names.OutputName(c.keys[0]); ok {
				fmt.Fprintf(bw, "%s=%s\n", name, out)
			} else {
				fmt.Fprintf(bw, "# %s=%s\n", name, c)
			}
		default:
			fmt.Fprintf(bw, "# %s=%s (chord)\n", name, c)
		}
	}
	return bw.Flush()
}
