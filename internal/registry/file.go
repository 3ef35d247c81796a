package registry

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Manifest is the parsed content of a plugins file. A nil slice means the
// key was absent and the caller should fall back to everything registered.
type Manifest struct {
	Analyzers []string
	Reporters []string
}

// maxManifestSize caps plugins files at 1 MB.
const maxManifestSize = 1 << 20

// LoadManifest reads a plugins file. The format is properties style:
//
//	# comment
//	analyzers = portinuse, connrefused, \
//	            logmatch
//	reporters = console, json
//
// Keys other than "analyzers" and "reporters" are rejected so typos
// surface instead of silently enabling everything.
func LoadManifest(path string) (*Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading plugins file %s: %w", path, err)
	}
	if info.Size() > maxManifestSize {
		return nil, fmt.Errorf("plugins file too large: %s (%d bytes, max 1 MB)", path, info.Size())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading plugins file %s: %w", path, err)
	}
	defer f.Close()

	m := &Manifest{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Trailing backslash joins the next line.
		for strings.HasSuffix(line, "\\") && scanner.Scan() {
			lineNo++
			line = strings.TrimSuffix(line, "\\") + strings.TrimSpace(scanner.Text())
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("%s:%d: expected key = names, got %q", path, lineNo, line)
		}

		names := splitNames(value)
		switch strings.TrimSpace(key) {
		case "analyzers":
			// A present-but-empty key means "no analyzers", not "all".
			if m.Analyzers == nil {
				m.Analyzers = []string{}
			}
			m.Analyzers = append(m.Analyzers, names...)
		case "reporters":
			if m.Reporters == nil {
				m.Reporters = []string{}
			}
			m.Reporters = append(m.Reporters, names...)
		default:
			return nil, fmt.Errorf("%s:%d: unknown key %q", path, lineNo, strings.TrimSpace(key))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading plugins file %s: %w", path, err)
	}
	return m, nil
}

func splitNames(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
