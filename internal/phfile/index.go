package phfile

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

const indexHeader = "// This file is auto-generated. Do not edit manually.\n"

// RenderIndex builds the module index re-exporting one country file per code.
// relDir is the country file directory relative to the index, slash-separated.
func RenderIndex(relDir string, countries []string) []byte {
	codes := make([]string, 0, len(countries))
	for _, c := range countries {
		codes = append(codes, strings.ToLower(c))
	}
	sort.Strings(codes)

	var b strings.Builder
	b.WriteString(indexHeader)
	for _, c := range codes {
		fmt.Fprintf(&b, "export { default as %s } from '%s';\n", c, importPath(relDir, c+fileExt))
	}
	return []byte(b.String())
}

func importPath(relDir, file string) string {
	p := path.Join(relDir, file)
	if strings.HasPrefix(p, "../") {
		return p
	}
	return "./" + p
}

// WriteIndex overwrites the index at indexFile, importing the country files of dir.
func WriteIndex(indexFile, dir string, countries []string) error {
	rel, err := filepath.Rel(filepath.Dir(indexFile), dir)
	if err != nil {
		return fmt.Errorf("locate %s from %s: %w", dir, indexFile, err)
	}
	return writeAtomic(indexFile, RenderIndex(filepath.ToSlash(rel), countries))
}
