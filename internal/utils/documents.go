package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
	"github.com/PolarWolf314/pinsign/internal/keystore"
)

// ResolveDocuments expands user-provided paths, directories and globs into a
// deduplicated list of regular files. Relative patterns are resolved against
// baseDir. Directories are walked recursively. Key files are never returned
// since they are not documents.
//
// Returns ErrNoFilesFound if nothing matches.
func ResolveDocuments(patterns []string, baseDir string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		resolved, err := resolveDocumentPattern(pattern, baseDir)
		if err != nil {
			return nil, err
		}
		for _, f := range resolved {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	if len(files) == 0 {
		return nil, kerrors.ErrNoFilesFound
	}
	return files, nil
}

func resolveDocumentPattern(pattern, baseDir string) ([]string, error) {
	absPattern := pattern
	if !filepath.IsAbs(pattern) {
		absPattern = filepath.Join(baseDir, pattern)
	}

	info, err := os.Stat(absPattern)
	if err == nil && info.IsDir() {
		return documentsInDir(absPattern)
	}

	if strings.ContainsAny(pattern, "*?[{") {
		return expandDocumentGlob(pattern, absPattern)
	}

	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s: %w", pattern, kerrors.ErrNoFilesFound)
		}
		return nil, fmt.Errorf("cannot access %s: %w", pattern, kerrors.ErrIO)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s: %w", pattern, kerrors.ErrNoFilesFound)
	}
	return []string{absPattern}, nil
}

func expandDocumentGlob(pattern, absPattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(absPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	var filtered []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() || isKeyFile(m) {
			continue
		}
		filtered = append(filtered, m)
	}
	sort.Strings(filtered)
	return filtered, nil
}

func documentsInDir(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() || isKeyFile(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, kerrors.ErrIO)
	}

	return files, nil
}

func isKeyFile(path string) bool {
	base := filepath.Base(path)
	return base == keystore.PublicKeyFileName || base == keystore.PrivateKeyFileName
}

// SignedOutputPath returns the default output path for a signed copy of
// input: the same directory, with suffix inserted before the extension.
// "contract.pdf" with "_signed" gives "contract_signed.pdf".
func SignedOutputPath(input, suffix string) string {
	dir, base := filepath.Split(input)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		// Dotfiles such as ".profile" have no stem.
		stem, ext = base, ""
	}
	return filepath.Join(dir, stem+suffix+ext)
}
