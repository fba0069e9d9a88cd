package pack

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// builtinExclude is always left out of the archive.
var builtinExclude = []string{IgnoreFile, IncludeDir + "/", ConfigFile}

const defaultIgnore = ".git/\n.gitignore\n\ncrash-reports/\nlogs/\n"

// ReadExclude returns the built-in exclusions followed by the lines of
// dir/.packignore. Blank lines and lines starting with # are skipped.
func ReadExclude(dir string) ([]string, error) {
	exclude := append([]string(nil), builtinExclude...)

	f, err := os.Open(filepath.Join(dir, IgnoreFile))
	if errors.Is(err, fs.ErrNotExist) {
		return exclude, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", IgnoreFile, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		exclude = append(exclude, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", IgnoreFile, err)
	}
	return exclude, nil
}

// excluded reports whether the slash-separated path rel is named by a
// pattern. Patterns are relative to the pack root and may use path.Match
// wildcards; a trailing slash only matches directories.
func excluded(rel string, isDir bool, patterns []string) bool {
	for _, p := range patterns {
		p = strings.TrimPrefix(p, "./")
		if strings.HasSuffix(p, "/") {
			if !isDir {
				continue
			}
			p = strings.TrimSuffix(p, "/")
		}
		if p == rel {
			return true
		}
		if ok, _ := path.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// ZipDir archives every file below dir that is not excluded. Entries are
// deflated, named relative to dir and carry mode 0755.
func ZipDir(dir string, exclude []string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if excluded(rel, d.IsDir(), exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return addFile(zw, p, rel)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to archive %s: %w", dir, err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}
	return buf.Bytes(), nil
}

func addFile(zw *zip.Writer, src, name string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate
	hdr.SetMode(0755)

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

// Files lists the archive entries of a built pack.
func (p *Pack) Files() ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(p.Include), int64(len(p.Include)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pack archive: %w", err)
	}
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names, nil
}
