package assets

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
)

//go:embed maps sounds tracks models
var assetsFS embed.FS

// Source lists and reads asset files by slash-separated, source-relative path.
type Source interface {
	List(dir string) ([]string, error)
	ReadFile(name string) ([]byte, error)
}

type fsSource struct {
	fsys fs.FS
}

// Embedded returns the assets compiled into the binary.
func Embedded() Source {
	return fsSource{fsys: assetsFS}
}

// Dir returns a source reading from a directory on disk.
func Dir(dir string) Source {
	return fsSource{fsys: os.DirFS(dir)}
}

// FS wraps an arbitrary fs.FS, mostly for tests.
func FS(fsys fs.FS) Source {
	return fsSource{fsys: fsys}
}

func (s fsSource) List(dir string) ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, path.Join(dir, e.Name()))
	}
	sort.Strings(names)
	return names, nil
}

func (s fsSource) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(s.fsys, cleanAssetPath(name))
}

// ZipSource reads assets packed into a single archive.
type ZipSource struct {
	rc    *zip.ReadCloser
	files map[string]*zip.File
}

// OpenZip opens an asset archive. The archive may keep its files under a
// top-level "assets/" directory.
func OpenZip(archive string) (*ZipSource, error) {
	rc, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("assets: open zip %s: %w", archive, err)
	}
	files := make(map[string]*zip.File, len(rc.File))
	for _, f := range rc.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		files[cleanAssetPath(f.Name)] = f
	}
	return &ZipSource{rc: rc, files: files}, nil
}

func (z *ZipSource) List(dir string) ([]string, error) {
	prefix := strings.TrimSuffix(dir, "/") + "/"
	var names []string
	for name := range z.files {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok || strings.Contains(rest, "/") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (z *ZipSource) ReadFile(name string) ([]byte, error) {
	f, ok := z.files[cleanAssetPath(name)]
	if !ok {
		return nil, fmt.Errorf("assets: %s: %w", name, fs.ErrNotExist)
	}
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (z *ZipSource) Close() error {
	return z.rc.Close()
}

func cleanAssetPath(p string) string {
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		s := filepath.ToSlash(p)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(p)
	}
	s := filepath.ToSlash(p)
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		return after
	}
	return s
}
