package source

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/pgzip"
)

// Input is one export file to convert.
type Input struct {
	Name   string // base name, e.g. "hero.json"
	Path   string
	OutDir string // where outputs go unless overridden
}

func (in *Input) ReadAll() ([]byte, error) {
	return os.ReadFile(in.Path)
}

type Sources interface {
	Inputs() []*Input
	Close() error
}

// IsExportFile reports whether name looks like an export document.
func IsExportFile(name string) bool {
	return strings.HasSuffix(name, ".json")
}

func IsArchive(name string) bool {
	name = strings.ToLower(name)
	return strings.HasSuffix(name, ".tar.gz") || strings.HasSuffix(name, ".tgz")
}

// Open opens an export file, a directory of export files or a .tar.gz archive.
func Open(path string) (Sources, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if stat.IsDir() {
		d, err := scanDir(path, "", false)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	if IsArchive(path) {
		tmpDir, err := os.MkdirTemp("", "spineconv_")
		if err != nil {
			return nil, err
		}
		if err := extractArchive(path, tmpDir); err != nil {
			os.RemoveAll(tmpDir)
			return nil, err
		}
		d, err := scanDir(tmpDir, filepath.Dir(path), true)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return &dirFs{inputs: []*Input{{
		Name:   filepath.Base(path),
		Path:   path,
		OutDir: filepath.Dir(path),
	}}}, nil
}

type dirFs struct {
	Dir    string
	Temp   bool
	inputs []*Input
}

func (d *dirFs) Inputs() []*Input {
	return d.inputs
}

func (d *dirFs) Close() error {
	if d.Temp {
		return os.RemoveAll(d.Dir)
	}
	return nil
}

// scanDir collects *.json files under dir. Inputs of an extracted archive
// share outDir; otherwise outputs go next to each file.
func scanDir(dir, outDir string, tmp bool) (*dirFs, error) {
	d := &dirFs{Dir: dir, Temp: tmp}
	err := filepath.WalkDir(dir, func(path string, ent fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ent.IsDir() || !IsExportFile(ent.Name()) {
			return nil
		}
		out := outDir
		if out == "" {
			out = filepath.Dir(path)
		}
		d.inputs = append(d.inputs, &Input{Name: ent.Name(), Path: path, OutDir: out})
		return nil
	})
	if err != nil {
		d.Close()
		return nil, err
	}
	sort.Slice(d.inputs, func(i, j int) bool { return d.inputs[i].Path < d.inputs[j].Path })
	return d, nil
}

func extractArchive(archive, dst string) error {
	r, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer r.Close()
	gzr, err := pgzip.NewReader(r)
	if err != nil {
		return err
	}
	defer gzr.Close()
	tr := tar.NewReader(gzr)

	for {
		header, err := tr.Next()
		switch {

		case err == io.EOF:
			return nil

		case err != nil:
			return err

		case header == nil:
			continue
		}

		name := filepath.Join(dst, header.Name)
		if name == filepath.Clean(dst) {
			// root entry of `tar czf x.tgz -C dir .`
			continue
		}
		if !strings.HasPrefix(name, filepath.Clean(dst)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal path in archive: %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(name, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
				return err
			}
			f, err := os.Create(name)
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return err
			}
			f.Close()
		}
	}
}
