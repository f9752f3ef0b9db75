package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kpango/glg"

	"github.com/binzume/spineconv/converter"
	"github.com/binzume/spineconv/export"
	"github.com/binzume/spineconv/source"
)

type mode int

const (
	modeAuto mode = iota
	modeSplit
	modeAtlas
	modeSkeleton
	modeConvert
)

func (m mode) String() string {
	switch m {
	case modeSplit:
		return "split"
	case modeAtlas:
		return "atlas"
	case modeSkeleton:
		return "skel"
	case modeConvert:
		return "convert"
	}
	return "auto"
}

var (
	ErrOutputExists = errors.New("output file already exists (use --overwrite)")
	ErrSameAsInput  = errors.New("output name equals input name")
)

// detectMode picks the operation from the input name the same way the
// splitter names its outputs.
func detectMode(name string) mode {
	if strings.HasSuffix(name, converter.AtlasJSONSuffix) {
		return modeAtlas
	} else if strings.HasSuffix(name, converter.SkeletonJSONSuffix) {
		return modeSkeleton
	}
	return modeSplit
}

func baseName(name string) string {
	return strings.TrimSuffix(name, ".json")
}

type result struct {
	Input    string
	Output   string
	Artifact *converter.Artifact
}

type runner struct {
	conf *Config
	mode mode

	splitter *converter.ExportSplitter
	atlas    *converter.ExportToAtlasConverter
	skeleton *converter.ExportToSkeletonConverter
	bundle   *converter.BundleConverter
}

func newRunner(conf *Config, m mode) *runner {
	skelOpt := converter.SkeletonOption{WrapBytes: conf.WrapSkeletonBytes}
	return &runner{
		conf:     conf,
		mode:     m,
		splitter: converter.NewExportSplitter(),
		atlas:    converter.NewExportToAtlasConverter(),
		skeleton: converter.NewExportToSkeletonConverter(&skelOpt),
		bundle:   converter.NewBundleConverter(&converter.BundleOption{SkeletonOption: skelOpt, KeepSplit: conf.KeepSplit}),
	}
}

func (r *runner) convert(m mode, data []byte, name string) ([]*converter.Artifact, error) {
	switch m {
	case modeAtlas:
		a, err := r.atlas.Convert(data, name)
		if err != nil {
			return nil, err
		}
		return []*converter.Artifact{a}, nil
	case modeSkeleton:
		a, err := r.skeleton.Convert(data, name)
		if err != nil {
			return nil, err
		}
		return []*converter.Artifact{a}, nil
	case modeConvert:
		return r.bundle.Convert(data, baseName(name))
	}
	return r.splitter.Split(data, baseName(name))
}

// processInput converts one input and writes its artifacts.
func (r *runner) processInput(in *source.Input) ([]*result, error) {
	m := r.mode
	if m == modeAuto {
		m = detectMode(in.Name)
	}
	glg.Debugf("%s: %s", m, in.Path)

	data, err := in.ReadAll()
	if err != nil {
		return nil, err
	}
	artifacts, err := r.convert(m, data, in.Name)
	if err != nil {
		return nil, err
	}
	if len(artifacts) == 0 {
		glg.Warnf("%s: no spine assets found", in.Name)
	}

	outDir := in.OutDir
	if r.conf.OutputDir != "" {
		outDir = r.conf.OutputDir
	}
	names := uniqueNames(artifacts)
	// check every output before writing any of them
	for i := range artifacts {
		if err := r.checkOutput(filepath.Join(outDir, names[i]), in.Path); err != nil {
			return nil, err
		}
	}
	var results []*result
	for i, a := range artifacts {
		path := filepath.Join(outDir, names[i])
		if err := save(a, path); err != nil {
			return results, err
		}
		glg.Infof("out: %s", path)
		results = append(results, &result{Input: in.Name, Output: path, Artifact: a})
	}
	return results, nil
}

// outputSuffixes are kept at the end of a name when it gets numbered.
var outputSuffixes = []string{
	converter.AtlasJSONSuffix,
	converter.SkeletonJSONSuffix,
	converter.AtlasSuffix,
	converter.SkeletonSuffix,
}

// uniqueNames returns the file name for each artifact. A name repeated within
// one input (a bundle with two atlas pages) is numbered from 2:
// hero-atlas.json, hero-2-atlas.json.
func uniqueNames(artifacts []*converter.Artifact) []string {
	names := make([]string, len(artifacts))
	used := map[string]bool{}
	for i, a := range artifacts {
		name := a.Name
		for n := 2; used[name]; n++ {
			name = numberedName(a.Name, n)
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func numberedName(name string, n int) string {
	for _, suffix := range outputSuffixes {
		if strings.HasSuffix(name, suffix) {
			return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, suffix), n, suffix)
		}
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n, ext)
}

func (r *runner) checkOutput(path, inputPath string) error {
	if filepath.Clean(path) == filepath.Clean(inputPath) {
		return fmt.Errorf("%s: %w", filepath.Base(path), ErrSameAsInput)
	}
	if !r.conf.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrOutputExists)
		}
	}
	return nil
}

func save(a *converter.Artifact, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, a.Data, 0644)
}

// logFailure reports a failed input. Format errors were already logged with
// their context by the converter.
func logFailure(name string, err error) {
	if !export.IsFormatError(err) {
		glg.Errorf("%s: %v", name, err)
	}
}

// run processes every input under paths. A failing file is logged and
// skipped; the returned error reports how many failed.
func (r *runner) run(paths []string) ([]*result, error) {
	var results []*result
	total, failed := 0, 0
	for _, p := range paths {
		src, err := source.Open(p)
		if err != nil {
			glg.Errorf("%s: %v", p, err)
			total++
			failed++
			continue
		}
		for _, in := range src.Inputs() {
			total++
			res, err := r.processInput(in)
			results = append(results, res...)
			if err != nil {
				logFailure(in.Name, err)
				failed++
			}
		}
		if err := src.Close(); err != nil {
			glg.Warnf("%s: %v", p, err)
		}
	}
	if failed > 0 {
		return results, fmt.Errorf("%d of %d files failed", failed, total)
	}
	return results, nil
}
