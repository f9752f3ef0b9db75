package converter

import (
	"github.com/binzume/spineconv/export"
	"github.com/kpango/glg"
)

type BundleOption struct {
	SkeletonOption
	KeepSplit bool
}

// BundleConverter splits a bundled export and converts every Spine entry in
// one pass, producing .atlas and .skel artifacts.
type BundleConverter struct {
	options  *BundleOption
	splitter *ExportSplitter
	atlas    *ExportToAtlasConverter
	skeleton *ExportToSkeletonConverter
}

func NewBundleConverter(options *BundleOption) *BundleConverter {
	if options == nil {
		options = &BundleOption{}
	}
	return &BundleConverter{
		options:  options,
		splitter: NewExportSplitter(),
		atlas:    NewExportToAtlasConverter(),
		skeleton: NewExportToSkeletonConverter(&options.SkeletonOption),
	}
}

func (c *BundleConverter) Convert(data []byte, baseName string) ([]*Artifact, error) {
	doc, err := export.Parse(data, baseName)
	if err != nil {
		glg.Errorf("convert %s: %v", baseName, err)
		return nil, err
	}
	split, err := c.splitter.SplitDocument(doc, baseName)
	if err != nil {
		return nil, err
	}

	results := []*Artifact{}
	for _, s := range split {
		if c.options.KeepSplit {
			results = append(results, s)
		}
		sub, err := export.Parse(s.Data, s.Name)
		if err != nil {
			glg.Errorf("convert %s: %v", s.Name, err)
			return nil, err
		}
		var a *Artifact
		if sub.Entries[0].Type == export.KindSpineAtlas {
			a, err = c.atlas.ConvertDocument(sub, s.Name)
		} else {
			a, err = c.skeleton.ConvertDocument(sub, s.Name)
		}
		if err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, nil
}
