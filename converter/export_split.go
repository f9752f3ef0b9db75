package converter

import (
	"github.com/binzume/spineconv/export"
	"github.com/kpango/glg"
)

const (
	AtlasJSONSuffix    = "-atlas.json"
	SkeletonJSONSuffix = "-data.json"
)

var splitSuffixes = map[string]string{
	export.KindSpineAtlas:    AtlasJSONSuffix,
	export.KindSpineSkeleton: SkeletonJSONSuffix,
}

type ExportSplitter struct {
}

func NewExportSplitter() *ExportSplitter {
	return &ExportSplitter{}
}

// Split emits one single-entry document per Spine atlas or skeleton entry,
// named baseName plus "-atlas.json" or "-data.json". Other entries are skipped.
func (s *ExportSplitter) Split(data []byte, baseName string) ([]*Artifact, error) {
	doc, err := export.Parse(data, baseName)
	if err != nil {
		glg.Errorf("split %s: %v", baseName, err)
		return nil, err
	}
	return s.SplitDocument(doc, baseName)
}

func (s *ExportSplitter) SplitDocument(doc *export.Document, baseName string) ([]*Artifact, error) {
	results := []*Artifact{}
	entries := doc.Select(export.KindSpineAtlas, export.KindSpineSkeleton)
	if skipped := len(doc.Entries) - len(entries); skipped > 0 {
		glg.Debugf("split %s: skip %d non-spine entries", baseName, skipped)
	}
	for _, e := range entries {
		suffix := splitSuffixes[e.Type]
		body, err := e.SubDocument()
		if err != nil {
			glg.Errorf("split %s: %v", baseName, err)
			return nil, err
		}
		results = append(results, &Artifact{
			Name:     baseName + suffix,
			MIMEType: MIMETypeJSON,
			Data:     body,
		})
	}
	return results, nil
}
