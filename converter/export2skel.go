package converter

import (
	"strings"

	"github.com/binzume/spineconv/export"
	"github.com/kpango/glg"
)

const SkeletonSuffix = ".skel"

type SkeletonOption struct {
	// WrapBytes narrows out of range values modulo 256 instead of failing.
	WrapBytes bool
}

type ExportToSkeletonConverter struct {
	options *SkeletonOption
}

func NewExportToSkeletonConverter(options *SkeletonOption) *ExportToSkeletonConverter {
	if options == nil {
		options = &SkeletonOption{}
	}
	return &ExportToSkeletonConverter{
		options: options,
	}
}

func (c *ExportToSkeletonConverter) Convert(data []byte, inputName string) (*Artifact, error) {
	doc, err := export.Parse(data, inputName)
	if err != nil {
		glg.Errorf("convert skeleton %s: %v", inputName, err)
		return nil, err
	}
	return c.ConvertDocument(doc, inputName)
}

func (c *ExportToSkeletonConverter) ConvertDocument(doc *export.Document, inputName string) (*Artifact, error) {
	b, err := c.convert(doc)
	if err != nil {
		glg.Errorf("convert skeleton %s: %v", inputName, err)
		return nil, err
	}
	return &Artifact{
		Name:     SkeletonName(inputName),
		MIMEType: MIMETypeBinary,
		Data:     b,
	}, nil
}

func (c *ExportToSkeletonConverter) convert(doc *export.Document) ([]byte, error) {
	e, err := doc.First()
	if err != nil {
		return nil, err
	}
	return e.SkeletonBytes(c.options.WrapBytes)
}

// SkeletonName replaces the first "-data.json" in name with ".skel".
func SkeletonName(name string) string {
	return strings.Replace(name, SkeletonJSONSuffix, SkeletonSuffix, 1)
}
