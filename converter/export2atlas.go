package converter

import (
	"strings"

	"github.com/binzume/spineconv/export"
	"github.com/binzume/spineconv/spine"
	"github.com/kpango/glg"
)

const AtlasSuffix = ".atlas"

type ExportToAtlasConverter struct {
}

func NewExportToAtlasConverter() *ExportToAtlasConverter {
	return &ExportToAtlasConverter{}
}

func (c *ExportToAtlasConverter) Convert(data []byte, inputName string) (*Artifact, error) {
	doc, err := export.Parse(data, inputName)
	if err != nil {
		glg.Errorf("convert atlas %s: %v", inputName, err)
		return nil, err
	}
	return c.ConvertDocument(doc, inputName)
}

func (c *ExportToAtlasConverter) ConvertDocument(doc *export.Document, inputName string) (*Artifact, error) {
	a, err := c.convert(doc)
	if err != nil {
		glg.Errorf("convert atlas %s: %v", inputName, err)
		return nil, err
	}
	return &Artifact{
		Name:     AtlasName(inputName),
		MIMEType: MIMETypeText,
		Data:     []byte(a),
	}, nil
}

func (c *ExportToAtlasConverter) convert(doc *export.Document) (string, error) {
	e, err := doc.First()
	if err != nil {
		return "", err
	}
	raw, err := e.AtlasText()
	if err != nil {
		return "", err
	}
	return spine.NormalizeAtlas(raw), nil
}

// AtlasName replaces the first "-atlas.json" in name with ".atlas".
func AtlasName(name string) string {
	return strings.Replace(name, AtlasJSONSuffix, AtlasSuffix, 1)
}
