package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Entry kinds recognized by the splitter and converters.
const (
	KindSpineAtlas    = "SpineAtlasAsset"
	KindSpineSkeleton = "SpineSkeletonDataAsset"
)

// Document is a bundled export: a JSON array of asset entries.
type Document struct {
	Name    string
	Entries []*Entry
}

// Entry is one element of the export array. Raw keeps the original bytes so
// that re-serialization preserves key order and values.
type Entry struct {
	Type string
	Raw  json.RawMessage

	doc           string
	object        bool
	hasProperties bool
	rawData       json.RawMessage
}

// Parse decodes a bundled export document or a split sub-document.
// A leading UTF-8 or UTF-16 byte order mark is accepted.
func Parse(data []byte, name string) (*Document, error) {
	data, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return nil, formatError(name, "cannot decode text", err)
	}
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return nil, formatError(name, "invalid JSON", syntaxError(trimmed))
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, formatError(name, "top-level value is not an array", nil)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, formatError(name, "invalid JSON", err)
	}
	doc := &Document{Name: name, Entries: make([]*Entry, 0, len(items))}
	for _, item := range items {
		doc.Entries = append(doc.Entries, parseEntry(item, name))
	}
	return doc, nil
}

func syntaxError(data []byte) error {
	var v interface{}
	return json.Unmarshal(data, &v)
}

func parseEntry(item json.RawMessage, doc string) *Entry {
	e := &Entry{Raw: item, doc: doc}
	var fields map[string]json.RawMessage
	if len(item) == 0 || item[0] != '{' || json.Unmarshal(item, &fields) != nil {
		return e
	}
	e.object = true
	if t, ok := fields["Type"]; ok {
		// non-string discriminants never match a known kind
		_ = json.Unmarshal(t, &e.Type)
	}
	p, ok := fields["Properties"]
	if !ok {
		return e
	}
	var props map[string]json.RawMessage
	if len(p) == 0 || p[0] != '{' || json.Unmarshal(p, &props) != nil {
		return e
	}
	e.hasProperties = true
	e.rawData = props["rawData"]
	return e
}

// First returns the entry a converter operates on.
func (d *Document) First() (*Entry, error) {
	if len(d.Entries) == 0 {
		return nil, formatError(d.Name, "document has no entries", nil)
	}
	e := d.Entries[0]
	if !e.object {
		return nil, formatError(d.Name, "first entry is not an object", nil)
	}
	return e, nil
}

// Select returns entries of the given kinds in document order.
func (d *Document) Select(kinds ...string) []*Entry {
	var entries []*Entry
	for _, e := range d.Entries {
		for _, k := range kinds {
			if e.object && e.Type == k {
				entries = append(entries, e)
				break
			}
		}
	}
	return entries
}

func (e *Entry) hasRawData() bool {
	return e.hasProperties && len(e.rawData) > 0 && !bytes.Equal(e.rawData, []byte("null"))
}

// AtlasText returns Properties.rawData as atlas source text.
func (e *Entry) AtlasText() (string, error) {
	if !e.hasRawData() {
		return "", formatError(e.doc, "Properties.rawData is missing", nil)
	}
	var s string
	if err := json.Unmarshal(e.rawData, &s); err != nil {
		return "", formatError(e.doc, "Properties.rawData is not a string", nil)
	}
	if s == "" {
		return "", formatError(e.doc, "Properties.rawData is empty", nil)
	}
	return s, nil
}

// SkeletonBytes returns Properties.rawData as skeleton binary.
// Values outside [0,255] are rejected unless wrap is set, in which case they
// are narrowed modulo 256.
func (e *Entry) SkeletonBytes(wrap bool) ([]byte, error) {
	if !e.hasRawData() {
		return nil, formatError(e.doc, "Properties.rawData is missing", nil)
	}
	if e.rawData[0] != '[' {
		return nil, formatError(e.doc, "Properties.rawData is not an array", nil)
	}
	dec := json.NewDecoder(bytes.NewReader(e.rawData))
	dec.UseNumber()
	var values []interface{}
	if err := dec.Decode(&values); err != nil {
		return nil, formatError(e.doc, "Properties.rawData is not an array", err)
	}

	b := make([]byte, len(values))
	for i, v := range values {
		n, ok := v.(json.Number)
		if !ok {
			return nil, formatError(e.doc, fmt.Sprintf("rawData[%d] is not a number", i), nil)
		}
		iv, err := toInt(n)
		if err != nil {
			return nil, formatError(e.doc, fmt.Sprintf("rawData[%d] is not an integer", i), err)
		}
		if !wrap && (iv < 0 || iv > 255) {
			return nil, formatError(e.doc, fmt.Sprintf("rawData[%d] = %d is out of byte range", i, iv), nil)
		}
		b[i] = byte(iv)
	}
	return b, nil
}

func toInt(n json.Number) (int64, error) {
	if iv, err := n.Int64(); err == nil {
		return iv, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	// same range as Int64: 3e9 and 3000000000 decode alike
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%v", n)
	}
	return int64(f), nil
}

// SubDocument serializes [e] with 2-space indentation.
func (e *Entry) SubDocument() ([]byte, error) {
	src := make([]byte, 0, len(e.Raw)+2)
	src = append(src, '[')
	src = append(src, e.Raw...)
	src = append(src, ']')
	var out bytes.Buffer
	if err := json.Indent(&out, src, "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
