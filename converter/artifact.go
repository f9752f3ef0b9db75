package converter

const (
	MIMETypeJSON   = "application/json"
	MIMETypeText   = "text/plain"
	MIMETypeBinary = "application/octet-stream"
)

// Artifact is a converted file. The converter keeps no reference to it.
type Artifact struct {
	Name     string
	MIMEType string
	Data     []byte
}
