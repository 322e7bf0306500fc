package docfill

// Source is an uploaded file: a template or a photo.
type Source interface {
	// Name is the original file name; it is used for format detection.
	Name() string
	// Bytes is the file content. Callers must not modify it.
	Bytes() []byte
}

type memSource struct {
	name string
	data []byte
}

func (s memSource) Name() string  { return s.name }
func (s memSource) Bytes() []byte { return s.data }

// NewSource returns a Source for data held in memory.
func NewSource(name string, data []byte) Source {
	return memSource{name: name, data: data}
}
