package image

// ValidationResult captures the outcome of validating an uploaded diagram.
type ValidationResult struct {
	Format   string
	Width    int
	Height   int
	FileSize int64
}

// Normalized is the canonical form every diagram reaches before model calls:
// opaque RGB pixels, bounded dimensions, PNG encoded.
type Normalized struct {
	Bytes        []byte
	Width        int
	Height       int
	SourceFormat string
	Resized      bool
}
