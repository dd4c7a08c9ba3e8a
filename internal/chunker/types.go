package chunker

// sizes are measured in runes
type ChunkOptions struct {
	ChunkSize    int
	ChunkOverlap int
}

type Splitter struct {
	opts       ChunkOptions
	separators []string
}
