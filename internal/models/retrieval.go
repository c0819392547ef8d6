package models

// RetrievalResult is one ranked candidate returned by the vector
// index. Metadata is the flat scalar map stored alongside the vector.
// Distance is the index's distance metric; smaller is closer.
type RetrievalResult struct {
	Content  string
	Metadata map[string]string
	Distance float32
}

// IndexInfo describes the backing collection, used for health checks.
type IndexInfo struct {
	Collection string
	Chunks     int
}

// Answer is the composed response for one query.
type Answer struct {
	Answer       string
	SourceURL    string
	ContextsUsed int
}
