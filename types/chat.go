package types

// ChatResult is the outcome of one retrieval-augmented chat turn. Sources
// lists the distinct source labels of the retrieved context in
// first-occurrence order; it is empty when nothing relevant was found.
type ChatResult struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
}

// IngestResult reports how many chunks were embedded and stored. When
// ingestion fails mid-loop the count covers the chunks written before the
// failure; already-written sections are kept.
type IngestResult struct {
	ChunksProcessed int `json:"chunks_processed"`
}
