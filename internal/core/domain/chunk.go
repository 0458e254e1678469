package domain

// PageText is one page of extracted document text, before chunking.
type PageText struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// Chunk is an immutable unit of raw document text. Index is stable for the
// lifetime of the document and addresses the chunk in every downstream
// structure (lexical index, semantic groups, vector payloads).
type Chunk struct {
	Index int    `json:"index"`
	Page  int    `json:"page"`
	Text  string `json:"text"`
}
