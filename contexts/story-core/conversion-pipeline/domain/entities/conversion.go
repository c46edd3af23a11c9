package entities

import "time"

// Story is the completed narrative a transformer works on, snapshotted from
// the session engine so the pipeline never reaches into session internals.
type Story struct {
	Title        string
	Genre        string
	Text         string
	Contributors []string
}

// Conversion is one paid transformation of a completed story.
// SeededTemplateID is set only for generative transformers, pointing at the
// follow-on template they registered in the library.
type Conversion struct {
	ConversionID     string
	SessionID        string
	TransformerID    string
	AccountID        string
	Output           string
	SeededTemplateID string
	Cost             int64
	CreatedAt        time.Time
}
