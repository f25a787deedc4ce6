package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// RAGSummary is a reference document stored by the service's retrieval index.
// Metadata is kept as delivered; use Meta for the typed view.
type RAGSummary struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// RAGSummaryUpdate is the body of a RAG summary edit.
type RAGSummaryUpdate struct {
	Text string `json:"text"`
}

// SummaryMetadata is the typed view over RAGSummary.Metadata.
// Keys the service adds beyond the known ones end up in Extra.
type SummaryMetadata struct {
	SceneID   string         `mapstructure:"scene_id"`
	NovelID   string         `mapstructure:"novel_id"`
	ChapterID string         `mapstructure:"chapter_id"`
	Type      string         `mapstructure:"type"`
	Extra     map[string]any `mapstructure:",remain"`
}

// Meta decodes the loose metadata map into SummaryMetadata.
func (r RAGSummary) Meta() (SummaryMetadata, error) {
	var meta SummaryMetadata
	if len(r.Metadata) == 0 {
		return meta, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &meta,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return meta, err
	}
	if err := dec.Decode(r.Metadata); err != nil {
		return meta, fmt.Errorf("failed to decode summary metadata %s: %w", r.ID, err)
	}
	return meta, nil
}
