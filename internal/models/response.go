package models

import (
	"encoding/json"
	"fmt"
)

// ArticlesResponse is the payload shape of the article data source.
type ArticlesResponse struct {
	Items []Article `json:"items"`
	Total int       `json:"total"`
}

// DecodeArticles parses a raw data-source payload, normalizes defaults,
// and validates every article. A payload that is not the expected shape,
// or that contains an invalid article, is a load failure for the caller
// to recover from.
func DecodeArticles(data []byte) (*ArticlesResponse, error) {
	var resp ArticlesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("models: decode articles: %w", err)
	}
	for i := range resp.Items {
		resp.Items[i].Normalize()
		if err := resp.Items[i].Validate(); err != nil {
			return nil, fmt.Errorf("models: article %q: %w", resp.Items[i].ID, err)
		}
	}
	if resp.Items == nil {
		resp.Items = []Article{}
	}
	if resp.Total < 0 {
		return nil, fmt.Errorf("models: negative total %d", resp.Total)
	}
	if resp.Total == 0 {
		resp.Total = len(resp.Items)
	}
	return &resp, nil
}
