package database

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"edudesk/internal/common/config"
)

// SearchStore is the Elasticsearch cluster holding the people directory.
type SearchStore struct {
	Client *elasticsearch.Client
}

func NewSearchStore(cfg config.ElasticsearchConfig) (*SearchStore, error) {
	addresses := cfg.Addresses
	if len(addresses) == 0 && cfg.URL != "" {
		addresses = []string{cfg.URL}
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create search store client: %w", err)
	}
	return &SearchStore{Client: es}, nil
}

func (s *SearchStore) Ping(ctx context.Context) error {
	res, err := s.Client.Ping(s.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search store unreachable: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search store unhealthy: %s", res.Status())
	}
	return nil
}
