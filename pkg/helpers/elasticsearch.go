package helpers

import (
	"github.com/elastic/go-elasticsearch/v8"
)

// NewESClient creates an Elasticsearch client for the given addresses.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
	})
}
