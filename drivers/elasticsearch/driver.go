// Package elasticsearch registers the "elasticsearch" lookup driver: a
// query-style driver whose Find key is "<index>?<query DSL>".
//
// Grounded on data/elasticsearch/driver.go and its client package's
// Search method (same elasticsearch.NewClient construction, same
// Search.WithIndex/WithBody/WithTrackTotalHits call shape) — Find here is
// that Search call with the raw response's first hit's _source returned
// as the payload, instead of a typed esapi.Response.
package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ncobase/lookup/driver"
	"github.com/ncobase/lookup/registry"

	"github.com/elastic/go-elasticsearch/v8"
)

// Config holds the cluster addresses and optional basic-auth credentials.
type Config struct {
	Addresses []string
	Username  string
	Password  string
}

var activeConfig Config

// Configure sets the cluster parameters used by every subsequent Open.
func Configure(cfg Config) { activeConfig = cfg }

type esDriver struct{}

func (d *esDriver) Open(ctx context.Context, filename string) (any, error) {
	if len(activeConfig.Addresses) == 0 {
		return nil, fmt.Errorf("elasticsearch: no addresses configured")
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: activeConfig.Addresses,
		Username:  activeConfig.Username,
		Password:  activeConfig.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to create client: %w", err)
	}
	return client, nil
}

func (d *esDriver) Check(ctx context.Context, args driver.CheckArgs) error { return nil }

// searchHit mirrors the subset of Elasticsearch's standard search response
// this driver cares about.
type searchHit struct {
	Hits struct {
		Hits []struct {
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (d *esDriver) Find(ctx context.Context, args driver.FindArgs) driver.FindReply {
	client, ok := args.Handle.(*elasticsearch.Client)
	if !ok {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("elasticsearch: invalid handle type")}
	}

	index, query, ok := strings.Cut(args.Key, "?")
	if !ok {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("elasticsearch: key %q missing '?query'", args.Key)}
	}

	res, err := client.Search(
		client.Search.WithContext(ctx),
		client.Search.WithIndex(index),
		client.Search.WithBody(strings.NewReader(query)),
		client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("elasticsearch: search: %w", err)}
	}
	defer res.Body.Close()

	if res.IsError() {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("elasticsearch: search returned status %s", res.Status())}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("elasticsearch: reading response: %w", err)}
	}

	var parsed searchHit
	if err := json.Unmarshal(body, &parsed); err != nil {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("elasticsearch: parsing response: %w", err)}
	}
	if len(parsed.Hits.Hits) == 0 {
		return driver.FindReply{Result: driver.Fail, TTL: driver.ForeverTTL}
	}
	return driver.FindReply{Result: driver.OK, Payload: string(parsed.Hits.Hits[0].Source), TTL: driver.ForeverTTL}
}

func (d *esDriver) Close(handle any) error { return nil }

func (d *esDriver) Tidy() {}

func (d *esDriver) Quote(s string) (string, bool) { return "", false }

func init() {
	registry.Register(registry.Descriptor{
		Name:         "elasticsearch",
		Style:        driver.StyleQuery,
		Capabilities: driver.Capabilities{},
		Driver:       &esDriver{},
	})
}
