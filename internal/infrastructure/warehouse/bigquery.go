// Package warehouse wraps the analytics warehouse behind parameterized
// queries. All report SQL lives here; callers only see typed rows.
package warehouse

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/myfrido/analytics-backend/internal/infrastructure/config"
)

// ErrNotConfigured is returned when the warehouse project is not set.
var ErrNotConfigured = errors.New("warehouse: bigquery project not configured")

// Row is one result row keyed by column name.
type Row map[string]bigquery.Value

// Param is one named query parameter.
type Param struct {
	Name  string
	Value any
}

// Runner executes a parameterized query. Satisfied by Client and by
// test fakes.
type Runner interface {
	Query(ctx context.Context, sql string, params ...Param) ([]Row, error)
	Table(name string) string
}

// Unconfigured returns a Runner whose queries always fail with
// ErrNotConfigured. Used when no BigQuery project is set, so report
// endpoints return a clear error instead of panicking on a nil client.
func Unconfigured() Runner {
	return unconfiguredRunner{}
}

type unconfiguredRunner struct{}

func (unconfiguredRunner) Query(context.Context, string, ...Param) ([]Row, error) {
	return nil, ErrNotConfigured
}

func (unconfiguredRunner) Table(name string) string { return name }

// Client executes parameterized SQL against a fixed project and dataset.
type Client struct {
	bq      *bigquery.Client
	project string
	dataset string
}

var _ Runner = (*Client)(nil)

// New connects to BigQuery using the configured project. A credentials
// file is optional; without one the ambient application default
// credentials are used.
func New(ctx context.Context, cfg config.BigQueryConfig) (*Client, error) {
	if cfg.ProjectID == "" {
		return nil, ErrNotConfigured
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	bq, err := bigquery.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("warehouse: connect bigquery: %w", err)
	}
	if cfg.Location != "" {
		bq.Location = cfg.Location
	}
	return &Client{bq: bq, project: cfg.ProjectID, dataset: cfg.Dataset}, nil
}

// Query runs one parameterized statement and materializes all rows.
// Report queries are small aggregates, so full materialization is fine.
func (c *Client) Query(ctx context.Context, sql string, params ...Param) ([]Row, error) {
	q := c.bq.Query(sql)
	q.Parameters = make([]bigquery.QueryParameter, 0, len(params))
	for _, p := range params {
		q.Parameters = append(q.Parameters, bigquery.QueryParameter{Name: p.Name, Value: p.Value})
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("warehouse: run query: %w", err)
	}

	var rows []Row
	for {
		var row map[string]bigquery.Value
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("warehouse: read query results: %w", err)
		}
		rows = append(rows, Row(row))
	}
}

// Table qualifies a table name with the client's project and dataset.
func (c *Client) Table(name string) string {
	return fmt.Sprintf("`%s.%s.%s`", c.project, c.dataset, name)
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.bq.Close()
}
