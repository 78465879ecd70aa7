package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "afdb-harvester/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// QueryConfig holds settings for querying AlphaFold DB for one accession.
type QueryConfig struct {
	HTTPConfig `yaml:",inline"`

	// Retries is the total number of attempts per HTTP request (default 2).
	Retries int `json:"retries" yaml:"retries"`

	// Backoff is the fixed delay between consecutive attempts (default 5s).
	Backoff time.Duration `json:"backoff" yaml:"backoff"`

	// FetchStructure controls whether the mmCIF model file is downloaded and
	// parsed for per-residue confidence scores. When false a query stops
	// after the metadata request.
	FetchStructure bool `json:"fetch_structure" yaml:"fetch_structure"`
}

// DatasetBackend identifies the dataset storage backend.
type DatasetBackend string

const (
	BackendCSV    DatasetBackend = "csv"
	BackendSQLite DatasetBackend = "sqlite"
)

// CollectConfig holds settings for the bulk collection stage.
type CollectConfig struct {
	QueryConfig `yaml:",inline"`

	// DatasetPath is the primary dataset location (CSV file or SQLite database).
	DatasetPath string `json:"dataset_path" yaml:"dataset_path"`

	// Backend selects the dataset storage backend: csv or sqlite.
	Backend DatasetBackend `json:"backend" yaml:"backend"`

	// InputColumn is the column holding accessions when the input list is a
	// CSV file (default "uniprot_id").
	InputColumn string `json:"input_column" yaml:"input_column"`

	// QueryDelay is the delay between consecutive accession queries (default 0).
	QueryDelay time.Duration `json:"query_delay" yaml:"query_delay"`
}
