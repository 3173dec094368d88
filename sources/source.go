// Package sources fetches item lists and merges them into one deduplicated list.
package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/kolloid-cable/drift/content"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Source produces a list of items.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]content.Item, error)
}

// Options configures sources created by Open.
type Options struct {
	HTTPClient *http.Client
	AWSRegion  string
}

// Open returns the source for a URI: http(s)://..., s3://bucket/key or a file path.
func Open(ctx context.Context, uri string, opts Options) (Source, error) {
	switch {
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return NewHTTPSource(uri, opts.HTTPClient), nil
	case strings.HasPrefix(uri, "s3://"):
		return NewS3Source(ctx, uri, opts.AWSRegion)
	case strings.HasPrefix(uri, "file://"):
		return NewFileSource(strings.TrimPrefix(uri, "file://")), nil
	case strings.Contains(uri, "://"):
		return nil, fmt.Errorf("unsupported source scheme: %s", uri)
	default:
		return NewFileSource(uri), nil
	}
}

// HTTPSource fetches a JSON array of items over HTTP.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates an HTTP source. A nil client uses http.DefaultClient.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{url: url, client: client}
}

func (s *HTTPSource) Name() string { return s.url }

// Fetch performs the request. Non-2xx responses are errors.
func (s *HTTPSource) Fetch(ctx context.Context) ([]content.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: status %d", s.url, resp.StatusCode)
	}
	return decodeItems(resp.Body)
}

// FileSource reads a JSON array of items from disk.
type FileSource struct {
	path string
}

// NewFileSource creates a file source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return s.path }

// Fetch reads and decodes the file.
func (s *FileSource) Fetch(ctx context.Context) ([]content.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()
	return decodeItems(f)
}

// decodeItems reads a JSON payload. Anything other than an array yields no items.
// Records are decoded one by one; a record that cannot be decoded is dropped
// without affecting its neighbours.
func decodeItems(r io.Reader) ([]content.Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}
	if json.Get(data).ValueType() != jsoniter.ArrayValue {
		return nil, nil
	}
	var raw []jsoniter.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding items: %w", err)
	}

	items := make([]content.Item, 0, len(raw))
	for _, rec := range raw {
		var w wireItem
		if json.Unmarshal(rec, &w) != nil {
			continue
		}
		items = append(items, w.item())
	}
	return items, nil
}

// wireItem is the JSON shape of an item. Ids and timestamps are opaque and may
// arrive as numbers.
type wireItem struct {
	ID          scalar `json:"id"`
	Link        string `json:"link"`
	Title       string `json:"title"`
	Contributor string `json:"contributor"`
	Genre       string `json:"genre"`
	SiteType    string `json:"siteType"`
	Account     string `json:"account"`
	UpdatedAt   scalar `json:"updatedAt"`
}

func (w wireItem) item() content.Item {
	return content.Item{
		ID:          string(w.ID),
		Link:        w.Link,
		Title:       w.Title,
		Contributor: w.Contributor,
		Genre:       w.Genre,
		SiteType:    w.SiteType,
		Account:     w.Account,
		UpdatedAt:   string(w.UpdatedAt),
	}
}

// scalar accepts a JSON string, number or null. Numbers keep their literal text.
type scalar string

func (s *scalar) UnmarshalJSON(b []byte) error {
	switch json.Get(b).ValueType() {
	case jsoniter.StringValue:
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = scalar(v)
	case jsoniter.NumberValue:
		*s = scalar(strings.TrimSpace(string(b)))
	case jsoniter.NilValue:
		*s = ""
	default:
		return fmt.Errorf("expected string or number, got %s", b)
	}
	return nil
}
