package van

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
)

const (
	DefaultBaseURL  = "https://api.securevan.com/v4"
	DefaultTimeout  = 60 * time.Second
	DefaultMaxPages = 10000

	EndpointFolders      = "/folders"
	EndpointPrintedLists = "/printedLists"
	EndpointSavedLists   = "/savedLists"
)

// Credentials identify the application to the VAN API. The API key is sent with the
// database mode appended, e.g. "<key>|0".
type Credentials struct {
	ApplicationName string
	APIKey          string
	DatabaseMode    int
}

func (c Credentials) Password() string {
	return fmt.Sprintf("%s|%d", c.APIKey, c.DatabaseMode)
}

type Options struct {
	BaseURL  string
	Timeout  time.Duration
	MaxPages int
	Debug    bool

	// HTTPClient overrides the default client (and Timeout).
	HTTPClient *http.Client
}

// Client fetches paged collections from the VAN API.
type Client struct {
	baseURL     string
	credentials Credentials
	http        *http.Client
	maxPages    int
	debug       bool
}

func NewClient(credentials Credentials, options Options) *Client {
	c := Client{
		baseURL:     strings.TrimSuffix(options.BaseURL, "/"),
		credentials: credentials,
		http:        options.HTTPClient,
		maxPages:    options.MaxPages,
		debug:       options.Debug,
	}

	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}

	if c.http == nil {
		timeout := options.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}

		c.http = &http.Client{
			Timeout: timeout,
		}
	}

	if c.maxPages == 0 {
		c.maxPages = DefaultMaxPages
	}

	return &c
}

// Pages returns the pages of an endpoint in link order. The first request is sent to the
// endpoint with the query; every following request is sent to the previous page's
// 'nextPageLink' as is. Iteration stops after a page without a 'nextPageLink', after a page
// with no items, or after the first error.
//
// The sequence is not cached: every iteration re-issues the requests.
func (c *Client) Pages(ctx context.Context, endpoint string, query url.Values) iter.Seq2[Page, error] {
	return func(yield func(Page, error) bool) {
		link := c.url(endpoint, query)
		visited := map[string]bool{}
		expected := 1
		warned := false

		for n := 1; link != ""; n++ {
			if c.maxPages > 0 && n > c.maxPages {
				yield(Page{}, fmt.Errorf("%w: %v exceeded %d pages", ErrTooManyPages, endpoint, c.maxPages))
				return
			}

			if visited[link] {
				yield(Page{}, fmt.Errorf("%w: %v", ErrPaginationCycle, link))
				return
			}

			visited[link] = true

			if c.debug {
				debugf("%v  page %d  %v", endpoint, n, link)
			}

			page, err := c.get(ctx, link)
			if err != nil {
				yield(Page{}, err)
				return
			}

			if n == 1 {
				expected = estimate(page.Count, len(page.Items))
			} else if n > expected && !warned {
				warnf("%v  page %d exceeds the %d page(s) implied by count %d", endpoint, n, expected, page.Count)
				warned = true
			}

			if !yield(page, nil) {
				return
			}

			if len(page.Items) == 0 {
				return
			}

			link = page.NextPageLink
		}
	}
}

// Items flattens Pages into the sequence of records, in page-then-item order.
func (c *Client) Items(ctx context.Context, endpoint string, query url.Values) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for page, err := range c.Pages(ctx, endpoint, query) {
			if err != nil {
				yield(Record{}, err)
				return
			}

			for _, item := range page.Items {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}

// FetchAll returns every record of an endpoint. Any error discards the records fetched so far.
func (c *Client) FetchAll(ctx context.Context, endpoint string, query url.Values) ([]Record, error) {
	return Collect(c.Items(ctx, endpoint, query), nil)
}

func (c *Client) get(ctx context.Context, link string) (Page, error) {
	var body string

	err := requests.
		URL(link).
		Client(c.http).
		BasicAuth(c.credentials.ApplicationName, c.credentials.Password()).
		Accept("application/json").
		ToString(&body).
		Fetch(ctx)
	if err != nil {
		return Page{}, &TransportError{URL: link, Err: err}
	}

	return parsePage(link, body)
}

func (c *Client) url(endpoint string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimPrefix(endpoint, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u
}
