package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"
)

const (
	pdbeSolrURL   = "https://www.ebi.ac.uk/pdbe/search/pdb/select"
	rcsbSearchURL = "https://search.rcsb.org/rcsbsearch/v1/query"

	// Solr treats rows as a page size. Metadata result sets are small, so
	// a page this large returns everything at once.
	unlimitedRows = 10000000
)

// Client issues metadata queries. The zero value is not usable; call
// NewClient, then override fields for testing or alternate mirrors.
type Client struct {
	// The HTTP client used for all requests.
	HTTP *http.Client

	// The PDBe Solr select endpoint.
	SolrURL string

	// The RCSB search service endpoint.
	SearchURL string

	// Limits the rate of outgoing requests. When nil, requests are not
	// limited.
	Limiter *rate.Limiter
}

// NewClient returns a Client talking to the public PDBe and RCSB endpoints,
// limited to a few requests per second.
func NewClient() *Client {
	return &Client{
		HTTP:      http.DefaultClient,
		SolrURL:   pdbeSolrURL,
		SearchURL: rcsbSearchURL,
		Limiter:   rate.NewLimiter(rate.Limit(5), 5),
	}
}

func (c *Client) wait(ctx context.Context) error {
	if c.Limiter == nil {
		return nil
	}
	return c.Limiter.Wait(ctx)
}

// selector is one field:value term of a Solr query.
type selector struct {
	field string
	value string
}

func joinAND(selectors []selector) string {
	return joinWith(" AND ", selectors)
}

func joinOR(selectors []selector) string {
	return joinWith(" OR ", selectors)
}

func joinWith(sep string, selectors []selector) string {
	terms := make([]string, len(selectors))
	for i, s := range selectors {
		terms[i] = fmt.Sprintf("%s:%s", s.field, s.value)
	}
	return strings.Join(terms, sep)
}

type solrDoc struct {
	PDBID            string   `json:"pdb_id"`
	ChainID          []string `json:"chain_id"`
	MoleculeSequence string   `json:"molecule_sequence"`
	MoleculeType     string   `json:"molecule_type"`
}

type solrResponse struct {
	Response struct {
		NumFound int       `json:"numFound"`
		Docs     []solrDoc `json:"docs"`
	} `json:"response"`
}

// solr runs one Solr query and returns the matching documents. q is the
// full query string and fl the comma-separated list of fields to return.
func (c *Client) solr(ctx context.Context, q, fl string) ([]solrDoc, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("fl", fl)
	params.Set("rows", strconv.Itoa(unlimitedRows))
	params.Set("wt", "json")

	req, err := http.NewRequestWithContext(
		ctx, "GET", c.SolrURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("solr query %q: %w", q, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("solr query %q: %s", q, resp.Status)
	}
	var sr solrResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("solr query %q: decoding response: %w", q, err)
	}
	return sr.Response.Docs, nil
}
