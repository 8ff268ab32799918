package external

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lawlow/internal/domain"
	"lawlow/internal/domain/models/law"
	"lawlow/internal/xmltree"
)

const (
	// DefaultLawGoBaseURL is the open API root of the national law information center
	DefaultLawGoBaseURL = "http://www.law.go.kr/DRF"
	// DefaultLawGoTimeout is the default HTTP timeout for law API requests
	DefaultLawGoTimeout = 10 * time.Second

	searchPath = "/lawSearch.do"
	detailPath = "/lawService.do"

	// searchByBody searches case bodies and full statute text, not just titles.
	searchByBody = "2"
)

// Envelope layout per law type: search root, result element, detail root.
var shapes = map[law.LawType]struct {
	searchRoot string
	resultName string
	detailRoot string
}{
	law.TypePrecedent: {searchRoot: "PrecSearch", resultName: "prec", detailRoot: "PrecService"},
	law.TypeStatute:   {searchRoot: "LawSearch", resultName: "law", detailRoot: "법령"},
}

// LawGoClient implements LawClient for law.go.kr.
type LawGoClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewLawGoClient creates a client. apiKey is the OC value issued with the API account.
func NewLawGoClient(apiKey string, baseURL string, timeout time.Duration) *LawGoClient {
	if baseURL == "" {
		baseURL = DefaultLawGoBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultLawGoTimeout
	}
	return &LawGoClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Search implements LawClient.
func (c *LawGoClient) Search(ctx context.Context, params law.SearchParams) (*law.LawSearchEnvelope, error) {
	shape, ok := shapes[params.Type]
	if !ok {
		return nil, fmt.Errorf("%w: unknown law type %q", domain.ErrValidation, params.Type)
	}

	q := url.Values{}
	q.Set("OC", c.apiKey)
	q.Set("target", params.Type.UpstreamTarget())
	q.Set("type", "XML")
	q.Set("search", searchByBody)
	q.Set("query", params.Query)
	q.Set("sort", params.Type.UpstreamSort())
	q.Set("display", strconv.Itoa(params.Take))
	q.Set("page", strconv.Itoa(params.Page))

	root, node, err := c.get(ctx, searchPath, q)
	if err != nil {
		return nil, err
	}
	if root != shape.searchRoot {
		return nil, fmt.Errorf("%w: unexpected search response root %q", domain.ErrUpstream, root)
	}

	total, _ := node.Get("totalCnt").Int()
	return &law.LawSearchEnvelope{
		TotalCount: total,
		Results:    node.Get(shape.resultName),
	}, nil
}

// FetchDetail implements LawClient.
func (c *LawGoClient) FetchDetail(ctx context.Context, id string, lawType law.LawType) (*xmltree.Node, error) {
	shape, ok := shapes[lawType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown law type %q", domain.ErrValidation, lawType)
	}

	q := url.Values{}
	q.Set("OC", c.apiKey)
	q.Set("target", lawType.UpstreamTarget())
	q.Set("type", "XML")
	q.Set("ID", id)

	root, node, err := c.get(ctx, detailPath, q)
	if err != nil {
		return nil, err
	}
	// A missing record comes back as a different root with a message body.
	if root != shape.detailRoot {
		return nil, nil
	}
	return node, nil
}

func (c *LawGoClient) get(ctx context.Context, path string, q url.Values) (string, *xmltree.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("%w: law api request failed: %w", domain.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }() // Error ignored: response consumed

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("%w: failed to read law api response: %w", domain.ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("%w: law api error (status %d): %s", domain.ErrUpstream, resp.StatusCode, truncate(string(body), 200))
	}

	root, node, err := xmltree.ParseNormalized(body)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	return root, node, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
