package soc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// FetchTimeout is the hard limit for one export call. The SOC web service
// streams the whole record set in a single response, which can take minutes
// for large companies.
const FetchTimeout = 120 * time.Second

// RawSnippetLimit caps how much of a malformed payload is kept for
// diagnostics.
const RawSnippetLimit = 1000

var (
	ErrSourceUnavailable = errors.New("soc: source unavailable")
	ErrSourceTimeout     = errors.New("soc: source timed out")
)

// InvalidFormatError reports a response that decoded fine but was not the
// expected flat JSON array of objects. Snippet holds the beginning of the
// decoded payload for diagnostics.
type InvalidFormatError struct {
	Reason  string
	Snippet string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("soc: invalid response format: %s", e.Reason)
}

// Record is one loosely-typed row as returned by the export web service,
// keyed by the provider's upper-case field names.
type Record map[string]interface{}

type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient builds a gateway for one export endpoint. A non-positive timeout
// falls back to FetchTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = FetchTimeout
	}
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchRecords calls the export web service once and returns the full record
// set. The whole parameter struct travels JSON-serialized inside the single
// "parametro" query parameter; the output format is always forced to JSON.
// The service responds in ISO-8859-1, never UTF-8.
func (c *Client) FetchRecords(ctx context.Context, params ExportParams) ([]Record, error) {
	params.OutputType = "json"

	paramJSON, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export params: %w", err)
	}

	query := url.Values{}
	query.Set("parametro", string(paramJSON))
	requestURL := c.baseURL + "?" + query.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w after %s", ErrSourceTimeout, c.timeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrSourceUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	decoded := decodeLatin1(body)
	records, err := parseRecords(decoded)
	if err != nil {
		return nil, err
	}

	log.Printf("SOC export returned %d records", len(records))
	return records, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// decodeLatin1 converts the provider's ISO-8859-1 bytes to UTF-8. Decoding is
// attempted even when lossy; a failure falls back to the raw bytes so JSON
// parsing still gets a chance.
func decodeLatin1(body []byte) []byte {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(body)
	if err != nil {
		log.Printf("Warning: latin-1 decode failed, using raw bytes: %v", err)
		return body
	}
	return decoded
}

// parseRecords requires the decoded payload to be a flat JSON array of
// objects. Anything else fails the whole job with the payload head captured
// for diagnostics.
func parseRecords(decoded []byte) ([]Record, error) {
	var payload interface{}
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return nil, &InvalidFormatError{
			Reason:  "response is not valid JSON",
			Snippet: snippet(decoded),
		}
	}

	items, ok := payload.([]interface{})
	if !ok {
		return nil, &InvalidFormatError{
			Reason:  "expected a JSON array of objects",
			Snippet: snippet(decoded),
		}
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, &InvalidFormatError{
				Reason:  "array element is not an object",
				Snippet: snippet(decoded),
			}
		}
		records = append(records, Record(obj))
	}

	return records, nil
}

// snippet caps the payload head, backing off to a rune boundary so the cut
// never leaves a mangled multi-byte character.
func snippet(payload []byte) string {
	if len(payload) <= RawSnippetLimit {
		return string(payload)
	}
	cut := RawSnippetLimit
	for cut > 0 && !utf8.RuneStart(payload[cut]) {
		cut--
	}
	return string(payload[:cut])
}
