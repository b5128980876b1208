package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// FetchAll gets every page of a collection endpoint and returns concatenated items.
//
// Pages are followed through rel="next" entries of the Link header, until the header is missing
// or has no next entry. Next page url already encodes the query, so query is only used for the first page.
func (c *Client) FetchAll(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error) {
	var results []json.RawMessage
	for path != "" {
		resp, err := c.Execute(ctx, http.MethodGet, path, query, nil)
		if err != nil {
			return nil, err
		}

		var page []json.RawMessage
		if err := json.Unmarshal(resp.Body, &page); err != nil {
			return nil, fmt.Errorf("unmarshalling page %s: %w", resp.URL, err)
		}
		results = append(results, page...)

		path = ""
		if next, ok := nextLink(resp.Header.Get("Link")); ok {
			c.l.Debugf("fetched %d items, next page: %s", len(results), next)
			path = next
			query = nil
		}
	}

	return results, nil
}

// nextLink returns target of the rel="next" entry of a Link header,
// e.g. `<https://api.github.com/repositories/1/issues?page=2>; rel="next", <...>; rel="last"`.
// Malformed entries are skipped.
func nextLink(header string) (string, bool) {
	for _, entry := range strings.Split(header, ",") {
		parts := strings.Split(entry, ";")
		target := strings.TrimSpace(parts[0])
		if len(target) < 3 || !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}

		for _, param := range parts[1:] {
			name, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || !strings.EqualFold(strings.TrimSpace(name), "rel") {
				continue
			}
			if strings.Trim(strings.TrimSpace(value), `"`) == "next" {
				return target[1 : len(target)-1], true
			}
		}
	}

	return "", false
}
