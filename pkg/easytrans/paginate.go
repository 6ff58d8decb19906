package easytrans

import (
	"context"
	"iter"
	"net/url"
)

// iterResource drives multi-page iteration over a list endpoint. It yields
// items lazily, fetching one page per request, strictly in sequence and
// only as the caller consumes the sequence. The next page number is taken
// from the page query parameter of links.next; an absent link or a link
// without a page value ends the iteration. The sequence is forward-only:
// restarting requires calling the operation again.
func iterResource[T any](ctx context.Context, c *Client, op, path string, query url.Values) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		params := cloneValues(query)
		for {
			page, err := listResource[T](ctx, c, op, path, params)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range page.Data {
				if !yield(item, nil) {
					return
				}
			}
			next := nextPageNumber(page.Links.Next)
			if next == "" {
				return
			}
			params.Set("page", next)
		}
	}
}

// nextPageNumber extracts the page query parameter from a links.next URL.
// It returns "" when the link is absent, unparseable, or carries no page
// value, all of which mean there are no more pages.
func nextPageNumber(next *string) string {
	if next == nil || *next == "" {
		return ""
	}
	u, err := url.Parse(*next)
	if err != nil {
		return ""
	}
	return u.Query().Get("page")
}

func cloneValues(src url.Values) url.Values {
	dst := make(url.Values, len(src))
	for key, values := range src {
		dst[key] = append([]string(nil), values...)
	}
	return dst
}
