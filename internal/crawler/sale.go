package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// PageURL returns the URL of preview page n of a sale. Page 1 is the sale URL
// itself; later pages add a "page" query parameter.
func PageURL(saleURL string, n int) (string, error) {
	if n <= 1 {
		return saleURL, nil
	}
	u, err := url.Parse(saleURL)
	if err != nil {
		return "", fmt.Errorf("invalid sale url %q: %w", saleURL, err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(n))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// SaleLotURLs walks the preview pages of a sale and collects lot URLs until a
// page lists no lots (or only lots already seen). limit > 0 caps the result.
// Failing to fetch the first page is an error; a later failure ends the walk.
func (c *Client) SaleLotURLs(ctx context.Context, salePath string, limit int) ([]string, error) {
	saleURL, err := c.Resolve(salePath)
	if err != nil {
		return nil, err
	}

	var all []string
	seen := make(map[string]struct{})

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return all, err
		}

		pageURL, err := PageURL(saleURL, page)
		if err != nil {
			return all, err
		}
		c.Logger.Info("fetching sale page", zap.Int("page", page), zap.String("url", pageURL))

		body, err := c.Fetch(ctx, pageURL)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("could not fetch the preview page: %w", err)
			}
			c.Logger.Warn("sale page fetch failed, stopping", zap.Int("page", page), zap.Error(err))
			break
		}

		links, err := LotLinks(body, c.BaseURL)
		if err != nil {
			return all, fmt.Errorf("failed to parse sale page %d: %w", page, err)
		}

		added := 0
		for _, l := range links {
			if _, dup := seen[l]; dup {
				continue
			}
			seen[l] = struct{}{}
			all = append(all, l)
			added++
			if limit > 0 && len(all) >= limit {
				c.Logger.Info("lot limit reached", zap.Int("lots", len(all)))
				return all, nil
			}
		}

		if added == 0 {
			c.Logger.Info("no new lot links, assuming last page", zap.Int("page", page))
			break
		}
		c.Logger.Info("found lots", zap.Int("page", page), zap.Int("lots", added))
	}

	c.Logger.Info("total lot URLs found", zap.Int("lots", len(all)))
	return all, nil
}
