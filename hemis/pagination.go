package hemis

import (
	"context"
	"log"
	"net/url"
	"strconv"
)

// DefaultPageLimit is the largest page HEMIS serves
const DefaultPageLimit = 200

type pagination struct {
	TotalCount  int `json:"totalCount"`
	PageSize    int `json:"pageSize"`
	PageCount   int `json:"pageCount"`
	CurrentPage int `json:"page"`
}

type listResponse[T any] struct {
	Data struct {
		Items      []T        `json:"items"`
		Pagination pagination `json:"pagination"`
	} `json:"data"`
}

// PageResult summarizes one paginated fetch
type PageResult struct {
	Pages     int   // pages successfully loaded
	PageCount int   // last pageCount reported by the server
	Items     int   // items accumulated
	Err       error // error that stopped the fetch early, if any
}

// Complete reports whether every reported page was loaded
func (r PageResult) Complete() bool {
	return r.Err == nil
}

// fetchAll requests resource page by page, starting at 1, and stops once the
// current page reaches the server-reported page count. A failed page ends the
// fetch; whatever was accumulated so far is returned alongside the error in
// PageResult.
func fetchAll[T any](ctx context.Context, c *Client, label, resource string, filters url.Values) ([]T, PageResult) {
	var all []T
	var result PageResult

	for page := 1; ; page++ {
		params := url.Values{}
		for k, v := range filters {
			params[k] = v
		}
		params.Set("limit", strconv.Itoa(c.pageLimit))
		params.Set("page", strconv.Itoa(page))

		var resp listResponse[T]
		if err := c.getJSON(ctx, resource, params, &resp); err != nil {
			log.Printf("Error fetching %s: %v", label, err)
			result.Err = err
			break
		}

		items := resp.Data.Items
		all = append(all, items...)
		result.Pages++
		result.PageCount = resp.Data.Pagination.PageCount
		log.Printf("%s: Page %d/%d loaded (%d items)", label, page, result.PageCount, len(items))

		if page >= result.PageCount {
			break
		}
	}

	result.Items = len(all)
	return all, result
}
