package gatehouse

import (
	"net/url"
	"strconv"
)

// Pagination is the paging envelope every list endpoint returns. Values are
// passed through from the server unchanged; the client computes nothing.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// ListOptions carries the paging parameters shared by list endpoints. The
// zero value sends no paging parameters, letting the server apply defaults.
type ListOptions struct {
	Page  int
	Limit int
}

// query renders the options into URL query values.
func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

// queryOrNil is the nil-safe form of query for services whose list call
// takes bare *ListOptions.
func (o *ListOptions) queryOrNil() url.Values {
	if o == nil {
		return nil
	}
	return o.query()
}
