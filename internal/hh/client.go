// Package hh is a thin typed client for the HeadHunter REST API: the
// dictionaries and areas reference endpoints, the paged vacancy search, and
// the per-vacancy detail document.
package hh

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type Client struct {
	base string
	ua   string
	hc   *http.Client
}

func NewClient(base, userAgent string, timeout time.Duration) *Client {
	return &Client{
		base: base,
		ua:   userAgent,
		hc:   &http.Client{Timeout: timeout},
	}
}

// StatusError reports a non-2xx upstream response. The fetcher distinguishes
// it from transport errors when deciding how to surface an aborted run.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d for %s", e.Code, e.URL)
}

// SearchQuery carries the filters of one search page request.
type SearchQuery struct {
	Text           string
	AreaID         string // empty means global scope
	Page           int
	PerPage        int
	Period         int
	OnlyWithSalary bool
	OrderBy        string
}

type SearchItem struct {
	URL string `json:"url"` // detail document URL
}

type SearchPage struct {
	Items []SearchItem `json:"items"`
	Found int          `json:"found"`
	Pages int          `json:"pages"`
}

func (c *Client) SearchPage(ctx context.Context, q SearchQuery) (SearchPage, error) {
	params := url.Values{}
	params.Set("text", q.Text)
	if q.AreaID != "" {
		params.Set("area", q.AreaID)
	}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("per_page", strconv.Itoa(q.PerPage))
	if q.Period > 0 {
		params.Set("period", strconv.Itoa(q.Period))
	}
	if q.OnlyWithSalary {
		params.Set("only_with_salary", "true")
	}
	if q.OrderBy != "" {
		params.Set("order_by", q.OrderBy)
	}

	var page SearchPage
	if err := c.getJSON(ctx, c.base+"/vacancies?"+params.Encode(), &page); err != nil {
		return SearchPage{}, fmt.Errorf("search page %d: %w", q.Page, err)
	}
	return page, nil
}

// Dictionaries mirrors the slices of /dictionaries this tool consumes.
type Dictionaries struct {
	Currency []Currency  `json:"currency"`
	Orders   []SortOrder `json:"vacancy_search_order"`
}

type Currency struct {
	Code string  `json:"code"`
	Rate float64 `json:"rate"`
}

type SortOrder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c *Client) Dictionaries(ctx context.Context) (Dictionaries, error) {
	var d Dictionaries
	if err := c.getJSON(ctx, c.base+"/dictionaries", &d); err != nil {
		return Dictionaries{}, fmt.Errorf("dictionaries: %w", err)
	}
	return d, nil
}

// Area is one node of the hierarchical region tree.
type Area struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Areas []Area `json:"areas"`
}

func (c *Client) Areas(ctx context.Context) ([]Area, error) {
	var areas []Area
	if err := c.getJSON(ctx, c.base+"/areas", &areas); err != nil {
		return nil, fmt.Errorf("areas: %w", err)
	}
	return areas, nil
}

// Vacancy mirrors the fields of a detail document used downstream.
type Vacancy struct {
	Name string `json:"name"`
	Area struct {
		ID string `json:"id"`
	} `json:"area"`
	Salary     *Salary `json:"salary"`
	Experience struct {
		Name string `json:"name"`
	} `json:"experience"`
	Schedule struct {
		Name string `json:"name"`
	} `json:"schedule"`
	PublishedAt string `json:"published_at"`
	CreatedAt   string `json:"initial_created_at"`
	Employer    struct {
		Name string `json:"name"`
	} `json:"employer"`
	AlternateURL string `json:"alternate_url"`
	KeySkills    []struct {
		Name string `json:"name"`
	} `json:"key_skills"`
	Description string `json:"description"` // html
}

type Salary struct {
	From     *int   `json:"from"`
	To       *int   `json:"to"`
	Currency string `json:"currency"`
	Gross    bool   `json:"gross"`
}

// Vacancy fetches a detail document by the absolute URL a search item carries.
func (c *Client) Vacancy(ctx context.Context, rawURL string) (Vacancy, error) {
	var v Vacancy
	if err := c.getJSON(ctx, rawURL, &v); err != nil {
		return Vacancy{}, fmt.Errorf("vacancy detail: %w", err)
	}
	return v, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("Accept", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("http GET: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return &StatusError{Code: res.StatusCode, URL: rawURL}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	return nil
}
