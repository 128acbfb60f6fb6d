// Package searchapi is the HTTP client for the platform's job-search
// service. It runs a search described by history.Filters, fans in any
// additional result pages, and normalizes job descriptions to plain
// text for terminal rendering.
package searchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"jobdeck/internal/history"
	"jobdeck/internal/logging"
)

// pageFetchLimit bounds concurrent page fetches.
const pageFetchLimit = 4

// Job is a single search result.
type Job struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	SalaryRange string `json:"salary_range"`
	PostedAt    string `json:"posted_at"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// ResultSet is the combined outcome of one search.
type ResultSet struct {
	Query string
	Jobs  []Job
	Total int
}

type searchRequest struct {
	history.Filters
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

type searchResponse struct {
	Jobs       []Job `json:"jobs"`
	Total      int   `json:"total"`
	Page       int   `json:"page"`
	TotalPages int   `json:"total_pages"`
}

// Client talks to the search service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	pageSize   int
	maxPages   int
}

// NewClient creates a search client for the given platform origin.
func NewClient(baseURL string, timeout time.Duration, pageSize, maxPages int) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if pageSize <= 0 {
		pageSize = 25
	}
	if maxPages <= 0 {
		maxPages = 4
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		pageSize:   pageSize,
		maxPages:   maxPages,
	}
}

// Search runs the search and returns every page up to the client's page
// cap. Descriptions that arrive as HTML are reduced to plain text.
func (c *Client) Search(ctx context.Context, f history.Filters) (*ResultSet, error) {
	timer := logging.StartTimer(logging.CategorySearchAPI, "Search")
	defer timer.StopWithThreshold(5 * time.Second)

	logging.SearchAPI("Searching: query=%q location=%q", f.Query, f.Location)

	first, err := c.fetchPage(ctx, f, 1)
	if err != nil {
		return nil, err
	}

	jobs := first.Jobs

	if first.TotalPages > 1 {
		last := first.TotalPages
		if last > c.maxPages {
			last = c.maxPages
		}

		pages := make([][]Job, last+1)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(pageFetchLimit)
		for p := 2; p <= last; p++ {
			g.Go(func() error {
				resp, err := c.fetchPage(gctx, f, p)
				if err != nil {
					return err
				}
				pages[p] = resp.Jobs
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for p := 2; p <= last; p++ {
			jobs = append(jobs, pages[p]...)
		}
	}

	for i := range jobs {
		if looksLikeHTML(jobs[i].Description) {
			jobs[i].Description = ExtractText(jobs[i].Description)
		}
	}

	total := first.Total
	if total == 0 {
		total = len(jobs)
	}

	logging.SearchAPIDebug("Search returned %d jobs (total=%d)", len(jobs), total)
	return &ResultSet{Query: f.Query, Jobs: jobs, Total: total}, nil
}

// fetchPage requests a single result page.
func (c *Client) fetchPage(ctx context.Context, f history.Filters, page int) (*searchResponse, error) {
	body, err := json.Marshal(searchRequest{Filters: f, Page: page, PageSize: c.pageSize})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	url := c.baseURL + "/v1/search"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		logging.SearchAPIWarn("Search page %d failed: status %d", page, resp.StatusCode)
		return nil, fmt.Errorf("search failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return &sr, nil
}

// Markdown renders the result set for the terminal pager.
func (rs *ResultSet) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Results for %q\n\n", rs.Query)
	if rs.Total == 0 {
		sb.WriteString("No matching jobs found.\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "%d matching jobs\n\n", rs.Total)

	for i, job := range rs.Jobs {
		fmt.Fprintf(&sb, "## %d. %s\n\n", i+1, job.Title)
		if job.Company != "" {
			fmt.Fprintf(&sb, "- **Company:** %s\n", job.Company)
		}
		if job.Location != "" {
			fmt.Fprintf(&sb, "- **Location:** %s\n", job.Location)
		}
		if job.SalaryRange != "" {
			fmt.Fprintf(&sb, "- **Salary:** %s\n", job.SalaryRange)
		}
		if job.PostedAt != "" {
			fmt.Fprintf(&sb, "- **Posted:** %s\n", job.PostedAt)
		}
		sb.WriteString("\n")
		if job.Description != "" {
			fmt.Fprintf(&sb, "%s\n\n", job.Description)
		}
		if job.URL != "" {
			fmt.Fprintf(&sb, "[View posting](%s)\n\n", job.URL)
		}
	}
	return sb.String()
}
