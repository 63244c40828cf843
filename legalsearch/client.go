package legalsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://www.law.go.kr/DRF/lawSearch.do"
	requestTimeout = 10 * time.Second

	// maxSnippetLength bounds precedent summaries and law contents.
	maxSnippetLength = 500
)

// Precedent is a court precedent record returned by the legal search API.
type Precedent struct {
	Title      string `json:"title"`
	CaseNumber string `json:"case_number"`
	Court      string `json:"court"`
	Date       string `json:"date"`
	Summary    string `json:"summary"`
}

// Law is a statute record returned by the legal search API.
type Law struct {
	Title           string `json:"title"`
	LawID           string `json:"law_id"`
	EnforcementDate string `json:"enforcement_date"`
	Content         string `json:"content"`
}

// Results bundles both record kinds from a single query.
type Results struct {
	Precedents []Precedent
	Laws       []Law
}

// Client queries the law.go.kr DRF search API for precedents and laws.
// Retrieval is best-effort: any transport or parse failure is logged and
// yields zero results, never an error.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a legal search client with a bounded request timeout.
func NewClient(apiKey string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// NewClientWithBaseURL creates a client against a custom endpoint.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

// precSearchResponse mirrors the DRF wire format: the top-level key holds a
// list whose first element carries the record list.
type precSearchResponse struct {
	PrecSearch []struct {
		Prec []struct {
			Title      string `json:"판례명칭"`
			CaseNumber string `json:"사건번호"`
			Court      string `json:"법원명"`
			Date       string `json:"선고일자"`
			Summary    string `json:"판례내용"`
		} `json:"prec"`
	} `json:"PrecSearch"`
}

type lawSearchResponse struct {
	LawSearch []struct {
		Law []struct {
			Title           string `json:"법령명한글"`
			LawID           string `json:"법령ID"`
			EnforcementDate string `json:"시행일자"`
			Content         string `json:"법령내용"`
		} `json:"law"`
	} `json:"LawSearch"`
}

// SearchPrecedents fetches up to display precedents matching the query.
func (c *Client) SearchPrecedents(ctx context.Context, query string, display int) []Precedent {
	body, err := c.get(ctx, "prec", query, display)
	if err != nil {
		log.Printf("legalsearch: precedent search failed: %v", err)
		return nil
	}

	var resp precSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Printf("legalsearch: failed to parse precedent response: %v", err)
		return nil
	}
	if len(resp.PrecSearch) == 0 {
		return nil
	}

	var precedents []Precedent
	for _, p := range resp.PrecSearch[0].Prec {
		precedents = append(precedents, Precedent{
			Title:      p.Title,
			CaseNumber: p.CaseNumber,
			Court:      p.Court,
			Date:       p.Date,
			Summary:    truncate(p.Summary, maxSnippetLength),
		})
	}
	return precedents
}

// SearchLaws fetches up to display laws matching the query.
func (c *Client) SearchLaws(ctx context.Context, query string, display int) []Law {
	body, err := c.get(ctx, "law", query, display)
	if err != nil {
		log.Printf("legalsearch: law search failed: %v", err)
		return nil
	}

	var resp lawSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Printf("legalsearch: failed to parse law response: %v", err)
		return nil
	}
	if len(resp.LawSearch) == 0 {
		return nil
	}

	var laws []Law
	for _, l := range resp.LawSearch[0].Law {
		laws = append(laws, Law{
			Title:           l.Title,
			LawID:           l.LawID,
			EnforcementDate: l.EnforcementDate,
			Content:         truncate(l.Content, maxSnippetLength),
		})
	}
	return laws
}

// SearchAll fetches precedents and laws in one call.
func (c *Client) SearchAll(ctx context.Context, query string, precCount, lawCount int) Results {
	return Results{
		Precedents: c.SearchPrecedents(ctx, query, precCount),
		Laws:       c.SearchLaws(ctx, query, lawCount),
	}
}

func (c *Client) get(ctx context.Context, target, query string, display int) ([]byte, error) {
	params := url.Values{}
	params.Set("OC", c.apiKey)
	params.Set("target", target)
	params.Set("type", "JSON")
	params.Set("query", query)
	params.Set("display", strconv.Itoa(display))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// truncate cuts s to at most max runes. Korean text means byte slicing would
// split characters.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
