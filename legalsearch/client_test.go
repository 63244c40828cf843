package legalsearch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchPrecedents(t *testing.T) {
	var gotQuery, gotTarget, gotDisplay, gotOC string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotTarget = r.URL.Query().Get("target")
		gotDisplay = r.URL.Query().Get("display")
		gotOC = r.URL.Query().Get("OC")
		fmt.Fprint(w, `{
			"PrecSearch": [{
				"prec": [{
					"판례명칭": "사기죄 판결",
					"사건번호": "2020도1234",
					"법원명": "대법원",
					"선고일자": "2020.05.14",
					"판례내용": "판례 본문"
				}]
			}]
		}`)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	precedents := client.SearchPrecedents(context.Background(), "사기 고소", 2)

	assert.Equal(t, "사기 고소", gotQuery)
	assert.Equal(t, "prec", gotTarget)
	assert.Equal(t, "2", gotDisplay)
	assert.Equal(t, "test-key", gotOC)

	require.Len(t, precedents, 1)
	assert.Equal(t, "사기죄 판결", precedents[0].Title)
	assert.Equal(t, "2020도1234", precedents[0].CaseNumber)
	assert.Equal(t, "대법원", precedents[0].Court)
	assert.Equal(t, "2020.05.14", precedents[0].Date)
	assert.Equal(t, "판례 본문", precedents[0].Summary)
}

func TestSearchLaws(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "law", r.URL.Query().Get("target"))
		fmt.Fprint(w, `{
			"LawSearch": [{
				"law": [{
					"법령명한글": "형법",
					"법령ID": "001706",
					"시행일자": "20240101",
					"법령내용": "법령 본문"
				}]
			}]
		}`)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	laws := client.SearchLaws(context.Background(), "사기", 2)

	require.Len(t, laws, 1)
	assert.Equal(t, "형법", laws[0].Title)
	assert.Equal(t, "001706", laws[0].LawID)
	assert.Equal(t, "20240101", laws[0].EnforcementDate)
	assert.Equal(t, "법령 본문", laws[0].Content)
}

func TestSearchTruncatesLongContent(t *testing.T) {
	long := strings.Repeat("가", maxSnippetLength+100)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"PrecSearch": [{"prec": [{"판례명칭": "판결", "판례내용": %q}]}]}`, long)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	precedents := client.SearchPrecedents(context.Background(), "사기", 1)

	require.Len(t, precedents, 1)
	assert.Len(t, []rune(precedents[0].Summary), maxSnippetLength)
}

func TestSearchFailuresYieldNoResults(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClientWithBaseURL("test-key", server.URL)
		assert.Nil(t, client.SearchPrecedents(context.Background(), "사기", 2))
		assert.Nil(t, client.SearchLaws(context.Background(), "사기", 2))
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "not json")
		}))
		defer server.Close()

		client := NewClientWithBaseURL("test-key", server.URL)
		assert.Nil(t, client.SearchPrecedents(context.Background(), "사기", 2))
	})

	t.Run("empty envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"PrecSearch": []}`)
		}))
		defer server.Close()

		client := NewClientWithBaseURL("test-key", server.URL)
		assert.Nil(t, client.SearchPrecedents(context.Background(), "사기", 2))
	})

	t.Run("unreachable host", func(t *testing.T) {
		client := NewClientWithBaseURL("test-key", "http://127.0.0.1:1")
		assert.Nil(t, client.SearchPrecedents(context.Background(), "사기", 2))
	})
}

func TestSearchAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("target") {
		case "prec":
			fmt.Fprint(w, `{"PrecSearch": [{"prec": [{"판례명칭": "판결"}]}]}`)
		case "law":
			fmt.Fprint(w, `{"LawSearch": [{"law": [{"법령명한글": "형법"}]}]}`)
		}
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	results := client.SearchAll(context.Background(), "사기", 2, 2)

	assert.Len(t, results.Precedents, 1)
	assert.Len(t, results.Laws, 1)
}
