package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeLawAPI serves two precedents, 11 and 12, for any query.
func fakeLawAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		switch r.URL.Path {
		case "/lawSearch.do":
			w.Write([]byte(`<PrecSearch><totalCnt>2</totalCnt>
				<prec><판례일련번호>11</판례일련번호></prec>
				<prec><판례일련번호>12</판례일련번호></prec></PrecSearch>`))
		case "/lawService.do":
			id := r.URL.Query().Get("ID")
			if id == "404" {
				w.Write([]byte(`<Law>일치하는 판례가 없습니다.</Law>`))
				return
			}
			w.Write([]byte(`<PrecService><판례정보일련번호>` + id + `</판례정보일련번호><사건명><![CDATA[사건]]></사건명></PrecService>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSearchAndShow(t *testing.T) {
	srv := fakeLawAPI(t)
	t.Setenv("LAW_API_BASE_URL", srv.URL)
	t.Setenv("LAW_OPEN_API_OC", "test")

	out, err := run(t, "search", "prec", "계약", "--ids")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	if !strings.HasPrefix(out, "11\n12\n") || !strings.Contains(out, "page 1/1, 2 total") {
		t.Errorf("search output = %q", out)
	}

	out, err = run(t, "show", "prec", "12")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	if !strings.Contains(out, `"id": "12"`) || !strings.Contains(out, `"caseName": "사건"`) {
		t.Errorf("show output = %q", out)
	}

	out, err = run(t, "show", "prec", "404")
	if err == nil || !strings.Contains(err.Error(), "해당하는 판례가 없습니다.") {
		t.Errorf("show missing error = %v (output %q)", err, out)
	}
}

func TestParseType(t *testing.T) {
	for _, ok := range []string{"prec", "statute"} {
		if _, err := parseType(ok); err != nil {
			t.Errorf("parseType(%q) error = %v", ok, err)
		}
	}
	if _, err := parseType("law"); err == nil {
		t.Error("parseType(\"law\") accepted")
	}
}
