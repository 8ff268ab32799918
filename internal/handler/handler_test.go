package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"lawlow/internal/domain"
)

func (ts *testServer) do(t *testing.T, method, target, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set(testUserHeader, ts.user.ID.String())
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"validation", &domain.ValidationError{Message: "올바르지 않은 판례 식별 ID입니다."}, http.StatusBadRequest, "올바르지 않은 판례 식별 ID입니다."},
		{"not found", &domain.NotFoundError{Message: "해당하는 법령이 없습니다."}, http.StatusNotFound, "해당하는 법령이 없습니다."},
		{"conflict", &domain.ConflictError{Message: "이미 저장한 판례입니다."}, http.StatusConflict, "이미 저장한 판례입니다."},
		{"unauthorized", &domain.UnauthorizedError{Message: "expired"}, http.StatusUnauthorized, "expired"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"throttled", domain.ErrTooManyRequests, http.StatusTooManyRequests, "too many requests"},
		{"upstream hides cause", fmt.Errorf("%w: dial tcp 10.0.0.1:443", domain.ErrUpstream), http.StatusBadGateway, "upstream service failed"},
		{"internal keeps message", &domain.InternalError{Message: "요약 제목과 키워드를 생성하지 못했습니다."}, http.StatusInternalServerError, "요약 제목과 키워드를 생성하지 못했습니다."},
		{"unknown", errors.New("pq: something"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, detail := errorStatus(tt.err)
			if status != tt.wantStatus || detail != tt.wantDetail {
				t.Errorf("errorStatus() = %d %q, want %d %q", status, detail, tt.wantStatus, tt.wantDetail)
			}
		})
	}
}

func TestHandleError_CanceledWritesNothing(t *testing.T) {
	rec := httptest.NewRecorder()
	handleError(rec, testLogger(), fmt.Errorf("fetch: %w", context.Canceled))
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer()
	rec := ts.do(t, http.MethodGet, "/health", "", false)
	if rec.Code != http.StatusOK || decode(t, rec)["status"] != "ok" {
		t.Errorf("health = %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	NewHealthHandler(failingPinger{}, testLogger()).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("health with failing db = %d, want 503", rec.Code)
	}
}

func TestLawList(t *testing.T) {
	t.Run("anonymous omits bookmark state", func(t *testing.T) {
		ts := newTestServer()
		rec := ts.do(t, http.MethodGet, "/api/laws/prec?q=%EA%B3%84%EC%95%BD&page=1&take=5", "", false)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if strings.Contains(rec.Body.String(), "isBookmarked") {
			t.Errorf("anonymous body has isBookmarked: %s", rec.Body.String())
		}
		if ts.bookmarks.markCalls() != 0 {
			t.Errorf("MarkBookmarked called %d times", ts.bookmarks.markCalls())
		}
	})

	t.Run("signed in marks bookmarks", func(t *testing.T) {
		ts := newTestServer()
		rec := ts.do(t, http.MethodGet, "/api/laws/prec", "", true)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		list := decode(t, rec)["list"].([]any)
		first := list[0].(map[string]any)
		second := list[1].(map[string]any)
		if first["isBookmarked"] != true || second["isBookmarked"] != false {
			t.Errorf("list = %v", list)
		}
	})

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"unknown type", "/api/laws/admrul", http.StatusBadRequest},
		{"non-numeric page", "/api/laws/prec?page=abc", http.StatusBadRequest},
		{"take above max", "/api/laws/statute?take=101", http.StatusBadRequest},
		{"page zero", "/api/laws/statute?page=0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			rec := ts.do(t, http.MethodGet, tt.target, "", false)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}

	t.Run("upstream failure is 502", func(t *testing.T) {
		ts := newTestServer()
		ts.laws.err = fmt.Errorf("%w: timeout", domain.ErrUpstream)
		rec := ts.do(t, http.MethodGet, "/api/laws/prec", "", false)
		if rec.Code != http.StatusBadGateway {
			t.Errorf("status = %d, want 502", rec.Code)
		}
	})
}

func TestLawGet(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodGet, "/api/laws/prec/1", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body := decode(t, rec); body["id"] != "1" || body["isBookmarked"] != true {
		t.Errorf("body = %v", body)
	}

	rec = ts.do(t, http.MethodGet, "/api/laws/prec/missing", "", false)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if detail := decode(t, rec)["detail"]; detail != "해당하는 판례가 없습니다." {
		t.Errorf("detail = %v", detail)
	}
}

func TestBookmarkRoutes(t *testing.T) {
	ts := newTestServer()

	// Every bookmark route needs a user.
	for _, r := range []struct{ method, target string }{
		{http.MethodGet, "/api/laws/prec/bookmarks"},
		{http.MethodPost, "/api/laws/prec/1/bookmark"},
		{http.MethodDelete, "/api/laws/prec/1/bookmark"},
	} {
		if rec := ts.do(t, r.method, r.target, "", false); rec.Code != http.StatusUnauthorized {
			t.Errorf("anonymous %s %s = %d, want 401", r.method, r.target, rec.Code)
		}
	}

	rec := ts.do(t, http.MethodPost, "/api/laws/prec/1/bookmark", "", true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body := decode(t, rec); body["lawId"] != "1" || body["lawType"] != "prec" {
		t.Errorf("create body = %v", body)
	}

	rec = ts.do(t, http.MethodDelete, "/api/laws/prec/1/bookmark", "", true)
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Errorf("delete = %d %q, want 204 with no body", rec.Code, rec.Body.String())
	}

	// "bookmarks" routes to the listing, not to a detail lookup.
	rec = ts.do(t, http.MethodGet, "/api/laws/prec/bookmarks?page=1&take=10", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body := decode(t, rec); body["totalElements"] != float64(1) {
		t.Errorf("list body = %v", body)
	}
}

func TestBookmarkErrors(t *testing.T) {
	tests := []struct {
		name      string
		createErr error
		deleteErr error
		method    string
		want      int
	}{
		{"duplicate", &domain.ConflictError{Message: "이미 저장한 판례입니다."}, nil, http.MethodPost, http.StatusConflict},
		{"unknown law", &domain.ValidationError{Message: "올바르지 않은 판례 식별 ID입니다."}, nil, http.MethodPost, http.StatusBadRequest},
		{"nothing to delete", nil, &domain.ValidationError{Message: "저장된 판례가 없습니다."}, http.MethodDelete, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			ts.bookmarks.createErr = tt.createErr
			ts.bookmarks.deleteErr = tt.deleteErr
			rec := ts.do(t, tt.method, "/api/laws/prec/1/bookmark", "", true)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodPost, "/api/laws/prec/1/summary", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body := decode(t, rec); body["easyTitle"] != "쉬운 제목" || body["summary"] != "요약" {
		t.Errorf("first body = %v", body)
	}

	rec = ts.do(t, http.MethodPost, "/api/laws/prec/1/summary", `{"recentSummaryMsg":"이전 요약"}`, false)
	body := decode(t, rec)
	if _, ok := body["easyTitle"]; ok || body["summary"] != "더 쉬운 요약" {
		t.Errorf("re-simplify body = %v", body)
	}
	if got := ts.summaries.requests[1].RecentSummaryMsg; got != "이전 요약" {
		t.Errorf("recent summary = %q", got)
	}

	// Third call from the same caller exceeds the test throttle of 2.
	rec = ts.do(t, http.MethodPost, "/api/laws/prec/1/summary", "", false)
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") == "" {
		t.Errorf("throttled = %d, Retry-After %q", rec.Code, rec.Header().Get("Retry-After"))
	}
}

func TestSummarize_BadBody(t *testing.T) {
	ts := newTestServer()
	rec := ts.do(t, http.MethodPost, "/api/laws/prec/1/summary", `{"recentSummaryMsg":`, false)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAdditionalSummary(t *testing.T) {
	ts := newTestServer()
	rec := ts.do(t, http.MethodPost, "/api/laws/statute/1706/summary/additional", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["easyTitle"] != "쉬운 제목" || len(body["keywords"].([]any)) != 2 {
		t.Errorf("body = %v", body)
	}

	ts = newTestServer()
	ts.summaries.err = &domain.InternalError{Message: "요약 제목과 키워드를 생성하지 못했습니다."}
	rec = ts.do(t, http.MethodPost, "/api/laws/statute/1706/summary/additional", "", false)
	if rec.Code != http.StatusInternalServerError || decode(t, rec)["detail"] != "요약 제목과 키워드를 생성하지 못했습니다." {
		t.Errorf("failure = %d %s", rec.Code, rec.Body.String())
	}
}

func TestSummaryStream(t *testing.T) {
	t.Run("chunks then done", func(t *testing.T) {
		ts := newTestServer()
		ts.summaries.chunks = []string{"이 판례는", " 계약에\n관한"}
		rec := ts.do(t, http.MethodPost, "/api/laws/prec/1/summary/stream", "", false)

		if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
			t.Errorf("Content-Type = %q", ct)
		}
		want := "data: 이 판례는\n\n" +
			"data:  계약에\ndata: 관한\n\n" +
			"event: done\ndata: \n\n"
		if rec.Body.String() != want {
			t.Errorf("body = %q, want %q", rec.Body.String(), want)
		}
	})

	t.Run("failure becomes error event", func(t *testing.T) {
		ts := newTestServer()
		ts.summaries.chunks = []string{"앞부분"}
		ts.summaries.streamErr = fmt.Errorf("%w: stream reset", domain.ErrUpstream)
		rec := ts.do(t, http.MethodPost, "/api/laws/prec/1/summary/stream", "", false)

		body := rec.Body.String()
		if !strings.HasPrefix(body, "data: 앞부분\n\n") {
			t.Errorf("delivered chunk missing: %q", body)
		}
		if !strings.Contains(body, "event: error\n") || !strings.Contains(body, `"status":502`) {
			t.Errorf("error event missing: %q", body)
		}
		if strings.Contains(body, "event: done") {
			t.Errorf("done sent after failure: %q", body)
		}
	})

	t.Run("bad path fails before streaming", func(t *testing.T) {
		ts := newTestServer()
		rec := ts.do(t, http.MethodPost, "/api/laws/other/1/summary/stream", "", false)
		if rec.Code != http.StatusBadRequest || rec.Header().Get("Content-Type") == "text/event-stream" {
			t.Errorf("status = %d, Content-Type %q", rec.Code, rec.Header().Get("Content-Type"))
		}
	})
}

func TestGoogleLoginFlow(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodGet, "/api/auth/google", "", false)
	if rec.Code != http.StatusFound {
		t.Fatalf("login = %d", rec.Code)
	}
	var state *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == stateCookie {
			state = c
		}
	}
	if state == nil || !strings.HasSuffix(rec.Header().Get("Location"), "state="+state.Value) {
		t.Fatalf("state cookie %v, location %q", state, rec.Header().Get("Location"))
	}

	// Mismatched state is rejected before the code is exchanged.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=abc&state=other", nil)
	req.AddCookie(state)
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest || len(ts.auth.loginCodes) != 0 {
		t.Errorf("mismatched state = %d, logins %v", rec.Code, ts.auth.loginCodes)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=abc&state="+url.QueryEscape(state.Value), nil)
	req.AddCookie(state)
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound {
		t.Fatalf("callback = %d, body = %s", rec.Code, rec.Body.String())
	}
	location, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if location.Path != "/login" || location.Query().Get("accessToken") != "access-1" {
		t.Errorf("location = %s", location)
	}

	var refresh *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == refreshCookie {
			refresh = c
		}
	}
	if refresh == nil || refresh.Value != "refresh-1" || !refresh.HttpOnly || refresh.MaxAge != 3600 {
		t.Errorf("refresh cookie = %+v", refresh)
	}
}

func TestRefresh(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodPost, "/api/auth/refresh", "", false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no cookie = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookie, Value: "refresh-1"})
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["accessToken"] != "access-2" {
		t.Errorf("body = %v", body)
	}
	if _, leaked := body["refreshToken"]; leaked {
		t.Error("refresh token leaked into body")
	}
}

func TestMeAndLogout(t *testing.T) {
	ts := newTestServer()

	if rec := ts.do(t, http.MethodGet, "/api/users/me", "", false); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous me = %d, want 401", rec.Code)
	}

	rec := ts.do(t, http.MethodGet, "/api/users/me", "", true)
	if rec.Code != http.StatusOK || decode(t, rec)["email"] != "kim@example.com" {
		t.Errorf("me = %d %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodPost, "/api/auth/logout", "", true)
	if rec.Code != http.StatusNoContent {
		t.Errorf("logout = %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != refreshCookie || cookies[0].MaxAge >= 0 {
		t.Errorf("logout cookies = %+v", cookies)
	}
}
