package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"lawlow/internal/domain"
	"lawlow/internal/domain/models"
	lawmodels "lawlow/internal/domain/models/law"
	"lawlow/internal/httputil"
	"lawlow/internal/middleware"
)

const testUserHeader = "X-Test-User"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubLaws serves precedents whose id is any non-"missing" string.
type stubLaws struct {
	err error
}

func (s *stubLaws) GetLawList(_ context.Context, _ lawmodels.LawType, q lawmodels.ListQuery) (*lawmodels.PageResponse[[]lawmodels.Detail], error) {
	if s.err != nil {
		return nil, s.err
	}
	if err := q.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}
	list := []lawmodels.Detail{&lawmodels.PrecedentDetail{ID: "1"}, &lawmodels.PrecedentDetail{ID: "2"}}
	return lawmodels.NewPage(list, lawmodels.Paginate(q.Page, q.Take, 2, 2)), nil
}

func (s *stubLaws) GetLawDetail(_ context.Context, lawType lawmodels.LawType, id string) (lawmodels.Detail, error) {
	if s.err != nil {
		return nil, s.err
	}
	if id == "missing" {
		return nil, &domain.NotFoundError{Message: "해당하는 " + lawType.Subject() + " 없습니다."}
	}
	return &lawmodels.PrecedentDetail{ID: id}, nil
}

// fakeBookmarks records calls and marks every odd-numbered id as bookmarked.
type fakeBookmarks struct {
	mu        sync.Mutex
	createErr error
	deleteErr error
	marked    int
	created   []string
	deleted   []string
}

func (f *fakeBookmarks) Create(_ context.Context, userID uuid.UUID, lawType lawmodels.LawType, lawID string) (*lawmodels.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, lawID)
	return &lawmodels.Bookmark{ID: uuid.New(), UserID: userID, LawID: lawID, LawType: lawType}, nil
}

func (f *fakeBookmarks) Delete(_ context.Context, _ uuid.UUID, _ lawmodels.LawType, lawID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, lawID)
	return nil
}

func (f *fakeBookmarks) FindActive(context.Context, uuid.UUID, lawmodels.LawType, string) (*lawmodels.Bookmark, error) {
	return nil, nil
}

func (f *fakeBookmarks) ListBookmarkedLaws(_ context.Context, _ uuid.UUID, _ lawmodels.LawType, q lawmodels.PageQuery) (*lawmodels.PageResponse[[]lawmodels.Detail], error) {
	on := true
	list := []lawmodels.Detail{&lawmodels.PrecedentDetail{ID: "9", IsBookmarked: &on}}
	return lawmodels.NewPage(list, lawmodels.Paginate(q.Page, q.Take, 1, 1)), nil
}

func (f *fakeBookmarks) MarkBookmarked(_ context.Context, _ uuid.UUID, _ lawmodels.LawType, details []lawmodels.Detail) error {
	f.mu.Lock()
	f.marked++
	f.mu.Unlock()
	for _, d := range details {
		d.SetBookmarked(d.LawID() == "1")
	}
	return nil
}

func (f *fakeBookmarks) markCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.marked
}

// fakeSummaries answers with canned summaries and stream chunks.
type fakeSummaries struct {
	mu        sync.Mutex
	err       error
	streamErr error
	chunks    []string
	requests  []lawmodels.SummaryRequest
}

func (f *fakeSummaries) Summarize(_ context.Context, _ lawmodels.LawType, _ string, req lawmodels.SummaryRequest) (*lawmodels.SummaryResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if !req.IsFirst() {
		return &lawmodels.SummaryResponse{Summary: "더 쉬운 요약"}, nil
	}
	return &lawmodels.SummaryResponse{EasyTitle: "쉬운 제목", Summary: "요약", Keywords: []string{"계약"}}, nil
}

func (f *fakeSummaries) TitleAndKeywords(context.Context, lawmodels.LawType, string) (*lawmodels.TitleKeywords, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &lawmodels.TitleKeywords{EasyTitle: "쉬운 제목", Keywords: []string{"계약", "손해"}}, nil
}

func (f *fakeSummaries) SummarizeStream(_ context.Context, _ lawmodels.LawType, _ string, _ lawmodels.SummaryRequest, onChunk func(string) error) error {
	for _, c := range f.chunks {
		if err := onChunk(c); err != nil {
			return nil
		}
	}
	return f.streamErr
}

// fakeAuth issues fixed tokens.
type fakeAuth struct {
	mu         sync.Mutex
	loginCodes []string
	refreshErr error
	user       *models.User
}

func (f *fakeAuth) LoginURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (f *fakeAuth) Login(_ context.Context, code string) (*models.User, *models.TokenPair, error) {
	f.mu.Lock()
	f.loginCodes = append(f.loginCodes, code)
	f.mu.Unlock()
	if code == "" {
		return nil, nil, &domain.ValidationError{Message: "authorization code is required"}
	}
	return f.user, &models.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}, nil
}

func (f *fakeAuth) Refresh(_ context.Context, token string) (*models.TokenPair, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	if token != "refresh-1" {
		return nil, &domain.UnauthorizedError{Message: "invalid refresh token"}
	}
	return &models.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
}

func (f *fakeAuth) Me(_ context.Context, userID uuid.UUID) (*models.User, error) {
	if f.user == nil || f.user.ID != userID {
		return nil, &domain.NotFoundError{Message: "user not found"}
	}
	return f.user, nil
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

// testServer wires the real routes with fakes. A user id in testUserHeader
// stands in for a verified access token.
type testServer struct {
	handler   http.Handler
	laws      *stubLaws
	bookmarks *fakeBookmarks
	summaries *fakeSummaries
	auth      *fakeAuth
	user      *models.User
}

func newTestServer() *testServer {
	logger := testLogger()
	user := &models.User{ID: uuid.New(), Email: "kim@example.com", Name: "김"}
	ts := &testServer{
		laws:      &stubLaws{},
		bookmarks: &fakeBookmarks{},
		summaries: &fakeSummaries{},
		auth:      &fakeAuth{user: user},
		user:      user,
	}

	mux := http.NewServeMux()
	RegisterRoutes(mux, Handlers{
		Health:   NewHealthHandler(nil, logger),
		Law:      NewLawHandler(ts.laws, ts.bookmarks, logger),
		Bookmark: NewBookmarkHandler(ts.bookmarks, logger),
		Summary:  NewSummaryHandler(ts.summaries, nil, logger),
		Auth:     NewAuthHandler(ts.auth, CookieConfig{RefreshTTL: time.Hour}, "http://localhost:3000/login", logger),
	}, middleware.NewThrottle(2, time.Minute, logger))

	ts.handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.Header.Get(testUserHeader); raw != "" {
			r = httputil.WithUserID(r, uuid.MustParse(raw))
		}
		mux.ServeHTTP(w, r)
	})
	return ts
}
