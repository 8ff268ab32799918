package law

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"lawlow/internal/domain"
	models "lawlow/internal/domain/models/law"
	"lawlow/internal/xmltree"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustNode(t *testing.T, xml string) *xmltree.Node {
	t.Helper()
	_, node, err := xmltree.ParseNormalized([]byte(xml))
	if err != nil {
		t.Fatalf("ParseNormalized() error = %v", err)
	}
	return node
}

// mockLawClient serves canned envelopes and details.
type mockLawClient struct {
	mu       sync.Mutex
	envelope *models.LawSearchEnvelope
	details  map[string]*xmltree.Node
	delays   map[string]time.Duration
	err      error
	searches []models.SearchParams
	fetches  []string
}

func (m *mockLawClient) Search(_ context.Context, params models.SearchParams) (*models.LawSearchEnvelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, params)
	if m.err != nil {
		return nil, m.err
	}
	return m.envelope, nil
}

func (m *mockLawClient) FetchDetail(ctx context.Context, id string, _ models.LawType) (*xmltree.Node, error) {
	m.mu.Lock()
	m.fetches = append(m.fetches, id)
	delay := m.delays[id]
	node := m.details[id]
	err := m.err
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return node, err
}

func (m *mockLawClient) fetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fetches)
}

// memoryBookmarkRepo mimics the partial unique index on active rows.
type memoryBookmarkRepo struct {
	mu   sync.Mutex
	rows []*models.Bookmark
	now  time.Time
}

func newMemoryBookmarkRepo() *memoryBookmarkRepo {
	return &memoryBookmarkRepo{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *memoryBookmarkRepo) tick() time.Time {
	r.now = r.now.Add(time.Second)
	return r.now
}

func (r *memoryBookmarkRepo) Create(_ context.Context, b *models.Bookmark) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Active() && row.UserID == b.UserID && row.LawID == b.LawID && row.LawType == b.LawType {
			return &domain.ConflictError{Message: "duplicate", ResourceType: "bookmark", ResourceID: row.ID.String()}
		}
	}
	b.CreatedAt = r.tick()
	cp := *b
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *memoryBookmarkRepo) FindActive(_ context.Context, userID uuid.UUID, lawID string, lawType models.LawType) (*models.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Active() && row.UserID == userID && row.LawID == lawID && row.LawType == lawType {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryBookmarkRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id && row.Active() {
			now := r.tick()
			row.DeletedAt = &now
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memoryBookmarkRepo) active(userID uuid.UUID, lawType models.LawType) []models.Bookmark {
	var out []models.Bookmark
	for _, row := range r.rows {
		if row.Active() && row.UserID == userID && row.LawType == lawType {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memoryBookmarkRepo) ListActive(_ context.Context, userID uuid.UUID, lawType models.LawType, offset, limit int) ([]models.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.active(userID, lawType)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *memoryBookmarkRepo) CountActive(_ context.Context, userID uuid.UUID, lawType models.LawType) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active(userID, lawType)), nil
}

func (r *memoryBookmarkRepo) ActiveLawIDs(_ context.Context, userID uuid.UUID, lawType models.LawType, lawIDs []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bool)
	for _, b := range r.active(userID, lawType) {
		for _, id := range lawIDs {
			if b.LawID == id {
				out[id] = true
			}
		}
	}
	return out, nil
}

func (r *memoryBookmarkRepo) rowCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}
