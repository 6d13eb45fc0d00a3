package service

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/dto"
	"github.com/notefield/notebook-service/pkg/code"
)

func (m *mockNotebookRepo) GetBySlug(ctx context.Context, uid int64, slug string) (*domain.Notebook, error) {
	for _, n := range m.notebooks {
		if n.UID == uid && n.Slug == slug {
			return n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotebookRepo) Create(ctx context.Context, notebook *domain.Notebook) (*domain.Notebook, error) {
	notebook.ID = int64(len(m.notebooks) + 1)
	if m.notebooks == nil {
		m.notebooks = make(map[int64]*domain.Notebook)
	}
	m.notebooks[notebook.ID] = notebook
	return notebook, nil
}

func (m *mockNotebookRepo) Transfer(ctx context.Context, id, fromUID, toUID int64) error {
	if n, ok := m.notebooks[id]; ok && n.UID == fromUID {
		n.UID = toUID
	}
	return nil
}

func newTestNotebookService(notebooks map[int64]*domain.Notebook, shares []*domain.NotebookShare, users *mockUserRepo) *notebookService {
	return &notebookService{
		access: accessResolver{
			notebookRepo: &mockNotebookRepo{notebooks: notebooks},
			shareRepo:    &mockShareRepo{shares: shares},
		},
		userRepo: users,
		nodeRepo: &mockNodeRepo{},
		logger:   zap.NewNop(),
		config:   &ServiceConfig{},
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Work Notes", "work-notes"},
		{"  Spaces   everywhere  ", "spaces-everywhere"},
		{"Already-slugged", "already-slugged"},
		{"Symbols!@#$%Here", "symbols-here"},
		{"ÜML4UT", "üml4ut"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := slugify(tt.name); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNotebookCreateSlugUnique(t *testing.T) {
	ctx := context.Background()
	svc := newTestNotebookService(map[int64]*domain.Notebook{}, nil, &mockUserRepo{})

	first, err := svc.Create(ctx, 7, &dto.NotebookCreateRequest{Name: "Work Notes"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.Slug != "work-notes" {
		t.Errorf("Slug = %q, want derived work-notes", first.Slug)
	}

	if _, err := svc.Create(ctx, 7, &dto.NotebookCreateRequest{Name: "Other", Slug: "work-notes"}); err == nil {
		t.Error("duplicate slug for the same user should fail")
	}

	// Slugs are scoped per user.
	if _, err := svc.Create(ctx, 9, &dto.NotebookCreateRequest{Name: "Other", Slug: "work-notes"}); err != nil {
		t.Errorf("same slug for another user failed: %v", err)
	}
}

func TestNotebookTransfer(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{
		1: {ID: 1, UID: 7, Name: "work", Slug: "work"},
	}
	users := &mockUserRepo{users: map[int64]*domain.User{
		7: {UID: 7, Username: "owner", IsActive: true, IsValidated: true},
		9: {UID: 9, Username: "heir", IsActive: true, IsValidated: true},
		8: {UID: 8, Username: "ghost", IsActive: false},
	}, nextID: 9}
	svc := newTestNotebookService(notebooks, nil, users)

	t.Run("self transfer rejected", func(t *testing.T) {
		_, err := svc.Transfer(ctx, 7, 1, &dto.NotebookTransferRequest{TargetUsername: "owner"})
		wantCode(t, err, code.ErrorNotebookTransferSelf)
	})

	t.Run("deactivated target rejected", func(t *testing.T) {
		_, err := svc.Transfer(ctx, 7, 1, &dto.NotebookTransferRequest{TargetUsername: "ghost"})
		wantCode(t, err, code.ErrorUserNotFound)
	})

	t.Run("only the owner may transfer", func(t *testing.T) {
		_, err := svc.Transfer(ctx, 9, 1, &dto.NotebookTransferRequest{TargetUsername: "owner"})
		wantCode(t, err, code.ErrorNotebookAccessDenied)
	})

	t.Run("ownership moves", func(t *testing.T) {
		got, err := svc.Transfer(ctx, 7, 1, &dto.NotebookTransferRequest{TargetUsername: "heir"})
		if err != nil {
			t.Fatalf("Transfer failed: %v", err)
		}
		if got.UID != 9 {
			t.Errorf("UID = %d, want 9", got.UID)
		}
		if notebooks[1].UID != 9 {
			t.Error("repository ownership unchanged")
		}
	})
}

func TestNotebookListSharedSkipsDeadShares(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{
		1: {ID: 1, UID: 7, Name: "live", Slug: "live"},
		2: {ID: 2, UID: 7, Name: "revoked", Slug: "revoked"},
	}
	shares := []*domain.NotebookShare{
		{ID: 1, NotebookID: 1, OwnerUID: 7, TargetUID: 9, Role: domain.ShareRoleViewer, Status: domain.ShareStatusActive},
		{ID: 2, NotebookID: 2, OwnerUID: 7, TargetUID: 9, Role: domain.ShareRoleEditor, Status: domain.ShareStatusRevoked},
	}
	svc := newTestNotebookService(notebooks, shares, &mockUserRepo{})

	got, err := svc.ListShared(ctx, 9)
	if err != nil {
		t.Fatalf("ListShared failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("shared notebooks = %d, want 1", len(got))
	}
	if got[0].Name != "live" || got[0].Role != "viewer" {
		t.Errorf("shared = %+v, want live notebook with viewer role", got[0])
	}
}
