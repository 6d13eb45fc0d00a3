package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/dto"
	"github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/code"
)

func (m *mockShareRepo) Create(ctx context.Context, share *domain.NotebookShare) (*domain.NotebookShare, error) {
	share.ID = int64(len(m.shares) + 1)
	m.shares = append(m.shares, share)
	return share, nil
}

func (m *mockShareRepo) GetByID(ctx context.Context, id int64) (*domain.NotebookShare, error) {
	for _, s := range m.shares {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShareRepo) Revoke(ctx context.Context, id int64) error {
	for _, s := range m.shares {
		if s.ID == id {
			s.Status = domain.ShareStatusRevoked
		}
	}
	return nil
}

func (m *mockShareRepo) IncrViewCount(ctx context.Context, id int64) error {
	for _, s := range m.shares {
		if s.ID == id {
			s.ViewCount++
		}
	}
	return nil
}

func (m *mockShareRepo) ListByNotebook(ctx context.Context, notebookID int64) ([]*domain.NotebookShare, error) {
	var out []*domain.NotebookShare
	for _, s := range m.shares {
		if s.NotebookID == notebookID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockShareRepo) ListByTarget(ctx context.Context, targetUID int64) ([]*domain.NotebookShare, error) {
	var out []*domain.NotebookShare
	for _, s := range m.shares {
		if s.TargetUID == targetUID {
			out = append(out, s)
		}
	}
	return out, nil
}

func newTestShareService(notebooks map[int64]*domain.Notebook, shares *mockShareRepo, users *mockUserRepo, nodes *mockNodeRepo) *shareService {
	return &shareService{
		access: accessResolver{
			notebookRepo: &mockNotebookRepo{notebooks: notebooks},
			shareRepo:    shares,
		},
		userRepo: users,
		nodeRepo: nodes,
		tokenManager: app.NewTokenManager(app.TokenConfig{
			SecretKey: "test-secret",
			Issuer:    app.DefaultTokenIssuer,
			Expiry:    time.Hour,
		}),
		logger: zap.NewNop(),
		config: &ServiceConfig{App: AppServiceConfig{ShareTokenExpiry: time.Hour}},
	}
}

func TestShareCreateGrant(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{1: {ID: 1, UID: 7, Name: "work"}}
	users := &mockUserRepo{users: map[int64]*domain.User{
		7: {UID: 7, Username: "owner"},
		9: {UID: 9, Username: "friend"},
	}, nextID: 9}
	shares := &mockShareRepo{}
	svc := newTestShareService(notebooks, shares, users, &mockNodeRepo{})

	t.Run("owner shares to another user", func(t *testing.T) {
		got, err := svc.Create(ctx, 7, 1, &dto.ShareCreateRequest{TargetUsername: "friend", Role: "editor"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if got.TargetUID != 9 || got.Role != "editor" {
			t.Errorf("share = %+v, want target 9 with editor role", got)
		}
	})

	t.Run("duplicate grant rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, 7, 1, &dto.ShareCreateRequest{TargetUsername: "friend", Role: "viewer"})
		wantCode(t, err, code.ErrorShareExists)
	})

	t.Run("self share rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, 7, 1, &dto.ShareCreateRequest{TargetUsername: "owner", Role: "viewer"})
		wantCode(t, err, code.ErrorShareSelf)
	})

	t.Run("non-owner may not share", func(t *testing.T) {
		_, err := svc.Create(ctx, 9, 1, &dto.ShareCreateRequest{TargetUsername: "owner", Role: "viewer"})
		wantCode(t, err, code.ErrorNotebookAccessDenied)
	})
}

func TestShareLinkRoundTrip(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{1: {ID: 1, UID: 7, Name: "work"}}
	users := &mockUserRepo{users: map[int64]*domain.User{7: {UID: 7, Username: "owner"}}, nextID: 7}
	shares := &mockShareRepo{}
	svc := newTestShareService(notebooks, shares, users, &mockNodeRepo{})

	link, err := svc.CreateLink(ctx, 7, 1, "https://notes.example.com", &dto.ShareLinkCreateRequest{})
	if err != nil {
		t.Fatalf("CreateLink failed: %v", err)
	}
	if link.Token == "" || link.URL == "" {
		t.Fatalf("link = %+v, want token and URL", link)
	}

	entity, err := svc.tokenManager.ParseShare(link.Token)
	if err != nil {
		t.Fatalf("ParseShare failed: %v", err)
	}
	if entity.ShareID != link.ShareID || entity.NotebookID != 1 {
		t.Fatalf("entity = %+v, want share %d on notebook 1", entity, link.ShareID)
	}

	share, err := svc.ResolveLink(ctx, entity)
	if err != nil {
		t.Fatalf("ResolveLink failed: %v", err)
	}
	if share.ViewCount != 1 {
		t.Errorf("ViewCount = %d, want 1 after one resolve", share.ViewCount)
	}

	// A token claiming a different notebook must not resolve even when the
	// share id is real.
	_, err = svc.ResolveLink(ctx, &app.ShareEntity{ShareID: link.ShareID, NotebookID: 2})
	wantCode(t, err, code.ErrorInvalidShareAuthToken)

	// Revocation beats a valid signature.
	if err := svc.Revoke(ctx, 7, link.ShareID); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	_, err = svc.ResolveLink(ctx, entity)
	wantCode(t, err, code.ErrorInvalidShareAuthToken)
}

func TestShareRevokeOwnerOnly(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{1: {ID: 1, UID: 7}}
	shares := &mockShareRepo{shares: []*domain.NotebookShare{
		{ID: 1, NotebookID: 1, OwnerUID: 7, TargetUID: 9, Role: domain.ShareRoleViewer, Status: domain.ShareStatusActive},
	}}
	svc := newTestShareService(notebooks, shares, &mockUserRepo{}, &mockNodeRepo{})

	err := svc.Revoke(ctx, 9, 1)
	wantCode(t, err, code.ErrorNotebookAccessDenied)

	if err := svc.Revoke(ctx, 7, 1); err != nil {
		t.Fatalf("owner revoke failed: %v", err)
	}
	if shares.shares[0].Status != domain.ShareStatusRevoked {
		t.Error("share not revoked")
	}
}

func TestSharedNodeScopedToNotebook(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{1: {ID: 1, UID: 7}, 2: {ID: 2, UID: 7}}
	nodes := &mockNodeRepo{nodes: map[int64]*domain.Node{
		10: {ID: 10, NotebookID: 1, Title: "visible", Content: "c"},
		11: {ID: 11, NotebookID: 2, Title: "other notebook", Content: "c"},
		12: {ID: 12, NotebookID: 1, Title: "recycled", Content: "c", IsDeleted: true},
	}}
	svc := newTestShareService(notebooks, &mockShareRepo{}, &mockUserRepo{}, nodes)

	if _, err := svc.SharedNode(ctx, 1, 10); err != nil {
		t.Fatalf("SharedNode failed: %v", err)
	}

	_, err := svc.SharedNode(ctx, 1, 11)
	wantCode(t, err, code.ErrorNodeNotFound)

	_, err = svc.SharedNode(ctx, 1, 12)
	wantCode(t, err, code.ErrorNodeNotFound)
}
