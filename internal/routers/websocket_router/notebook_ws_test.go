package websocket_router

import (
	"context"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/notefield/notebook-service/internal/app"
	"github.com/notefield/notebook-service/internal/domain"
	pkgapp "github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/code"
)

type blockingUserRepo struct {
	domain.UserRepository
	calls   atomic.Int64
	release chan struct{}
	user    *domain.User
}

func (r *blockingUserRepo) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	r.calls.Add(1)
	<-r.release
	return r.user, nil
}

func newTestWSClient() *pkgapp.WebsocketClient {
	return &pkgapp.WebsocketClient{
		Ctx: &gin.Context{Request: httptest.NewRequest("GET", "/api/v1/notebook/sync", nil)},
	}
}

func TestUserInfoCollapsesConcurrentLookups(t *testing.T) {
	repo := &blockingUserRepo{
		release: make(chan struct{}),
		user:    &domain.User{UID: 7, Username: "alice", IsActive: true, IsValidated: true},
	}
	h := NewNotebookWSHandler(&app.App{UserRepo: repo})

	const sessions = 8
	var wg sync.WaitGroup
	results := make([]*pkgapp.UserSelectEntity, sessions)
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := h.UserInfo(newTestWSClient(), 7)
			if err != nil {
				t.Errorf("UserInfo failed: %v", err)
				return
			}
			results[i] = out
		}(i)
	}

	// let every session pile onto the in-flight lookup
	time.Sleep(50 * time.Millisecond)
	close(repo.release)
	wg.Wait()

	if got := repo.calls.Load(); got != 1 {
		t.Errorf("repository hit %d times, want one shared lookup", got)
	}
	for i, r := range results {
		if r == nil || r.UID != 7 {
			t.Errorf("session %d got %+v, want uid 7", i, r)
		}
	}
}

func TestUserInfoRejectsDeactivatedAccounts(t *testing.T) {
	repo := &blockingUserRepo{
		release: make(chan struct{}),
		user:    &domain.User{UID: 9, Username: "ghost", IsActive: false},
	}
	close(repo.release)
	h := NewNotebookWSHandler(&app.App{UserRepo: repo})

	_, err := h.UserInfo(newTestWSClient(), 9)
	wantWSCode(t, err, code.ErrorUserDeactivated)
}

func wantWSCode(t *testing.T, err error, want *code.Code) {
	t.Helper()
	codeErr, ok := err.(*code.Code)
	if !ok {
		t.Fatalf("got %v (%T), want code %d", err, err, want.Code())
	}
	if codeErr.Code() != want.Code() {
		t.Fatalf("got code %d, want %d", codeErr.Code(), want.Code())
	}
}
