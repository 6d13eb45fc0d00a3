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

type mockNotebookRepo struct {
	domain.NotebookRepository
	notebooks map[int64]*domain.Notebook
}

func (m *mockNotebookRepo) GetByID(ctx context.Context, id int64) (*domain.Notebook, error) {
	if n, ok := m.notebooks[id]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotebookRepo) IncrNodeCount(ctx context.Context, id, delta int64) error {
	if n, ok := m.notebooks[id]; ok {
		n.NodeCount += delta
	}
	return nil
}

type mockShareRepo struct {
	domain.NotebookShareRepository
	shares []*domain.NotebookShare
}

func (m *mockShareRepo) GetActive(ctx context.Context, notebookID, targetUID int64) (*domain.NotebookShare, error) {
	for _, s := range m.shares {
		if s.NotebookID == notebookID && s.TargetUID == targetUID && s.Status == domain.ShareStatusActive {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type mockNodeRepo struct {
	domain.NodeRepository
	nodes   map[int64]*domain.Node
	nextID  int64
	deleted []int64
}

func (m *mockNodeRepo) GetByID(ctx context.Context, id int64) (*domain.Node, error) {
	if n, ok := m.nodes[id]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNodeRepo) GetByGUID(ctx context.Context, guid string) (*domain.Node, error) {
	for _, n := range m.nodes {
		if n.GUID == guid {
			return n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNodeRepo) GetByTitle(ctx context.Context, notebookID int64, title string) (*domain.Node, error) {
	for _, n := range m.nodes {
		if n.NotebookID == notebookID && n.Title == title && !n.IsDeleted {
			return n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNodeRepo) Create(ctx context.Context, node *domain.Node) (*domain.Node, error) {
	m.nextID++
	node.ID = m.nextID
	if m.nodes == nil {
		m.nodes = make(map[int64]*domain.Node)
	}
	m.nodes[node.ID] = node
	return node, nil
}

func (m *mockNodeRepo) Update(ctx context.Context, node *domain.Node) error {
	m.nodes[node.ID] = node
	return nil
}

func (m *mockNodeRepo) UpdateOriginality(ctx context.Context, id int64, score float64) error {
	if n, ok := m.nodes[id]; ok {
		n.OriginalityScore = score
	}
	return nil
}

func (m *mockNodeRepo) SoftDelete(ctx context.Context, id int64) error {
	if n, ok := m.nodes[id]; ok {
		n.IsDeleted = true
	}
	return nil
}

func (m *mockNodeRepo) Restore(ctx context.Context, id int64) error {
	if n, ok := m.nodes[id]; ok {
		n.IsDeleted = false
	}
	return nil
}

func (m *mockNodeRepo) Delete(ctx context.Context, id int64) error {
	delete(m.nodes, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockRevisionRepo struct {
	domain.NodeRevisionRepository
	revisions []*domain.NodeRevision
}

func (m *mockRevisionRepo) Create(ctx context.Context, revision *domain.NodeRevision) (*domain.NodeRevision, error) {
	revision.ID = int64(len(m.revisions) + 1)
	m.revisions = append(m.revisions, revision)
	return revision, nil
}

func (m *mockRevisionRepo) PruneToDepth(ctx context.Context, nodeID int64, keep int) (int64, error) {
	return 0, nil
}

func (m *mockRevisionRepo) GetByVersion(ctx context.Context, nodeID, version int64) (*domain.NodeRevision, error) {
	for _, r := range m.revisions {
		if r.NodeID == nodeID && r.Version == version {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRevisionRepo) DeleteByNode(ctx context.Context, nodeID int64) error {
	m.revisions = nil
	return nil
}

type mockLinkRepo struct {
	domain.NodeLinkRepository
}

func (m *mockLinkRepo) DeleteBySource(ctx context.Context, sourceNodeID int64) error {
	return nil
}

func newTestNodeService(notebooks map[int64]*domain.Notebook, shares []*domain.NotebookShare, nodes map[int64]*domain.Node) (*nodeService, *mockNodeRepo, *mockRevisionRepo) {
	nodeRepo := &mockNodeRepo{nodes: nodes}
	for id := range nodes {
		if id > nodeRepo.nextID {
			nodeRepo.nextID = id
		}
	}
	revisionRepo := &mockRevisionRepo{}
	svc := &nodeService{
		access: accessResolver{
			notebookRepo: &mockNotebookRepo{notebooks: notebooks},
			shareRepo:    &mockShareRepo{shares: shares},
		},
		nodeRepo:     nodeRepo,
		revisionRepo: revisionRepo,
		linkRepo:     &mockLinkRepo{},
		logger:       zap.NewNop(),
		config:       &ServiceConfig{App: AppServiceConfig{HistoryKeepVersions: 10}},
	}
	return svc, nodeRepo, revisionRepo
}

func TestNodeUpdateVersionConflict(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{1: {ID: 1, UID: 7}}
	nodes := map[int64]*domain.Node{
		10: {ID: 10, NotebookID: 1, UID: 7, Title: "t", Content: "v2 content", Version: 2},
	}
	svc, _, _ := newTestNodeService(notebooks, nil, nodes)

	_, err := svc.Update(ctx, 7, 10, &dto.NodeUpdateRequest{Title: "t", Content: "stale edit", Version: 1})
	if err == nil {
		t.Fatal("expected version conflict")
	}
	codeErr, ok := err.(*code.Code)
	if !ok || codeErr.Code() != code.ErrorNodeVersionConflict.Code() {
		t.Fatalf("got %v, want version conflict", err)
	}
	// The conflict carries the current node so the client can merge.
	current, ok := codeErr.Data().(*dto.NodeDTO)
	if !ok {
		t.Fatalf("conflict data = %T, want *dto.NodeDTO", codeErr.Data())
	}
	if current.Version != 2 || current.Content != "v2 content" {
		t.Errorf("conflict payload = v%d %q, want current state", current.Version, current.Content)
	}
}

func TestNodeUpdateBumpsVersionAndRecordsRevision(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{1: {ID: 1, UID: 7}}
	nodes := map[int64]*domain.Node{
		10: {ID: 10, NotebookID: 1, UID: 7, Title: "t", Content: "old", Version: 1},
	}
	svc, _, revisionRepo := newTestNodeService(notebooks, nil, nodes)

	got, err := svc.Update(ctx, 7, 10, &dto.NodeUpdateRequest{Title: "t", Content: "new", Version: 1})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Version != 2 {
		t.Errorf("Version = %d, want 2", got.Version)
	}
	if len(revisionRepo.revisions) != 1 {
		t.Fatalf("revisions = %d, want 1", len(revisionRepo.revisions))
	}
	if revisionRepo.revisions[0].Version != 2 || revisionRepo.revisions[0].Content != "new" {
		t.Errorf("revision = v%d %q, want the new state", revisionRepo.revisions[0].Version, revisionRepo.revisions[0].Content)
	}
}

func TestNodeUpdateMetadataOnlyKeepsVersion(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{1: {ID: 1, UID: 7}}
	nodes := map[int64]*domain.Node{
		10: {ID: 10, NotebookID: 1, UID: 7, Title: "old title", Content: "same", Version: 3},
	}
	svc, _, revisionRepo := newTestNodeService(notebooks, nil, nodes)

	got, err := svc.Update(ctx, 7, 10, &dto.NodeUpdateRequest{Title: "new title", Content: "same", Version: 3})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Version != 3 {
		t.Errorf("Version = %d, want unchanged 3", got.Version)
	}
	if got.Title != "new title" {
		t.Errorf("Title = %q, want new title", got.Title)
	}
	if len(revisionRepo.revisions) != 0 {
		t.Errorf("revisions = %d, want none for a metadata-only edit", len(revisionRepo.revisions))
	}
}

func TestNodeWriteDeniedForViewerShare(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{1: {ID: 1, UID: 7}}
	shares := []*domain.NotebookShare{
		{ID: 1, NotebookID: 1, OwnerUID: 7, TargetUID: 9, Role: domain.ShareRoleViewer, Status: domain.ShareStatusActive},
	}
	nodes := map[int64]*domain.Node{
		10: {ID: 10, NotebookID: 1, UID: 7, Title: "t", Content: "c", Version: 1},
	}
	svc, _, _ := newTestNodeService(notebooks, shares, nodes)

	if _, err := svc.Get(ctx, 9, 10); err != nil {
		t.Fatalf("viewer read failed: %v", err)
	}

	_, err := svc.Update(ctx, 9, 10, &dto.NodeUpdateRequest{Title: "t", Content: "x", Version: 1})
	codeErr, ok := err.(*code.Code)
	if !ok || codeErr.Code() != code.ErrorNotebookReadOnly.Code() {
		t.Fatalf("got %v, want read only", err)
	}
}

func TestNodeCopyKeepsProvenance(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{
		1: {ID: 1, UID: 7},
		2: {ID: 2, UID: 7},
	}
	nodes := map[int64]*domain.Node{
		10: {ID: 10, GUID: "origin-guid", NotebookID: 1, UID: 7, Title: "t", Content: "c", ContentHash: "h", Version: 5, OriginalityScore: 1},
	}
	svc, nodeRepo, _ := newTestNodeService(notebooks, nil, nodes)

	got, err := svc.Copy(ctx, 7, 10, &dto.NodeCopyRequest{TargetNotebookID: 2})
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if got.OriginGUID != "origin-guid" {
		t.Errorf("OriginGUID = %q, want origin-guid", got.OriginGUID)
	}
	if got.OriginalityScore != 0 {
		t.Errorf("OriginalityScore = %v, want 0 for a fresh copy", got.OriginalityScore)
	}
	if got.GUID == "origin-guid" || got.GUID == "" {
		t.Errorf("copy GUID = %q, want a new identity", got.GUID)
	}
	if got.Version != 1 {
		t.Errorf("Version = %d, want 1", got.Version)
	}
	if nodeRepo.nodes[got.ID].NotebookID != 2 {
		t.Errorf("copy landed in notebook %d, want 2", nodeRepo.nodes[got.ID].NotebookID)
	}
}

func TestNodeCopyConflictWithoutOverwrite(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{
		1: {ID: 1, UID: 7},
		2: {ID: 2, UID: 7},
	}
	nodes := map[int64]*domain.Node{
		10: {ID: 10, GUID: "g1", NotebookID: 1, UID: 7, Title: "same", Content: "a", Version: 1},
		11: {ID: 11, GUID: "g2", NotebookID: 2, UID: 7, Title: "same", Content: "b", Version: 4},
	}
	svc, nodeRepo, _ := newTestNodeService(notebooks, nil, nodes)

	if _, err := svc.Copy(ctx, 7, 10, &dto.NodeCopyRequest{TargetNotebookID: 2}); err == nil {
		t.Fatal("expected title conflict without overwrite")
	}

	got, err := svc.Copy(ctx, 7, 10, &dto.NodeCopyRequest{TargetNotebookID: 2, Overwrite: true})
	if err != nil {
		t.Fatalf("overwrite copy failed: %v", err)
	}
	if got.ID != 11 {
		t.Errorf("overwrite created node %d, want existing 11", got.ID)
	}
	if got.Version != 5 {
		t.Errorf("Version = %d, want bumped 5", got.Version)
	}
	if nodeRepo.nodes[11].OriginGUID != "g1" {
		t.Errorf("OriginGUID = %q, want g1", nodeRepo.nodes[11].OriginGUID)
	}
}

func TestNodeRecycleLifecycle(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{1: {ID: 1, UID: 7, NodeCount: 1}}
	nodes := map[int64]*domain.Node{
		10: {ID: 10, NotebookID: 1, UID: 7, Title: "t", Content: "c", Version: 1},
	}
	svc, nodeRepo, _ := newTestNodeService(notebooks, nil, nodes)

	if _, err := svc.Restore(ctx, 7, 10); err == nil {
		t.Error("restore of a live node should fail")
	}

	if err := svc.Delete(ctx, 7, 10); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !nodeRepo.nodes[10].IsDeleted {
		t.Fatal("node not recycled")
	}
	if notebooks[1].NodeCount != 0 {
		t.Errorf("NodeCount = %d, want 0", notebooks[1].NodeCount)
	}

	// Recycled nodes vanish from normal operations.
	if err := svc.Delete(ctx, 7, 10); err == nil {
		t.Error("second delete should fail")
	}
	if _, err := svc.Update(ctx, 7, 10, &dto.NodeUpdateRequest{Title: "t", Content: "x", Version: 1}); err == nil {
		t.Error("update of a recycled node should fail")
	}

	if _, err := svc.Restore(ctx, 7, 10); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if nodeRepo.nodes[10].IsDeleted {
		t.Error("node still recycled after restore")
	}

	if err := svc.Delete(ctx, 7, 10); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.Purge(ctx, 7, 10); err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if _, ok := nodeRepo.nodes[10]; ok {
		t.Error("node still present after purge")
	}
}

func TestNodeMergeCombinesConcurrentEdits(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{1: {ID: 1, UID: 7}}
	nodes := map[int64]*domain.Node{
		10: {ID: 10, GUID: "g", NotebookID: 1, UID: 7, Title: "Doc",
			Content: "alpha intro\n\nbravo", Version: 2},
	}
	svc, nodeRepo, revisionRepo := newTestNodeService(notebooks, nil, nodes)
	revisionRepo.revisions = append(revisionRepo.revisions, &domain.NodeRevision{
		ID: 1, NodeID: 10, Version: 1, Content: "alpha\n\nbravo",
	})

	// This session edited the tail while another bumped the node to v2.
	got, err := svc.Merge(ctx, 7, 10, &dto.NodeUpdateRequest{
		Title:   "Doc",
		Content: "alpha\n\nbravo charlie",
		Version: 1,
	})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if got.Content != "alpha intro\n\nbravo charlie" {
		t.Errorf("Content = %q, want both edits combined", got.Content)
	}
	if got.Version != 3 {
		t.Errorf("Version = %d, want 3", got.Version)
	}
	if nodeRepo.nodes[10].Content != "alpha intro\n\nbravo charlie" {
		t.Errorf("stored content = %q, want merged text", nodeRepo.nodes[10].Content)
	}
}

func TestNodeMergeWithoutBaseRevisionConflicts(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{1: {ID: 1, UID: 7}}
	nodes := map[int64]*domain.Node{
		10: {ID: 10, NotebookID: 1, UID: 7, Title: "Doc", Content: "v2 content", Version: 2},
	}
	svc, _, _ := newTestNodeService(notebooks, nil, nodes)

	// The base revision was pruned, so the edit cannot be replayed.
	_, err := svc.Merge(ctx, 7, 10, &dto.NodeUpdateRequest{Title: "Doc", Content: "stale edit", Version: 1})
	codeErr, ok := err.(*code.Code)
	if !ok || codeErr.Code() != code.ErrorNodeVersionConflict.Code() {
		t.Fatalf("got %v, want version conflict", err)
	}
	current, ok := codeErr.Data().(*dto.NodeDTO)
	if !ok || current.Version != 2 {
		t.Fatalf("conflict data = %+v, want current node state", codeErr.Data())
	}
}
