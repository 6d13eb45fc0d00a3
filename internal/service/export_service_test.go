package service

import (
	"context"
	"io"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/dto"
	"github.com/notefield/notebook-service/pkg/code"
	"github.com/notefield/notebook-service/pkg/util"
)

func (m *mockNodeRepo) ListAllByNotebook(ctx context.Context, notebookID int64, includeRecycle bool) ([]*domain.Node, error) {
	var out []*domain.Node
	for _, n := range m.nodes {
		if n.NotebookID != notebookID {
			continue
		}
		if !includeRecycle && n.IsDeleted {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// memoryStorage keeps archives in a map, enough for round-trip tests.
type memoryStorage struct {
	files map[string][]byte
}

func (m *memoryStorage) SendFile(pathKey string, file io.Reader, cType string, modTime time.Time) (string, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	return m.SendContent(pathKey, content, modTime)
}

func (m *memoryStorage) SendContent(pathKey string, content []byte, modTime time.Time) (string, error) {
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[pathKey] = content
	return "/" + pathKey, nil
}

func (m *memoryStorage) GetContent(pathKey string) ([]byte, error) {
	content, ok := m.files[pathKey]
	if !ok {
		return nil, code.ErrorStorageFail
	}
	return content, nil
}

func (m *memoryStorage) Delete(pathKey string) error {
	delete(m.files, pathKey)
	return nil
}

func newTestExportService(notebooks map[int64]*domain.Notebook, nodes *mockNodeRepo, store *memoryStorage) (*exportService, *mockRevisionRepo) {
	revisionRepo := &mockRevisionRepo{}
	svc := &exportService{
		access: accessResolver{
			notebookRepo: &mockNotebookRepo{notebooks: notebooks},
			shareRepo:    &mockShareRepo{},
		},
		nodeRepo:     nodes,
		revisionRepo: revisionRepo,
		storage:      store,
		logger:       zap.NewNop(),
		config: &ServiceConfig{App: AppServiceConfig{
			HistoryKeepVersions: 10,
			ImportMaxFileSize:   1 << 20,
		}},
	}
	return svc, revisionRepo
}

func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	raw := make(map[string][]byte, len(files))
	for name, content := range files {
		raw[name] = []byte(content)
	}
	archive, err := util.ZipBytes(raw)
	if err != nil {
		t.Fatalf("zip build failed: %v", err)
	}
	return archive
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{
		1: {ID: 1, UID: 7, Name: "work", Slug: "work"},
		2: {ID: 2, UID: 7, Name: "copy", Slug: "copy"},
	}
	nodes := &mockNodeRepo{nodes: map[int64]*domain.Node{
		10: {ID: 10, GUID: "g-alpha", NotebookID: 1, UID: 7, Title: "Alpha", Category: "ideas", Content: "# Alpha\n\nbody", Version: 3},
		11: {ID: 11, GUID: "g-beta", NotebookID: 1, UID: 7, Title: "Beta", Content: "plain text", Version: 1},
		12: {ID: 12, GUID: "g-gone", NotebookID: 1, UID: 7, Title: "Gone", Content: "recycled", Version: 1, IsDeleted: true},
	}}
	store := &memoryStorage{}
	svc, _ := newTestExportService(notebooks, nodes, store)

	result, err := svc.Export(ctx, 7, 1, &dto.ExportRequest{})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if result.NodeCount != 2 {
		t.Errorf("NodeCount = %d, want 2 (recycled node excluded)", result.NodeCount)
	}

	archive, err := svc.GetArchive(ctx, 7, 1, result.FileKey)
	if err != nil {
		t.Fatalf("GetArchive failed: %v", err)
	}

	// Importing back into the source notebook matches by guid and changes
	// nothing.
	imported, err := svc.Import(ctx, 7, 1, archive, &dto.ImportRequest{Overwrite: true})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if imported.Created != 0 || imported.Updated != 0 || imported.Skipped != 2 {
		t.Errorf("re-import = %+v, want everything skipped", imported)
	}

	// Importing into another notebook recreates the nodes there.
	imported, err = svc.Import(ctx, 7, 2, archive, &dto.ImportRequest{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if imported.Created != 2 {
		t.Errorf("import into fresh notebook = %+v, want 2 created", imported)
	}

	var alpha *domain.Node
	for _, n := range nodes.nodes {
		if n.NotebookID == 2 && n.Title == "Alpha" {
			alpha = n
		}
	}
	if alpha == nil {
		t.Fatal("Alpha not recreated in target notebook")
	}
	if alpha.Content != "# Alpha\n\nbody" {
		t.Errorf("Content = %q, want original body", alpha.Content)
	}
	if alpha.Category != "ideas" {
		t.Errorf("Category = %q, want ideas", alpha.Category)
	}
	if alpha.GUID == "g-alpha" || alpha.GUID == "" {
		t.Errorf("GUID = %q, want a fresh identity", alpha.GUID)
	}
	if notebooks[2].NodeCount != 2 {
		t.Errorf("target NodeCount = %d, want 2", notebooks[2].NodeCount)
	}
}

func TestExportIncludeRecycle(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{1: {ID: 1, UID: 7, Slug: "work"}}
	nodes := &mockNodeRepo{nodes: map[int64]*domain.Node{
		10: {ID: 10, GUID: "g-live", NotebookID: 1, UID: 7, Title: "Live", Content: "kept", Version: 1},
		11: {ID: 11, GUID: "g-gone", NotebookID: 1, UID: 7, Title: "Gone", Content: "binned", Version: 1, IsDeleted: true},
	}}
	store := &memoryStorage{}
	svc, _ := newTestExportService(notebooks, nodes, store)

	result, err := svc.Export(ctx, 7, 1, &dto.ExportRequest{IncludeRecycle: true})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if result.NodeCount != 2 {
		t.Errorf("NodeCount = %d, want recycled node included", result.NodeCount)
	}

	result, err = svc.Export(ctx, 7, 1, &dto.ExportRequest{})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if result.NodeCount != 1 {
		t.Errorf("NodeCount = %d, want recycled node excluded by default", result.NodeCount)
	}
}

func TestImportOverwriteByGUID(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{1: {ID: 1, UID: 7, Slug: "work"}}
	nodes := &mockNodeRepo{nodes: map[int64]*domain.Node{
		10: {ID: 10, GUID: "g-alpha", NotebookID: 1, UID: 7, Title: "Alpha", Content: "old body", Version: 1},
	}}
	store := &memoryStorage{}
	svc, revisionRepo := newTestExportService(notebooks, nodes, store)

	archive := buildArchive(t, map[string]string{
		"Alpha.md": "---\nguid: g-alpha\ntitle: Alpha\n---\nnew body",
	})

	// Without overwrite a guid match is skipped.
	result, err := svc.Import(ctx, 7, 1, archive, &dto.ImportRequest{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Skipped != 1 {
		t.Errorf("result = %+v, want skip without overwrite", result)
	}
	if nodes.nodes[10].Content != "old body" {
		t.Error("node changed without overwrite")
	}

	result, err = svc.Import(ctx, 7, 1, archive, &dto.ImportRequest{Overwrite: true})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Updated != 1 {
		t.Errorf("result = %+v, want 1 updated", result)
	}
	if nodes.nodes[10].Content != "new body" {
		t.Errorf("Content = %q, want new body", nodes.nodes[10].Content)
	}
	if nodes.nodes[10].Version != 2 {
		t.Errorf("Version = %d, want bumped 2", nodes.nodes[10].Version)
	}
	if len(revisionRepo.revisions) != 1 {
		t.Errorf("revisions = %d, want 1 for the overwrite", len(revisionRepo.revisions))
	}
}

func TestImportRejectsNonMarkdownAndBadArchives(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{1: {ID: 1, UID: 7, Slug: "work"}}
	nodes := &mockNodeRepo{nodes: map[int64]*domain.Node{}}
	svc, _ := newTestExportService(notebooks, nodes, &memoryStorage{})

	_, err := svc.Import(ctx, 7, 1, []byte("this is not a zip"), &dto.ImportRequest{})
	wantCode(t, err, code.ErrorImportArchiveInvalid)

	archive := buildArchive(t, map[string]string{
		"note.md":    "body",
		"image.png":  "binary junk",
		"notes.json": "{}",
	})
	result, err := svc.Import(ctx, 7, 1, archive, &dto.ImportRequest{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Created != 1 || result.Skipped != 2 {
		t.Errorf("result = %+v, want 1 created and 2 skipped", result)
	}
}

func TestGetArchiveRejectsForeignKeys(t *testing.T) {
	ctx := context.Background()
	notebooks := map[int64]*domain.Notebook{1: {ID: 1, UID: 7, Slug: "work"}}
	store := &memoryStorage{files: map[string][]byte{
		"exports/2/secret.zip": []byte("zip"),
	}}
	svc, _ := newTestExportService(notebooks, &mockNodeRepo{}, store)

	_, err := svc.GetArchive(ctx, 7, 1, "exports/2/secret.zip")
	wantCode(t, err, code.ErrorInvalidParams)

	_, err = svc.GetArchive(ctx, 7, 1, "exports/1/../2/secret.zip")
	wantCode(t, err, code.ErrorInvalidParams)
}
