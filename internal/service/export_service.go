package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/dto"
	"github.com/notefield/notebook-service/pkg/code"
	"github.com/notefield/notebook-service/pkg/logger"
	"github.com/notefield/notebook-service/pkg/storage"
	"github.com/notefield/notebook-service/pkg/util"
)

// ExportService prints notebooks out to markdown archives and scans them
// back in.
//
// The archive is a zip of one markdown file per node, node metadata
// carried in YAML frontmatter. The format round-trips: an exported
// archive imports without loss.
type ExportService interface {
	Export(ctx context.Context, uid, notebookID int64, req *dto.ExportRequest) (*dto.ExportResultDTO, error)
	Import(ctx context.Context, uid, notebookID int64, archive []byte, req *dto.ImportRequest) (*dto.ImportResultDTO, error)
	// GetArchive streams a previously exported archive.
	GetArchive(ctx context.Context, uid, notebookID int64, fileKey string) ([]byte, error)
}

type exportService struct {
	access       accessResolver
	nodeRepo     domain.NodeRepository
	revisionRepo domain.NodeRevisionRepository
	storage      storage.Storager
	logger       *zap.Logger
	config       *ServiceConfig
}

func NewExportService(
	notebookRepo domain.NotebookRepository,
	shareRepo domain.NotebookShareRepository,
	nodeRepo domain.NodeRepository,
	revisionRepo domain.NodeRevisionRepository,
	store storage.Storager,
	log *zap.Logger,
	config *ServiceConfig,
) ExportService {
	return &exportService{
		access:       accessResolver{notebookRepo: notebookRepo, shareRepo: shareRepo},
		nodeRepo:     nodeRepo,
		revisionRepo: revisionRepo,
		storage:      store,
		logger:       log,
		config:       config,
	}
}

const timeLayout = "2006-01-02 15:04:05"

// nodeToMarkdown renders a node as a markdown document with frontmatter.
func nodeToMarkdown(node *domain.Node) []byte {
	meta := map[string]interface{}{
		"guid":     node.GUID,
		"title":    node.Title,
		"version":  node.Version,
		"created":  node.CreatedAt.Format(timeLayout),
		"updated":  node.UpdatedAt.Format(timeLayout),
	}
	if node.Category != "" {
		meta["category"] = node.Category
	}
	if node.IsCopy() {
		meta["originGuid"] = node.OriginGUID
		meta["originalityScore"] = node.OriginalityScore
	}
	return []byte(util.ReconstructContent(meta, node.Content))
}

// exportFileName builds a unique archive member name from a node title.
func exportFileName(title string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, title)
	if name == "" {
		name = "untitled"
	}
	candidate := name + ".md"
	for i := 2; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s-%d.md", name, i)
	}
	used[candidate] = true
	return candidate
}

func (s *exportService) Export(ctx context.Context, uid, notebookID int64, req *dto.ExportRequest) (*dto.ExportResultDTO, error) {
	notebook, _, err := s.access.notebookForRead(ctx, notebookID, uid)
	if err != nil {
		return nil, err
	}

	nodes, err := s.nodeRepo.ListAllByNotebook(ctx, notebookID, req.IncludeRecycle)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	files := make(map[string][]byte, len(nodes))
	used := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		files[exportFileName(node.Title, used)] = nodeToMarkdown(node)
	}

	archive, err := util.ZipBytes(files)
	if err != nil {
		return nil, code.ErrorExportFail.WithDetails(err.Error())
	}

	fileKey := fmt.Sprintf("exports/%d/%s-%s.zip",
		notebookID, notebook.Slug, time.Now().Format("20060102-150405"))
	url, err := s.storage.SendContent(fileKey, archive, time.Now())
	if err != nil {
		return nil, code.ErrorStorageFail.WithDetails(err.Error())
	}

	s.logger.Info("notebook exported",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNotebook, notebookID),
		zap.String(logger.FieldFileKey, fileKey),
		zap.Int(logger.FieldSize, len(archive)))

	return &dto.ExportResultDTO{
		FileKey:   fileKey,
		URL:       url,
		NodeCount: len(files),
		Size:      int64(len(archive)),
	}, nil
}

func (s *exportService) GetArchive(ctx context.Context, uid, notebookID int64, fileKey string) ([]byte, error) {
	if _, _, err := s.access.notebookForRead(ctx, notebookID, uid); err != nil {
		return nil, err
	}
	// Keys are scoped per notebook, reject traversal outside it.
	prefix := fmt.Sprintf("exports/%d/", notebookID)
	if !strings.HasPrefix(path.Clean(fileKey), prefix) {
		return nil, code.ErrorInvalidParams.WithDetails("invalid file key")
	}
	content, err := s.storage.GetContent(fileKey)
	if err != nil {
		return nil, code.ErrorStorageFail.WithDetails(err.Error())
	}
	return content, nil
}

// markdownToNode parses an archive member back into node fields.
func markdownToNode(name string, raw []byte) (guid, title, category, content string) {
	meta, body, has := util.ParseFrontmatter(string(raw))
	title = strings.TrimSuffix(path.Base(name), ".md")
	content = string(raw)
	if !has {
		return "", title, "", content
	}
	content = body
	if v, ok := meta["guid"].(string); ok {
		guid = v
	}
	if v, ok := meta["title"].(string); ok && v != "" {
		title = v
	}
	if v, ok := meta["category"].(string); ok {
		category = v
	}
	return guid, title, category, content
}

func (s *exportService) Import(ctx context.Context, uid, notebookID int64, archive []byte, req *dto.ImportRequest) (*dto.ImportResultDTO, error) {
	if _, err := s.access.notebookForWrite(ctx, notebookID, uid); err != nil {
		return nil, err
	}

	files, err := util.UnzipBytes(archive, s.config.App.ImportMaxFileSize)
	if err != nil {
		return nil, code.ErrorImportArchiveInvalid.WithDetails(err.Error())
	}

	result := &dto.ImportResultDTO{}
	for name, raw := range files {
		if !strings.HasSuffix(strings.ToLower(name), ".md") {
			result.Skipped++
			continue
		}
		guid, title, category, content := markdownToNode(name, raw)

		var existing *domain.Node
		if guid != "" {
			existing, err = s.nodeRepo.GetByGUID(ctx, guid)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, code.ErrorDBQuery.WithDetails(err.Error())
			}
		}

		switch {
		case existing != nil && existing.NotebookID == notebookID:
			if !req.Overwrite || existing.Content == content {
				result.Skipped++
				continue
			}
			previous := existing.Content
			existing.Title = title
			existing.Category = category
			existing.Content = content
			existing.ContentHash = util.EncodeSHA256(content)
			existing.Size = int64(len(content))
			existing.Version++
			existing.Action = domain.NodeActionModify
			if err := s.nodeRepo.Update(ctx, existing); err != nil {
				return nil, code.ErrorImportFail.WithDetails(err.Error())
			}
			s.recordImportRevision(ctx, existing, previous)
			result.Updated++

		case existing != nil:
			// The guid lives in another notebook, import as a fresh node.
			fallthrough
		default:
			node, err := s.nodeRepo.Create(ctx, &domain.Node{
				GUID:             uuid.NewString(),
				NotebookID:       notebookID,
				UID:              uid,
				Title:            title,
				Category:         category,
				Content:          content,
				ContentHash:      util.EncodeSHA256(content),
				Version:          1,
				Action:           domain.NodeActionCreate,
				OriginalityScore: 1,
				Size:             int64(len(content)),
			})
			if err != nil {
				return nil, code.ErrorImportFail.WithDetails(err.Error())
			}
			if err := s.access.notebookRepo.IncrNodeCount(ctx, notebookID, 1); err != nil {
				s.logger.Warn("node count update failed", zap.Int64(logger.FieldNotebook, notebookID), zap.Error(err))
			}
			s.recordImportRevision(ctx, node, "")
			result.Created++
		}
	}

	s.logger.Info("notebook imported",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNotebook, notebookID),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

func (s *exportService) recordImportRevision(ctx context.Context, node *domain.Node, previous string) {
	if _, err := s.revisionRepo.Create(ctx, &domain.NodeRevision{
		NodeID:      node.ID,
		Version:     node.Version,
		Content:     node.Content,
		ContentHash: node.ContentHash,
	}); err != nil {
		s.logger.Warn("revision write failed", zap.Int64(logger.FieldNode, node.ID), zap.Error(err))
	}
	if _, err := s.revisionRepo.PruneToDepth(ctx, node.ID, s.config.App.HistoryKeepVersions); err != nil {
		s.logger.Warn("revision prune failed", zap.Int64(logger.FieldNode, node.ID), zap.Error(err))
	}
}
