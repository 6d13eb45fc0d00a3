package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/dto"
	"github.com/notefield/notebook-service/pkg/code"
	"github.com/notefield/notebook-service/pkg/diff"
	"github.com/notefield/notebook-service/pkg/logger"
	"github.com/notefield/notebook-service/pkg/timex"
	"github.com/notefield/notebook-service/pkg/util"
)

// NodeService manages nodes, their version history and provenance.
//
// Every content change bumps Version and records a revision. Edits to a
// copied node recompute its originality score against the origin content.
type NodeService interface {
	Create(ctx context.Context, uid, notebookID int64, req *dto.NodeCreateRequest) (*dto.NodeDTO, error)
	Get(ctx context.Context, uid, nodeID int64) (*dto.NodeDTO, error)
	GetByGUID(ctx context.Context, uid int64, guid string) (*dto.NodeDTO, error)
	Update(ctx context.Context, uid, nodeID int64, req *dto.NodeUpdateRequest) (*dto.NodeDTO, error)
	Merge(ctx context.Context, uid, nodeID int64, req *dto.NodeUpdateRequest) (*dto.NodeDTO, error)
	Delete(ctx context.Context, uid, nodeID int64) error
	Restore(ctx context.Context, uid, nodeID int64) (*dto.NodeDTO, error)
	Purge(ctx context.Context, uid, nodeID int64) error
	List(ctx context.Context, uid, notebookID int64, page, pageSize int, req *dto.NodeListRequest) ([]*dto.NodeDTO, int64, error)
	ListRevisions(ctx context.Context, uid, nodeID int64, page, pageSize int) ([]*dto.NodeRevisionDTO, int64, error)
	GetRevision(ctx context.Context, uid, nodeID, version int64) (*dto.NodeRevisionDTO, error)
	RestoreRevision(ctx context.Context, uid, nodeID, version int64) (*dto.NodeDTO, error)
	Copy(ctx context.Context, uid, nodeID int64, req *dto.NodeCopyRequest) (*dto.NodeDTO, error)
}

type nodeService struct {
	access       accessResolver
	nodeRepo     domain.NodeRepository
	revisionRepo domain.NodeRevisionRepository
	linkRepo     domain.NodeLinkRepository
	logger       *zap.Logger
	config       *ServiceConfig
}

func NewNodeService(
	notebookRepo domain.NotebookRepository,
	shareRepo domain.NotebookShareRepository,
	nodeRepo domain.NodeRepository,
	revisionRepo domain.NodeRevisionRepository,
	linkRepo domain.NodeLinkRepository,
	log *zap.Logger,
	config *ServiceConfig,
) NodeService {
	return &nodeService{
		access:       accessResolver{notebookRepo: notebookRepo, shareRepo: shareRepo},
		nodeRepo:     nodeRepo,
		revisionRepo: revisionRepo,
		linkRepo:     linkRepo,
		logger:       log,
		config:       config,
	}
}

func nodeToDTO(n *domain.Node) *dto.NodeDTO {
	if n == nil {
		return nil
	}
	return &dto.NodeDTO{
		ID:               n.ID,
		GUID:             n.GUID,
		NotebookID:       n.NotebookID,
		Title:            n.Title,
		Category:         n.Category,
		Content:          n.Content,
		ContentHash:      n.ContentHash,
		Version:          n.Version,
		OriginGUID:       n.OriginGUID,
		OriginalityScore: n.OriginalityScore,
		Size:             n.Size,
		CreatedAt:        timex.Time(n.CreatedAt),
		UpdatedAt:        timex.Time(n.UpdatedAt),
	}
}

func revisionToDTO(r *domain.NodeRevision) *dto.NodeRevisionDTO {
	if r == nil {
		return nil
	}
	return &dto.NodeRevisionDTO{
		ID:          r.ID,
		NodeID:      r.NodeID,
		Version:     r.Version,
		Content:     r.Content,
		ContentHash: r.ContentHash,
		CreatedAt:   timex.Time(r.CreatedAt),
	}
}

// nodeForRead loads a node and checks the caller may view its notebook.
func (s *nodeService) nodeForRead(ctx context.Context, uid, nodeID int64) (*domain.Node, error) {
	node, err := s.nodeRepo.GetByID(ctx, nodeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNodeNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if _, _, err := s.access.notebookForRead(ctx, node.NotebookID, uid); err != nil {
		return nil, err
	}
	return node, nil
}

// nodeForWrite loads a node and checks the caller may modify its notebook.
func (s *nodeService) nodeForWrite(ctx context.Context, uid, nodeID int64) (*domain.Node, error) {
	node, err := s.nodeRepo.GetByID(ctx, nodeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNodeNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if _, err := s.access.notebookForWrite(ctx, node.NotebookID, uid); err != nil {
		return nil, err
	}
	return node, nil
}

// recordRevision stores the node's current content as a revision and prunes
// history beyond the configured depth.
func (s *nodeService) recordRevision(ctx context.Context, node *domain.Node, previousContent string) {
	patch := ""
	if previousContent != node.Content {
		patch = diff.Patch(previousContent, node.Content)
	}
	if _, err := s.revisionRepo.Create(ctx, &domain.NodeRevision{
		NodeID:      node.ID,
		Version:     node.Version,
		Content:     node.Content,
		ContentHash: node.ContentHash,
		Diff:        patch,
	}); err != nil {
		s.logger.Error("revision write failed", zap.Int64(logger.FieldNode, node.ID), zap.Error(err))
		return
	}
	if _, err := s.revisionRepo.PruneToDepth(ctx, node.ID, s.config.App.HistoryKeepVersions); err != nil {
		s.logger.Warn("revision prune failed", zap.Int64(logger.FieldNode, node.ID), zap.Error(err))
	}
}

// refreshOriginality recomputes the originality score of a copy against its
// origin's current content.
func (s *nodeService) refreshOriginality(ctx context.Context, node *domain.Node) {
	if !node.IsCopy() {
		return
	}
	origin, err := s.nodeRepo.GetByGUID(ctx, node.OriginGUID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("origin lookup failed", zap.Int64(logger.FieldNode, node.ID), zap.Error(err))
		}
		return
	}
	score := diff.OriginalityScore(origin.Content, node.Content)
	node.OriginalityScore = score
	if err := s.nodeRepo.UpdateOriginality(ctx, node.ID, score); err != nil {
		s.logger.Warn("originality update failed", zap.Int64(logger.FieldNode, node.ID), zap.Error(err))
	}
}

func (s *nodeService) Create(ctx context.Context, uid, notebookID int64, req *dto.NodeCreateRequest) (*dto.NodeDTO, error) {
	if _, err := s.access.notebookForWrite(ctx, notebookID, uid); err != nil {
		return nil, err
	}

	node, err := s.nodeRepo.Create(ctx, &domain.Node{
		GUID:             uuid.NewString(),
		NotebookID:       notebookID,
		UID:              uid,
		Title:            req.Title,
		Category:         req.Category,
		Content:          req.Content,
		ContentHash:      util.EncodeSHA256(req.Content),
		Version:          1,
		Action:           domain.NodeActionCreate,
		OriginalityScore: 1,
		Size:             int64(len(req.Content)),
	})
	if err != nil {
		return nil, code.ErrorNodeCreateFail.WithDetails(err.Error())
	}

	if err := s.access.notebookRepo.IncrNodeCount(ctx, notebookID, 1); err != nil {
		s.logger.Warn("node count update failed", zap.Int64(logger.FieldNotebook, notebookID), zap.Error(err))
	}
	s.recordRevision(ctx, node, "")

	s.logger.Info("node created",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNotebook, notebookID),
		zap.Int64(logger.FieldNode, node.ID))
	return nodeToDTO(node), nil
}

func (s *nodeService) Get(ctx context.Context, uid, nodeID int64) (*dto.NodeDTO, error) {
	node, err := s.nodeForRead(ctx, uid, nodeID)
	if err != nil {
		return nil, err
	}
	return nodeToDTO(node), nil
}

func (s *nodeService) GetByGUID(ctx context.Context, uid int64, guid string) (*dto.NodeDTO, error) {
	node, err := s.nodeRepo.GetByGUID(ctx, guid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNodeNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if _, _, err := s.access.notebookForRead(ctx, node.NotebookID, uid); err != nil {
		return nil, err
	}
	return nodeToDTO(node), nil
}

func (s *nodeService) Update(ctx context.Context, uid, nodeID int64, req *dto.NodeUpdateRequest) (*dto.NodeDTO, error) {
	node, err := s.nodeForWrite(ctx, uid, nodeID)
	if err != nil {
		return nil, err
	}
	if node.InRecycle() {
		return nil, code.ErrorNodeNotFound
	}
	if req.Version != node.Version {
		return nil, code.ErrorNodeVersionConflict.WithData(nodeToDTO(node))
	}

	previous := node.Content
	contentChanged := req.Content != node.Content

	node.Title = req.Title
	node.Category = req.Category
	node.Content = req.Content
	node.Action = domain.NodeActionModify
	if contentChanged {
		node.ContentHash = util.EncodeSHA256(req.Content)
		node.Size = int64(len(req.Content))
		node.Version++
	}

	if err := s.nodeRepo.Update(ctx, node); err != nil {
		return nil, code.ErrorNodeUpdateFail.WithDetails(err.Error())
	}
	if contentChanged {
		s.recordRevision(ctx, node, previous)
		s.refreshOriginality(ctx, node)
	}

	s.logger.Info("node updated",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNode, node.ID),
		zap.Int64("version", node.Version))
	return nodeToDTO(node), nil
}

// Merge retries a conflicted update by three-way merging the caller's edit
// with the stored content, using the revision the edit was based on. When
// the base revision is gone or the texts cannot be combined, the version
// conflict is reported with the current node, same as Update.
func (s *nodeService) Merge(ctx context.Context, uid, nodeID int64, req *dto.NodeUpdateRequest) (*dto.NodeDTO, error) {
	node, err := s.nodeForWrite(ctx, uid, nodeID)
	if err != nil {
		return nil, err
	}
	if node.InRecycle() {
		return nil, code.ErrorNodeNotFound
	}
	if req.Version == node.Version {
		return s.Update(ctx, uid, nodeID, req)
	}

	base, err := s.revisionRepo.GetByVersion(ctx, node.ID, req.Version)
	if err != nil {
		return nil, code.ErrorNodeVersionConflict.WithData(nodeToDTO(node))
	}

	merged, ok := diff.MergeTexts(base.Content, req.Content, node.Content, true)
	if !ok {
		return nil, code.ErrorNodeVersionConflict.WithData(nodeToDTO(node))
	}

	retry := *req
	retry.Content = merged
	retry.Version = node.Version

	out, err := s.Update(ctx, uid, nodeID, &retry)
	if err != nil {
		return nil, err
	}
	s.logger.Info("node merged",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNode, node.ID),
		zap.Int64("base_version", req.Version),
		zap.Int64("version", out.Version))
	return out, nil
}

// Delete moves a node to the recycle bin. The purge task removes it for
// good after the retention window.
func (s *nodeService) Delete(ctx context.Context, uid, nodeID int64) error {
	node, err := s.nodeForWrite(ctx, uid, nodeID)
	if err != nil {
		return err
	}
	if node.InRecycle() {
		return code.ErrorNodeNotFound
	}
	if err := s.nodeRepo.SoftDelete(ctx, nodeID); err != nil {
		return code.ErrorNodeDeleteFail.WithDetails(err.Error())
	}
	if err := s.access.notebookRepo.IncrNodeCount(ctx, node.NotebookID, -1); err != nil {
		s.logger.Warn("node count update failed", zap.Int64(logger.FieldNotebook, node.NotebookID), zap.Error(err))
	}
	s.logger.Info("node recycled",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNode, nodeID))
	return nil
}

func (s *nodeService) Restore(ctx context.Context, uid, nodeID int64) (*dto.NodeDTO, error) {
	node, err := s.nodeForWrite(ctx, uid, nodeID)
	if err != nil {
		return nil, err
	}
	if !node.InRecycle() {
		return nil, code.ErrorNodeNotDeleted
	}
	if err := s.nodeRepo.Restore(ctx, nodeID); err != nil {
		return nil, code.ErrorNodeUpdateFail.WithDetails(err.Error())
	}
	if err := s.access.notebookRepo.IncrNodeCount(ctx, node.NotebookID, 1); err != nil {
		s.logger.Warn("node count update failed", zap.Int64(logger.FieldNotebook, node.NotebookID), zap.Error(err))
	}
	node.IsDeleted = false
	return nodeToDTO(node), nil
}

// Purge removes a recycled node permanently, along with its history and
// outgoing links.
func (s *nodeService) Purge(ctx context.Context, uid, nodeID int64) error {
	node, err := s.nodeForWrite(ctx, uid, nodeID)
	if err != nil {
		return err
	}
	if !node.InRecycle() {
		return code.ErrorNodeNotDeleted
	}
	if err := s.revisionRepo.DeleteByNode(ctx, nodeID); err != nil {
		return code.ErrorNodeDeleteFail.WithDetails(err.Error())
	}
	if err := s.linkRepo.DeleteBySource(ctx, nodeID); err != nil {
		return code.ErrorNodeDeleteFail.WithDetails(err.Error())
	}
	if err := s.nodeRepo.Delete(ctx, nodeID); err != nil {
		return code.ErrorNodeDeleteFail.WithDetails(err.Error())
	}
	s.logger.Info("node purged",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNode, nodeID))
	return nil
}

func (s *nodeService) List(ctx context.Context, uid, notebookID int64, page, pageSize int, req *dto.NodeListRequest) ([]*dto.NodeDTO, int64, error) {
	if _, _, err := s.access.notebookForRead(ctx, notebookID, uid); err != nil {
		return nil, 0, err
	}

	nodes, err := s.nodeRepo.List(ctx, notebookID, page, pageSize,
		req.Keyword, req.Category, req.SearchContent, req.Recycle, req.SortBy, req.SortOrder)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	total, err := s.nodeRepo.ListCount(ctx, notebookID, req.Keyword, req.Category, req.SearchContent, req.Recycle)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}

	out := make([]*dto.NodeDTO, 0, len(nodes))
	for _, n := range nodes {
		d := nodeToDTO(n)
		// Listings stay light, content comes from Get.
		d.Content = ""
		out = append(out, d)
	}
	return out, total, nil
}

func (s *nodeService) ListRevisions(ctx context.Context, uid, nodeID int64, page, pageSize int) ([]*dto.NodeRevisionDTO, int64, error) {
	if _, err := s.nodeForRead(ctx, uid, nodeID); err != nil {
		return nil, 0, err
	}
	revisions, err := s.revisionRepo.ListByNode(ctx, nodeID, page, pageSize)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	total, err := s.revisionRepo.ListCount(ctx, nodeID)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	out := make([]*dto.NodeRevisionDTO, 0, len(revisions))
	for _, r := range revisions {
		d := revisionToDTO(r)
		d.Content = ""
		out = append(out, d)
	}
	return out, total, nil
}

func (s *nodeService) GetRevision(ctx context.Context, uid, nodeID, version int64) (*dto.NodeRevisionDTO, error) {
	if _, err := s.nodeForRead(ctx, uid, nodeID); err != nil {
		return nil, err
	}
	revision, err := s.revisionRepo.GetByVersion(ctx, nodeID, version)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNodeRevisionNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return revisionToDTO(revision), nil
}

// RestoreRevision makes an old version the current content. The restore is
// itself a new version so it shows up in history.
func (s *nodeService) RestoreRevision(ctx context.Context, uid, nodeID, version int64) (*dto.NodeDTO, error) {
	node, err := s.nodeForWrite(ctx, uid, nodeID)
	if err != nil {
		return nil, err
	}
	revision, err := s.revisionRepo.GetByVersion(ctx, nodeID, version)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNodeRevisionNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	previous := node.Content
	node.Content = revision.Content
	node.ContentHash = revision.ContentHash
	node.Size = int64(len(revision.Content))
	node.Version++
	node.Action = domain.NodeActionModify

	if err := s.nodeRepo.Update(ctx, node); err != nil {
		return nil, code.ErrorNodeUpdateFail.WithDetails(err.Error())
	}
	s.recordRevision(ctx, node, previous)
	s.refreshOriginality(ctx, node)
	return nodeToDTO(node), nil
}

// Copy duplicates a node into another notebook, keeping provenance. The
// copy starts with an originality score of 0 since its content is
// identical to the origin.
func (s *nodeService) Copy(ctx context.Context, uid, nodeID int64, req *dto.NodeCopyRequest) (*dto.NodeDTO, error) {
	source, err := s.nodeForRead(ctx, uid, nodeID)
	if err != nil {
		return nil, err
	}
	if source.InRecycle() {
		return nil, code.ErrorNodeNotFound
	}
	if _, err := s.access.notebookForWrite(ctx, req.TargetNotebookID, uid); err != nil {
		return nil, err
	}

	existing, err := s.nodeRepo.GetByTitle(ctx, req.TargetNotebookID, source.Title)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if existing != nil && err == nil {
		if !req.Overwrite {
			return nil, code.ErrorNodeCreateFail.WithDetails("title already exists in target notebook")
		}
		previous := existing.Content
		existing.Category = source.Category
		existing.Content = source.Content
		existing.ContentHash = source.ContentHash
		existing.Size = source.Size
		existing.Version++
		existing.Action = domain.NodeActionModify
		existing.OriginGUID = source.GUID
		existing.OriginUID = source.UID
		existing.OriginalityScore = 0
		if err := s.nodeRepo.Update(ctx, existing); err != nil {
			return nil, code.ErrorNodeUpdateFail.WithDetails(err.Error())
		}
		s.recordRevision(ctx, existing, previous)
		return nodeToDTO(existing), nil
	}

	copied, err := s.nodeRepo.Create(ctx, &domain.Node{
		GUID:             uuid.NewString(),
		NotebookID:       req.TargetNotebookID,
		UID:              uid,
		Title:            source.Title,
		Category:         source.Category,
		Content:          source.Content,
		ContentHash:      source.ContentHash,
		Version:          1,
		Action:           domain.NodeActionCreate,
		OriginGUID:       source.GUID,
		OriginUID:        source.UID,
		OriginalityScore: 0,
		Size:             source.Size,
	})
	if err != nil {
		return nil, code.ErrorNodeCreateFail.WithDetails(err.Error())
	}
	if err := s.access.notebookRepo.IncrNodeCount(ctx, req.TargetNotebookID, 1); err != nil {
		s.logger.Warn("node count update failed", zap.Int64(logger.FieldNotebook, req.TargetNotebookID), zap.Error(err))
	}
	s.recordRevision(ctx, copied, "")

	s.logger.Info("node copied",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNode, source.ID),
		zap.Int64("copy_id", copied.ID),
		zap.Int64(logger.FieldNotebook, req.TargetNotebookID))
	return nodeToDTO(copied), nil
}
