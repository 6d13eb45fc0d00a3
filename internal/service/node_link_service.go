package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/dto"
	"github.com/notefield/notebook-service/pkg/code"
	"github.com/notefield/notebook-service/pkg/logger"
	"github.com/notefield/notebook-service/pkg/timex"
)

// NodeLinkService manages directed references between nodes.
type NodeLinkService interface {
	Create(ctx context.Context, uid, sourceNodeID int64, req *dto.NodeLinkCreateRequest) (*dto.NodeLinkDTO, error)
	Delete(ctx context.Context, uid, linkID int64) error
	ListBySource(ctx context.Context, uid, sourceNodeID int64) ([]*dto.NodeLinkDTO, error)
	// ListBacklinks returns links pointing at a node, for the backlink panel.
	ListBacklinks(ctx context.Context, uid, nodeID int64) ([]*dto.NodeLinkDTO, error)
}

type nodeLinkService struct {
	access   accessResolver
	nodeRepo domain.NodeRepository
	linkRepo domain.NodeLinkRepository
	logger   *zap.Logger
}

func NewNodeLinkService(
	notebookRepo domain.NotebookRepository,
	shareRepo domain.NotebookShareRepository,
	nodeRepo domain.NodeRepository,
	linkRepo domain.NodeLinkRepository,
	log *zap.Logger,
) NodeLinkService {
	return &nodeLinkService{
		access:   accessResolver{notebookRepo: notebookRepo, shareRepo: shareRepo},
		nodeRepo: nodeRepo,
		linkRepo: linkRepo,
		logger:   log,
	}
}

func linkToDTO(l *domain.NodeLink) *dto.NodeLinkDTO {
	if l == nil {
		return nil
	}
	return &dto.NodeLinkDTO{
		ID:           l.ID,
		SourceNodeID: l.SourceNodeID,
		TargetGUID:   l.TargetGUID,
		Label:        l.Label,
		IsEmbed:      l.IsEmbed,
		CreatedAt:    timex.Time(l.CreatedAt),
	}
}

func (s *nodeLinkService) Create(ctx context.Context, uid, sourceNodeID int64, req *dto.NodeLinkCreateRequest) (*dto.NodeLinkDTO, error) {
	source, err := s.nodeRepo.GetByID(ctx, sourceNodeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNodeNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if _, err := s.access.notebookForWrite(ctx, source.NotebookID, uid); err != nil {
		return nil, err
	}
	if source.GUID == req.TargetGUID {
		return nil, code.ErrorLinkSelfReference
	}

	// The target must exist, but may live in any notebook. Reading it is
	// gated when the link is followed, not when it is created.
	target, err := s.nodeRepo.GetByGUID(ctx, req.TargetGUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNodeNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	link, err := s.linkRepo.Create(ctx, &domain.NodeLink{
		NotebookID:   source.NotebookID,
		SourceNodeID: sourceNodeID,
		TargetGUID:   req.TargetGUID,
		Label:        req.Label,
		IsEmbed:      req.IsEmbed,
	})
	if err != nil {
		return nil, code.ErrorLinkCreateFail.WithDetails(err.Error())
	}

	s.logger.Info("node link created",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNode, sourceNodeID),
		zap.String("target_guid", req.TargetGUID))

	out := linkToDTO(link)
	out.TargetTitle = target.Title
	return out, nil
}

func (s *nodeLinkService) Delete(ctx context.Context, uid, linkID int64) error {
	link, err := s.linkRepo.GetByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorLinkNotFound
		}
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	if _, err := s.access.notebookForWrite(ctx, link.NotebookID, uid); err != nil {
		return err
	}
	if err := s.linkRepo.Delete(ctx, linkID); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	return nil
}

func (s *nodeLinkService) ListBySource(ctx context.Context, uid, sourceNodeID int64) ([]*dto.NodeLinkDTO, error) {
	source, err := s.nodeRepo.GetByID(ctx, sourceNodeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNodeNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if _, _, err := s.access.notebookForRead(ctx, source.NotebookID, uid); err != nil {
		return nil, err
	}

	links, err := s.linkRepo.ListBySource(ctx, sourceNodeID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	out := make([]*dto.NodeLinkDTO, 0, len(links))
	for _, l := range links {
		d := linkToDTO(l)
		if target, err := s.nodeRepo.GetByGUID(ctx, l.TargetGUID); err == nil {
			d.TargetTitle = target.Title
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *nodeLinkService) ListBacklinks(ctx context.Context, uid, nodeID int64) ([]*dto.NodeLinkDTO, error) {
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

	links, err := s.linkRepo.ListBacklinks(ctx, node.GUID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	out := make([]*dto.NodeLinkDTO, 0, len(links))
	for _, l := range links {
		// Only show backlinks from notebooks the caller can read.
		if _, _, err := s.access.notebookForRead(ctx, l.NotebookID, uid); err != nil {
			continue
		}
		d := linkToDTO(l)
		d.TargetTitle = node.Title
		out = append(out, d)
	}
	return out, nil
}
