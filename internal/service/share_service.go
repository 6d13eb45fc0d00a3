package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/dto"
	"github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/code"
	"github.com/notefield/notebook-service/pkg/logger"
	"github.com/notefield/notebook-service/pkg/timex"
)

// ShareService manages notebook sharing, both user grants and signed
// account-less read links.
type ShareService interface {
	Create(ctx context.Context, uid, notebookID int64, req *dto.ShareCreateRequest) (*dto.ShareDTO, error)
	CreateLink(ctx context.Context, uid, notebookID int64, host string, req *dto.ShareLinkCreateRequest) (*dto.ShareLinkDTO, error)
	Revoke(ctx context.Context, uid, shareID int64) error
	ListByNotebook(ctx context.Context, uid, notebookID int64) ([]*dto.ShareDTO, error)
	ListReceived(ctx context.Context, uid int64) ([]*dto.ShareDTO, error)
	// ResolveLink validates a parsed share token and returns the share after
	// counting the view.
	ResolveLink(ctx context.Context, entity *app.ShareEntity) (*domain.NotebookShare, error)

	// Link-scoped reads, used by the account-less share routes. Access has
	// already been established by the share token middleware.
	SharedNotebook(ctx context.Context, notebookID int64) (*dto.NotebookDTO, error)
	SharedNodes(ctx context.Context, notebookID int64, page, pageSize int, req *dto.NodeListRequest) ([]*dto.NodeDTO, int64, error)
	SharedNode(ctx context.Context, notebookID, nodeID int64) (*dto.NodeDTO, error)
}

type shareService struct {
	access       accessResolver
	userRepo     domain.UserRepository
	nodeRepo     domain.NodeRepository
	tokenManager app.TokenManager
	logger       *zap.Logger
	config       *ServiceConfig
}

func NewShareService(
	notebookRepo domain.NotebookRepository,
	shareRepo domain.NotebookShareRepository,
	userRepo domain.UserRepository,
	nodeRepo domain.NodeRepository,
	tokenManager app.TokenManager,
	log *zap.Logger,
	config *ServiceConfig,
) ShareService {
	return &shareService{
		access:       accessResolver{notebookRepo: notebookRepo, shareRepo: shareRepo},
		userRepo:     userRepo,
		nodeRepo:     nodeRepo,
		tokenManager: tokenManager,
		logger:       log,
		config:       config,
	}
}

func shareToDTO(s *domain.NotebookShare) *dto.ShareDTO {
	if s == nil {
		return nil
	}
	return &dto.ShareDTO{
		ID:         s.ID,
		NotebookID: s.NotebookID,
		OwnerUID:   s.OwnerUID,
		TargetUID:  s.TargetUID,
		Role:       string(s.Role),
		Status:     string(s.Status),
		ViewCount:  s.ViewCount,
		Expiration: timex.Time(s.Expiration),
		CreatedAt:  timex.Time(s.CreatedAt),
	}
}

func (s *shareService) Create(ctx context.Context, uid, notebookID int64, req *dto.ShareCreateRequest) (*dto.ShareDTO, error) {
	notebook, err := s.access.notebookForOwner(ctx, notebookID, uid)
	if err != nil {
		return nil, err
	}

	target, err := s.userRepo.GetByUsername(ctx, req.TargetUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorUserNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if target.UID == uid {
		return nil, code.ErrorShareSelf
	}

	if existing, err := s.access.shareRepo.GetActive(ctx, notebookID, target.UID); err == nil && existing.Usable() {
		return nil, code.ErrorShareExists
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	share := &domain.NotebookShare{
		NotebookID: notebookID,
		OwnerUID:   uid,
		TargetUID:  target.UID,
		Role:       domain.ShareRole(req.Role),
		Status:     domain.ShareStatusActive,
	}
	if req.ExpireDays > 0 {
		share.Expiration = time.Now().AddDate(0, 0, req.ExpireDays)
	}
	share, err = s.access.shareRepo.Create(ctx, share)
	if err != nil {
		return nil, code.ErrorShareCreateFail.WithDetails(err.Error())
	}

	s.logger.Info("notebook shared",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNotebook, notebook.ID),
		zap.Int64("target_uid", target.UID),
		zap.String("role", req.Role))

	out := shareToDTO(share)
	out.TargetUsername = target.Username
	out.NotebookName = notebook.Name
	return out, nil
}

func (s *shareService) CreateLink(ctx context.Context, uid, notebookID int64, host string, req *dto.ShareLinkCreateRequest) (*dto.ShareLinkDTO, error) {
	if _, err := s.access.notebookForOwner(ctx, notebookID, uid); err != nil {
		return nil, err
	}

	expiry := s.config.App.ShareTokenExpiry
	if req.ExpireDays > 0 {
		expiry = time.Duration(req.ExpireDays) * 24 * time.Hour
	}

	share := &domain.NotebookShare{
		NotebookID: notebookID,
		OwnerUID:   uid,
		Role:       domain.ShareRoleViewer,
		Status:     domain.ShareStatusActive,
	}
	if expiry > 0 {
		share.Expiration = time.Now().Add(expiry)
	}
	share, err := s.access.shareRepo.Create(ctx, share)
	if err != nil {
		return nil, code.ErrorShareCreateFail.WithDetails(err.Error())
	}

	token, err := s.tokenManager.GenerateShare(share.ID, notebookID, expiry)
	if err != nil {
		return nil, code.ErrorShareCreateFail.WithDetails(err.Error())
	}

	s.logger.Info("share link created",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNotebook, notebookID))

	return &dto.ShareLinkDTO{
		ShareID: share.ID,
		Token:   token,
		URL:     fmt.Sprintf("%s/share/%s", host, token),
	}, nil
}

func (s *shareService) Revoke(ctx context.Context, uid, shareID int64) error {
	share, err := s.access.shareRepo.GetByID(ctx, shareID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorShareNotFound
		}
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	if share.OwnerUID != uid {
		return code.ErrorNotebookAccessDenied
	}
	if err := s.access.shareRepo.Revoke(ctx, shareID); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	s.logger.Info("share revoked",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64("share_id", shareID))
	return nil
}

func (s *shareService) ListByNotebook(ctx context.Context, uid, notebookID int64) ([]*dto.ShareDTO, error) {
	notebook, err := s.access.notebookForOwner(ctx, notebookID, uid)
	if err != nil {
		return nil, err
	}
	shares, err := s.access.shareRepo.ListByNotebook(ctx, notebookID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	out := make([]*dto.ShareDTO, 0, len(shares))
	for _, share := range shares {
		d := shareToDTO(share)
		d.NotebookName = notebook.Name
		if share.TargetUID != 0 {
			if target, err := s.userRepo.GetByUID(ctx, share.TargetUID); err == nil {
				d.TargetUsername = target.Username
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *shareService) ListReceived(ctx context.Context, uid int64) ([]*dto.ShareDTO, error) {
	shares, err := s.access.shareRepo.ListByTarget(ctx, uid)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	out := make([]*dto.ShareDTO, 0, len(shares))
	for _, share := range shares {
		if !share.Usable() {
			continue
		}
		d := shareToDTO(share)
		if notebook, err := s.access.notebookRepo.GetByID(ctx, share.NotebookID); err == nil {
			d.NotebookName = notebook.Name
		}
		out = append(out, d)
	}
	return out, nil
}

// ResolveLink checks that the share behind a verified token is still
// active. Signature validity alone is not enough, revocation wins.
func (s *shareService) ResolveLink(ctx context.Context, entity *app.ShareEntity) (*domain.NotebookShare, error) {
	share, err := s.access.shareRepo.GetByID(ctx, entity.ShareID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorShareNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if !share.Usable() || share.NotebookID != entity.NotebookID {
		return nil, code.ErrorInvalidShareAuthToken
	}
	if err := s.access.shareRepo.IncrViewCount(ctx, share.ID); err != nil {
		s.logger.Warn("share view count update failed", zap.Int64("share_id", share.ID), zap.Error(err))
	}
	return share, nil
}

func (s *shareService) SharedNotebook(ctx context.Context, notebookID int64) (*dto.NotebookDTO, error) {
	notebook, err := s.access.notebook(ctx, notebookID)
	if err != nil {
		return nil, err
	}
	out := notebookToDTO(notebook)
	out.Role = string(domain.ShareRoleViewer)
	return out, nil
}

func (s *shareService) SharedNodes(ctx context.Context, notebookID int64, page, pageSize int, req *dto.NodeListRequest) ([]*dto.NodeDTO, int64, error) {
	if _, err := s.access.notebook(ctx, notebookID); err != nil {
		return nil, 0, err
	}

	// The recycle bin stays private to the owner.
	nodes, err := s.nodeRepo.List(ctx, notebookID, page, pageSize,
		req.Keyword, req.Category, req.SearchContent, false, req.SortBy, req.SortOrder)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	total, err := s.nodeRepo.ListCount(ctx, notebookID, req.Keyword, req.Category, req.SearchContent, false)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}

	out := make([]*dto.NodeDTO, 0, len(nodes))
	for _, n := range nodes {
		d := nodeToDTO(n)
		d.Content = ""
		out = append(out, d)
	}
	return out, total, nil
}

func (s *shareService) SharedNode(ctx context.Context, notebookID, nodeID int64) (*dto.NodeDTO, error) {
	node, err := s.nodeRepo.GetByID(ctx, nodeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNodeNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if node.NotebookID != notebookID || node.InRecycle() {
		return nil, code.ErrorNodeNotFound
	}
	return nodeToDTO(node), nil
}
