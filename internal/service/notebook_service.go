package service

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/dto"
	"github.com/notefield/notebook-service/pkg/code"
	"github.com/notefield/notebook-service/pkg/logger"
	"github.com/notefield/notebook-service/pkg/timex"
)

// NotebookService manages notebooks and their ownership.
type NotebookService interface {
	Create(ctx context.Context, uid int64, req *dto.NotebookCreateRequest) (*dto.NotebookDTO, error)
	Get(ctx context.Context, uid, notebookID int64) (*dto.NotebookDTO, error)
	Update(ctx context.Context, uid, notebookID int64, req *dto.NotebookUpdateRequest) (*dto.NotebookDTO, error)
	Delete(ctx context.Context, uid, notebookID int64) error
	List(ctx context.Context, uid int64, page, pageSize int) ([]*dto.NotebookDTO, int64, error)
	ListShared(ctx context.Context, uid int64) ([]*dto.NotebookDTO, error)
	Transfer(ctx context.Context, uid, notebookID int64, req *dto.NotebookTransferRequest) (*dto.NotebookDTO, error)
}

type notebookService struct {
	access   accessResolver
	userRepo domain.UserRepository
	nodeRepo domain.NodeRepository
	logger   *zap.Logger
	config   *ServiceConfig
}

func NewNotebookService(
	notebookRepo domain.NotebookRepository,
	shareRepo domain.NotebookShareRepository,
	userRepo domain.UserRepository,
	nodeRepo domain.NodeRepository,
	log *zap.Logger,
	config *ServiceConfig,
) NotebookService {
	return &notebookService{
		access:   accessResolver{notebookRepo: notebookRepo, shareRepo: shareRepo},
		userRepo: userRepo,
		nodeRepo: nodeRepo,
		logger:   log,
		config:   config,
	}
}

func notebookToDTO(n *domain.Notebook) *dto.NotebookDTO {
	if n == nil {
		return nil
	}
	return &dto.NotebookDTO{
		ID:        n.ID,
		UID:       n.UID,
		Name:      n.Name,
		Slug:      n.Slug,
		Summary:   n.Summary,
		NodeCount: n.NodeCount,
		CreatedAt: timex.Time(n.CreatedAt),
		UpdatedAt: timex.Time(n.UpdatedAt),
	}
}

// slugify derives a url-safe slug from a notebook name.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// checkSlugFree rejects a slug already used by another of the user's
// notebooks.
func (s *notebookService) checkSlugFree(ctx context.Context, uid int64, slug string, selfID int64) error {
	existing, err := s.access.notebookRepo.GetBySlug(ctx, uid, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	if existing.ID != selfID {
		return code.ErrorNotebookCreateFail.WithDetails("slug already in use")
	}
	return nil
}

func (s *notebookService) Create(ctx context.Context, uid int64, req *dto.NotebookCreateRequest) (*dto.NotebookDTO, error) {
	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Name)
	}
	if err := s.checkSlugFree(ctx, uid, slug, 0); err != nil {
		return nil, err
	}

	notebook, err := s.access.notebookRepo.Create(ctx, &domain.Notebook{
		UID:     uid,
		Name:    req.Name,
		Slug:    slug,
		Summary: req.Summary,
	})
	if err != nil {
		return nil, code.ErrorNotebookCreateFail.WithDetails(err.Error())
	}

	s.logger.Info("notebook created",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNotebook, notebook.ID))
	return notebookToDTO(notebook), nil
}

func (s *notebookService) Get(ctx context.Context, uid, notebookID int64) (*dto.NotebookDTO, error) {
	notebook, role, err := s.access.notebookForRead(ctx, notebookID, uid)
	if err != nil {
		return nil, err
	}
	out := notebookToDTO(notebook)
	if !notebook.OwnedBy(uid) {
		out.Role = string(role)
	}
	return out, nil
}

func (s *notebookService) Update(ctx context.Context, uid, notebookID int64, req *dto.NotebookUpdateRequest) (*dto.NotebookDTO, error) {
	notebook, err := s.access.notebookForOwner(ctx, notebookID, uid)
	if err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Name)
	}
	if slug != notebook.Slug {
		if err := s.checkSlugFree(ctx, uid, slug, notebook.ID); err != nil {
			return nil, err
		}
	}

	notebook.Name = req.Name
	notebook.Slug = slug
	notebook.Summary = req.Summary
	if err := s.access.notebookRepo.Update(ctx, notebook); err != nil {
		return nil, code.ErrorNotebookUpdateFail.WithDetails(err.Error())
	}
	return notebookToDTO(notebook), nil
}

func (s *notebookService) Delete(ctx context.Context, uid, notebookID int64) error {
	if _, err := s.access.notebookForOwner(ctx, notebookID, uid); err != nil {
		return err
	}
	if err := s.access.notebookRepo.SoftDelete(ctx, notebookID, uid); err != nil {
		return code.ErrorNotebookDeleteFail.WithDetails(err.Error())
	}
	s.logger.Info("notebook deleted",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNotebook, notebookID))
	return nil
}

func (s *notebookService) List(ctx context.Context, uid int64, page, pageSize int) ([]*dto.NotebookDTO, int64, error) {
	notebooks, err := s.access.notebookRepo.List(ctx, uid, page, pageSize)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	total, err := s.access.notebookRepo.ListCount(ctx, uid)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	out := make([]*dto.NotebookDTO, 0, len(notebooks))
	for _, n := range notebooks {
		out = append(out, notebookToDTO(n))
	}
	return out, total, nil
}

// ListShared returns notebooks other users have shared with the caller.
func (s *notebookService) ListShared(ctx context.Context, uid int64) ([]*dto.NotebookDTO, error) {
	shares, err := s.access.shareRepo.ListByTarget(ctx, uid)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	out := make([]*dto.NotebookDTO, 0, len(shares))
	for _, share := range shares {
		if !share.Usable() {
			continue
		}
		notebook, err := s.access.notebookRepo.GetByID(ctx, share.NotebookID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
		d := notebookToDTO(notebook)
		d.Role = string(share.Role)
		out = append(out, d)
	}
	return out, nil
}

// Transfer hands a notebook to another user. Existing copies in the
// notebook keep their origin provenance.
func (s *notebookService) Transfer(ctx context.Context, uid, notebookID int64, req *dto.NotebookTransferRequest) (*dto.NotebookDTO, error) {
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
		return nil, code.ErrorNotebookTransferSelf
	}
	if !target.CanLogin() {
		return nil, code.ErrorUserNotFound
	}

	if err := s.checkSlugFree(ctx, target.UID, notebook.Slug, 0); err != nil {
		return nil, err
	}

	if err := s.access.notebookRepo.Transfer(ctx, notebookID, uid, target.UID); err != nil {
		return nil, code.ErrorNotebookUpdateFail.WithDetails(err.Error())
	}
	notebook.UID = target.UID

	s.logger.Info("notebook transferred",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNotebook, notebookID),
		zap.Int64("target_uid", target.UID))
	return notebookToDTO(notebook), nil
}
