package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/pkg/code"
)

// accessResolver answers who may do what with a notebook. Owners may do
// everything, grantees what their share role permits.
type accessResolver struct {
	notebookRepo domain.NotebookRepository
	shareRepo    domain.NotebookShareRepository
}

func (a *accessResolver) notebook(ctx context.Context, notebookID int64) (*domain.Notebook, error) {
	notebook, err := a.notebookRepo.GetByID(ctx, notebookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNotebookNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return notebook, nil
}

// notebookForRead returns the notebook and the caller's effective role when
// the caller may at least view it.
func (a *accessResolver) notebookForRead(ctx context.Context, notebookID, uid int64) (*domain.Notebook, domain.ShareRole, error) {
	notebook, err := a.notebook(ctx, notebookID)
	if err != nil {
		return nil, "", err
	}
	if notebook.OwnedBy(uid) {
		return notebook, domain.ShareRoleEditor, nil
	}
	share, err := a.shareRepo.GetActive(ctx, notebookID, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", code.ErrorNotebookAccessDenied
		}
		return nil, "", code.ErrorDBQuery.WithDetails(err.Error())
	}
	if !share.Usable() {
		return nil, "", code.ErrorNotebookAccessDenied
	}
	return notebook, share.Role, nil
}

// notebookForWrite returns the notebook when the caller may modify nodes
// in it.
func (a *accessResolver) notebookForWrite(ctx context.Context, notebookID, uid int64) (*domain.Notebook, error) {
	notebook, role, err := a.notebookForRead(ctx, notebookID, uid)
	if err != nil {
		return nil, err
	}
	if !notebook.OwnedBy(uid) && role != domain.ShareRoleEditor {
		return nil, code.ErrorNotebookReadOnly
	}
	return notebook, nil
}

// notebookForOwner returns the notebook only to its owner.
func (a *accessResolver) notebookForOwner(ctx context.Context, notebookID, uid int64) (*domain.Notebook, error) {
	notebook, err := a.notebook(ctx, notebookID)
	if err != nil {
		return nil, err
	}
	if !notebook.OwnedBy(uid) {
		return nil, code.ErrorNotebookAccessDenied
	}
	return notebook, nil
}
