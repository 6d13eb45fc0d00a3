package service

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/dto"
	"github.com/notefield/notebook-service/pkg/code"
	"github.com/notefield/notebook-service/pkg/convert"
	"github.com/notefield/notebook-service/pkg/logger"
	"github.com/notefield/notebook-service/pkg/timex"
	"github.com/notefield/notebook-service/pkg/util"
)

// AdminService covers site settings, invite tokens and user administration.
// Every operation requires an admin caller, enforced by middleware.
type AdminService interface {
	GetSettings(ctx context.Context) ([]*dto.SettingDTO, error)
	UpdateSetting(ctx context.Context, uid int64, req *dto.SettingUpdateRequest) (*dto.SettingDTO, error)
	CreateInviteToken(ctx context.Context, uid int64, req *dto.InviteTokenCreateRequest) (*dto.InviteTokenDTO, error)
	ListInviteTokens(ctx context.Context, page, pageSize int) ([]*dto.InviteTokenDTO, int64, error)
	ListUsers(ctx context.Context, page, pageSize int, keyword string) ([]*dto.UserDTO, int64, error)
	UpdateUser(ctx context.Context, adminUID, targetUID int64, req *dto.AdminUserUpdateRequest) (*dto.UserDTO, error)
	SystemStatus(ctx context.Context, version string) (*dto.SystemStatusDTO, error)
}

type adminService struct {
	userRepo    domain.UserRepository
	inviteRepo  domain.InviteTokenRepository
	settingRepo domain.SiteSettingRepository
	logger      *zap.Logger
}

func NewAdminService(
	userRepo domain.UserRepository,
	inviteRepo domain.InviteTokenRepository,
	settingRepo domain.SiteSettingRepository,
	log *zap.Logger,
) AdminService {
	return &adminService{
		userRepo:    userRepo,
		inviteRepo:  inviteRepo,
		settingRepo: settingRepo,
		logger:      log,
	}
}

// settingValues lists the values each setting accepts.
var settingValues = map[string][]string{
	domain.SettingNewUsers:  {domain.NewUsersOpen, domain.NewUsersToken, domain.NewUsersClosed},
	domain.SettingUserLogin: {domain.UserLoginEnabled, domain.UserLoginDisabled},
}

func settingToDTO(s *domain.SiteSetting) *dto.SettingDTO {
	return &dto.SettingDTO{
		Key:       s.Name,
		Value:     s.Value,
		UpdatedAt: timex.Time(s.UpdatedAt),
	}
}

func inviteToDTO(t *domain.InviteToken) *dto.InviteTokenDTO {
	return &dto.InviteTokenDTO{
		ID:         t.ID,
		Token:      t.Token,
		Exhausted:  t.Exhausted,
		Expiration: timex.Time(t.Expiration),
		CreatedAt:  timex.Time(t.CreatedAt),
	}
}

func (s *adminService) GetSettings(ctx context.Context) ([]*dto.SettingDTO, error) {
	settings, err := s.settingRepo.List(ctx)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	// Fill defaults for settings never written.
	seen := make(map[string]bool, len(settings))
	out := make([]*dto.SettingDTO, 0, len(settingValues))
	for _, setting := range settings {
		seen[setting.Name] = true
		out = append(out, settingToDTO(setting))
	}
	if !seen[domain.SettingNewUsers] {
		out = append(out, &dto.SettingDTO{Key: domain.SettingNewUsers, Value: domain.NewUsersOpen})
	}
	if !seen[domain.SettingUserLogin] {
		out = append(out, &dto.SettingDTO{Key: domain.SettingUserLogin, Value: domain.UserLoginEnabled})
	}
	return out, nil
}

func (s *adminService) UpdateSetting(ctx context.Context, uid int64, req *dto.SettingUpdateRequest) (*dto.SettingDTO, error) {
	allowed, ok := settingValues[req.Key]
	if !ok {
		return nil, code.ErrorSettingNotFound
	}
	valid := false
	for _, v := range allowed {
		if v == req.Value {
			valid = true
			break
		}
	}
	if !valid {
		return nil, code.ErrorInvalidParams.WithDetails("invalid value for setting " + req.Key)
	}

	if err := s.settingRepo.Set(ctx, req.Key, req.Value); err != nil {
		return nil, code.ErrorSettingUpdateFail.WithDetails(err.Error())
	}
	s.logger.Info("site setting changed",
		zap.Int64(logger.FieldUID, uid),
		zap.String("setting", req.Key),
		zap.String("value", req.Value))
	return &dto.SettingDTO{Key: req.Key, Value: req.Value, UpdatedAt: timex.Now()}, nil
}

func (s *adminService) CreateInviteToken(ctx context.Context, uid int64, req *dto.InviteTokenCreateRequest) (*dto.InviteTokenDTO, error) {
	token := &domain.InviteToken{
		Purpose: "registration",
		Token:   util.GetRandomString(32),
	}
	if req.ExpireDays > 0 {
		token.Expiration = time.Now().AddDate(0, 0, req.ExpireDays)
	}
	token, err := s.inviteRepo.Create(ctx, token)
	if err != nil {
		return nil, code.ErrorInviteTokenCreateFail.WithDetails(err.Error())
	}
	s.logger.Info("invite token created", zap.Int64(logger.FieldUID, uid))
	return inviteToDTO(token), nil
}

func (s *adminService) ListInviteTokens(ctx context.Context, page, pageSize int) ([]*dto.InviteTokenDTO, int64, error) {
	tokens, err := s.inviteRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	total, err := s.inviteRepo.ListCount(ctx)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	out := make([]*dto.InviteTokenDTO, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, inviteToDTO(t))
	}
	return out, total, nil
}

func (s *adminService) ListUsers(ctx context.Context, page, pageSize int, keyword string) ([]*dto.UserDTO, int64, error) {
	users, err := s.userRepo.List(ctx, page, pageSize, keyword)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	total, err := s.userRepo.ListCount(ctx, keyword)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	out := make([]*dto.UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, userToDTO(u))
	}
	return out, total, nil
}

func (s *adminService) UpdateUser(ctx context.Context, adminUID, targetUID int64, req *dto.AdminUserUpdateRequest) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetByUID(ctx, targetUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorUserNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	// An admin cannot lock themselves out.
	if targetUID == adminUID && ((req.IsActive != nil && !*req.IsActive) || (req.Type != "" && req.Type != string(domain.UserTypeAdmin))) {
		return nil, code.ErrorInvalidParams.WithDetails("cannot demote or deactivate your own account")
	}

	if req.IsActive != nil && *req.IsActive != user.IsActive {
		if err := s.userRepo.SetActive(ctx, targetUID, *req.IsActive); err != nil {
			return nil, code.ErrorUserUpdateFail.WithDetails(err.Error())
		}
		user.IsActive = *req.IsActive
	}
	if req.IsValidated != nil && *req.IsValidated != user.IsValidated {
		if err := s.userRepo.SetValidated(ctx, targetUID, *req.IsValidated); err != nil {
			return nil, code.ErrorUserUpdateFail.WithDetails(err.Error())
		}
		user.IsValidated = *req.IsValidated
	}
	if req.Type != "" && req.Type != string(user.Type) {
		if err := s.userRepo.SetType(ctx, targetUID, domain.UserType(req.Type)); err != nil {
			return nil, code.ErrorUserUpdateFail.WithDetails(err.Error())
		}
		user.Type = domain.UserType(req.Type)
	}

	s.logger.Info("user administered",
		zap.Int64(logger.FieldUID, adminUID),
		zap.Int64("target_uid", targetUID))
	return userToDTO(user), nil
}

func (s *adminService) SystemStatus(ctx context.Context, version string) (*dto.SystemStatusDTO, error) {
	status := &dto.SystemStatusDTO{
		OS:           util.GetOSPrettyName(),
		Arch:         runtime.GOARCH,
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		Version:      version,
	}

	if info, err := host.InfoWithContext(ctx); err == nil {
		status.Hostname = info.Hostname
		status.Uptime = (time.Duration(info.Uptime) * time.Second).String()
	}
	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		status.CPUPercent = convert.Round(percents[0], 2)
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		status.MemoryTotal = vm.Total
		status.MemoryUsed = vm.Used
		status.MemoryPercent = convert.Round(vm.UsedPercent, 2)
	}
	if du, err := disk.UsageWithContext(ctx, "/"); err == nil {
		status.DiskTotal = du.Total
		status.DiskUsed = du.Used
		status.DiskPercent = convert.Round(du.UsedPercent, 2)
	}
	return status, nil
}
