package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/dto"
	"github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/code"
	"github.com/notefield/notebook-service/pkg/mailer"
	"github.com/notefield/notebook-service/pkg/util"
)

type mockUserRepo struct {
	domain.UserRepository
	users  map[int64]*domain.User
	nextID int64
}

func (m *mockUserRepo) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	if u, ok := m.users[uid]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m.nextID++
	user.UID = m.nextID
	if m.users == nil {
		m.users = make(map[int64]*domain.User)
	}
	m.users[user.UID] = user
	return user, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	m.users[user.UID] = user
	return nil
}

func (m *mockUserRepo) SetValidated(ctx context.Context, uid int64, validated bool) error {
	if u, ok := m.users[uid]; ok {
		u.IsValidated = validated
	}
	return nil
}

func (m *mockUserRepo) UpdateLastAccess(ctx context.Context, uid int64, at time.Time) error {
	return nil
}

type mockMethodRepo struct {
	domain.AuthMethodRepository
	methods []*domain.AuthMethod
}

func (m *mockMethodRepo) Create(ctx context.Context, method *domain.AuthMethod) (*domain.AuthMethod, error) {
	method.ID = int64(len(m.methods) + 1)
	m.methods = append(m.methods, method)
	return method, nil
}

func (m *mockMethodRepo) GetActive(ctx context.Context, uid int64, kind domain.AuthMethodKind) (*domain.AuthMethod, error) {
	for _, method := range m.methods {
		if method.UID == uid && method.Method == kind && method.Status == domain.AuthMethodActive {
			return method, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMethodRepo) GetActiveBySecret(ctx context.Context, kind domain.AuthMethodKind, secret string) (*domain.AuthMethod, error) {
	for _, method := range m.methods {
		if method.Method == kind && method.Secret == secret && method.Status == domain.AuthMethodActive {
			return method, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMethodRepo) GetPending(ctx context.Context, uid int64, kind domain.AuthMethodKind) (*domain.AuthMethod, error) {
	for _, method := range m.methods {
		if method.UID == uid && method.Method == kind && method.Status == domain.AuthMethodPending {
			return method, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMethodRepo) Activate(ctx context.Context, id int64) error {
	for _, method := range m.methods {
		if method.ID == id {
			method.Status = domain.AuthMethodActive
		}
	}
	return nil
}

func (m *mockMethodRepo) Deactivate(ctx context.Context, id int64) error {
	for _, method := range m.methods {
		if method.ID == id {
			method.Status = domain.AuthMethodInactive
		}
	}
	return nil
}

func (m *mockMethodRepo) DeactivateByKind(ctx context.Context, uid int64, kind domain.AuthMethodKind) error {
	for _, method := range m.methods {
		if method.UID == uid && method.Method == kind {
			method.Status = domain.AuthMethodInactive
		}
	}
	return nil
}

func (m *mockMethodRepo) DeactivateAll(ctx context.Context, uid int64) error {
	for _, method := range m.methods {
		if method.UID == uid {
			method.Status = domain.AuthMethodInactive
		}
	}
	return nil
}

func (m *mockMethodRepo) TouchLastUsed(ctx context.Context, id int64, at time.Time) error {
	return nil
}

type mockInviteRepo struct {
	domain.InviteTokenRepository
	tokens []*domain.InviteToken
}

func (m *mockInviteRepo) GetByToken(ctx context.Context, token string) (*domain.InviteToken, error) {
	for _, t := range m.tokens {
		if t.Token == token {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInviteRepo) Exhaust(ctx context.Context, id int64) error {
	for _, t := range m.tokens {
		if t.ID == id {
			t.Exhausted = true
		}
	}
	return nil
}

type mockSettingRepo struct {
	domain.SiteSettingRepository
	values map[string]string
}

func (m *mockSettingRepo) Get(ctx context.Context, name string) (*domain.SiteSetting, error) {
	if v, ok := m.values[name]; ok {
		return &domain.SiteSetting{Name: name, Value: v}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestUserService(users *mockUserRepo, methods *mockMethodRepo, invites *mockInviteRepo, settings *mockSettingRepo) *userService {
	return &userService{
		userRepo:    users,
		methodRepo:  methods,
		inviteRepo:  invites,
		settingRepo: settings,
		tokenManager: app.NewTokenManager(app.TokenConfig{
			SecretKey: "test-secret",
			Issuer:    app.DefaultTokenIssuer,
			Expiry:    time.Hour,
		}),
		mailer: mailer.NewMailer(mailer.Config{}),
		logger: zap.NewNop(),
		config: &ServiceConfig{User: UserServiceConfig{TokenExpiry: time.Hour}},
	}
}

func wantCode(t *testing.T, err error, want *code.Code) {
	t.Helper()
	codeErr, ok := err.(*code.Code)
	if !ok {
		t.Fatalf("got %v (%T), want code %d", err, err, want.Code())
	}
	if codeErr.Code() != want.Code() {
		t.Fatalf("got code %d (%s), want %d", codeErr.Code(), codeErr.Msg(), want.Code())
	}
}

func TestUserRegisterGates(t *testing.T) {
	ctx := context.Background()

	baseReq := func() *dto.UserRegisterRequest {
		return &dto.UserRegisterRequest{
			Email:           "new@example.com",
			Username:        "newuser",
			Password:        "password1",
			ConfirmPassword: "password1",
		}
	}

	t.Run("closed registration", func(t *testing.T) {
		svc := newTestUserService(&mockUserRepo{}, &mockMethodRepo{}, &mockInviteRepo{},
			&mockSettingRepo{values: map[string]string{domain.SettingNewUsers: domain.NewUsersClosed}})
		_, err := svc.Register(ctx, baseReq())
		wantCode(t, err, code.ErrorUserRegisterClosed)
	})

	t.Run("token mode requires a usable token", func(t *testing.T) {
		invites := &mockInviteRepo{tokens: []*domain.InviteToken{
			{ID: 1, Token: "good"},
			{ID: 2, Token: "spent", Exhausted: true},
		}}
		svc := newTestUserService(&mockUserRepo{}, &mockMethodRepo{}, invites,
			&mockSettingRepo{values: map[string]string{domain.SettingNewUsers: domain.NewUsersToken}})

		_, err := svc.Register(ctx, baseReq())
		wantCode(t, err, code.ErrorUserRegisterInviteToken)

		req := baseReq()
		req.InviteToken = "spent"
		_, err = svc.Register(ctx, req)
		wantCode(t, err, code.ErrorUserRegisterInviteToken)

		req = baseReq()
		req.InviteToken = "no-such-token"
		_, err = svc.Register(ctx, req)
		wantCode(t, err, code.ErrorInviteTokenNotFound)

		req = baseReq()
		req.InviteToken = "good"
		if _, err := svc.Register(ctx, req); err != nil {
			t.Fatalf("register with token failed: %v", err)
		}
		if !invites.tokens[0].Exhausted {
			t.Error("invite token not exhausted after use")
		}
	})

	t.Run("weak password", func(t *testing.T) {
		svc := newTestUserService(&mockUserRepo{}, &mockMethodRepo{}, &mockInviteRepo{}, &mockSettingRepo{})
		req := baseReq()
		req.Password = "short1"
		req.ConfirmPassword = "short1"
		_, err := svc.Register(ctx, req)
		wantCode(t, err, code.ErrorUserPasswordWeak)
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := &mockUserRepo{users: map[int64]*domain.User{
			1: {UID: 1, Email: "new@example.com", Username: "other"},
		}, nextID: 1}
		svc := newTestUserService(users, &mockMethodRepo{}, &mockInviteRepo{}, &mockSettingRepo{})
		_, err := svc.Register(ctx, baseReq())
		wantCode(t, err, code.ErrorUserEmailExists)
	})

	t.Run("open registration returns validation token without mailer", func(t *testing.T) {
		users := &mockUserRepo{}
		methods := &mockMethodRepo{}
		svc := newTestUserService(users, methods, &mockInviteRepo{}, &mockSettingRepo{})

		result, err := svc.Register(ctx, baseReq())
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if result.ValidationToken == "" {
			t.Error("expected validation token in response when mail is off")
		}
		if _, err := methods.GetActive(ctx, result.User.UID, domain.AuthMethodPassword); err != nil {
			t.Error("no active password method after register")
		}
	})
}

func TestUserLoginCollapsesFailures(t *testing.T) {
	ctx := context.Background()

	hash, err := util.GeneratePasswordHash("password1")
	if err != nil {
		t.Fatal(err)
	}

	users := &mockUserRepo{users: map[int64]*domain.User{
		1: {UID: 1, Email: "a@example.com", Username: "alice", IsActive: true, IsValidated: true},
		2: {UID: 2, Email: "b@example.com", Username: "bob", IsActive: true, IsValidated: false},
	}, nextID: 2}
	methods := &mockMethodRepo{methods: []*domain.AuthMethod{
		{ID: 1, UID: 1, Method: domain.AuthMethodPassword, Secret: hash, Status: domain.AuthMethodActive},
		{ID: 2, UID: 2, Method: domain.AuthMethodPassword, Secret: hash, Status: domain.AuthMethodActive},
	}}
	svc := newTestUserService(users, methods, &mockInviteRepo{}, &mockSettingRepo{})

	tests := []struct {
		name        string
		credentials string
		password    string
	}{
		{"unknown user", "nobody", "password1"},
		{"unknown email", "nobody@example.com", "password1"},
		{"wrong password", "alice", "wrongpass1"},
		{"unvalidated account", "bob", "password1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &dto.UserLoginRequest{Credentials: tt.credentials, Password: tt.password}, "127.0.0.1")
			wantCode(t, err, code.ErrorInvalidLogin)
		})
	}

	t.Run("email or username both work", func(t *testing.T) {
		for _, cred := range []string{"alice", "a@example.com"} {
			result, err := svc.Login(ctx, &dto.UserLoginRequest{Credentials: cred, Password: "password1"}, "127.0.0.1")
			if err != nil {
				t.Fatalf("login as %q failed: %v", cred, err)
			}
			if result.User == nil || result.User.Token == "" {
				t.Fatalf("login as %q returned no session token", cred)
			}
		}
	})
}

func TestUserLoginRequiresTOTPWhenEnrolled(t *testing.T) {
	ctx := context.Background()

	hash, err := util.GeneratePasswordHash("password1")
	if err != nil {
		t.Fatal(err)
	}

	users := &mockUserRepo{users: map[int64]*domain.User{
		1: {UID: 1, Email: "a@example.com", Username: "alice", IsActive: true, IsValidated: true},
	}, nextID: 1}
	methods := &mockMethodRepo{methods: []*domain.AuthMethod{
		{ID: 1, UID: 1, Method: domain.AuthMethodPassword, Secret: hash, Status: domain.AuthMethodActive},
		{ID: 2, UID: 1, Method: domain.AuthMethodTOTP, Secret: "JBSWY3DPEHPK3PXP", Status: domain.AuthMethodActive},
	}}
	svc := newTestUserService(users, methods, &mockInviteRepo{}, &mockSettingRepo{})

	result, err := svc.Login(ctx, &dto.UserLoginRequest{Credentials: "alice", Password: "password1"}, "127.0.0.1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !result.TOTPRequired {
		t.Error("expected TOTPRequired")
	}
	if result.User != nil {
		t.Error("no session may be issued before the second factor")
	}

	// A wrong code on the second step still fails.
	_, err = svc.LoginTOTP(ctx, &dto.UserLoginTOTPRequest{Credentials: "alice", Password: "password1", Code: "12345"}, "127.0.0.1")
	wantCode(t, err, code.ErrorUserTOTPInvalid)
}

func TestUserRecoveryTokenIsOneShot(t *testing.T) {
	ctx := context.Background()

	users := &mockUserRepo{users: map[int64]*domain.User{
		1: {UID: 1, Email: "a@example.com", Username: "alice", IsActive: true, IsValidated: false},
	}, nextID: 1}
	methods := &mockMethodRepo{}
	svc := newTestUserService(users, methods, &mockInviteRepo{}, &mockSettingRepo{})

	result, err := svc.Recover(ctx, &dto.UserRecoverRequest{Email: "a@example.com"})
	if err != nil {
		t.Fatalf("Recover failed: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected recovery token in response when mail is off")
	}

	login, err := svc.LoginRecovery(ctx, &dto.UserLoginRecoveryRequest{Token: result.Token}, "127.0.0.1")
	if err != nil {
		t.Fatalf("LoginRecovery failed: %v", err)
	}
	if login.User == nil || login.User.Token == "" {
		t.Fatal("recovery login returned no session")
	}
	// Holding a mailed token proves the address.
	if !users.users[1].IsValidated {
		t.Error("recovery login should validate the account")
	}

	_, err = svc.LoginRecovery(ctx, &dto.UserLoginRecoveryRequest{Token: result.Token}, "127.0.0.1")
	wantCode(t, err, code.ErrorInvalidRecovery)
}

func TestUserRecoveryExpiredTokenDies(t *testing.T) {
	ctx := context.Background()

	users := &mockUserRepo{users: map[int64]*domain.User{
		1: {UID: 1, Email: "a@example.com", Username: "alice", IsActive: true, IsValidated: true},
	}, nextID: 1}
	methods := &mockMethodRepo{methods: []*domain.AuthMethod{
		{ID: 1, UID: 1, Method: domain.AuthMethodRecoveryToken, Secret: "stale",
			Status: domain.AuthMethodActive, Expiration: time.Now().Add(-time.Minute)},
	}}
	svc := newTestUserService(users, methods, &mockInviteRepo{}, &mockSettingRepo{})

	_, err := svc.LoginRecovery(ctx, &dto.UserLoginRecoveryRequest{Token: "stale"}, "127.0.0.1")
	wantCode(t, err, code.ErrorInvalidRecovery)

	// Even an expired token is retired on presentation.
	if methods.methods[0].Status == domain.AuthMethodActive {
		t.Error("expired token still active after presentation")
	}
}

func TestUserRecoverDoesNotRevealAccounts(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService(&mockUserRepo{}, &mockMethodRepo{}, &mockInviteRepo{}, &mockSettingRepo{})

	result, err := svc.Recover(ctx, &dto.UserRecoverRequest{Email: "ghost@example.com"})
	if err != nil {
		t.Fatalf("Recover failed: %v", err)
	}
	if !result.Sent || result.Token != "" {
		t.Errorf("unknown address must look like success, got %+v", result)
	}
}

func TestUserUpdateKeepsOmittedNames(t *testing.T) {
	ctx := context.Background()

	users := &mockUserRepo{users: map[int64]*domain.User{
		1: {UID: 1, Email: "a@example.com", Username: "alice", FirstName: "Alice",
			LastName: "Archer", IsActive: true, IsValidated: true},
	}, nextID: 1}
	svc := newTestUserService(users, &mockMethodRepo{}, &mockInviteRepo{}, &mockSettingRepo{})

	first := "Alicia"
	result, err := svc.Update(ctx, 1, &dto.UserUpdateRequest{FirstName: &first})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if result.FirstName != "Alicia" {
		t.Errorf("FirstName = %q, want %q", result.FirstName, "Alicia")
	}
	if result.LastName != "Archer" {
		t.Errorf("omitted LastName was changed to %q", result.LastName)
	}

	empty := ""
	result, err = svc.Update(ctx, 1, &dto.UserUpdateRequest{LastName: &empty})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if result.LastName != "" {
		t.Errorf("explicit empty LastName not applied, got %q", result.LastName)
	}
	if result.FirstName != "Alicia" {
		t.Errorf("omitted FirstName was changed to %q", result.FirstName)
	}
}

func TestUserValidateIsOneShot(t *testing.T) {
	ctx := context.Background()

	users := &mockUserRepo{users: map[int64]*domain.User{
		1: {UID: 1, Email: "a@example.com", Username: "alice", IsActive: true},
	}, nextID: 1}
	methods := &mockMethodRepo{methods: []*domain.AuthMethod{
		{ID: 1, UID: 1, Method: domain.AuthMethodValidationToken, Secret: "tok",
			Status: domain.AuthMethodActive, Expiration: time.Now().Add(time.Hour)},
	}}
	svc := newTestUserService(users, methods, &mockInviteRepo{}, &mockSettingRepo{})

	if err := svc.Validate(ctx, &dto.UserValidateRequest{Token: "tok"}); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !users.users[1].IsValidated {
		t.Error("user not validated")
	}

	err := svc.Validate(ctx, &dto.UserValidateRequest{Token: "tok"})
	wantCode(t, err, code.ErrorUserValidationToken)
}
