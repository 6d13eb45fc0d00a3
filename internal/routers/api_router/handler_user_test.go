package api_router

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/notefield/notebook-service/internal/app"
	"github.com/notefield/notebook-service/internal/dto"
	"github.com/notefield/notebook-service/internal/service"
	"github.com/notefield/notebook-service/pkg/code"
)

type totpGateUserService struct {
	service.UserService
}

func (s *totpGateUserService) Login(ctx context.Context, req *dto.UserLoginRequest, ip string) (*dto.LoginResultDTO, error) {
	return &dto.LoginResultDTO{TOTPRequired: true}, nil
}

func TestLoginRespondsTOTPRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewUserHandler(&app.App{UserService: &totpGateUserService{}})
	r := gin.New()
	r.POST("/user/login", h.Login)

	body := `{"credentials":"alice","password":"password1"}`
	req := httptest.NewRequest("POST", "/user/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var res struct {
		Code   int             `json:"code"`
		Status bool            `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if res.Code != code.ErrorUserTOTPRequired.Code() {
		t.Errorf("code = %d, want %d", res.Code, code.ErrorUserTOTPRequired.Code())
	}
	if res.Status {
		t.Error("status = true, want false")
	}
	if len(res.Data) != 0 {
		t.Errorf("no session data may leak before the second factor, got %s", res.Data)
	}
}
