package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/voter-api/internal/domain"
)

// --- mock ---

type mockSessionSvc struct{ mock.Mock }

func (m *mockSessionSvc) Create(ctx context.Context, ownerID string, req domain.CreateSessionRequest) (*domain.Session, error) {
	args := m.Called(ctx, ownerID, req)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionSvc) Get(ctx context.Context, code string) (*domain.Session, error) {
	args := m.Called(ctx, code)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionSvc) ListMine(ctx context.Context, ownerID string) ([]domain.Session, error) {
	args := m.Called(ctx, ownerID)
	list, _ := args.Get(0).([]domain.Session)
	return list, args.Error(1)
}
func (m *mockSessionSvc) UpdateSettings(ctx context.Context, code, ownerID string, req domain.SessionSettingsRequest) (*domain.Session, error) {
	args := m.Called(ctx, code, ownerID, req)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionSvc) Delete(ctx context.Context, code, ownerID string) error {
	return m.Called(ctx, code, ownerID).Error(0)
}
func (m *mockSessionSvc) IsOwner(ctx context.Context, code, userID string) (bool, error) {
	args := m.Called(ctx, code, userID)
	return args.Bool(0), args.Error(1)
}

// --- tests ---

func TestCreateSession_UsesCallerAsOwner(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSessionSvc{}
	svc.On("Create", mock.Anything, "owner", domain.CreateSessionRequest{Title: "Council Election"}).
		Return(&domain.Session{Code: "ABCD1234", Title: "Council Election", OwnerID: "owner"}, nil)

	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(NewSessionHandler(svc).Create), rr,
		bearerReq(t, p, http.MethodPost, "/session/create", "owner", domain.CreateSessionRequest{Title: "Council Election"}))

	assert.Equal(t, http.StatusOK, rr.Code)
	var env SessionCreatedEnvelope
	decodeBody(t, rr, &env)
	assert.Equal(t, "Session created", env.Message)
	assert.Equal(t, "ABCD1234", env.Code)
	svc.AssertExpectations(t)
}

func TestCreateSession_BlankTitle(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSessionSvc{}
	svc.On("Create", mock.Anything, "owner", mock.Anything).Return(nil, fmt.Errorf("Title is required: %w", domain.ErrBadRequest))

	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(NewSessionHandler(svc).Create), rr,
		bearerReq(t, p, http.MethodPost, "/session/create", "owner", map[string]string{"title": ""}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Title is required"}`, rr.Body.String())
}

func TestGetSession_NotFound(t *testing.T) {
	svc := &mockSessionSvc{}
	svc.On("Get", mock.Anything, "nope").Return(nil, fmt.Errorf("session not found: %w", domain.ErrNotFound))

	rr := httptest.NewRecorder()
	NewSessionHandler(svc).Get(rr, withChiParams(jsonReq(t, http.MethodGet, "/session/nope", nil), "code", "nope"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"session not found"}`, rr.Body.String())
}

func TestListMine_EmptyArray(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSessionSvc{}
	svc.On("ListMine", mock.Anything, "owner").Return([]domain.Session{}, nil)

	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(NewSessionHandler(svc).ListMine), rr,
		bearerReq(t, p, http.MethodGet, "/session/my-sessions", "owner", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestDeleteSession_Forbidden(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSessionSvc{}
	svc.On("Delete", mock.Anything, "ABCD1234", "intruder").Return(fmt.Errorf("Only session owner can delete the session: %w", domain.ErrForbidden))

	r := withChiParams(bearerReq(t, p, http.MethodDelete, "/session/ABCD1234", "intruder", nil), "code", "ABCD1234")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(NewSessionHandler(svc).Delete), rr, r)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestVerifyOwner(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSessionSvc{}
	svc.On("IsOwner", mock.Anything, "ABCD1234", "owner").Return(true, nil)

	r := withChiParams(bearerReq(t, p, http.MethodGet, "/session/ABCD1234/verify-owner", "owner", nil), "code", "ABCD1234")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(NewSessionHandler(svc).VerifyOwner), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"isOwner":true}`, rr.Body.String())
}

func TestUpdateSettings(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSessionSvc{}
	svc.On("UpdateSettings", mock.Anything, "ABCD1234", "owner", domain.SessionSettingsRequest{PublicResults: true}).
		Return(&domain.Session{Code: "ABCD1234", PublicResults: true}, nil)

	r := withChiParams(bearerReq(t, p, http.MethodPut, "/session/ABCD1234/settings/public", "owner",
		domain.SessionSettingsRequest{PublicResults: true}), "code", "ABCD1234")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(NewSessionHandler(svc).UpdateSettings), rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Settings updated","publicResults":true}`, rr.Body.String())
}
