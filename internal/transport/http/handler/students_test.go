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
	"github.com/voter-api/internal/application/student"
	"github.com/voter-api/internal/domain"
)

// --- mock ---

type mockStudentSvc struct{ mock.Mock }

func (m *mockStudentSvc) SendLoginCode(ctx context.Context, collegeID string) error {
	return m.Called(ctx, collegeID).Error(0)
}
func (m *mockStudentSvc) VerifyLoginCode(ctx context.Context, req domain.VerifyLoginCodeRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
func (m *mockStudentSvc) GetStudent(ctx context.Context, idNo string) (*domain.Student, error) {
	args := m.Called(ctx, idNo)
	if s, _ := args.Get(0).(*domain.Student); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStudentSvc) Register(ctx context.Context, reg student.Registration) error {
	return m.Called(ctx, reg).Error(0)
}
func (m *mockStudentSvc) ListApprovedCandidates(ctx context.Context) ([]domain.Student, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.Student)
	return list, args.Error(1)
}
func (m *mockStudentSvc) CastVote(ctx context.Context, req domain.StudentVoteRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *mockStudentSvc) ListStudents(ctx context.Context) ([]domain.Student, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.Student)
	return list, args.Error(1)
}
func (m *mockStudentSvc) ListVotes(ctx context.Context) ([]domain.StudentVote, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.StudentVote)
	return list, args.Error(1)
}
func (m *mockStudentSvc) ListPendingCandidates(ctx context.Context) ([]domain.Student, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.Student)
	return list, args.Error(1)
}
func (m *mockStudentSvc) ApproveCandidate(ctx context.Context, collegeID string) error {
	return m.Called(ctx, collegeID).Error(0)
}
func (m *mockStudentSvc) Results(ctx context.Context) (*domain.Results, error) {
	args := m.Called(ctx)
	if r, _ := args.Get(0).(*domain.Results); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- login codes ---

func TestSendOTP_AcceptsNumericCollegeID(t *testing.T) {
	svc := &mockStudentSvc{}
	svc.On("SendLoginCode", mock.Anything, "2021001").Return(nil)

	rr := httptest.NewRecorder()
	NewStudentHandler(svc).SendOTP(rr, jsonReq(t, http.MethodPost, "/otp/send-otp", `{"collegeId": 2021001}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestSendOTP_MissingCollegeID(t *testing.T) {
	svc := &mockStudentSvc{}
	rr := httptest.NewRecorder()
	NewStudentHandler(svc).SendOTP(rr, jsonReq(t, http.MethodPost, "/otp/send-otp", `{}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "SendLoginCode", mock.Anything, mock.Anything)
}

func TestVerifyOTP_ReturnsToken(t *testing.T) {
	svc := &mockStudentSvc{}
	svc.On("VerifyLoginCode", mock.Anything, domain.VerifyLoginCodeRequest{CollegeID: "2021001", OTP: "123456"}).Return("student-token", nil)

	rr := httptest.NewRecorder()
	NewStudentHandler(svc).VerifyOTP(rr, jsonReq(t, http.MethodPost, "/otp/verify-otp", `{"collegeId":"2021001","otp":"123456"}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	var env TokenEnvelope
	decodeBody(t, rr, &env)
	assert.Equal(t, "student-token", env.Token)
}

func TestUserDetails_FromStudentToken(t *testing.T) {
	p := newTestJWTProvider(t)
	token, err := p.SignStudent("2021001", "Carol Danvers", domain.RoleUser)
	require.NoError(t, err)

	r := jsonReq(t, http.MethodGet, "/user-details", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(NewStudentHandler(&mockStudentSvc{}).UserDetails), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"fullName":"Carol Danvers"}`, rr.Body.String())
}

// --- registration ---

func TestRegister_Candidate(t *testing.T) {
	svc := &mockStudentSvc{}
	svc.On("Register", mock.Anything, student.CandidateRegistration{IDNo: "2021002", Manifesto: "Free wifi"}).Return(nil)

	rr := httptest.NewRecorder()
	NewStudentHandler(svc).Register(rr, jsonReq(t, http.MethodPost, "/register",
		`{"idNo":"2021002","role":"candidate","manifesto":"Free wifi"}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Registration successful","role":"candidate"}`, rr.Body.String())
}

func TestRegister_InvalidRole(t *testing.T) {
	svc := &mockStudentSvc{}
	rr := httptest.NewRecorder()
	NewStudentHandler(svc).Register(rr, jsonReq(t, http.MethodPost, "/register", `{"idNo":"2021002","role":"mayor"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_AlreadyRegistered(t *testing.T) {
	svc := &mockStudentSvc{}
	svc.On("Register", mock.Anything, student.VoterRegistration{IDNo: "2021001"}).
		Return(fmt.Errorf("You have already registered.: %w", domain.ErrBadRequest))

	rr := httptest.NewRecorder()
	NewStudentHandler(svc).Register(rr, jsonReq(t, http.MethodPost, "/register", `{"idNo":2021001,"role":"voter"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"You have already registered."}`, rr.Body.String())
}

// --- legacy vote ---

func TestLegacyVote_Forbidden(t *testing.T) {
	svc := &mockStudentSvc{}
	svc.On("CastVote", mock.Anything, domain.StudentVoteRequest{VoterID: "2021003", CandidateID: "2021002"}).
		Return(fmt.Errorf("Only registered voters can vote: %w", domain.ErrForbidden))

	rr := httptest.NewRecorder()
	NewStudentHandler(svc).Vote(rr, jsonReq(t, http.MethodPost, "/vote", `{"voterId":"2021003","candidateId":2021002}`))

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

// --- admin ---

func TestApproveCandidate_NotPending(t *testing.T) {
	svc := &mockStudentSvc{}
	svc.On("ApproveCandidate", mock.Anything, "2021001").
		Return(fmt.Errorf("Candidate not found or already approved: %w", domain.ErrNotFound))

	rr := httptest.NewRecorder()
	NewAdminHandler(svc).ApproveCandidate(rr, jsonReq(t, http.MethodPost, "/admin/approve-candidate", `{"collegeId":"2021001"}`))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Candidate not found or already approved"}`, rr.Body.String())
}

func TestApproveCandidate_HappyPath(t *testing.T) {
	svc := &mockStudentSvc{}
	svc.On("ApproveCandidate", mock.Anything, "2021002").Return(nil)

	rr := httptest.NewRecorder()
	NewAdminHandler(svc).ApproveCandidate(rr, jsonReq(t, http.MethodPost, "/admin/approve-candidate", `{"collegeId":2021002}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Candidate approved successfully"}`, rr.Body.String())
}

func TestAdminPendingCandidates(t *testing.T) {
	svc := &mockStudentSvc{}
	svc.On("ListPendingCandidates", mock.Anything).Return([]domain.Student{
		{IDNo: "2021002", FullName: "Dan", Role: domain.StudentRoleCandidate, Registered: true},
	}, nil)

	rr := httptest.NewRecorder()
	NewAdminHandler(svc).PendingCandidates(rr, jsonReq(t, http.MethodGet, "/admin/pending-candidates", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var list []domain.Student
	decodeBody(t, rr, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Dan", list[0].FullName)
}
