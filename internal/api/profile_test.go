package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/opaldesk/accounts-backend/internal/middleware"
	"github.com/opaldesk/accounts-backend/internal/mocks"
	"github.com/opaldesk/accounts-backend/internal/service"
	"github.com/opaldesk/accounts-backend/internal/types"
)

// authAs stands in for the auth middleware in handler tests.
func authAs(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextUserID, userID)
		}
		c.Next()
	}
}

func newProfileTestRouter(users service.IUserService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/v1")
	protected := group.Group("", authAs(userID))
	optional := group.Group("", authAs(userID))
	NewProfileHandler(users).RegisterRoutes(protected, optional)
	return router
}

func testProfile(userID string) *types.FullUserProfile {
	return &types.FullUserProfile{
		UserID:   userID,
		Email:    "user@example.com",
		Nickname: "tester",
		Status:   "active",
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGetProfileHandler(t *testing.T) {
	users := new(mocks.MockUserService)
	users.On("GetProfile", mock.Anything, "sub-123").Return(testProfile("sub-123"), nil).Once()
	router := newProfileTestRouter(users, "sub-123")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "sub-123", data["userId"])
	assert.Equal(t, "user@example.com", data["email"])
	users.AssertExpectations(t)
}

func TestGetProfileHandlerNotFound(t *testing.T) {
	users := new(mocks.MockUserService)
	users.On("GetProfile", mock.Anything, "sub-123").Return(nil, service.ErrUserNotFound).Once()
	router := newProfileTestRouter(users, "sub-123")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NotFound", decodeBody(t, w)["error"])
}

func TestGetProfileHandlerUnauthenticated(t *testing.T) {
	users := new(mocks.MockUserService)
	router := newProfileTestRouter(users, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	users.AssertNotCalled(t, "GetProfile", mock.Anything, mock.Anything)
}

func TestUpdateProfileHandler(t *testing.T) {
	users := new(mocks.MockUserService)
	updated := testProfile("sub-123")
	bio := "hello"
	updated.Bio = &bio
	users.On("UpdateProfile", mock.Anything, "sub-123", mock.MatchedBy(func(req *types.UpdateProfileRequest) bool {
		return req.Bio != nil && *req.Bio == "hello"
	})).Return(updated, nil).Once()
	router := newProfileTestRouter(users, "sub-123")

	payload := bytes.NewBufferString(`{"bio":"hello"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", payload)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Profile updated successfully", body["message"])
	users.AssertExpectations(t)
}

func TestUpdateProfileHandlerBadBody(t *testing.T) {
	users := new(mocks.MockUserService)
	router := newProfileTestRouter(users, "sub-123")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfileHandlerNicknameConflict(t *testing.T) {
	users := new(mocks.MockUserService)
	users.On("UpdateProfile", mock.Anything, "sub-123", mock.Anything).
		Return(nil, service.ErrNicknameTaken).Once()
	router := newProfileTestRouter(users, "sub-123")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", bytes.NewBufferString(`{"nickname":"taken"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Conflict", decodeBody(t, w)["error"])
}

func TestCheckNicknameHandler(t *testing.T) {
	users := new(mocks.MockUserService)
	users.On("CheckNicknameAvailability", mock.Anything, "free_name", "").Return(true, nil).Once()
	router := newProfileTestRouter(users, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nickname/check?nickname=free_name", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["available"])
	users.AssertExpectations(t)
}

func TestCheckNicknameHandlerExcludesSelf(t *testing.T) {
	users := new(mocks.MockUserService)
	users.On("CheckNicknameAvailability", mock.Anything, "tester", "sub-123").Return(true, nil).Once()
	router := newProfileTestRouter(users, "sub-123")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nickname/check?nickname=tester", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	users.AssertExpectations(t)
}

func TestCheckNicknameHandlerInvalid(t *testing.T) {
	users := new(mocks.MockUserService)
	router := newProfileTestRouter(users, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nickname/check?nickname=a", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	users.AssertNotCalled(t, "CheckNicknameAvailability", mock.Anything, mock.Anything, mock.Anything)
}
