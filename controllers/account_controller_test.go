package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/autoflow/autoflow_backend/controllers"
	"github.com/autoflow/autoflow_backend/middleware"
	"github.com/autoflow/autoflow_backend/models"
)

func TestRegisterSuccess(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	users := new(MockUserRepository)
	users.On("FindByUsername", mock.Anything, "alice").Return(nil, mongo.ErrNoDocuments)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "alice" &&
			u.Role == models.RoleUser &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret123")) == nil
	})).Return(primitive.NewObjectID(), nil)

	ctrl := controllers.NewAccountController(users)
	c, rec := newJSONContext(newEcho(), http.MethodPost, "/Account/Register",
		`{"username":"alice","password":"secret123","confirmPassword":"secret123"}`)

	require.NoError(t, ctrl.Register(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, models.RoleUser, body["role"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.AuthCookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	users.AssertExpectations(t)
}

func TestRegisterUsernameTaken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	users := new(MockUserRepository)
	users.On("FindByUsername", mock.Anything, "alice").
		Return(&models.User{Username: "alice"}, nil)

	ctrl := controllers.NewAccountController(users)
	c, rec := newJSONContext(newEcho(), http.MethodPost, "/Account/Register",
		`{"username":"alice","password":"secret123","confirmPassword":"secret123"}`)

	require.NoError(t, ctrl.Register(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Username is already taken", body["message"])
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterDuplicateRace(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	users := new(MockUserRepository)
	users.On("FindByUsername", mock.Anything, "alice").Return(nil, mongo.ErrNoDocuments)
	users.On("Create", mock.Anything, mock.Anything).
		Return(primitive.NilObjectID, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}})

	ctrl := controllers.NewAccountController(users)
	c, rec := newJSONContext(newEcho(), http.MethodPost, "/Account/Register",
		`{"username":"alice","password":"secret123","confirmPassword":"secret123"}`)

	require.NoError(t, ctrl.Register(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"short username", `{"username":"al","password":"secret123","confirmPassword":"secret123"}`},
		{"short password", `{"username":"alice","password":"abc","confirmPassword":"abc"}`},
		{"password mismatch", `{"username":"alice","password":"secret123","confirmPassword":"secret124"}`},
		{"missing fields", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			ctrl := controllers.NewAccountController(users)
			c, rec := newJSONContext(newEcho(), http.MethodPost, "/Account/Register", tt.body)

			require.NoError(t, ctrl.Register(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			users.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(MockUserRepository)
	users.On("FindByUsername", mock.Anything, "alice").Return(&models.User{
		ID:       primitive.NewObjectID(),
		Username: "alice",
		Password: string(hash),
		Role:     models.RoleUser,
	}, nil)

	ctrl := controllers.NewAccountController(users)
	c, rec := newJSONContext(newEcho(), http.MethodPost, "/Account/Login",
		`{"username":"alice","password":"secret123"}`)

	require.NoError(t, ctrl.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "alice", body["username"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.AuthCookieName, cookies[0].Name)
}

func TestLoginWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(MockUserRepository)
	users.On("FindByUsername", mock.Anything, "alice").Return(&models.User{
		ID:       primitive.NewObjectID(),
		Username: "alice",
		Password: string(hash),
	}, nil)

	ctrl := controllers.NewAccountController(users)
	c, rec := newJSONContext(newEcho(), http.MethodPost, "/Account/Login",
		`{"username":"alice","password":"wrong"}`)

	require.NoError(t, ctrl.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid username or password", body["message"])
	assert.Empty(t, rec.Result().Cookies())
}

func TestLoginUnknownUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	users := new(MockUserRepository)
	users.On("FindByUsername", mock.Anything, "ghost").Return(nil, mongo.ErrNoDocuments)

	ctrl := controllers.NewAccountController(users)
	c, rec := newJSONContext(newEcho(), http.MethodPost, "/Account/Login",
		`{"username":"ghost","password":"whatever"}`)

	require.NoError(t, ctrl.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid username or password", body["message"])
}

func TestLogoutClearsCookie(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	ctrl := controllers.NewAccountController(new(MockUserRepository))
	c, rec := newJSONContext(newEcho(), http.MethodPost, "/Account/Logout", "")

	require.NoError(t, ctrl.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.AuthCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestCurrentUserAuthenticated(t *testing.T) {
	ctrl := controllers.NewAccountController(new(MockUserRepository))
	c, rec := newJSONContext(newEcho(), http.MethodGet, "/Account/CurrentUser", "")
	setCaller(c, &models.Caller{ID: primitive.NewObjectID(), Role: models.RoleAdmin})
	c.Set("username", "root")

	require.NoError(t, ctrl.CurrentUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["isAuthenticated"])
	assert.Equal(t, "root", body["username"])
	assert.Equal(t, models.RoleAdmin, body["role"])
}

func TestCurrentUserAnonymous(t *testing.T) {
	ctrl := controllers.NewAccountController(new(MockUserRepository))
	c, rec := newJSONContext(newEcho(), http.MethodGet, "/Account/CurrentUser", "")

	require.NoError(t, ctrl.CurrentUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, false, body["isAuthenticated"])
}
