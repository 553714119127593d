package handlers_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/email"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/middleware"
)

func signupBody(name, emailAddr, password string) map[string]string {
	return map[string]string{
		"name":            name,
		"email":           emailAddr,
		"password":        password,
		"passwordConfirm": password,
	}
}

func sessionCookie(t *testing.T, res *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range res.Cookies() {
		if c.Name == middleware.CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", middleware.CookieName)
	return nil
}

func TestSignupLoginAndMe(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/api/v1/users/signup", signupBody("Laura Wilson", "Laura@Example.com", "pass1234"), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	b := body(t, rec)
	assert.Equal(t, "success", b["status"])
	assert.NotEmpty(t, b["token"])
	user := dataObject(t, rec, "user")
	assert.Equal(t, "laura@example.com", user["email"])
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "password")

	cookie := sessionCookie(t, rec.Result())
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, b["token"], cookie.Value)

	welcome := e.mail.last(t)
	assert.Equal(t, "laura@example.com", welcome.To)
	assert.Equal(t, email.SubjectWelcome, welcome.Subject)
	assert.Contains(t, welcome.Text, "http://example.com/me")

	rec = e.do(http.MethodPost, "/api/v1/users/login", map[string]string{"email": "laura@example.com", "password": "wrong-pass"}, "")
	assertFail(t, rec, http.StatusUnauthorized, "Incorrect email or password")

	rec = e.do(http.MethodPost, "/api/v1/users/login", map[string]string{"email": "laura@example.com"}, "")
	assertFail(t, rec, http.StatusBadRequest, "Please provide email and password!")

	rec = e.do(http.MethodPost, "/api/v1/users/login", map[string]string{"email": "laura@example.com", "password": "pass1234"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := body(t, rec)["token"].(string)
	require.NotEmpty(t, token)

	rec = e.do(http.MethodGet, "/api/v1/users/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Laura Wilson", dataObject(t, rec, "data")["name"])

	// The cookie alone authenticates too.
	req := request(http.MethodGet, "/api/v1/users/me", nil, "")
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})
	assert.Equal(t, http.StatusOK, e.serve(req).Code)
}

func TestSignupRejectsBadInput(t *testing.T) {
	e := newEnv(t)

	mismatch := signupBody("Laura Wilson", "laura@example.com", "pass1234")
	mismatch["passwordConfirm"] = "pass12345"
	rec := e.do(http.MethodPost, "/api/v1/users/signup", mismatch, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "fail", body(t, rec)["status"])

	rec = e.do(http.MethodPost, "/api/v1/users/signup", signupBody("Laura Wilson", "not-an-email", "pass1234"), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(http.MethodPost, "/api/v1/users/signup", signupBody("Laura Wilson", "laura@example.com", "pass1234"), "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = e.do(http.MethodPost, "/api/v1/users/signup", signupBody("Laura Again", "LAURA@example.com", "pass1234"), "")
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestSignupStoresNameVerbatim(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/api/v1/users/signup", signupBody("  Liam O'Brien <b>  ", "liam@example.com", "pass1234"), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Liam O'Brien <b>", dataObject(t, rec, "user")["name"])

	u, err := e.users.FindActiveByEmail(context.Background(), "liam@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Liam O'Brien <b>", u.Name)
	assert.Contains(t, e.mail.last(t).Text, "Hi Liam,")
}

func TestLogoutReplacesCookie(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodGet, "/api/v1/users/logout", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body(t, rec)["status"])

	cookie := sessionCookie(t, rec.Result())
	assert.Equal(t, "loggedout", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestForgotAndResetPassword(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/api/v1/users/signup", signupBody("Laura Wilson", "laura@example.com", "pass1234"), "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(http.MethodPost, "/api/v1/users/forgotPassword", map[string]string{"email": "nobody@example.com"}, "")
	assertFail(t, rec, http.StatusNotFound, "There is no user with that email address.")

	rec = e.do(http.MethodPost, "/api/v1/users/forgotPassword", map[string]string{"email": "laura@example.com"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Token sent to email!", body(t, rec)["message"])

	msg := e.mail.last(t)
	assert.Equal(t, email.SubjectPasswordReset, msg.Subject)
	const prefix = "http://example.com/api/v1/users/resetPassword/"
	i := strings.Index(msg.Text, prefix)
	require.GreaterOrEqual(t, i, 0, msg.Text)
	resetToken := strings.Fields(msg.Text[i+len(prefix):])[0]
	require.NotEmpty(t, resetToken)

	newPassword := map[string]string{"password": "newpass123", "passwordConfirm": "newpass123"}
	rec = e.do(http.MethodPatch, "/api/v1/users/resetPassword/not-the-token", newPassword, "")
	assertFail(t, rec, http.StatusBadRequest, "Token is invalid or has expired")

	rec = e.do(http.MethodPatch, "/api/v1/users/resetPassword/"+resetToken, newPassword, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, body(t, rec)["token"])

	// Reset tokens are single use.
	rec = e.do(http.MethodPatch, "/api/v1/users/resetPassword/"+resetToken, newPassword, "")
	assertFail(t, rec, http.StatusBadRequest, "Token is invalid or has expired")

	rec = e.do(http.MethodPost, "/api/v1/users/login", map[string]string{"email": "laura@example.com", "password": "pass1234"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = e.do(http.MethodPost, "/api/v1/users/login", map[string]string{"email": "laura@example.com", "password": "newpass123"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateMyPassword(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/api/v1/users/signup", signupBody("Laura Wilson", "laura@example.com", "pass1234"), "")
	require.Equal(t, http.StatusCreated, rec.Code)
	token, _ := body(t, rec)["token"].(string)

	change := map[string]string{"passwordCurrent": "wrong-pass", "password": "newpass123", "passwordConfirm": "newpass123"}
	rec = e.do(http.MethodPatch, "/api/v1/users/updateMyPassword", change, "")
	assertFail(t, rec, http.StatusUnauthorized, middleware.MsgNotLoggedIn)

	rec = e.do(http.MethodPatch, "/api/v1/users/updateMyPassword", change, token)
	assertFail(t, rec, http.StatusUnauthorized, "Your current password is incorrect.")

	change["passwordCurrent"] = "pass1234"
	rec = e.do(http.MethodPatch, "/api/v1/users/updateMyPassword", change, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, body(t, rec)["token"])

	rec = e.do(http.MethodPost, "/api/v1/users/login", map[string]string{"email": "laura@example.com", "password": "newpass123"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
