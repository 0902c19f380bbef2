package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"userboard/internal/models"
	"userboard/internal/service"

	"github.com/stretchr/testify/require"
)

func postForm(r http.Handler, path string, form url.Values, cookie string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: cookie})
	}
	r.ServeHTTP(w, req)
	return w
}

func signupMultipart(t *testing.T, fields map[string]string, imageName, imageType string, imageData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if imageName != "" {
		hdr := make(map[string][]string)
		hdr["Content-Disposition"] = []string{`form-data; name="profileImage"; filename="` + imageName + `"`}
		hdr["Content-Type"] = []string{imageType}
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(imageData)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestSignUp_SuccessWithImage(t *testing.T) {
	jpeg := []byte{0xff, 0xd8, 0xff, 0xe0, 0x01, 0x02}
	auth := &mockAuth{signUpID: 42}
	r := newTestRouter(&service.Service{Auth: auth, Profiles: &mockProfiles{}})

	body, contentType := signupMultipart(t, map[string]string{
		"username":  "alice",
		"password":  "p@ss1234",
		"birthdate": "2000-01-01",
	}, "me.jpg", "image/jpeg", jpeg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signup", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), msgSignupDone)

	require.Equal(t, "alice", auth.lastSignUp.Username)
	require.Equal(t, "p@ss1234", auth.lastSignUp.Password)
	require.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), auth.lastSignUp.Birthdate)
	require.NotNil(t, auth.lastSignUp.Image)
	require.Equal(t, jpeg, auth.lastSignUp.Image.Data)
	require.Equal(t, "image/jpeg", auth.lastSignUp.Image.ContentType)
}

func TestSignUp_WithoutImage(t *testing.T) {
	auth := &mockAuth{signUpID: 42}
	r := newTestRouter(&service.Service{Auth: auth, Profiles: &mockProfiles{}})

	body, contentType := signupMultipart(t, map[string]string{
		"username":  "bob",
		"password":  "secret",
		"birthdate": "1999-12-31",
	}, "", "", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signup", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, auth.lastSignUp.Image)
}

func TestSignUp_DuplicateUsername(t *testing.T) {
	auth := &mockAuth{signUpErr: service.ErrUsernameTaken}
	r := newTestRouter(&service.Service{Auth: auth, Profiles: &mockProfiles{}})

	body, contentType := signupMultipart(t, map[string]string{
		"username":  "alice",
		"password":  "p@ss1234",
		"birthdate": "2000-01-01",
	}, "", "", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signup", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), msgUsernameTaken)
}

func TestSignUp_MissingFields(t *testing.T) {
	auth := &mockAuth{}
	r := newTestRouter(&service.Service{Auth: auth, Profiles: &mockProfiles{}})

	w := postForm(r, "/signup", url.Values{"username": {"alice"}}, "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, auth.lastSignUp.Username, "service must not be called for an invalid form")
}

func TestLogin_SuccessSetsCookieAndRedirects(t *testing.T) {
	sess := testSession(7, "alice")
	auth := &mockAuth{loginSess: sess, loginCookie: "signed-cookie-value"}
	r := newTestRouter(&service.Service{Auth: auth, Profiles: &mockProfiles{}})

	w := postForm(r, "/login", url.Values{
		"username": {"alice"},
		"password": {"p@ss1234"},
	}, "")

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/profile/7", w.Header().Get("Location"))

	var sessionCookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == sessionCookieName {
			sessionCookie = ck
		}
	}
	require.NotNil(t, sessionCookie, "session cookie must be set")
	require.Equal(t, "signed-cookie-value", sessionCookie.Value)
	require.True(t, sessionCookie.HttpOnly)
	require.False(t, sessionCookie.Secure)
	require.Equal(t, 86400, sessionCookie.MaxAge)
}

func TestLogin_UnknownUser(t *testing.T) {
	auth := &mockAuth{loginErr: service.ErrUserNotFound}
	r := newTestRouter(&service.Service{Auth: auth, Profiles: &mockProfiles{}})

	w := postForm(r, "/login", url.Values{"username": {"ghost"}, "password": {"x"}}, "")

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), msgUserNotFound)
	require.Empty(t, w.Result().Cookies())
}

func TestLogin_WrongPassword(t *testing.T) {
	auth := &mockAuth{loginErr: service.ErrWrongPassword}
	r := newTestRouter(&service.Service{Auth: auth, Profiles: &mockProfiles{}})

	w := postForm(r, "/login", url.Values{"username": {"alice"}, "password": {"nope"}}, "")

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), msgWrongPassword)
}

func TestLogout_WithoutSessionIsNoopRedirect(t *testing.T) {
	auth := &mockAuth{}
	r := newTestRouter(&service.Service{Auth: auth, Profiles: &mockProfiles{}})

	w := postForm(r, "/logout", url.Values{}, "")

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
	require.Empty(t, auth.lastLogoutToken, "store must not be touched without a session")
}

func TestLogout_DestroysSession(t *testing.T) {
	sess := testSession(7, "alice")
	auth := &mockAuth{sessByCookie: map[string]*models.Session{"c1": sess}}
	r := newTestRouter(&service.Service{Auth: auth, Profiles: &mockProfiles{}})

	w := postForm(r, "/logout", url.Values{}, "c1")

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
	require.Equal(t, sess.Token, auth.lastLogoutToken)
}

func TestLogout_StoreError(t *testing.T) {
	sess := testSession(7, "alice")
	auth := &mockAuth{
		sessByCookie: map[string]*models.Session{"c1": sess},
		logoutErr:    errTest,
	}
	r := newTestRouter(&service.Service{Auth: auth, Profiles: &mockProfiles{}})

	w := postForm(r, "/logout", url.Values{}, "c1")

	require.Equal(t, http.StatusInternalServerError, w.Code)
}
