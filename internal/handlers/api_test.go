package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hunstagram/internal/db"
	"hunstagram/internal/router"
	"hunstagram/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type memoryBlobStore struct {
	uploads int
}

func (m *memoryBlobStore) Upload(data []byte, contentType string) (string, error) {
	m.uploads++
	return fmt.Sprintf("https://blob.test/object-%d", m.uploads), nil
}

func (m *memoryBlobStore) Delete(url string) error {
	return nil
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	r := gin.New()
	router.RegisterRoutes(r, gdb, services.NewTokenService("test-secret"), &memoryBlobStore{})
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// signup runs both signup phases and logs the user in, returning the access
// token.
func signup(t *testing.T, r *gin.Engine, email, nickname string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/v1/users", "", gin.H{
		"email": email, "password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("signup phase 1: status %d, body %s", w.Code, w.Body.String())
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	form.WriteField("email", email)
	form.WriteField("password", "password123")
	form.WriteField("name", "Test "+nickname)
	form.WriteField("nickname", nickname)
	form.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/users/info", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup phase 2: status %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/v1/users/login", "", gin.H{
		"email": email, "password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d, body %s", w.Code, w.Body.String())
	}
	var tokens map[string]string
	decode(t, w, &tokens)
	if tokens["accessToken"] == "" {
		t.Fatal("login returned no access token")
	}
	return tokens["accessToken"]
}

func createPostRequest(t *testing.T, r *gin.Engine, token, content string, hashtags []string, imageCount int) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if content != "" {
		form.WriteField("content", content)
	}
	for _, tag := range hashtags {
		form.WriteField("hashtags", tag)
	}
	for i := 0; i < imageCount; i++ {
		part, err := form.CreateFormFile("images", fmt.Sprintf("photo%d.jpg", i))
		if err != nil {
			t.Fatal(err)
		}
		part.Write([]byte("jpegdata"))
	}
	form.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/posts", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type profileBody struct {
	UserID         uint   `json:"user_id"`
	Nickname       string `json:"nickname"`
	FollowerCount  string `json:"follower_count"`
	FollowingCount string `json:"following_count"`
	PostCount      string `json:"post_count"`
	PostThumbnails []struct {
		PostID    uint   `json:"post_id"`
		Thumbnail string `json:"thumbnail"`
	} `json:"post_thumbnails"`
	IsFollowing *bool `json:"is_following"`
}

type errorBody struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

func TestSignupPostLikeFollowFlow(t *testing.T) {
	r := newTestServer(t)

	tokenA := signup(t, r, "alice@example.com", "alice")
	tokenB := signup(t, r, "bob@example.com", "bob")

	w := createPostRequest(t, r, tokenA, "first post", []string{"go", "web"}, 1)
	if w.Code != http.StatusCreated {
		t.Fatalf("create post: status %d, body %s", w.Code, w.Body.String())
	}

	// Alice's own profile reveals the new post's id and thumbnail.
	w = doJSON(t, r, http.MethodGet, "/v1/users/profile", tokenA, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("own profile: status %d, body %s", w.Code, w.Body.String())
	}
	var alice profileBody
	decode(t, w, &alice)
	if alice.PostCount != "1" || len(alice.PostThumbnails) != 1 {
		t.Fatalf("profile after post = %+v", alice)
	}
	postID := alice.PostThumbnails[0].PostID
	if alice.PostThumbnails[0].Thumbnail == "" {
		t.Error("post thumbnail is empty")
	}

	// Bob likes the post, then unlikes it with the same call.
	var toggle struct {
		Added bool `json:"added"`
	}
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/v1/posts/%d/like", postID), tokenB, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("like: status %d, body %s", w.Code, w.Body.String())
	}
	decode(t, w, &toggle)
	if !toggle.Added {
		t.Error("first like: added = false, want true")
	}
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/v1/posts/%d/like", postID), tokenB, nil)
	decode(t, w, &toggle)
	if toggle.Added {
		t.Error("second like: added = true, want false")
	}

	// Bob follows Alice.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/v1/follow/%d", alice.UserID), tokenB, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("follow: status %d, body %s", w.Code, w.Body.String())
	}
	decode(t, w, &toggle)
	if !toggle.Added {
		t.Error("follow: added = false, want true")
	}

	// Alice's profile as seen by Bob reflects the follow.
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/v1/users/%d/profile", alice.UserID), tokenB, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("profile view: status %d, body %s", w.Code, w.Body.String())
	}
	var viewed profileBody
	decode(t, w, &viewed)
	if viewed.FollowerCount != "1" {
		t.Errorf("follower_count = %q, want \"1\"", viewed.FollowerCount)
	}
	if viewed.IsFollowing == nil || !*viewed.IsFollowing {
		t.Error("is_following missing or false on a followed profile")
	}

	// The follower listing is public.
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/v1/follow/%d/follower", alice.UserID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("followers: status %d, body %s", w.Code, w.Body.String())
	}
	var followers []struct {
		Nickname string `json:"nickname"`
	}
	decode(t, w, &followers)
	if len(followers) != 1 || followers[0].Nickname != "bob" {
		t.Errorf("followers = %+v, want just bob", followers)
	}
}

func TestOwnershipAndAuthErrors(t *testing.T) {
	r := newTestServer(t)

	tokenA := signup(t, r, "alice@example.com", "alice")
	tokenB := signup(t, r, "bob@example.com", "bob")

	if w := createPostRequest(t, r, tokenA, "mine", nil, 1); w.Code != http.StatusCreated {
		t.Fatalf("create post: status %d, body %s", w.Code, w.Body.String())
	}
	var alice profileBody
	w := doJSON(t, r, http.MethodGet, "/v1/users/profile", tokenA, nil)
	decode(t, w, &alice)
	postID := alice.PostThumbnails[0].PostID

	// Bob cannot edit Alice's post.
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/v1/posts/%d", postID), tokenB, gin.H{"content": "stolen"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign patch: status %d, body %s", w.Code, w.Body.String())
	}
	var body errorBody
	decode(t, w, &body)
	if body.ErrorCode != "NOT_POST_OWNER" {
		t.Errorf("errorCode = %q, want NOT_POST_OWNER", body.ErrorCode)
	}

	// A post without any image is rejected.
	w = createPostRequest(t, r, tokenB, "no pics", nil, 0)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("imageless post: status %d, body %s", w.Code, w.Body.String())
	}
	decode(t, w, &body)
	if body.ErrorCode != "IMAGE_REQUIRED" {
		t.Errorf("errorCode = %q, want IMAGE_REQUIRED", body.ErrorCode)
	}

	// No token at all.
	w = doJSON(t, r, http.MethodGet, "/v1/users/profile", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated: status %d, body %s", w.Code, w.Body.String())
	}
	decode(t, w, &body)
	if body.ErrorCode != "TOKEN_NOT_FOUND" {
		t.Errorf("errorCode = %q, want TOKEN_NOT_FOUND", body.ErrorCode)
	}

	// Garbage token.
	w = doJSON(t, r, http.MethodGet, "/v1/users/profile", "garbage", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status %d, body %s", w.Code, w.Body.String())
	}
	decode(t, w, &body)
	if body.ErrorCode != "INVALID_TOKEN" {
		t.Errorf("errorCode = %q, want INVALID_TOKEN", body.ErrorCode)
	}

	// Wrong method on a known route.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/v1/posts/%d", postID), tokenA, nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("wrong method: status %d, body %s", w.Code, w.Body.String())
	}
	decode(t, w, &body)
	if body.ErrorCode != "METHOD_NOT_ALLOWED" {
		t.Errorf("errorCode = %q, want METHOD_NOT_ALLOWED", body.ErrorCode)
	}
}

func TestRefreshEndpoint(t *testing.T) {
	r := newTestServer(t)
	signup(t, r, "alice@example.com", "alice")

	w := doJSON(t, r, http.MethodPost, "/v1/users/login", "", gin.H{
		"email": "alice@example.com", "password": "password123",
	})
	var tokens map[string]string
	decode(t, w, &tokens)

	// A fresh 8 week token refreshes without rotation.
	w = doJSON(t, r, http.MethodPost, "/v1/users/refresh", tokens["refreshToken"], nil)
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: status %d, body %s", w.Code, w.Body.String())
	}
	var refreshed map[string]string
	decode(t, w, &refreshed)
	if refreshed["accessToken"] == "" {
		t.Error("refresh returned no access token")
	}
	if _, ok := refreshed["refreshToken"]; ok {
		t.Error("refresh rotated a fresh token")
	}

	// An access token is not a valid refresh token once the session is checked.
	w = doJSON(t, r, http.MethodPost, "/v1/users/refresh", tokens["accessToken"], nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh with access token: status %d, body %s", w.Code, w.Body.String())
	}

	// Logout kills the stored session.
	w = doJSON(t, r, http.MethodPost, "/v1/users/logout", tokens["accessToken"], nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: status %d, body %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPost, "/v1/users/refresh", tokens["refreshToken"], nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout: status %d, body %s", w.Code, w.Body.String())
	}
}

func TestValidationErrors(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/v1/users", "", gin.H{
		"email": "not-an-email", "password": "password123",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad email: status %d, body %s", w.Code, w.Body.String())
	}
	var body errorBody
	decode(t, w, &body)
	if body.ErrorCode != "INVALID_INPUT" {
		t.Errorf("errorCode = %q, want INVALID_INPUT", body.ErrorCode)
	}

	w = doJSON(t, r, http.MethodPost, "/v1/users", "", gin.H{
		"email": "alice@example.com", "password": "short",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("short password: status %d, body %s", w.Code, w.Body.String())
	}
}
