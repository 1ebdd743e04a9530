package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"hunstagram/internal/db"
	"hunstagram/internal/models"
	"hunstagram/internal/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens an isolated in-memory database with the production schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return gdb
}

// fakeBlobStore records uploads and deletions without leaving the process.
type fakeBlobStore struct {
	uploads    int
	deleted    []string
	failUpload bool
}

func (f *fakeBlobStore) Upload(data []byte, contentType string) (string, error) {
	if f.failUpload {
		return "", fmt.Errorf("upload refused")
	}
	f.uploads++
	return fmt.Sprintf("https://blob.test/object-%d", f.uploads), nil
}

func (f *fakeBlobStore) Delete(url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func testTokenService() *TokenService {
	return NewTokenService("test-secret")
}

func newTestUserService(gdb *gorm.DB, tokens *TokenService, blobs BlobStore) *UserService {
	return NewUserService(gdb, tokens, blobs, utils.NewCache(64))
}

func createUser(t *testing.T, gdb *gorm.DB, email, nickname string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		Email:    email,
		Password: hash,
		Nickname: nickname,
		Name:     "Test " + nickname,
	}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func createPost(t *testing.T, gdb *gorm.DB, userID uint) *models.Post {
	t.Helper()
	content := "hello"
	post := models.Post{
		UserID:    userID,
		Thumbnail: "https://blob.test/thumb",
		Content:   &content,
	}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return &post
}

func createComment(t *testing.T, gdb *gorm.DB, postID, userID uint) *models.Comment {
	t.Helper()
	comment := models.Comment{PostID: postID, UserID: userID, Content: "nice"}
	if err := gdb.Create(&comment).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return &comment
}

func countRows(t *testing.T, gdb *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	q := gdb.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}

func expiresIn(d time.Duration) *Claims {
	return &Claims{ExpiresAt: time.Now().Add(d)}
}
