package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"hunstagram/internal/apperr"
	"hunstagram/internal/models"
	"hunstagram/internal/utils"

	"gorm.io/gorm"
)

const profileCacheTTL = time.Minute

func profileCacheKey(userID uint) string {
	return fmt.Sprintf("profile:%d", userID)
}

type UserService struct {
	db     *gorm.DB
	tokens *TokenService
	blobs  BlobStore
	cache  *utils.Cache
}

func NewUserService(gdb *gorm.DB, tokens *TokenService, blobs BlobStore, cache *utils.Cache) *UserService {
	return &UserService{db: gdb, tokens: tokens, blobs: blobs, cache: cache}
}

// SignupRequest is the first signup phase: credentials only, profile comes in
// the second phase.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type SignupResponse struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup pre-checks the email and echoes the credentials back for the
// profile-completion step. Nothing is persisted yet.
func (s *UserService) Signup(req *SignupRequest) (*SignupResponse, error) {
	if err := s.validateDuplicateEmail(req.Email); err != nil {
		return nil, err
	}
	return &SignupResponse{Email: req.Email, Password: req.Password}, nil
}

func (s *UserService) validateDuplicateEmail(email string) error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.EmailAlreadyExists
	}
	return nil
}

func (s *UserService) validateDuplicateNickname(nickname string) error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("nickname = ?", nickname).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.NicknameAlreadyExists
	}
	return nil
}

// SignupInfoRequest is the second signup phase: the full profile.
type SignupInfoRequest struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=8"`
	Name     string `form:"name" binding:"required,max=30"`
	Nickname string `form:"nickname" binding:"required,max=30"`
	Intro    string `form:"intro" binding:"max=200"`
}

// CompleteSignup re-validates both uniqueness constraints, hashes the
// password, uploads the optional profile image and creates the user.
func (s *UserService) CompleteSignup(req *SignupInfoRequest, image *ImageUpload) error {
	if err := s.validateDuplicateEmail(req.Email); err != nil {
		return err
	}
	if err := s.validateDuplicateNickname(req.Nickname); err != nil {
		return err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}

	profileImage := ""
	if image != nil {
		profileImage, err = s.blobs.Upload(image.Data, image.ContentType)
		if err != nil {
			return apperr.Wrap(apperr.ImageUploadFailed, err)
		}
	}

	user := models.User{
		Email:        req.Email,
		Password:     hash,
		Name:         req.Name,
		Nickname:     req.Nickname,
		Intro:        utils.SanitizeText(req.Intro),
		ProfileImage: profileImage,
	}
	return s.db.Create(&user).Error
}

// Login checks credentials, issues both tokens and stores the refresh token,
// which invalidates any previously active session.
func (s *UserService) Login(email, password string) (map[string]string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.InvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, apperr.InvalidCredentials
	}

	accessToken, err := s.tokens.CreateAccessToken(user.Email, RoleUser, user.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.CreateRefreshToken(user.Email)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&user).Update("refresh_token", refreshToken).Error; err != nil {
		return nil, err
	}

	return map[string]string{
		AccessTokenKey:  accessToken,
		RefreshTokenKey: refreshToken,
	}, nil
}

// Refresh validates a presented refresh token against the stored one, always
// reissues an access token and rotates the refresh token when it has less
// than the rotation threshold left.
func (s *UserService) Refresh(refreshToken string) (map[string]string, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, apperr.RefreshTokenExpired
		}
		return nil, apperr.InvalidToken
	}

	var user models.User
	if err := s.db.Where("email = ?", claims.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.InvalidToken
		}
		return nil, err
	}

	// A token that verified but does not match the stored one is a replay of
	// a superseded session.
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return nil, apperr.InvalidToken
	}

	accessToken, err := s.tokens.CreateAccessToken(user.Email, RoleUser, user.ID)
	if err != nil {
		return nil, err
	}
	result := map[string]string{AccessTokenKey: accessToken}

	if s.tokens.ShouldRotate(claims) {
		newRefreshToken, err := s.tokens.CreateRefreshToken(user.Email)
		if err != nil {
			return nil, err
		}
		if err := s.db.Model(&user).Update("refresh_token", newRefreshToken).Error; err != nil {
			return nil, err
		}
		result[RefreshTokenKey] = newRefreshToken
	}

	return result, nil
}

// Logout clears the stored refresh token, ending the session server-side.
func (s *UserService) Logout(userID uint) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.InvalidToken
		}
		return err
	}
	return s.db.Model(&user).Update("refresh_token", nil).Error
}

type PostThumbnail struct {
	PostID    uint   `json:"post_id"`
	Thumbnail string `json:"thumbnail"`
}

type ProfileResponse struct {
	UserID         uint            `json:"user_id"`
	Name           string          `json:"name"`
	Nickname       string          `json:"nickname"`
	ProfileImage   string          `json:"profile_image"`
	Intro          string          `json:"intro"`
	PostCount      string          `json:"post_count"`
	FollowerCount  string          `json:"follower_count"`
	FollowingCount string          `json:"following_count"`
	PostThumbnails []PostThumbnail `json:"post_thumbnails"`
	IsFollowing    *bool           `json:"is_following,omitempty"` // only on someone else's profile
}

// MyProfile aggregates the caller's own profile.
func (s *UserService) MyProfile(userID uint) (*ProfileResponse, error) {
	return s.buildProfile(userID)
}

// Profile aggregates another user's profile and reports whether the viewer
// follows them. The follow lookup is an existence check, never a mutation.
func (s *UserService) Profile(targetID, viewerID uint) (*ProfileResponse, error) {
	profile, err := s.buildProfile(targetID)
	if err != nil {
		return nil, err
	}
	if targetID != viewerID {
		following, err := isFollowing(s.db, viewerID, targetID)
		if err != nil {
			return nil, err
		}
		// Copy before mutating: the cached base profile is shared.
		copied := *profile
		copied.IsFollowing = &following
		return &copied, nil
	}
	return profile, nil
}

func (s *UserService) buildProfile(userID uint) (*ProfileResponse, error) {
	key := profileCacheKey(userID)
	if cached := s.cache.Get(key); cached != nil {
		if profile, ok := cached.(*ProfileResponse); ok {
			return profile, nil
		}
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.UserNotFound
		}
		return nil, err
	}

	var posts []models.Post
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	thumbnails := make([]PostThumbnail, 0, len(posts))
	for _, p := range posts {
		thumbnails = append(thumbnails, PostThumbnail{PostID: p.ID, Thumbnail: p.Thumbnail})
	}

	var follower, following int64
	if err := s.db.Model(&models.Follow{}).Where("to_user_id = ?", userID).Count(&follower).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Follow{}).Where("from_user_id = ?", userID).Count(&following).Error; err != nil {
		return nil, err
	}

	profile := &ProfileResponse{
		UserID:         user.ID,
		Name:           user.Name,
		Nickname:       user.Nickname,
		ProfileImage:   user.ProfileImage,
		Intro:          user.Intro,
		PostCount:      utils.FormatCount(len(thumbnails)),
		FollowerCount:  utils.FormatCount(int(follower)),
		FollowingCount: utils.FormatCount(int(following)),
		PostThumbnails: thumbnails,
	}
	s.cache.Set(key, profile, profileCacheTTL)
	return profile, nil
}

// UpdateProfileImage replaces the profile picture, removing the old blob
// best-effort.
func (s *UserService) UpdateProfileImage(userID uint, image *ImageUpload) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.UserNotFound
		}
		return err
	}

	url, err := s.blobs.Upload(image.Data, image.ContentType)
	if err != nil {
		return apperr.Wrap(apperr.ImageUploadFailed, err)
	}
	if user.ProfileImage != "" {
		if err := s.blobs.Delete(user.ProfileImage); err != nil {
			log.Printf("failed to delete old profile image %s: %v", user.ProfileImage, err)
		}
	}
	if err := s.db.Model(&user).Update("profile_image", url).Error; err != nil {
		return err
	}
	s.cache.Delete(profileCacheKey(userID))
	return nil
}
