package services

import (
	"hunstagram/internal/apperr"
	"hunstagram/internal/models"
	"hunstagram/internal/utils"

	"gorm.io/gorm"
)

type FollowService struct {
	db    *gorm.DB
	cache *utils.Cache
}

func NewFollowService(gdb *gorm.DB, cache *utils.Cache) *FollowService {
	return &FollowService{db: gdb, cache: cache}
}

// Toggle follows toUserID when no relation exists, unfollows otherwise.
// Following yourself is rejected.
func (s *FollowService) Toggle(fromUserID, toUserID uint) (*ToggleResponse, error) {
	if fromUserID == toUserID {
		return nil, apperr.WithMessage(apperr.InvalidInput, "cannot follow yourself")
	}
	if err := s.validateUserExists(fromUserID); err != nil {
		return nil, err
	}
	if err := s.validateUserExists(toUserID); err != nil {
		return nil, err
	}

	cond := models.Follow{FromUserID: fromUserID, ToUserID: toUserID}
	row := models.Follow{FromUserID: fromUserID, ToUserID: toUserID}
	added, err := toggleRelation(s.db, &cond, &row)
	if err != nil {
		return nil, err
	}

	// Both profiles carry counts derived from this relation.
	s.cache.Delete(profileCacheKey(fromUserID))
	s.cache.Delete(profileCacheKey(toUserID))

	return &ToggleResponse{Added: added}, nil
}

// IsFollowing is a pure existence check, used by profile aggregation.
func (s *FollowService) IsFollowing(fromUserID, toUserID uint) (bool, error) {
	return isFollowing(s.db, fromUserID, toUserID)
}

func isFollowing(gdb *gorm.DB, fromUserID, toUserID uint) (bool, error) {
	var count int64
	err := gdb.Model(&models.Follow{}).
		Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		Count(&count).Error
	return count > 0, err
}

// UserSummary is one entry of a follower/following listing.
type UserSummary struct {
	UserID       uint   `json:"user_id"`
	Nickname     string `json:"nickname"`
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image"`
}

// Followers lists the users following userID, newest first.
func (s *FollowService) Followers(userID uint, page, size int) ([]UserSummary, error) {
	if err := s.validateUserExists(userID); err != nil {
		return nil, err
	}
	var follows []models.Follow
	err := s.db.Preload("FromUser").
		Where("to_user_id = ?", userID).
		Order("created_at DESC").
		Limit(size).Offset(page * size).
		Find(&follows).Error
	if err != nil {
		return nil, err
	}
	summaries := make([]UserSummary, 0, len(follows))
	for _, f := range follows {
		summaries = append(summaries, summarize(f.FromUser))
	}
	return summaries, nil
}

// Following lists the users userID follows, newest first.
func (s *FollowService) Following(userID uint, page, size int) ([]UserSummary, error) {
	if err := s.validateUserExists(userID); err != nil {
		return nil, err
	}
	var follows []models.Follow
	err := s.db.Preload("ToUser").
		Where("from_user_id = ?", userID).
		Order("created_at DESC").
		Limit(size).Offset(page * size).
		Find(&follows).Error
	if err != nil {
		return nil, err
	}
	summaries := make([]UserSummary, 0, len(follows))
	for _, f := range follows {
		summaries = append(summaries, summarize(f.ToUser))
	}
	return summaries, nil
}

func summarize(user models.User) UserSummary {
	return UserSummary{
		UserID:       user.ID,
		Nickname:     user.Nickname,
		Name:         user.Name,
		ProfileImage: user.ProfileImage,
	}
}

func (s *FollowService) validateUserExists(userID uint) error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.UserNotFound
	}
	return nil
}
