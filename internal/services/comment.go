package services

import (
	"errors"

	"hunstagram/internal/apperr"
	"hunstagram/internal/models"
	"hunstagram/internal/utils"

	"gorm.io/gorm"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

type CommentRequest struct {
	PostID   uint   `json:"post_id" binding:"required"`
	ParentID *uint  `json:"parent_id"`
	Content  string `json:"content" binding:"required,max=1000"`
}

// Create adds a comment to an existing post, optionally threaded under a
// parent comment on the same post.
func (s *CommentService) Create(userID uint, req *CommentRequest) error {
	var post models.Post
	if err := s.db.First(&post, req.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.PostNotFound
		}
		return err
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.UserNotFound
	}

	if req.ParentID != nil {
		var parent models.Comment
		if err := s.db.First(&parent, *req.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.CommentNotFound
			}
			return err
		}
		if parent.PostID != post.ID {
			return apperr.WithMessage(apperr.InvalidInput, "parent comment belongs to a different post")
		}
	}

	comment := models.Comment{
		PostID:   post.ID,
		UserID:   userID,
		ParentID: req.ParentID,
		Content:  utils.SanitizeText(req.Content),
	}
	return s.db.Create(&comment).Error
}

// Delete removes a comment, its replies and all likes on them. Only the owner
// may delete.
func (s *CommentService) Delete(commentID, userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.CommentNotFound
			}
			return err
		}
		if comment.UserID != userID {
			return apperr.NotCommentOwner
		}

		replyIDs := tx.Model(&models.Comment{}).Select("id").Where("parent_id = ?", comment.ID)
		if err := tx.Where("comment_id IN (?)", replyIDs).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("parent_id = ?", comment.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id = ?", comment.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
}

// ToggleLike adds a like when absent, removes it when present.
func (s *CommentService) ToggleLike(commentID, userID uint) (*ToggleResponse, error) {
	var count int64
	if err := s.db.Model(&models.Comment{}).Where("id = ?", commentID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperr.CommentNotFound
	}
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperr.UserNotFound
	}

	cond := models.CommentTarget(commentID).Row(userID)
	row := models.CommentTarget(commentID).Row(userID)
	added, err := toggleRelation(s.db, &cond, &row)
	if err != nil {
		return nil, err
	}
	return &ToggleResponse{Added: added}, nil
}
