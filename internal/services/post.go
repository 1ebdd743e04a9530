package services

import (
	"errors"
	"log"

	"hunstagram/internal/apperr"
	"hunstagram/internal/models"
	"hunstagram/internal/utils"

	"gorm.io/gorm"
)

type PostService struct {
	db    *gorm.DB
	blobs BlobStore
	cache *utils.Cache
}

func NewPostService(gdb *gorm.DB, blobs BlobStore, cache *utils.Cache) *PostService {
	return &PostService{db: gdb, blobs: blobs, cache: cache}
}

// PostRequest carries the mutable part of a post. Hashtags replace the
// existing set wholesale on update.
type PostRequest struct {
	Content  *string  `json:"content"`
	Hashtags []string `json:"hashtags"`
}

// Create uploads the images first, then persists post, hashtags and image
// rows in one transaction, so a failure leaves no partial post behind.
func (s *PostService) Create(userID uint, req *PostRequest, images []ImageUpload) error {
	if len(images) == 0 {
		return apperr.ImageRequired
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.UserNotFound
		}
		return err
	}

	imageURLs := make([]string, 0, len(images))
	for _, image := range images {
		url, err := s.blobs.Upload(image.Data, image.ContentType)
		if err != nil {
			return apperr.Wrap(apperr.ImageUploadFailed, err)
		}
		imageURLs = append(imageURLs, url)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		post := models.Post{
			UserID:    user.ID,
			Thumbnail: imageURLs[0],
			Content:   sanitizeContent(req),
		}
		if err := tx.Create(&post).Error; err != nil {
			return err
		}

		if req != nil {
			for _, name := range req.Hashtags {
				if err := tx.Create(&models.Hashtag{PostID: post.ID, Name: name}).Error; err != nil {
					return err
				}
			}
		}
		for _, url := range imageURLs {
			if err := tx.Create(&models.PostImage{PostID: post.ID, ImageURL: url}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Delete(profileCacheKey(userID))
	return nil
}

func sanitizeContent(req *PostRequest) *string {
	if req == nil || req.Content == nil {
		return nil
	}
	content := utils.SanitizeText(*req.Content)
	return &content
}

// Update rewrites content and replaces the hashtag set. Only the owner may
// update.
func (s *PostService) Update(postID, userID uint, req *PostRequest) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Preload("Hashtags").First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.PostNotFound
			}
			return err
		}
		if post.UserID != userID {
			return apperr.NotPostOwner
		}

		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Hashtag{}).Error; err != nil {
			return err
		}
		if req != nil {
			for _, name := range req.Hashtags {
				if err := tx.Create(&models.Hashtag{PostID: post.ID, Name: name}).Error; err != nil {
					return err
				}
			}
		}
		return tx.Model(&post).Update("content", sanitizeContent(req)).Error
	})
}

// Delete removes the post's blobs best-effort, then deletes the post together
// with its images, hashtags, comments and likes. Only the owner may delete.
func (s *PostService) Delete(postID, userID uint) error {
	var post models.Post
	if err := s.db.Preload("Images").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.PostNotFound
		}
		return err
	}
	if post.UserID != userID {
		return apperr.NotPostOwner
	}

	// Blob cleanup failures are logged, never fatal: the rows go away either
	// way and orphaned objects are cheaper than a post that cannot be deleted.
	for _, image := range post.Images {
		if err := s.blobs.Delete(image.ImageURL); err != nil {
			log.Printf("failed to delete blob %s: %v", image.ImageURL, err)
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", post.ID)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Hashtag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		return err
	}

	s.cache.Delete(profileCacheKey(post.UserID))
	return nil
}

// ToggleLike adds a like when absent, removes it when present.
func (s *PostService) ToggleLike(postID, userID uint) (*ToggleResponse, error) {
	var count int64
	if err := s.db.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperr.PostNotFound
	}
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperr.UserNotFound
	}

	cond := models.PostTarget(postID).Row(userID)
	row := models.PostTarget(postID).Row(userID)
	added, err := toggleRelation(s.db, &cond, &row)
	if err != nil {
		return nil, err
	}
	return &ToggleResponse{Added: added}, nil
}
