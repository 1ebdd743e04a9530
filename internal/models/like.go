package models

// Like relates a user to exactly one likeable target, either a post or a
// comment. The two nullable columns carry the union in the schema; code never
// builds a Like directly, it goes through a LikeTarget so the "exactly one of
// two" invariant holds by construction.
//
// Uniqueness per (user, target) is enforced by partial unique indexes created
// in db.Migrate, which is what makes concurrent toggles safe.
type Like struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	UserID    uint  `gorm:"not null;index" json:"user_id"`
	PostID    *uint `gorm:"index" json:"post_id"`
	CommentID *uint `gorm:"index" json:"comment_id"`
	Timestamps
}

// LikeTarget is the tagged variant {post | comment}.
type LikeTarget struct {
	postID    *uint
	commentID *uint
}

func PostTarget(id uint) LikeTarget {
	return LikeTarget{postID: &id}
}

func CommentTarget(id uint) LikeTarget {
	return LikeTarget{commentID: &id}
}

// Row materializes the relation row for this target and actor.
func (t LikeTarget) Row(userID uint) Like {
	return Like{UserID: userID, PostID: t.postID, CommentID: t.commentID}
}
