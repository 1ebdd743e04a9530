package db

import (
	"log"

	"hunstagram/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init opens the postgres connection and brings the schema up to date.
func Init(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	log.Println("Database connection established")

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	log.Println("Database migration completed")
	return gdb, nil
}

// Migrate runs AutoMigrate for every entity and creates the partial unique
// indexes behind the like toggle. Shared with the test setup, which runs the
// same schema on sqlite.
func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.PostImage{},
		&models.Hashtag{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
	)
	if err != nil {
		return err
	}

	// One like per (user, post) and per (user, comment). Partial indexes
	// because exactly one of the two columns is set per row; both postgres
	// and sqlite support the WHERE clause.
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_likes_user_post ON likes(user_id, post_id) WHERE post_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_likes_user_comment ON likes(user_id, comment_id) WHERE comment_id IS NOT NULL`,
	}
	for _, stmt := range stmts {
		if err := gdb.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
