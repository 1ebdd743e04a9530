package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ToggleResponse reports which branch a toggle took: true when the relation
// was created, false when an existing one was removed.
type ToggleResponse struct {
	Added bool `json:"added"`
}

// toggleRelation removes the relation row matched by cond, or inserts row when
// none matched. Runs in one transaction and relies on the unique index of the
// relation table: a concurrent duplicate insert degrades to a no-op instead of
// a second row.
func toggleRelation[R any](gdb *gorm.DB, cond *R, row *R) (added bool, err error) {
	err = gdb.Transaction(func(tx *gorm.DB) error {
		res := tx.Where(cond).Delete(new(R))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			added = false
			return nil
		}
		res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
		if res.Error != nil {
			return res.Error
		}
		added = res.RowsAffected > 0
		return nil
	})
	return added, err
}
