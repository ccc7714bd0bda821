package services

import "gorm.io/gorm"

// runInTransaction wraps fn in a database transaction. Without a db handle
// fn runs directly with a nil tx, so services built on mocked repositories
// can exercise their transactional paths.
func runInTransaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.Transaction(fn)
}
