package database

import (
	"database/sql"

	"golang.org/x/crypto/bcrypt"
)

// UpsertUser creates or replaces an admin user's credentials.
func UpsertUser(db *sql.DB, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO user (username, password_hash) VALUES (?, ?)
		ON CONFLICT (username) DO UPDATE SET password_hash = excluded.password_hash`,
		username, hash,
	)
	return err
}
