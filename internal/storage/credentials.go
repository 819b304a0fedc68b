package storage

import (
	"database/sql"
	"loginwatch/internal/models"
)

type Credentials interface {
	CreateUser(user models.User) error
	GetUserByUsername(username string) (models.User, error)
	GetPasswordByUsername(username string) (string, error)
	CheckUserByNameEmail(email, username string) (bool, error)
}

type CredentialStorage struct {
	db *sql.DB
}

func NewCredentialStorage(db *sql.DB) *CredentialStorage {
	return &CredentialStorage{
		db: db,
	}
}

func (c *CredentialStorage) CreateUser(user models.User) error {
	query := `INSERT INTO user(email, username, password) VALUES ($1, $2, $3);`
	_, err := c.db.Exec(query, user.Email, user.Username, user.Password)
	if err != nil {
		return err
	}
	return nil
}

func (c *CredentialStorage) GetUserByUsername(username string) (models.User, error) {
	query := `SELECT id, email, username FROM user WHERE username = $1;`
	row := c.db.QueryRow(query, username)
	var user models.User
	if err := row.Scan(&user.Id, &user.Email, &user.Username); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetPasswordByUsername returns the stored bcrypt hash. A missing user
// surfaces as sql.ErrNoRows, which callers treat as a normal mismatch
// outcome rather than a store failure.
func (c *CredentialStorage) GetPasswordByUsername(username string) (string, error) {
	query := `SELECT password FROM user WHERE username = $1;`
	row := c.db.QueryRow(query, username)
	var password string
	if err := row.Scan(&password); err != nil {
		return password, err
	}
	return password, nil
}

func (c *CredentialStorage) CheckUserByNameEmail(email, username string) (bool, error) {
	query := `SELECT COUNT(1) FROM user WHERE email = $1 OR username = $2;`
	var count int
	if err := c.db.QueryRow(query, email, username).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
