package storage

import "database/sql"

type Storage struct {
	Credentials
	AuditIR
}

func NewStorage(db *sql.DB) *Storage {
	return &Storage{
		Credentials: NewCredentialStorage(db),
		AuditIR:     NewAuditStorage(db),
	}
}
