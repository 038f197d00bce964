package store

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewStoredRecordRepository creates a repository for StoredRecord rows.
func NewStoredRecordRepository(db *bun.DB) repository.Repository[*StoredRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*StoredRecord]{
		NewRecord: func() *StoredRecord { return &StoredRecord{} },
		GetID: func(record *StoredRecord) uuid.UUID {
			return record.ID
		},
		SetID: func(record *StoredRecord, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(record *StoredRecord) string {
			return record.ID.String()
		},
	})
}
