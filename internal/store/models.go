package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// StoredRecord is the persisted row shape. The flattened document lives in a
// jsonb column; order and tombstone state are mirrored into dedicated
// columns so list queries can filter and sort without unpacking the json.
type StoredRecord struct {
	bun.BaseModel `bun:"table:content_records,alias:cr"`

	ID         uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Collection string         `bun:"collection,notnull" json:"collection"`
	Document   map[string]any `bun:"document,type:jsonb,notnull" json:"document"`
	OrderValue int            `bun:"order_value,notnull,default:0" json:"order_value"`
	Featured   bool           `bun:"featured,notnull,default:false" json:"featured"`
	IsDeleted  bool           `bun:"is_deleted,notnull,default:false" json:"is_deleted"`
	CreatedAt  time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
