package document

import (
	"time"
)

// Document is the stored record behind the editor. IDs are assigned by the
// caller (the editing client derives the next id from the listing's reported
// maximum), so the column is deliberately not auto-incrementing. Names are the
// effective identity at the application layer but are not unique in storage;
// two records may legally share a name.
type Document struct {
	ID         int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name       string `gorm:"not null;index" json:"name"`
	Content    []byte `gorm:"not null" json:"-"`
	CreatedAt  time.Time
	ModifiedAt time.Time
}
