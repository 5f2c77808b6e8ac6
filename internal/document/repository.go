package document

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("document not found")

// Repository is the record store contract the engine runs against: a durable
// id→record mapping with per-record atomic writes and no cross-record
// transactions. A multi-item copy is therefore not atomic; a crash mid-copy
// leaves a partial but individually valid set of new records.
type Repository interface {
	All(ctx context.Context) ([]Document, error)
	FindByID(ctx context.Context, id int64) (*Document, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Document, error)
	FindByName(ctx context.Context, name string) (*Document, error)
	NameExists(ctx context.Context, name string) (bool, error)
	NameExistsExcept(ctx context.Context, name string, exceptID int64) (bool, error)
	MaxID(ctx context.Context) (int64, error)
	Create(ctx context.Context, doc *Document) error
	UpdateContent(ctx context.Context, id int64, content []byte, modifiedAt time.Time) error
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates the postgres-backed repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) All(ctx context.Context) ([]Document, error) {
	var docs []Document
	err := r.db.WithContext(ctx).Order("id").Find(&docs).Error
	return docs, err
}

func (r *gormRepository) FindByID(ctx context.Context, id int64) (*Document, error) {
	var doc Document
	err := r.db.WithContext(ctx).First(&doc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *gormRepository) FindByIDs(ctx context.Context, ids []int64) ([]Document, error) {
	var docs []Document
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&docs).Error
	return docs, err
}

// FindByName returns the lowest-id record carrying the name. Duplicate names
// are legal in storage; the by-name identity path picks deterministically.
func (r *gormRepository) FindByName(ctx context.Context, name string) (*Document, error) {
	var doc Document
	err := r.db.WithContext(ctx).Where("name = ?", name).Order("id").First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *gormRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Document{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *gormRepository) NameExistsExcept(ctx context.Context, name string, exceptID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Document{}).
		Where("name = ? AND id <> ?", name, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *gormRepository) MaxID(ctx context.Context) (int64, error) {
	var maxID int64
	err := r.db.WithContext(ctx).Model(&Document{}).
		Select("COALESCE(MAX(id), 0)").
		Scan(&maxID).Error
	return maxID, err
}

func (r *gormRepository) Create(ctx context.Context, doc *Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *gormRepository) UpdateContent(ctx context.Context, id int64, content []byte, modifiedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&Document{}).
		Where("id = ?", id).
		Updates(map[string]any{"content": content, "modified_at": modifiedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&Document{})
	return res.RowsAffected, res.Error
}
