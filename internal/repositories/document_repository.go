package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"chatbox/internal/models"
	"chatbox/internal/store"
)

// DocumentRepository stores whole store documents, one row per name.
type DocumentRepository interface {
	store.Backend
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) ReadDocument(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("document name is required")
	}
	var doc models.StoreDocument
	if err := r.db.WithContext(ctx).Where("name = ?", name).Take(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", store.ErrDocumentNotFound, name)
		}
		return nil, err
	}
	return doc.Data, nil
}

// WriteDocument replaces the row in a single upsert statement.
func (r *documentRepository) WriteDocument(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("document name is required")
	}
	record := models.StoreDocument{
		Name: name,
		Data: data,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"data":       data,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&record).Error
}

func (r *documentRepository) List(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).Model(&models.StoreDocument{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func (r *documentRepository) Delete(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("document name is required")
	}
	return r.db.WithContext(ctx).Where("name = ?", name).Delete(&models.StoreDocument{}).Error
}
