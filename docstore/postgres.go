package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MishaalFatima/facultytracker-sub000/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Postgres stores every collection in the documents table with a jsonb
// payload, so the audit trail keeps the document shape the rest of the
// system expects.
type Postgres struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Create(ctx context.Context, collection string, data Fields) (string, error) {
	payload, err := json.Marshal(resolveTimestamps(data, time.Now))
	if err != nil {
		return "", err
	}

	doc := models.Document{
		Collection: collection,
		Data:       datatypes.JSON(payload),
	}
	if err := p.db.WithContext(ctx).Create(&doc).Error; err != nil {
		return "", err
	}
	return doc.ID.String(), nil
}

func (p *Postgres) Query(ctx context.Context, collection string, q Query) ([]Doc, error) {
	tx := p.db.WithContext(ctx).Model(&models.Document{}).Where("collection = ?", collection)

	for _, f := range q.Filters {
		if f.Value == nil {
			tx = tx.Where(fmt.Sprintf("data -> '%s' IS NULL", f.Field))
			continue
		}
		tx = tx.Where(datatypes.JSONQuery("data").Equals(f.Value, f.Field))
	}
	if q.OrderBy != "" {
		dir := "ASC"
		if q.Desc {
			dir = "DESC"
		}
		tx = tx.Order(fmt.Sprintf("data ->> '%s' %s", q.OrderBy, dir))
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []models.Document
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]Doc, 0, len(rows))
	for _, row := range rows {
		var fields Fields
		if err := json.Unmarshal(row.Data, &fields); err != nil {
			return nil, err
		}
		out = append(out, Doc{ID: row.ID.String(), Fields: fields})
	}
	return out, nil
}

func (p *Postgres) Update(ctx context.Context, collection, id string, partial Fields) error {
	docID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Document
		err := tx.Where("collection = ? AND id = ?", collection, docID).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var fields Fields
		if err := json.Unmarshal(row.Data, &fields); err != nil {
			return err
		}
		for k, v := range resolveTimestamps(partial, time.Now) {
			fields[k] = v
		}

		payload, err := json.Marshal(fields)
		if err != nil {
			return err
		}
		return tx.Model(&row).Update("data", datatypes.JSON(payload)).Error
	})
}

func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	docID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	res := p.db.WithContext(ctx).Where("collection = ? AND id = ?", collection, docID).Delete(&models.Document{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
