// Package sqlstore implements store.Store on top of gorm (postgres or sqlite).
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrewpaige1/flashcards-api/models"
	"github.com/andrewpaige1/flashcards-api/store"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the users and flashcards tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.UserRecord{}, &models.Flashcard{})
}

func (s *Store) ReadUserRecord(ctx context.Context, userID string) (*models.UserRecord, error) {
	var rec models.UserRecord
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read user record: %w", err)
	}
	if rec.Collections == nil {
		rec.Collections = []models.Collection{}
	}
	return &rec, nil
}

func (s *Store) WriteUserRecord(ctx context.Context, userID string, collections []models.Collection) error {
	if err := upsertUserRecord(s.db.WithContext(ctx), userID, collections); err != nil {
		return fmt.Errorf("write user record: %w", err)
	}
	return nil
}

// upsertUserRecord only touches the collections column of an existing row.
func upsertUserRecord(db *gorm.DB, userID string, collections []models.Collection) error {
	if collections == nil {
		collections = []models.Collection{}
	}
	rec := models.UserRecord{ID: userID, Collections: collections}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"collections", "updated_at"}),
	}).Create(&rec).Error
}

func (s *Store) ReadCollectionCards(ctx context.Context, userID, collection string) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND collection = ?", userID, collection).
		Order("created_at, id").
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("read collection cards: %w", err)
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}
	return cards, nil
}

func (s *Store) CreateCard(ctx context.Context, userID, collection string, card models.Flashcard) (string, error) {
	id, err := createCard(s.db.WithContext(ctx), userID, collection, card)
	if err != nil {
		return "", fmt.Errorf("create card: %w", err)
	}
	return id, nil
}

func createCard(db *gorm.DB, userID, collection string, card models.Flashcard) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	card.ID = id
	card.UserID = userID
	card.Collection = collection
	if err := db.Create(&card).Error; err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) DeleteCard(ctx context.Context, userID, collection, cardID string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND collection = ?", cardID, userID, collection).
		Delete(&models.Flashcard{})
	if result.Error != nil {
		return fmt.Errorf("delete card: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Commit runs the batch inside one database transaction.
func (s *Store) Commit(ctx context.Context, b *store.Batch) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin batch: %w", tx.Error)
	}

	// Cards created in the same batch keep their queue order on reload.
	base := time.Now()
	for i, op := range b.Ops {
		var err error
		switch op.Kind {
		case store.OpSetUserRecord:
			err = upsertUserRecord(tx, b.UserID, op.Collections)
		case store.OpCreateCard:
			card := op.Card
			card.CreatedAt = base.Add(time.Duration(i) * time.Microsecond)
			_, err = createCard(tx, b.UserID, op.Collection, card)
		case store.OpDeleteCollectionCards:
			err = tx.Where("user_id = ? AND collection = ?", b.UserID, op.Collection).
				Delete(&models.Flashcard{}).Error
		case store.OpDeleteCard:
			err = tx.Where("id = ? AND user_id = ? AND collection = ?", op.CardID, b.UserID, op.Collection).
				Delete(&models.Flashcard{}).Error
		default:
			err = fmt.Errorf("unknown batch op %d", op.Kind)
		}
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("batch op %d: %w", i, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
