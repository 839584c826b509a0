// Package firestorestore implements store.Store on Cloud Firestore using the layout
// users/{userID} { flashcards: [{name}] } with one sub-collection of card documents per
// collection name.
package firestorestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/andrewpaige1/flashcards-api/models"
	"github.com/andrewpaige1/flashcards-api/store"
)

const usersCollection = "users"

// collectionsField is the field of the user document that holds the ordered sequence.
const collectionsField = "flashcards"

type Store struct {
	client *firestore.Client
}

var _ store.Store = (*Store)(nil)

// New connects to projectID. credentialsFile may be empty to use application default credentials.
func New(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

// NewWithClient wraps an existing client, for example one pointed at the emulator.
func NewWithClient(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) userDoc(userID string) *firestore.DocumentRef {
	return s.client.Collection(usersCollection).Doc(userID)
}

func (s *Store) ReadUserRecord(ctx context.Context, userID string) (*models.UserRecord, error) {
	snap, err := s.userDoc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read user record: %w", err)
	}

	var rec models.UserRecord
	if err := snap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("decode user record: %w", err)
	}
	rec.ID = userID
	if rec.Collections == nil {
		rec.Collections = []models.Collection{}
	}
	return &rec, nil
}

func (s *Store) WriteUserRecord(ctx context.Context, userID string, collections []models.Collection) error {
	_, err := s.userDoc(userID).Set(ctx, collectionsData(collections), firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("write user record: %w", err)
	}
	return nil
}

func collectionsData(collections []models.Collection) map[string]interface{} {
	if collections == nil {
		collections = []models.Collection{}
	}
	return map[string]interface{}{collectionsField: collections}
}

func (s *Store) ReadCollectionCards(ctx context.Context, userID, collection string) ([]models.Flashcard, error) {
	snaps, err := s.userDoc(userID).Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("read collection cards: %w", err)
	}
	return decodeCards(snaps)
}

func decodeCards(snaps []*firestore.DocumentSnapshot) ([]models.Flashcard, error) {
	cards := make([]models.Flashcard, 0, len(snaps))
	for _, snap := range snaps {
		var card models.Flashcard
		if err := snap.DataTo(&card); err != nil {
			return nil, fmt.Errorf("decode card %s: %w", snap.Ref.ID, err)
		}
		card.ID = snap.Ref.ID
		cards = append(cards, card)
	}
	return cards, nil
}

func (s *Store) CreateCard(ctx context.Context, userID, collection string, card models.Flashcard) (string, error) {
	ref, _, err := s.userDoc(userID).Collection(collection).Add(ctx, card)
	if err != nil {
		return "", fmt.Errorf("create card: %w", err)
	}
	return ref.ID, nil
}

func (s *Store) DeleteCard(ctx context.Context, userID, collection, cardID string) error {
	ref := s.userDoc(userID).Collection(collection).Doc(cardID)
	if _, err := ref.Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return store.ErrNotFound
		}
		return fmt.Errorf("delete card: %w", err)
	}
	return nil
}

// Commit runs the batch as one Firestore transaction. Sub-collection purges are read
// first because a transaction must do all reads before any write.
func (s *Store) Commit(ctx context.Context, b *store.Batch) error {
	user := s.userDoc(b.UserID)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		purge := map[string][]*firestore.DocumentSnapshot{}
		for _, op := range b.Ops {
			if op.Kind != store.OpDeleteCollectionCards {
				continue
			}
			snaps, err := tx.Documents(user.Collection(op.Collection)).GetAll()
			if err != nil {
				return err
			}
			purge[op.Collection] = snaps
		}

		for i, op := range b.Ops {
			var err error
			switch op.Kind {
			case store.OpSetUserRecord:
				err = tx.Set(user, collectionsData(op.Collections), firestore.MergeAll)
			case store.OpCreateCard:
				err = tx.Create(user.Collection(op.Collection).NewDoc(), op.Card)
			case store.OpDeleteCollectionCards:
				for _, snap := range purge[op.Collection] {
					if err = tx.Delete(snap.Ref); err != nil {
						break
					}
				}
			case store.OpDeleteCard:
				err = tx.Delete(user.Collection(op.Collection).Doc(op.CardID))
			default:
				err = fmt.Errorf("unknown batch op %d", op.Kind)
			}
			if err != nil {
				return fmt.Errorf("batch op %d: %w", i, err)
			}
		}
		return nil
	}, firestore.MaxAttempts(1))
	if err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if err := s.client.Close(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
