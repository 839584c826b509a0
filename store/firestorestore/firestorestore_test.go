package firestorestore

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/flashcards-api/store"
	"github.com/andrewpaige1/flashcards-api/store/storetest"
)

// Runs against the Firestore emulator, e.g.
// gcloud emulators firestore start --host-port=localhost:8085
func TestFirestoreStoreCompliance(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("Skipping integration test: FIRESTORE_EMULATOR_HOST not set")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		client, err := firestore.NewClient(context.Background(), "test-"+uuid.NewString()[:8])
		require.NoError(t, err)
		s := NewWithClient(client)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}
