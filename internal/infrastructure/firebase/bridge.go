// Package firebase implements the remote snapshot bridge on a single
// Firestore document shared by all of a user's devices.
package firebase

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/domain/backup"
)

// Bridge implements backup.Bridge. Publishes are whole-document Sets;
// notifications come from a Firestore snapshot listener.
//
// The server SDK has no client-side cache, so "has pending writes" is
// tracked explicitly: each published document key stays pending until its
// echo arrives on the listener, and that echo is suppressed.
type Bridge struct {
	client *firestore.Client
	doc    *firestore.DocumentRef
	log    zerolog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

// NewBridge initializes the Firebase app and resolves the user's backup
// document. credentialsFile may be empty to use application default
// credentials.
func NewBridge(ctx context.Context, credentialsFile, projectID, userID string, log zerolog.Logger) (*Bridge, error) {
	conf := &firebase.Config{ProjectID: projectID}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firestore client: %w", err)
	}

	return &Bridge{
		client:  client,
		doc:     client.Collection("users").Doc(userID).Collection("backup").Doc("ledger"),
		log:     log,
		pending: make(map[string]struct{}),
	}, nil
}

// Publish upserts the whole remote document.
func (b *Bridge) Publish(ctx context.Context, doc backup.Document) error {
	key := doc.Key()
	b.mu.Lock()
	b.pending[key] = struct{}{}
	b.mu.Unlock()

	if _, err := b.doc.Set(ctx, doc); err != nil {
		b.mu.Lock()
		delete(b.pending, key)
		b.mu.Unlock()
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}
	return nil
}

// Subscribe starts the snapshot listener in the background. Delivery stops
// when ctx is cancelled.
func (b *Bridge) Subscribe(ctx context.Context, handler func(backup.Document)) error {
	go b.watch(ctx, handler)
	return nil
}

func (b *Bridge) watch(ctx context.Context, handler func(backup.Document)) {
	it := b.doc.Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if status.Code(err) == codes.Canceled {
				return
			}
			b.log.Error().Err(err).Msg("snapshot listener terminated")
			return
		}
		if !snap.Exists() {
			continue
		}

		var doc backup.Document
		if err := snap.DataTo(&doc); err != nil {
			b.log.Warn().Err(err).Msg("malformed remote snapshot, skipping")
			continue
		}

		b.mu.Lock()
		_, own := b.pending[doc.Key()]
		if own {
			delete(b.pending, doc.Key())
		}
		b.mu.Unlock()
		if own {
			// Echo of our own write; the local state already reflects it.
			continue
		}
		handler(doc)
	}
}

// Close releases the Firestore client.
func (b *Bridge) Close() error {
	return b.client.Close()
}
