package backup

import "context"

// Bridge is the remote snapshot transport. Implementations publish whole
// documents and deliver change notifications for the single remote document,
// filtering out echoes of their own unacknowledged writes where the
// transport lets them detect those.
type Bridge interface {
	// Publish upserts the whole remote document.
	Publish(ctx context.Context, doc Document) error
	// Subscribe starts delivering remote document changes to handler until
	// ctx is cancelled. It returns once the subscription is established.
	Subscribe(ctx context.Context, handler func(Document)) error
}
