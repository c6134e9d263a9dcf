package backup

import (
	"time"

	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/domain/ledger"
)

// Document is the remote snapshot: the full ledger state wrapped with
// provenance metadata. Synchronization replaces whole documents; there is no
// per-field merge.
type Document struct {
	BackupData  ledger.State `json:"backupData" firestore:"backupData"`
	LastUpdated time.Time    `json:"lastUpdated" firestore:"lastUpdated"`
	Device      string       `json:"device" firestore:"device"`
}

// Key identifies a published document for echo suppression: a device never
// applies a notification for a write it has itself not yet seen acknowledged.
func (d Document) Key() string {
	return d.Device + "|" + d.LastUpdated.UTC().Format(time.RFC3339Nano)
}
