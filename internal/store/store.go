package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/boothworks/voterscan/internal/config"
)

// Field names one independently-persisted session entry. Fields are
// written whole and removed (never blanked) when their value becomes
// absent, so corruption in one entry cannot poison the others.
type Field string

const (
	FieldDocumentData Field = "document_data"
	FieldDocumentName Field = "document_name"
	FieldDocumentMime Field = "document_mime"
	FieldRecords      Field = "records"
	FieldChatLog      Field = "chat_log"
	FieldActiveView   Field = "active_view"
)

// Fields lists every session entry, in display order.
var Fields = []Field{
	FieldDocumentData,
	FieldDocumentName,
	FieldDocumentMime,
	FieldRecords,
	FieldChatLog,
	FieldActiveView,
}

// Store is the durable per-field session store. Get reports presence
// explicitly so callers can distinguish "absent" from "empty string".
type Store interface {
	Get(ctx context.Context, field Field) (string, bool, error)
	Put(ctx context.Context, field Field, value string) error
	Delete(ctx context.Context, field Field) error

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates the store selected by store.driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.Path)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
