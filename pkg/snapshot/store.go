package snapshot

import (
	"context"
	"fmt"

	"github.com/platinummonkey/visual/pkg/observability"
	"github.com/platinummonkey/visual/pkg/param"
)

// Store persists parameter manifests by name
type Store interface {
	Save(ctx context.Context, name string, m *param.Manifest) error
	Load(ctx context.Context, name string) (*param.Manifest, error)
	Close() error
}

// Open connects to the backend named by backend ("redis", "sqlite3" or
// "postgres") at dsn
func Open(ctx context.Context, backend, dsn string) (Store, error) {
	switch backend {
	case "redis":
		return NewRedisStore(ctx, dsn)
	case DialectSQLite, DialectPostgres:
		return OpenSQLStore(ctx, backend, dsn)
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", backend)
	}
}

func recordSave(err error) {
	observability.DefaultMetrics().SnapshotOperation("save", status(err))
}

func recordLoad(err error) {
	observability.DefaultMetrics().SnapshotOperation("load", status(err))
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
