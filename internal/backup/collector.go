package backup

import (
	"context"
	"strings"
	"time"

	"github.com/thoreinstein/evdefteri/internal/jsonvalue"
	"github.com/thoreinstein/evdefteri/internal/kv"
	"github.com/thoreinstein/evdefteri/internal/logging"
)

// dateLayout is the _backup_date format: RFC 3339 in UTC with milliseconds.
const dateLayout = "2006-01-02T15:04:05.000Z07:00"

// Collect reads the configured storage keys from r into a new backup document
// and stamps it with _backup_date and _app_version.
//
// A key whose value is missing, blank, the JSON null literal, unparseable or
// unreadable is left out. For the two sections that were renamed, a missing
// canonical key falls back to the legacy key and the value is exported under
// the canonical name. Collect never fails.
func (m *Manager) Collect(ctx context.Context, r kv.Reader) *jsonvalue.Object {
	doc := jsonvalue.NewObject()

	for _, key := range m.keys {
		v, ok := m.read(ctx, r, key)
		if !ok {
			if legacy, has := legacySource(key); has {
				v, ok = m.read(ctx, r, legacy)
			}
		}
		if ok {
			doc.Set(key, v)
		}
	}

	doc.Set(KeyBackupDate, jsonvalue.String(m.now().UTC().Format(dateLayout)))
	doc.Set(KeyAppVersion, jsonvalue.String(m.version))
	return doc
}

func (m *Manager) read(ctx context.Context, r kv.Reader, key string) (jsonvalue.Value, bool) {
	raw, ok, err := r.Get(ctx, key)
	if err != nil {
		m.logger.Warn("skipping unreadable key", "key", key, "error", err)
		return nil, false
	}
	if !ok || strings.TrimSpace(raw) == "" {
		m.logger.Log(ctx, logging.LevelTrace, "key empty", "key", key)
		return nil, false
	}

	v, err := jsonvalue.ParseString(raw)
	if err != nil {
		m.logger.Warn("skipping unparseable key", "key", key, "error", err)
		return nil, false
	}
	if v.Kind() == jsonvalue.KindNull {
		return nil, false
	}

	m.logger.Log(ctx, logging.LevelTrace, "collected key", "key", key, "value", raw)
	return v, true
}

// Collect builds a backup document from r with the default key list.
func Collect(ctx context.Context, r kv.Reader) *jsonvalue.Object {
	return NewManager().Collect(ctx, r)
}

// BackupDate returns the parsed _backup_date of doc.
func BackupDate(doc *jsonvalue.Object) (time.Time, bool) {
	v, ok := doc.Get(KeyBackupDate)
	if !ok {
		return time.Time{}, false
	}
	s, ok := v.(jsonvalue.String)
	if !ok {
		return time.Time{}, false
	}
	return parseDate(string(s))
}
