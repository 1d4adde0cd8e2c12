package backup

import (
	"context"

	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/jsonvalue"
	"github.com/thoreinstein/evdefteri/internal/kv"
	"github.com/thoreinstein/evdefteri/internal/logging"
)

// Restore writes every section present in doc to w, overwriting existing
// values. doc must have been accepted by Validate.
//
// Sections are written in the order of Sections under their canonical key;
// a legacy source name is used only when the canonical one is absent.
// Storage keys for absent sections are left untouched.
//
// By default writes are sequential and not atomic across keys: when one
// fails, the keys written before it stay written, the returned report lists
// them and the error names the failing key. With WithAtomic and a writer
// implementing kv.Batcher, all sections are written in one batch instead.
func (m *Manager) Restore(ctx context.Context, doc *jsonvalue.Object, w kv.Writer) (RestoreReport, error) {
	entries, err := restoreEntries(doc)
	if err != nil {
		return RestoreReport{}, err
	}

	if b, ok := w.(kv.Batcher); ok && m.atomic {
		if err := b.SetBatch(ctx, entries); err != nil {
			return RestoreReport{Atomic: true}, errors.Wrap(err, "restoring backup")
		}
		report := RestoreReport{Atomic: true}
		for _, e := range entries {
			report.Written = append(report.Written, e.Key)
		}
		m.logger.Info("restored backup", "keys", len(entries), "atomic", true)
		return report, nil
	}
	if m.atomic {
		m.logger.Warn("store does not support batch writes, restoring key by key")
	}

	var report RestoreReport
	for _, e := range entries {
		if err := w.Set(ctx, e.Key, e.Value); err != nil {
			m.logger.Error("restore interrupted", "key", e.Key, "written", len(report.Written), "error", err)
			return report, errors.Wrapf(err, "restoring %s", e.Key)
		}
		m.logger.Log(ctx, logging.LevelTrace, "restored key", "key", e.Key, "value", e.Value)
		report.Written = append(report.Written, e.Key)
	}
	m.logger.Info("restored backup", "keys", len(report.Written), "atomic", false)
	return report, nil
}

// Restore writes doc to w with default settings.
func Restore(ctx context.Context, doc *jsonvalue.Object, w kv.Writer) (RestoreReport, error) {
	return NewManager().Restore(ctx, doc, w)
}

func restoreEntries(doc *jsonvalue.Object) ([]kv.Entry, error) {
	var entries []kv.Entry
	for _, s := range Sections {
		v, _, ok := sectionValue(doc, s)
		if !ok {
			continue
		}
		data, err := jsonvalue.Marshal(v)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding %s", s.Key)
		}
		entries = append(entries, kv.Entry{Key: s.Key, Value: string(data)})
	}
	return entries, nil
}
