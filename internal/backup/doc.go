// Package backup exports the household data held in the key-value store to a
// single JSON document, and validates and restores such documents.
//
// # Backup Document
//
// A backup is one JSON object. It carries a _backup_date timestamp, an
// optional _app_version, and up to seven data sections, each the parsed JSON
// value of the storage key of the same name:
//
//	{
//	  "home_profile": {...},
//	  "home_history": [{"id": 1700000000000, "type": "bill", ...}],
//	  "home_homes": [{"id": 1700000000000, "name": "Ev"}],
//	  "home_selected_id": 1700000000000,
//	  "home_xp": 120,
//	  "finance_transactions": [{"id": 1, "type": "expense", "amount": 50}],
//	  "finance_savings": [...],
//	  "_backup_date": "2024-01-01T10:00:00.000Z",
//	  "_app_version": "1.4.0"
//	}
//
// Older exports use homes_list and current_home_id for the homes and
// selected home sections. Both spellings are accepted on import and written
// back under the current names.
//
// Files are named evdefteri_yedek_<YYYY-MM-DD>.json.
//
// # Export
//
// [Manager.Collect] reads the sections from a [kv.Reader]. Sections that are
// missing, empty or unreadable are left out; collecting never fails.
// [Manager.Export] writes the result atomically to the backup directory.
//
// # Validation
//
// [Validate] runs a fixed sequence of checks and stops at the first failure.
// A rejection carries a human-readable reason, the field path it refers to
// (e.g. root.home_history[3].description) and a sentinel error:
//
//   - [ErrInvalidFormat]: the document is not an object
//   - [ErrMissingMetadata]: no _backup_date
//   - [ErrInvalidDate]: _backup_date is not a timestamp
//   - [ErrUnexpectedKeys]: a top-level key outside the allow-list
//   - [ErrInvalidStructure]: a section has the wrong shape
//   - [ErrContentTooLong]: a string or key over [MaxStringLength] characters
//   - [ErrMaliciousContent]: script, event handler or eval-like content
//   - [ErrArrayTooLong]: an array over [MaxArrayLength] elements
//
// # Restore
//
// [Manager.Restore] writes each present section to its storage key. Writes
// are sequential and a failure leaves earlier keys written; the
// [RestoreReport] says which. [WithAtomic] switches to a single batch for
// stores implementing [kv.Batcher].
//
// [Manager.Import] chains the steps for a file: size check, read, parse,
// validate, restore. Nothing is written unless validation passes.
package backup
