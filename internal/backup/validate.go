package backup

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/jsonvalue"
)

// rootPath prefixes every field path in rejection reasons.
const rootPath jsonvalue.Path = "root"

// Accepted _backup_date layouts. time.Parse accepts fractional seconds after
// the seconds field even when the layout omits them.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// maliciousPatterns are matched case-insensitively against every string and
// key: a script tag opener, a javascript: URI, an inline event handler
// attribute, an eval( call and a Function( constructor call.
var maliciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<\s*script\b`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)eval\s*\(`),
	regexp.MustCompile(`(?i)function\s*\(`),
}

// Result is the outcome of Validate: accepted, or rejected with a reason.
// The zero value is accepted.
type Result struct {
	reason string
	field  string
	kind   error
}

func reject(kind error, field jsonvalue.Path, format string, args ...any) Result {
	return Result{
		reason: fmt.Sprintf(format, args...),
		field:  string(field),
		kind:   kind,
	}
}

// Accepted reports whether the document may be restored.
func (r Result) Accepted() bool { return r.kind == nil }

// Reason is the human-readable rejection reason, empty when accepted.
func (r Result) Reason() string { return r.reason }

// Field is the document path the rejection refers to, if any.
func (r Result) Field() string { return r.field }

// Err returns nil when accepted. Otherwise the error message is the reason
// and the error is marked with ErrRejected and the sentinel of the failed
// check.
func (r Result) Err() error {
	if r.Accepted() {
		return nil
	}
	return errors.Mark(errors.Mark(errors.Newf("%s", r.reason), r.kind), ErrRejected)
}

func (r Result) String() string {
	if r.Accepted() {
		return "accepted"
	}
	return "rejected: " + r.reason
}

// Validate decides whether doc is a well-formed, safe backup document. Checks
// run in a fixed order and the first failure is returned:
//
//  1. doc is an object
//  2. _backup_date is present
//  3. _backup_date parses as a timestamp
//  4. every top-level key is allowed
//  5. homes sections hold objects with numeric ids
//  6. home_history entries have an id
//  7. finance_transactions entries have an id and a numeric amount if any
//  8. finance_savings is an array
//  9. every string and key is short and harmless, every array is bounded
//
// Validate has no side effects.
func Validate(v jsonvalue.Value) Result {
	doc, ok := v.(*jsonvalue.Object)
	if !ok || doc == nil {
		return reject(ErrInvalidFormat, "", "invalid format")
	}

	date, ok := doc.Get(KeyBackupDate)
	if !ok || jsonvalue.IsEmpty(date) {
		return reject(ErrMissingMetadata, KeyBackupDate, "missing metadata")
	}
	s, ok := date.(jsonvalue.String)
	if !ok {
		return reject(ErrInvalidDate, KeyBackupDate, "invalid date format")
	}
	if _, ok := parseDate(string(s)); !ok {
		return reject(ErrInvalidDate, KeyBackupDate, "invalid date format")
	}

	var unexpected []string
	for _, k := range doc.Keys() {
		if !allowed[k] {
			unexpected = append(unexpected, k)
		}
	}
	if len(unexpected) > 0 {
		return reject(ErrUnexpectedKeys, "", "unexpected keys: %s", strings.Join(unexpected, ", "))
	}

	checks := []func(*jsonvalue.Object) Result{
		func(d *jsonvalue.Object) Result { return checkHomes(d, KeyHomes) },
		func(d *jsonvalue.Object) Result { return checkHomes(d, KeyHomesLegacy) },
		checkHistory,
		checkTransactions,
		checkSavings,
		scanContent,
	}
	for _, check := range checks {
		if r := check(doc); !r.Accepted() {
			return r
		}
	}
	return Result{}
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sectionArray returns the array stored under key. present is false when the
// key is absent; a non-array value is rejected.
func sectionArray(doc *jsonvalue.Object, key string) (arr jsonvalue.Array, present bool, r Result) {
	v, ok := doc.Get(key)
	if !ok {
		return nil, false, Result{}
	}
	arr, ok = v.(jsonvalue.Array)
	if !ok {
		return nil, true, reject(ErrInvalidStructure, rootPath.Key(key), "%s must be an array", key)
	}
	return arr, true, Result{}
}

func member(v jsonvalue.Value, key string) jsonvalue.Value {
	obj, ok := v.(*jsonvalue.Object)
	if !ok {
		return nil
	}
	m, _ := obj.Get(key)
	return m
}

func checkHomes(doc *jsonvalue.Object, key string) Result {
	homes, _, r := sectionArray(doc, key)
	if !r.Accepted() {
		return r
	}
	for i, h := range homes {
		if _, ok := member(h, "id").(jsonvalue.Number); !ok {
			return reject(ErrInvalidStructure, rootPath.Key(key).Index(i).Key("id"),
				"invalid home #%d: id must be a number", i+1)
		}
	}
	return Result{}
}

func checkHistory(doc *jsonvalue.Object) Result {
	records, _, r := sectionArray(doc, KeyHomeHistory)
	if !r.Accepted() {
		return r
	}
	for i, rec := range records {
		if jsonvalue.IsEmpty(member(rec, "id")) {
			return reject(ErrInvalidStructure, rootPath.Key(KeyHomeHistory).Index(i).Key("id"),
				"invalid history record #%d: id is required", i+1)
		}
	}
	return Result{}
}

func checkTransactions(doc *jsonvalue.Object) Result {
	txs, _, r := sectionArray(doc, KeyFinanceTransactions)
	if !r.Accepted() {
		return r
	}
	for i, tx := range txs {
		at := rootPath.Key(KeyFinanceTransactions).Index(i)
		if jsonvalue.IsEmpty(member(tx, "id")) {
			return reject(ErrInvalidStructure, at.Key("id"), "invalid transaction #%d: id is required", i+1)
		}
		obj := tx.(*jsonvalue.Object) // a non-object has no id
		if amount, ok := obj.Get("amount"); ok {
			if _, isNum := amount.(jsonvalue.Number); !isNum {
				return reject(ErrInvalidStructure, at.Key("amount"), "invalid transaction #%d: amount must be a number", i+1)
			}
		}
	}
	return Result{}
}

func checkSavings(doc *jsonvalue.Object) Result {
	_, _, r := sectionArray(doc, KeyFinanceSavings)
	return r
}

// errStopScan ends a content walk once a rejection is recorded.
var errStopScan = errors.New("stop scan")

type contentScanner struct {
	result Result
}

func scanContent(doc *jsonvalue.Object) Result {
	s := &contentScanner{}
	_ = jsonvalue.Walk(doc, rootPath, s)
	return s.result
}

func (s *contentScanner) VisitArray(path jsonvalue.Path, length int) error {
	if length > MaxArrayLength {
		s.result = reject(ErrArrayTooLong, path, "%s exceeds maximum array length of %d", path, MaxArrayLength)
		return errStopScan
	}
	return nil
}

func (s *contentScanner) VisitKey(path jsonvalue.Path, key string) error {
	return s.check(path, key)
}

func (s *contentScanner) VisitString(path jsonvalue.Path, str string) error {
	return s.check(path, str)
}

func (s *contentScanner) check(path jsonvalue.Path, str string) error {
	if utf8.RuneCountInString(str) > MaxStringLength {
		s.result = reject(ErrContentTooLong, path, "%s exceeds maximum length of %d characters", path, MaxStringLength)
		return errStopScan
	}
	for _, re := range maliciousPatterns {
		if re.MatchString(str) {
			s.result = reject(ErrMaliciousContent, path, "%s contains malicious content", path)
			return errStopScan
		}
	}
	return nil
}
