package backup

// Metadata keys.
const (
	KeyBackupDate = "_backup_date"
	KeyAppVersion = "_app_version"
)

// Section keys. Each names a storage key holding one JSON value.
const (
	KeyHomeProfile         = "home_profile"
	KeyHomeHistory         = "home_history"
	KeyHomes               = "home_homes"
	KeySelectedHome        = "home_selected_id"
	KeyXP                  = "home_xp"
	KeyFinanceTransactions = "finance_transactions"
	KeyFinanceSavings      = "finance_savings"

	// Legacy names of KeyHomes and KeySelectedHome, still accepted on import.
	KeyHomesLegacy        = "homes_list"
	KeySelectedHomeLegacy = "current_home_id"
)

// Section is one restorable part of a backup: the storage key it is written
// to and the document keys it may be read from, in order of preference.
type Section struct {
	Key     string
	Sources []string
}

// Sections lists the restorable sections in write order.
var Sections = []Section{
	{Key: KeyHomeProfile, Sources: []string{KeyHomeProfile}},
	{Key: KeyHomeHistory, Sources: []string{KeyHomeHistory}},
	{Key: KeyHomes, Sources: []string{KeyHomes, KeyHomesLegacy}},
	{Key: KeySelectedHome, Sources: []string{KeySelectedHome, KeySelectedHomeLegacy}},
	{Key: KeyXP, Sources: []string{KeyXP}},
	{Key: KeyFinanceTransactions, Sources: []string{KeyFinanceTransactions}},
	{Key: KeyFinanceSavings, Sources: []string{KeyFinanceSavings}},
}

// DefaultKeys returns the seven storage keys an export collects.
func DefaultKeys() []string {
	keys := make([]string, len(Sections))
	for i, s := range Sections {
		keys[i] = s.Key
	}
	return keys
}

// AllowedKeys returns the eleven top-level keys a backup document may contain.
func AllowedKeys() []string {
	return []string{
		KeyBackupDate,
		KeyAppVersion,
		KeyHomeProfile,
		KeyHomeHistory,
		KeyHomes,
		KeyHomesLegacy,
		KeySelectedHome,
		KeySelectedHomeLegacy,
		KeyXP,
		KeyFinanceTransactions,
		KeyFinanceSavings,
	}
}

var allowed = func() map[string]bool {
	m := make(map[string]bool)
	for _, k := range AllowedKeys() {
		m[k] = true
	}
	return m
}()

// legacySource returns the legacy name of a canonical section key.
func legacySource(key string) (string, bool) {
	for _, s := range Sections {
		if s.Key == key && len(s.Sources) > 1 {
			return s.Sources[1], true
		}
	}
	return "", false
}
