// Package paths resolves the directories and file names evdefteri uses.
//
// The package wraps github.com/adrg/xdg for XDG Base Directory compliance.
// On Linux the defaults are:
//
//	~/.config/evdefteri/config.yaml
//	~/.local/share/evdefteri/evdefteri.db
//	~/.local/share/evdefteri/backups/evdefteri_yedek_<YYYY-MM-DD>.json
//
// All of them can be overridden through configuration.
package paths
