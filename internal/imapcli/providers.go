package imapcli

import (
	"fmt"
	"sort"
)

// #region providers
// Provider is a preset for a common IMAP host.
type Provider struct {
	Name  string
	Host  string
	Port  int
	Notes string
}

// providers maps preset names to their connection settings. All the
// majors require TLS on 993.
var providers = map[string]Provider{
	"gmail": {
		Name:  "gmail",
		Host:  "imap.gmail.com",
		Port:  993,
		Notes: "Requires app-specific password if 2FA enabled",
	},
	"outlook": {
		Name:  "outlook",
		Host:  "outlook.office365.com",
		Port:  993,
		Notes: "Works for Outlook.com and Office 365",
	},
	"yahoo": {
		Name:  "yahoo",
		Host:  "imap.mail.yahoo.com",
		Port:  993,
		Notes: "Requires app-specific password",
	},
	"icloud": {
		Name:  "icloud",
		Host:  "imap.mail.me.com",
		Port:  993,
		Notes: "Requires app-specific password",
	},
	"aol": {
		Name:  "aol",
		Host:  "imap.aol.com",
		Port:  993,
		Notes: "May require app-specific password",
	},
}

// LookupProvider resolves a preset name.
func LookupProvider(name string) (Provider, error) {
	p, ok := providers[name]
	if !ok {
		return Provider{}, fmt.Errorf("imap: unknown provider %q", name)
	}
	return p, nil
}

// Providers lists all presets sorted by name.
func Providers() []Provider {
	var out []Provider
	for _, p := range providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// #endregion providers
