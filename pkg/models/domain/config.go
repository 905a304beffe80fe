package domain

import "fmt"

// Profile is one set of App Store Connect credentials resolved from the
// credentials file. KeyPath points at the .p8 private key; the key
// itself is only read by the client.
type Profile struct {
	Name     string
	KeyID    string
	IssuerID string
	Vendor   string
	KeyPath  string
}

func (p Profile) String() string {
	return fmt.Sprintf("%s (vendor %s)", p.Name, p.Vendor)
}
