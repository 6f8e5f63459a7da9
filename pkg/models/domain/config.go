package domain

import "fmt"

// ProviderProfile is one named section of the credentials file.
type ProviderProfile struct {
	Name     string
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

func (p ProviderProfile) String() string {
	return fmt.Sprintf("%s:%s", p.Provider, p.Name)
}
