// Package spauth builds authenticated gosip clients for a SharePoint site.
package spauth

import (
	"fmt"
	"os"
	"strings"

	"github.com/koltyakov/gosip"
	"github.com/koltyakov/gosip/auth/azurecert"
)

// Config identifies the site and the Azure AD app certificate used to reach it.
type Config struct {
	SiteURL      string
	TenantID     string
	ClientID     string
	CertPath     string
	CertPassword string
}

// FromEnv reads the SP_* variables. The environment should already be loaded by main.go.
func FromEnv() (Config, error) {
	cfg := Config{
		SiteURL:      os.Getenv("SP_SITE_URL"),
		TenantID:     os.Getenv("SP_TENANT_ID"),
		ClientID:     os.Getenv("SP_CLIENT_ID"),
		CertPath:     os.Getenv("SP_CERT_PATH"),
		CertPassword: os.Getenv("SP_CERT_PASSWORD"),
	}
	return cfg, cfg.Validate()
}

// Validate reports which required settings are missing.
func (c Config) Validate() error {
	var missing []string
	for _, field := range []struct{ name, value string }{
		{"SP_SITE_URL", c.SiteURL},
		{"SP_TENANT_ID", c.TenantID},
		{"SP_CLIENT_ID", c.ClientID},
		{"SP_CERT_PATH", c.CertPath},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// NewClient returns a gosip client using the Azure certificate strategy.
// Token acquisition happens lazily on the first request.
func NewClient(cfg Config) (*gosip.SPClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ac := &azurecert.AuthCnfg{
		SiteURL:  cfg.SiteURL,
		TenantID: cfg.TenantID,
		ClientID: cfg.ClientID,
		CertPath: cfg.CertPath,
		CertPass: cfg.CertPassword,
	}
	return &gosip.SPClient{AuthCnfg: ac}, nil
}
