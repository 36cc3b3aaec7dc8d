package spauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("SP_SITE_URL", "https://contoso.sharepoint.com/sites/team")
	t.Setenv("SP_TENANT_ID", "tenant")
	t.Setenv("SP_CLIENT_ID", "client")
	t.Setenv("SP_CERT_PATH", "/tmp/cert.pfx")
	t.Setenv("SP_CERT_PASSWORD", "")

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, "https://contoso.sharepoint.com/sites/team", cfg.SiteURL)
	assert.Equal(t, "/tmp/cert.pfx", cfg.CertPath)
}

func TestFromEnv_ReportsMissingKeys(t *testing.T) {
	t.Setenv("SP_SITE_URL", "https://contoso.sharepoint.com")
	t.Setenv("SP_TENANT_ID", "")
	t.Setenv("SP_CLIENT_ID", "client")
	t.Setenv("SP_CERT_PATH", "")

	_, err := FromEnv()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SP_TENANT_ID")
	assert.Contains(t, err.Error(), "SP_CERT_PATH")
	assert.NotContains(t, err.Error(), "SP_CLIENT_ID")
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(Config{
		SiteURL:  "https://contoso.sharepoint.com/sites/team",
		TenantID: "tenant",
		ClientID: "client",
		CertPath: "/tmp/cert.pfx",
	})

	require.NoError(t, err)
	require.NotNil(t, client.AuthCnfg)
	assert.Equal(t, "https://contoso.sharepoint.com/sites/team", client.AuthCnfg.GetSiteURL())

	_, err = NewClient(Config{})
	assert.Error(t, err)
}
