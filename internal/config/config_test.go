package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T, c *Config)
	}{
		{
			name:    "missing api url",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:    "non-http api url",
			env:     map[string]string{"ERP_API_URL": "ftp://example"},
			wantErr: true,
		},
		{
			name:    "bad timeout",
			env:     map[string]string{"ERP_API_URL": "http://localhost:5000", "ERP_API_TIMEOUT": "soon"},
			wantErr: true,
		},
		{
			name: "defaults",
			env:  map[string]string{"ERP_API_URL": "http://localhost:5000/api/"},
			check: func(t *testing.T, c *Config) {
				if c.APIURL != "http://localhost:5000/api" {
					t.Errorf("APIURL = %q", c.APIURL)
				}
				if c.APITimeout != 15*time.Second {
					t.Errorf("APITimeout = %s", c.APITimeout)
				}
				if c.ServerPort != "8080" || c.DatabaseURL != "" {
					t.Errorf("ServerPort = %q, DatabaseURL = %q", c.ServerPort, c.DatabaseURL)
				}
			},
		},
		{
			name: "origins list",
			env:  map[string]string{"ERP_API_URL": "https://erp.example", "ALLOWED_ORIGINS": " http://a , ,http://b"},
			check: func(t *testing.T, c *Config) {
				if len(c.AllowedOrigins) != 2 || c.AllowedOrigins[1] != "http://b" {
					t.Errorf("AllowedOrigins = %v", c.AllowedOrigins)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"ERP_API_URL", "ERP_API_TIMEOUT", "DATABASE_URL", "SERVER_PORT", "ALLOWED_ORIGINS"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			c, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, c)
			}
		})
	}
}
