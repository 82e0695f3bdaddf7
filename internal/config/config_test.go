package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:             "5000",
		Env:              "development",
		DBDriver:         DriverSQLite,
		DBPath:           "blog.db",
		RecentPostsLimit: 9,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"defaults are valid", func(_ *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"driver is normalised", func(c *Config) { c.DBDriver = "  SQLite " }, false},
		{"sqlite without path", func(c *Config) { c.DBPath = "" }, true},
		{"postgres without host", func(c *Config) { c.DBDriver = DriverPostgres; c.DBName = "blog" }, true},
		{"postgres with host and name", func(c *Config) {
			c.DBDriver = DriverPostgres
			c.DBHost = "db"
			c.DBName = "blog"
		}, false},
		{"mirror url without key", func(c *Config) { c.MirrorURL = "https://mirror.example" }, true},
		{"mirror url with key", func(c *Config) {
			c.MirrorURL = "https://mirror.example"
			c.MirrorAPIKey = "anon-key"
		}, false},
		{"zero recent limit", func(c *Config) { c.RecentPostsLimit = 0 }, true},
		{"production without smtp credentials", func(c *Config) { c.Env = "production" }, true},
		{"production with smtp credentials", func(c *Config) {
			c.Env = "production"
			c.SMTPUsername = "me@example.com"
			c.SMTPPassword = "app-password"
		}, false},
		{"production postgres with default password", func(c *Config) {
			c.Env = "prod"
			c.SMTPUsername = "me@example.com"
			c.SMTPPassword = "app-password"
			c.DBDriver = DriverPostgres
			c.DBHost = "db"
			c.DBName = "blog"
			c.DBPassword = "password"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Recipient(t *testing.T) {
	c := validConfig()
	c.SMTPUsername = "owner@example.com"
	assert.Equal(t, "owner@example.com", c.Recipient())

	c.ContactRecipient = "inbox@example.com"
	assert.Equal(t, "inbox@example.com", c.Recipient())
}

func TestConfig_MirrorTimeout(t *testing.T) {
	c := validConfig()
	assert.Equal(t, 5*time.Second, c.MirrorTimeout())

	c.MirrorTimeoutSeconds = 2
	assert.Equal(t, 2*time.Second, c.MirrorTimeout())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("MIRROR_URL", "https://mirror.example")
	t.Setenv("MIRROR_API_KEY", "anon-key")
	t.Setenv("RECENT_POSTS_LIMIT", "12")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, DriverPostgres, c.DBDriver)
	assert.Equal(t, "db.internal", c.DBHost)
	assert.Equal(t, "comments", c.MirrorTable)
	assert.Equal(t, 12, c.RecentPostsLimit)
	assert.Equal(t, 587, c.SMTPPort)
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "test")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "5000", c.Port)
	assert.Equal(t, DriverSQLite, c.DBDriver)
	assert.Equal(t, "blog.db", c.DBPath)
	assert.Equal(t, 9, c.RecentPostsLimit)
	assert.False(t, c.IsProduction())
}
