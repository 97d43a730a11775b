package database

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBConfig_ConnectionStrings(t *testing.T) {
	cfg := DBConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "connector"}

	assert.Equal(t, "host=db port=5433 user=u password=p dbname=connector sslmode=disable", cfg.DSN())
	assert.Equal(t, "postgres://u:p@db:5433/connector?sslmode=disable", cfg.MigrationURL())

	cfg.SSLMode = "require"
	assert.Equal(t, "postgres://u:p@db:5433/connector?sslmode=require", cfg.MigrationURL())
}

func TestDBConfig_MigrationURLEscapesCredentials(t *testing.T) {
	cfg := DBConfig{Host: "db", Port: 5432, User: "app@team", Password: "p@ss:w/rd?#", DBName: "connector"}

	raw := cfg.MigrationURL()
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	password, ok := parsed.User.Password()
	require.True(t, ok)
	assert.Equal(t, "app@team", parsed.User.Username())
	assert.Equal(t, "p@ss:w/rd?#", password)
	assert.Equal(t, "db:5432", parsed.Host)
	assert.Equal(t, "/connector", parsed.Path)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
}

func TestDBConfig_DSNQuotesSpecialValues(t *testing.T) {
	cfg := DBConfig{Host: "db", Port: 5432, User: "u", Password: `it's a \secret`, DBName: "connector"}

	assert.Equal(t,
		`host=db port=5432 user=u password='it\'s a \\secret' dbname=connector sslmode=disable`,
		cfg.DSN())

	cfg.Password = ""
	assert.Contains(t, cfg.DSN(), "password='' ")
}
