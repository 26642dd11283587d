package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDSN(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"empty", "", ""},
		{"quoted url", ` "postgres://u:p@h:5432/db" `, "postgres://u:p@h:5432/db"},
		{"postgresql scheme", "postgresql://u@h/db", "postgresql://u@h/db"},
		{"kv adds sslmode", "host=h  user=u   dbname=d", "host=h user=u dbname=d sslmode=disable"},
		{"kv keeps sslmode", "host=h user=u dbname=d sslmode=require", "host=h user=u dbname=d sslmode=require"},
		{"unknown form untouched", "quotes.db", "quotes.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDSN(tt.in))
		})
	}
}

func TestToURLDSN(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"full", "host=db port=5432 user=app password=s3cret dbname=quotes sslmode=disable",
			"postgres://app:s3cret@db:5432/quotes?sslmode=disable"},
		{"no password", "host=db user=app dbname=quotes", "postgres://app@db/quotes"},
		{"missing dbname", "host=db user=app", "host=db user=app"},
		{"already url", "postgres://a@b/c", "postgres://a@b/c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToURLDSN(tt.in))
		})
	}
}

func TestWithServiceKey(t *testing.T) {
	tests := []struct {
		name, dsn, key, want string
	}{
		{"url without password", "postgres://app@db:5432/quotes", "k3y", "postgres://app:k3y@db:5432/quotes"},
		{"url with password", "postgres://app:pw@db/quotes", "k3y", "postgres://app:pw@db/quotes"},
		{"kv without password", "host=db user=app dbname=q", "k3y", "host=db user=app dbname=q password=k3y"},
		{"kv with password", "host=db user=app password=pw dbname=q", "k3y", "host=db user=app password=pw dbname=q"},
		{"no key", "postgres://app@db/quotes", "", "postgres://app@db/quotes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WithServiceKey(tt.dsn, tt.key))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "host=db password=*** dbname=q", MaskDSN("host=db password=hunter2 dbname=q"))
	assert.Equal(t, "postgres://app:xxxxx@db/q", MaskDSN("postgres://app:hunter2@db/q"))
	assert.NotContains(t, MaskDSN("postgres://app:hunter2@db/q"), "hunter2")
}
