package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectPostgres_RequiresDSN(t *testing.T) {
	_, err := ConnectPostgres("", false)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	s, err := Open("sqlite", ":memory:", false)
	assert.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	assert.NoError(t, s.Close())

	_, err = Open("mysql", "x", false)
	assert.Error(t, err)
}
