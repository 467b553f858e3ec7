package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenFailsWithoutServer(t *testing.T) {
	_, err := Open(context.Background(), "postgres://nobody@127.0.0.1:1/none?connect_timeout=1&sslmode=disable")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "verify postgres connection")
}
