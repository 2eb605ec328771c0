package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectRejectsBadURL(t *testing.T) {
	client, err := Connect("http://localhost:6379")
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestConnectFailsWithoutServer(t *testing.T) {
	// Port 1 is never a redis server.
	client, err := Connect("redis://127.0.0.1:1/0")
	assert.Error(t, err)
	assert.Nil(t, client)
}
