package redis

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndPing(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)

	client := New(Config{Host: host, Port: p})
	defer client.Close()

	assert.Equal(t, mr.Addr(), client.Options().Addr)
	assert.NoError(t, Ping(context.Background(), client))
}

func TestPing_Unreachable(t *testing.T) {
	client := New(Config{Host: "127.0.0.1", Port: 1})
	defer client.Close()

	err := Ping(context.Background(), client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}
