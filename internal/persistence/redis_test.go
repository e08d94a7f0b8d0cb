package persistence

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/telecom-tracker/internal/config"
)

func TestNewRedis_NotConfigured(t *testing.T) {
	assert.Nil(t, NewRedis(config.RedisConfig{}, zap.NewNop()))
}

func TestNewRedis_UnreachableServerDisablesStream(t *testing.T) {
	// grab a free port and release it so nothing is listening there
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	core, logs := observer.New(zap.WarnLevel)
	start := time.Now()
	rdb := NewRedis(config.RedisConfig{Addr: addr, TimeoutMS: 200}, zap.New(core))

	assert.Nil(t, rdb)
	assert.Less(t, time.Since(start), 3*time.Second)
	assert.Equal(t, 1, logs.FilterMessage("unable to reach redis; event stream disabled").Len())

	_, err = rdb.AppendToStream(context.Background(), "s", map[string]any{"k": "v"})
	assert.Error(t, err)
}
