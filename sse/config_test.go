package sse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDropPolicy(t *testing.T) {
	tests := []struct {
		in   string
		want DropPolicy
	}{
		{"drop_oldest", DropOldest},
		{"Drop-Oldest", DropOldest},
		{"oldest", DropOldest},
		{"drop_newest", DropNewest},
		{" newest ", DropNewest},
	}
	for _, tc := range tests {
		got, err := ParseDropPolicy(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseDropPolicy("random")
	assert.Error(t, err)
	assert.Equal(t, "drop_newest", DropNewest.String())
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	assert.Equal(t, Config{
		Path:              "/events",
		BufferSize:        16,
		DropPolicy:        "drop_oldest",
		KeepAliveInterval: 30 * time.Second,
	}, cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, DropOldest, cfg.Policy())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"relative path", Config{Path: "events", BufferSize: 1, DropPolicy: "drop_oldest"}, "path"},
		{"zero buffer", Config{Path: "/events", BufferSize: 0, DropPolicy: "drop_oldest"}, "buffer_size"},
		{"bad policy", Config{Path: "/events", BufferSize: 1, DropPolicy: "latest"}, "drop_policy"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}
