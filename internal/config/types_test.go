package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"750ms", 750 * time.Millisecond, false},
		{"1m30s", 90 * time.Second, false},
		{"15", 15 * time.Second, false},
		{" 2s ", 2 * time.Second, false},
		{"", 0, false},
		{"-1s", 0, true},
		{"-3", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration())
		})
	}
}

func TestDuration_Marshal(t *testing.T) {
	d := Duration(1500 * time.Millisecond)
	assert.Equal(t, "1.5s", d.String())

	data, err := json.Marshal(struct {
		Timeout Duration `json:"timeout"`
	}{d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"timeout":"1.5s"}`, string(data))
}
