package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveChatURL(t *testing.T) {
	tests := []struct {
		backend string
		want    string
	}{
		{"http://127.0.0.1:5000", "ws://127.0.0.1:5000/chat"},
		{"https://api.example.com", "wss://api.example.com/chat"},
		{"https://api.example.com/v1/", "wss://api.example.com/v1/chat"},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			got, err := DeriveChatURL(tt.backend)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a, ,http://b "))
	assert.Nil(t, splitList(""))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("verbose"))
}

func TestExportEnabled(t *testing.T) {
	prev := AWSBucketName
	t.Cleanup(func() { AWSBucketName = prev })

	AWSBucketName = ""
	assert.False(t, ExportEnabled())
	AWSBucketName = "exports"
	assert.True(t, ExportEnabled())
}
