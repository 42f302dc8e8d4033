package s3client

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptions(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want int
	}{
		{name: "empty config", cfg: Config{}, want: 0},
		{name: "region only", cfg: Config{Region: "eu-west-1"}, want: 1},
		{name: "partial credentials are ignored", cfg: Config{AccessKeyID: "id"}, want: 0},
		{name: "region and credentials", cfg: Config{Region: "eu-west-1", AccessKeyID: "id", SecretAccessKey: "secret"}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, LoadOptions(tt.cfg), tt.want)
		})
	}
}

func TestClientOptions(t *testing.T) {
	opts := ClientOptions(Config{Endpoint: "http://localhost:9000", ForcePathStyle: true})
	require.Len(t, opts, 2)

	var o s3.Options
	for _, opt := range opts {
		opt(&o)
	}

	require.NotNil(t, o.BaseEndpoint)
	assert.Equal(t, "http://localhost:9000", *o.BaseEndpoint)
	assert.True(t, o.UsePathStyle)

	assert.Empty(t, ClientOptions(Config{}))
}
