package objectstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	bucket, key, err := ParseURI("s3://retail-models/forest/2024-06.msgpack")
	require.NoError(t, err)
	assert.Equal(t, "retail-models", bucket)
	assert.Equal(t, "forest/2024-06.msgpack", key)
}

func TestParseURI_Invalid(t *testing.T) {
	for _, uri := range []string{
		"models/random_forest.json",
		"https://bucket/key.json",
		"s3://bucket",
		"s3:///key.json",
	} {
		t.Run(uri, func(t *testing.T) {
			_, _, err := ParseURI(uri)
			assert.Error(t, err)
		})
	}
}
