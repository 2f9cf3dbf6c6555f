package persist

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataEncodeDecode(t *testing.T) {
	meta := map[string]string{"region": "US", "lot_size": "100"}

	encoded := encodeMetadata(meta)
	require.NotNil(t, encoded)
	raw, ok := encoded.(string)
	require.True(t, ok)

	record := &neo4j.Record{Keys: []string{"metadata"}, Values: []interface{}{raw}}
	decoded := getMetadataFromRecord(record, "metadata")
	assert.Equal(t, meta, decoded)
}

func TestMetadataEncode_EmptyIsNil(t *testing.T) {
	// nil keeps the property absent in Neo4j instead of storing "{}"
	assert.Nil(t, encodeMetadata(nil))
	assert.Nil(t, encodeMetadata(map[string]string{}))
}

func TestMetadataDecode_MissingOrBadProperty(t *testing.T) {
	record := &neo4j.Record{Keys: []string{"metadata"}, Values: []interface{}{nil}}
	assert.Nil(t, getMetadataFromRecord(record, "metadata"))

	record = &neo4j.Record{Keys: []string{"metadata"}, Values: []interface{}{"not json"}}
	assert.Nil(t, getMetadataFromRecord(record, "metadata"))
}
