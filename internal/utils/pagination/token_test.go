package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeqTokenRoundTrip(t *testing.T) {
	token := EncodeSeqToken(42)
	seq, err := DecodeSeqToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), seq)
}

func TestDecodeSeqTokenInvalid(t *testing.T) {
	_, err := DecodeSeqToken("not-base64!!!")
	assert.Error(t, err)

	// valid base64, not a number
	_, err = DecodeSeqToken("aGVsbG8=")
	assert.Error(t, err)
}

func TestTimeIDTokenRoundTrip(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 10, 30, 0, 123456789, time.UTC)
	token := EncodeTimeIDToken(createdAt, "abc-123")

	gotTime, gotID, err := DecodeTimeIDToken(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotTime))
	assert.Equal(t, "abc-123", gotID)
}

func TestTimeIDTokenKeepsPipesInID(t *testing.T) {
	createdAt := time.Now().UTC()
	token := EncodeTimeIDToken(createdAt, "id|with|pipes")

	_, gotID, err := DecodeTimeIDToken(token)
	require.NoError(t, err)
	assert.Equal(t, "id|with|pipes", gotID)
}

func TestDecodeTimeIDTokenInvalid(t *testing.T) {
	_, _, err := DecodeTimeIDToken("###")
	assert.Error(t, err)
}
