package ffmpeg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	t.Parallel()

	got, err := ParseDuration([]byte(`{"format":{"filename":"a.mp3","duration":"12.500000"}}`))
	require.NoError(t, err)
	require.Equal(t, 12500*time.Millisecond, got)

	_, err = ParseDuration([]byte(`{"format":{}}`))
	require.Error(t, err)

	_, err = ParseDuration([]byte(`{"format":{"duration":"N/A"}}`))
	require.Error(t, err)

	_, err = ParseDuration([]byte(`not json`))
	require.Error(t, err)
}
