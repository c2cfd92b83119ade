package custom

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDatetime_JSONRoundTrip(t *testing.T) {
	in := NewDatetime(time.Date(2024, 3, 7, 15, 4, 5, 0, time.UTC))

	b, err := json.Marshal(in)
	require.NoError(t, err)
	require.Equal(t, `"2024-03-07T15:04:05Z"`, string(b))

	var out Datetime
	require.NoError(t, json.Unmarshal(b, &out))
	require.True(t, in.Time().Equal(out.Time()))
}

func TestDatetime_UnmarshalJSON_Invalid(t *testing.T) {
	var d Datetime
	require.Error(t, json.Unmarshal([]byte(`"not-a-time"`), &d))
}

func TestDatetime_MarshalToUTC(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	d := NewDatetime(time.Date(2024, 6, 1, 20, 0, 0, 0, loc))
	require.Equal(t, "2024-06-02T00:00:00Z", d.String())
}

func TestDatetime_StringOrdering(t *testing.T) {
	// Lexicographic order on the string form must match chronological order,
	// as range queries rely on it.
	earlier := NewDatetime(time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC))
	later := NewDatetime(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.Less(t, earlier.String(), later.String())
}
