package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	testCases := []struct {
		name      string
		raw       string
		expected  time.Time
		expectErr bool
	}{
		{"RFC3339 UTC", "2025-06-02T10:00:00Z", time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), false},
		{"RFC3339 offset", "2025-06-02T10:00:00+02:00", time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC), false},
		{"datetime-local", "2025-06-02T10:30", time.Date(2025, 6, 2, 10, 30, 0, 0, berlin), false},
		{"space separated", "2025-06-02 10:30:15", time.Date(2025, 6, 2, 10, 30, 15, 0, berlin), false},
		{"bare date", "2025-06-02", time.Date(2025, 6, 2, 0, 0, 0, 0, berlin), false},
		{"surrounding space", "  2025-06-02T10:30  ", time.Date(2025, 6, 2, 10, 30, 0, 0, berlin), false},
		{"empty", "", time.Time{}, true},
		{"garbage", "tomorrow", time.Time{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Timestamp(tc.raw, berlin)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(got), "expected %v, got %v", tc.expected, got)
		})
	}
}

func TestOptionalInt(t *testing.T) {
	n, err := OptionalInt("")
	assert.NoError(t, err)
	assert.Nil(t, n)

	n, err = OptionalInt(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, *n)

	_, err = OptionalInt("twelve")
	assert.Error(t, err)
}

func TestParseRoomNumber(t *testing.T) {
	testCases := []struct {
		raw       string
		expected  RoomNumber
		expectErr bool
	}{
		{"A101", RoomNumber{Wing: "A", Floor: 1, Seq: 1}, false},
		{"c302", RoomNumber{Wing: "C", Floor: 3, Seq: 2}, false},
		{"HQ-412", RoomNumber{Wing: "HQ", Floor: 4, Seq: 12}, false},
		{"B2010", RoomNumber{Wing: "B", Floor: 2, Seq: 10}, false},
		{"A001", RoomNumber{}, true},
		{"Boardroom", RoomNumber{}, true},
		{"101", RoomNumber{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseRoomNumber(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
