package htlc

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/htlc/errors"
)

func TestUnixTimeUnmarshal(t *testing.T) {
	cases := map[string]struct {
		raw      string
		wantTime UnixTime
		wantErr  *errors.Error
	}{
		"zero time as number": {
			raw:      "0",
			wantTime: 0,
		},
		"zero time as string": {
			raw:      `"1970-01-01T01:00:00+01:00"`,
			wantTime: 0,
		},
		"a time as string": {
			raw:      `"2019-04-04T11:35:40.89181085+02:00"`,
			wantTime: 1554370540,
		},
		"a time as number": {
			raw:      "1554370540",
			wantTime: 1554370540,
		},
		"negative number": {
			raw:     "-1",
			wantErr: errors.ErrInput,
		},
		"negative time as string": {
			raw:     `"1950-01-01T01:00:00+01:00"`,
			wantErr: errors.ErrInput,
		},
		"invalid string": {
			raw:     `"not a time string"`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got UnixTime
			err := json.Unmarshal([]byte(tc.raw), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %s", err)
			}
			if got != tc.wantTime {
				t.Fatalf("want %d time, got %d", tc.wantTime, got)
			}
		})
	}
}

func TestUnixTimeAdd(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour + 4*time.Second)

	unow := AsUnixTime(now)
	ufuture := unow.Add(time.Hour + 4*time.Second)

	if future.Unix() != int64(ufuture) {
		t.Fatalf("want %d, got %d", future.Unix(), ufuture)
	}

	if got, want := unow.AddDays(3), unow+3*86400; got != want {
		t.Fatalf("want %d, got %d", want, got)
	}
	if got, want := unow.AddDays(-1), unow-86400; got != want {
		t.Fatalf("want %d, got %d", want, got)
	}
}

func TestIsExpired(t *testing.T) {
	now := AsUnixTime(time.Now())
	ctx := WithBlockTime(context.Background(), now.Time())

	future := now.Add(5 * time.Minute)
	if IsExpired(ctx, future) {
		t.Fatal("future date")
	}

	if !IsExpired(ctx, now) {
		t.Fatal("exact same date")
	}

	past := now.Add(-5 * time.Minute)
	if !IsExpired(ctx, past) {
		t.Fatal("past date")
	}
}

func TestIsExpiredRequiresBlockTime(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("want panic")
		}
	}()
	IsExpired(context.Background(), 1)
}
