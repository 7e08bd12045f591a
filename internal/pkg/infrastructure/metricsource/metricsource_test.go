package metricsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestFetchDaily(t *testing.T) {
	is := is.New(t)

	var gotAuth, gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"site":"example-site","platform":"web","metric":"visits","date":"2025-03-17","value":600000,"preliminary":false},
			{"site":"example-site","platform":"mobile","metric":"visits","date":"2025-03-17","value":120000,"preliminary":true},
			{"site":"broken-site","platform":"web","metric":"visits","date":"not-a-date","value":1}
		]`))
	}))
	defer server.Close()

	source := New(server.URL, "s3cr3t", "default")
	observations, err := source.FetchDaily(context.Background(), time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC))

	is.NoErr(err)
	is.Equal(gotAuth, "Bearer s3cr3t")
	is.Equal(gotQuery, "date=2025-03-17")

	// the row with a broken date is dropped
	is.Equal(len(observations), 2)
	is.Equal(observations[0].Site, "example-site")
	is.Equal(observations[0].Value, int64(600000))
	is.Equal(observations[0].Tenant, "default")
	is.True(observations[1].Preliminary)
}

func TestFetchDailyUpstreamError(t *testing.T) {
	is := is.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	source := New(server.URL, "", "default")
	_, err := source.FetchDaily(context.Background(), time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC))

	is.True(err != nil)
}
