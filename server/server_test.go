package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JiscSD/openenum/registry"
)

var updated = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	logger, _ := test.NewNullLogger()

	store := registry.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), registry.Record{
		Name:   "protobuf.large.LargeOpenEnum",
		Syntax: "OPEN",
		Values: []registry.ValueRecord{
			{Name: "LARGE_ENUM_UNSPECIFIED", Number: 0},
			{Name: "LARGE_ENUM1", Number: 1},
			{Name: "LARGE_ENUM2", Number: 2},
		},
		Source:  "s3://schemas/large_open_enum.json",
		Updated: updated,
	}))
	require.NoError(t, store.Put(context.Background(), registry.Record{
		Name:   "demo.Level",
		Syntax: "CLOSED",
		Values: []registry.ValueRecord{
			{Name: "LOW", Number: 1},
			{Name: "HIGH", Number: 2},
		},
		Updated: updated,
	}))

	reg, err := registry.NewRegistry(logger, store, time.Hour)
	require.NoError(t, err)
	t.Cleanup(reg.Stop)

	s, err := New(logger, reg, prometheus.NewRegistry())
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func getJSON(t *testing.T, url string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

func TestServer_ListEnums(t *testing.T) {
	_, ts := newTestServer(t)

	var names []string
	status := getJSON(t, ts.URL+"/enums", &names)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"demo.Level", "protobuf.large.LargeOpenEnum"}, names)
}

func TestServer_GetEnum(t *testing.T) {
	s, ts := newTestServer(t)

	var got enumResponse
	status := getJSON(t, ts.URL+"/enums/protobuf.large.LargeOpenEnum", &got)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "protobuf.large.LargeOpenEnum", got.Name)
	assert.Equal(t, "OPEN", got.Syntax)
	assert.Equal(t, "s3://schemas/large_open_enum.json", got.Source)
	assert.True(t, updated.Equal(got.Updated))
	require.Len(t, got.Values, 4)
	assert.Equal(t, "UNRECOGNIZED", got.Values[3].Name)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.lookups))

	var errResp errorResponse
	status = getJSON(t, ts.URL+"/enums/demo.Missing", &errResp)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "enum demo.Missing not found", errResp.Error)
}

func TestServer_ListValues(t *testing.T) {
	_, ts := newTestServer(t)

	one, two := int32(1), int32(2)
	zero := int32(0)

	var open []valueResponse
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/enums/protobuf.large.LargeOpenEnum/values", &open))
	assert.Equal(t, []valueResponse{
		{Ordinal: 0, Name: "LARGE_ENUM_UNSPECIFIED", Number: &zero},
		{Ordinal: 1, Name: "LARGE_ENUM1", Number: &one},
		{Ordinal: 2, Name: "LARGE_ENUM2", Number: &two},
		{Ordinal: 3, Name: "UNRECOGNIZED"},
	}, open)

	var closed []valueResponse
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/enums/demo.Level/values", &closed))
	assert.Equal(t, []valueResponse{
		{Ordinal: 0, Name: "LOW", Number: &one},
		{Ordinal: 1, Name: "HIGH", Number: &two},
	}, closed)
}

func TestServer_Decode(t *testing.T) {
	s, ts := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
		want   decodeResponse
		err    string
	}{
		{
			name:   "Declared number",
			path:   "/enums/protobuf.large.LargeOpenEnum/decode?number=2",
			status: http.StatusOK,
			want:   decodeResponse{Enum: "protobuf.large.LargeOpenEnum", Ordinal: 2, Name: "LARGE_ENUM2", Number: 2},
		},
		{
			name:   "Extra query parameters",
			path:   "/enums/protobuf.large.LargeOpenEnum/decode?number=2&trace=1",
			status: http.StatusOK,
			want:   decodeResponse{Enum: "protobuf.large.LargeOpenEnum", Ordinal: 2, Name: "LARGE_ENUM2", Number: 2},
		},
		{
			name:   "Undeclared number in open enum",
			path:   "/enums/protobuf.large.LargeOpenEnum/decode?number=-7",
			status: http.StatusOK,
			want:   decodeResponse{Enum: "protobuf.large.LargeOpenEnum", Ordinal: 3, Name: "UNRECOGNIZED", Number: -7, Unrecognized: true},
		},
		{
			name:   "Undeclared number in closed enum",
			path:   "/enums/demo.Level/decode?number=9",
			status: http.StatusUnprocessableEntity,
			err:    "demo.Level: 9: number is not declared by closed enum",
		},
		{
			name:   "Missing number",
			path:   "/enums/demo.Level/decode",
			status: http.StatusBadRequest,
		},
		{
			name:   "Number out of range",
			path:   "/enums/demo.Level/decode?number=4294967296",
			status: http.StatusBadRequest,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.status == http.StatusOK {
				var got decodeResponse
				require.Equal(t, tc.status, getJSON(t, ts.URL+tc.path, &got))
				assert.Equal(t, tc.want, got)
				return
			}
			var got errorResponse
			require.Equal(t, tc.status, getJSON(t, ts.URL+tc.path, &got))
			if tc.err != "" {
				assert.Equal(t, tc.err, got.Error)
			} else {
				assert.Contains(t, got.Error, "invalid query")
			}
		})
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(s.unrecognized))
	assert.Equal(t, 6.0, testutil.ToFloat64(s.lookups))
}

func TestNew_DuplicateRegistration(t *testing.T) {
	logger, _ := test.NewNullLogger()
	reg := prometheus.NewRegistry()

	_, err := New(logger, nil, reg)
	require.NoError(t, err)

	_, err = New(logger, nil, reg)
	assert.Error(t, err)
}
