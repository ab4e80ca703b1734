package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/address-verification/internal/core/domain"
	"github.com/99minutos/address-verification/internal/core/ports"
	"github.com/99minutos/address-verification/internal/infrastructure/postcoder"
)

type fakeVerifier struct{ name string }

func (f fakeVerifier) Name() string { return f.name }

func (f fakeVerifier) Verify(context.Context, *domain.Location, bool) (bool, string, error) {
	return false, "", nil
}

func TestRegistry_RegisterAndCreate(t *testing.T) {
	r := NewRegistry()
	err := r.Register(" Fake ", func(Options, zerolog.Logger) (ports.AddressVerifier, error) {
		return fakeVerifier{name: "fake"}, nil
	})
	require.NoError(t, err)

	v, err := r.Create("FAKE", nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "fake", v.Name())
	assert.Equal(t, []string{"fake"}, r.Names())
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()
	assert.ErrorIs(t, r.Register("x", nil), ErrNilFactory)

	f := func(Options, zerolog.Logger) (ports.AddressVerifier, error) { return fakeVerifier{}, nil }
	require.NoError(t, r.Register("x", f))

	var perr *ProviderError
	require.ErrorAs(t, r.Register("x", f), &perr)
	assert.Equal(t, codeConflict, perr.ErrorCode())

	_, err := r.Create("missing", nil, zerolog.Nop())
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, codeNotFound, perr.ErrorCode())
}

func TestNewDefaultRegistry(t *testing.T) {
	assert.Equal(t, []string{NamePostcoderWeb}, NewDefaultRegistry().Names())
}

func TestNewPostcoderWeb_Options(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{name: "missing api key", opts: Options{}, wantErr: `option "api_key" not found`},
		{name: "empty api key", opts: Options{OptAPIKey: ""}, wantErr: `option "api_key" not found`},
		{name: "bad timeout", opts: Options{OptAPIKey: "k", OptTimeout: "soon"}, wantErr: `option "timeout" has invalid value "soon"`},
		{name: "blank api key", opts: Options{OptAPIKey: "  "}, wantErr: postcoder.ErrMissingAPIKey.Error()},
		{name: "valid", opts: Options{OptAPIKey: "k", OptTimeout: "5s", OptCountryCodes: "gb, us"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewPostcoderWeb(tt.opts, zerolog.Nop())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "PostcoderWeb", v.Name())
		})
	}
}

func TestPostcoderWeb_EndToEnd(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"addressline1": "Allies Computing Ltd",
			"addressline2": "Manor Farm Barns",
			"posttown": "Norwich",
			"county": "Norfolk",
			"postcode": "NR14 7PZ",
			"uniquedeliverypointreferencenumber": "52511436",
			"latitude": "52.5859714",
			"longitude": 1.3491229
		}]`))
	}))
	defer srv.Close()

	r := NewDefaultRegistry()
	v, err := r.Create(NamePostcoderWeb, Options{
		OptAPIKey:     "PCW-KEY",
		OptBaseURL:    srv.URL,
		OptIdentifier: "locations:1.0 DB:mongo",
	}, zerolog.Nop())
	require.NoError(t, err)

	loc := &domain.Location{ID: "loc-1", PostalCode: "NR14 7PZ", Country: "GB"}
	verified, result, err := v.Verify(context.Background(), loc, false)

	require.NoError(t, err)
	assert.True(t, verified)
	assert.Equal(t, "UDPRN: 52511436", result)
	assert.Equal(t, "/pcw/PCW-KEY/addressgeo/UK/NR14%207PZ", gotPath)
	assert.True(t, strings.Contains(gotQuery, "lines=2"))
	assert.True(t, strings.Contains(gotQuery, "identifier=locations%3A1.0+DB%3Amongo"))

	assert.Equal(t, "Allies Computing Ltd", loc.Street1)
	assert.Equal(t, "Manor Farm Barns", loc.Street2)
	assert.Equal(t, "Norwich", loc.City)
	require.NotNil(t, loc.GeoPoint)
	assert.Equal(t, 52.5859714, loc.GeoPoint.Lat)
	assert.Equal(t, result, loc.GeocodeAttemptedResult)
}

func TestPostcoderWeb_EndToEnd_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	v, err := NewPostcoderWeb(Options{OptAPIKey: "k", OptBaseURL: srv.URL}, zerolog.Nop())
	require.NoError(t, err)

	loc := &domain.Location{ID: "loc-2", PostalCode: "NR14 7PZ", Country: "GB"}
	verified, result, err := v.Verify(context.Background(), loc, false)

	assert.False(t, verified)
	assert.True(t, errors.Is(err, domain.ErrLookupFailed))
	assert.True(t, postcoder.IsDecode(err))
	assert.NotEmpty(t, result)
	assert.Equal(t, result, loc.StandardizeAttemptedResult)
}
