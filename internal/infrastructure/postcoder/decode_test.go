package postcoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAddressGeo_MapsLinesAndCoordinates(t *testing.T) {
	body := []byte(`[{
		"addressline1": "Allies Computing Ltd",
		"addressline2": "Manor Farm Barns",
		"posttown": "Norwich",
		"county": "Norfolk",
		"postcode": "NR14 7PZ",
		"uniquedeliverypointreferencenumber": "52511436",
		"latitude": "52.5859714",
		"longitude": 1.3491229
	}]`)

	got, err := decodeAddressGeo(body)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, []string{"Allies Computing Ltd", "Manor Farm Barns"}, got[0].Lines)
	assert.Equal(t, "Norwich", got[0].Town)
	assert.Equal(t, "Norfolk", got[0].Region)
	assert.Equal(t, "NR14 7PZ", got[0].PostalCode)
	assert.Equal(t, "52511436", got[0].UDPRN)
	require.NotNil(t, got[0].Geo)
	assert.InDelta(t, 52.5859714, got[0].Geo.Lat, 1e-9)
	assert.InDelta(t, 1.3491229, got[0].Geo.Lng, 1e-9)
}

func TestDecodeAddress_ComposesStreetLine(t *testing.T) {
	body := []byte(`[{"premise":"1600","street":"Pennsylvania Ave NW","posttown":"Washington","county":"DC","postcode":"20500"}]`)

	got, err := decodeAddress(body)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, []string{"1600 Pennsylvania Ave NW"}, got[0].Lines)
	assert.Nil(t, got[0].Geo, "generic endpoint never geocodes")
}

func TestDecodeAddress_OrganisationTakesFirstLine(t *testing.T) {
	body := []byte(`[{"organisation":"Acme Corp","premise":"12","street":"High St","pobox":"PO Box 9"}]`)

	got, err := decodeAddress(body)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, []string{"Acme Corp", "12 High St PO Box 9"}, got[0].Lines)
}

func TestDecodeAddress_Envelope(t *testing.T) {
	body := []byte(` {"result":{"hits":[{"street":"Main St","posttown":"Springfield"},{"street":"Second St"}]}}`)

	got, err := decodeAddress(body)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Main St", got[0].Lines[0])
	assert.Equal(t, "Springfield", got[0].Town)
}

func TestDecodeAddress_EmptyList(t *testing.T) {
	got, err := decodeAddress([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecoders_MalformedPayload(t *testing.T) {
	cases := map[string][]byte{
		"truncated":      []byte(`[{"street":`),
		"wrong shape":    []byte(`"hello"`),
		"bad coordinate": []byte(`[{"latitude":"north"}]`),
		"empty body":     []byte(``),
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeAddressGeo(body)
			assert.Error(t, err)
		})
	}

	_, err := decodeAddress([]byte(`{"result":{"hits":"nope"}}`))
	assert.Error(t, err)
}
