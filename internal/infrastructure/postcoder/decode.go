package postcoder

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/99minutos/address-verification/internal/core/domain"
	"github.com/99minutos/address-verification/internal/core/ports"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// address mirrors one Postcoder address object.
type address struct {
	AddressLine1 string `json:"addressline1"`
	AddressLine2 string `json:"addressline2"`
	SummaryLine  string `json:"summaryline"`
	Organisation string `json:"organisation"`
	BuildingName string `json:"buildingname"`
	POBox        string `json:"pobox"`
	UDPRN        string `json:"uniquedeliverypointreferencenumber"`
	Premise      string `json:"premise"`
	Street       string `json:"street"`
	Locality     string `json:"dependentlocality"`
	PostTown     string `json:"posttown"`
	County       string `json:"county"`
	Postcode     string `json:"postcode"`
	Latitude     coord  `json:"latitude"`
	Longitude    coord  `json:"longitude"`
	GridEasting  string `json:"grideasting"`
	GridNorthing string `json:"gridnorthing"`
	Number       string `json:"number"`
}

// envelope is the search-style reply some endpoints wrap their hits in.
type envelope struct {
	Result struct {
		Hits []address `json:"hits"`
	} `json:"result"`
}

// coord accepts latitude/longitude sent either as a JSON number or a string.
type coord float64

func (c *coord) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid coordinate %q: %w", s, err)
	}
	*c = coord(f)
	return nil
}

type decoder func(body []byte) ([]domain.LookupResult, error)

// decoders maps an endpoint method to the schema it replies with.
var decoders = map[string]decoder{
	ports.LookupMethodAddressGeo: decodeAddressGeo,
	ports.LookupMethodAddress:    decodeAddress,
}

// decodeAddressGeo reads the flat list returned by the geocoding endpoint.
// Address lines are used as-is and coordinates are always present.
func decodeAddressGeo(body []byte) ([]domain.LookupResult, error) {
	var list []address
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}

	out := make([]domain.LookupResult, 0, len(list))
	for _, a := range list {
		out = append(out, domain.LookupResult{
			Lines:      []string{a.AddressLine1, a.AddressLine2},
			Town:       a.PostTown,
			Region:     a.County,
			PostalCode: a.Postcode,
			UDPRN:      a.UDPRN,
			Geo:        &domain.Coordinates{Lat: float64(a.Latitude), Lng: float64(a.Longitude)},
		})
	}
	return out, nil
}

// decodeAddress reads the generic address endpoint, which replies either with
// a flat list or with a {"result":{"hits":[...]}} envelope. Street lines are
// composed from premise, street and PO box; an organisation takes line one
// and pushes the composed line down.
func decodeAddress(body []byte) ([]domain.LookupResult, error) {
	var list []address
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, err
		}
		list = env.Result.Hits
	} else if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}

	out := make([]domain.LookupResult, 0, len(list))
	for _, a := range list {
		line := joinNonEmpty(a.Premise, a.Street, a.POBox)

		lines := []string{line}
		if strings.TrimSpace(a.Organisation) != "" {
			lines = []string{a.Organisation, line}
		}

		out = append(out, domain.LookupResult{
			Lines:      lines,
			Town:       a.PostTown,
			Region:     a.County,
			PostalCode: a.Postcode,
			UDPRN:      a.UDPRN,
		})
	}
	return out, nil
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
