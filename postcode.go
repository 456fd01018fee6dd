// Package postcodes is a client for the postcodes.io UK postcode and
// geolocation API.
//
// Every lookup returns a Postcode value or an *Error whose Kind tells the
// caller whether the network call failed, the response could not be parsed,
// or the service rejected the request:
//
//	client := postcodes.NewClient(slog.Default())
//	pc, err := client.FromCode(ctx, "SW1W0NY")
//	switch {
//	case errors.Is(err, postcodes.ErrService):
//		// e.g. "Invalid postcode"
//	case err != nil:
//		// transport or parse failure
//	}
//
// Fields missing from a response are absorbed into zero values: "" for
// strings and 0 for numbers. Only Validate treats a missing field as an error.
package postcodes

import "fmt"

// Postcode holds the metadata postcodes.io returns for one postcode.
type Postcode struct {
	Postcode                  string  `json:"postcode" yaml:"postcode"`
	Quality                   float64 `json:"quality" yaml:"quality"`
	Eastings                  float64 `json:"eastings" yaml:"eastings"`
	Northings                 float64 `json:"northings" yaml:"northings"`
	Country                   string  `json:"country" yaml:"country"`
	NHSHA                     string  `json:"nhs_ha" yaml:"nhs_ha"`
	Longitude                 float64 `json:"longitude" yaml:"longitude"`
	Latitude                  float64 `json:"latitude" yaml:"latitude"`
	EuropeanElectoralRegion   string  `json:"european_electoral_region" yaml:"european_electoral_region"`
	PrimaryCareTrust          string  `json:"primary_care_trust" yaml:"primary_care_trust"`
	Region                    string  `json:"region" yaml:"region"`
	LSOA                      string  `json:"lsoa" yaml:"lsoa"`
	MSOA                      string  `json:"msoa" yaml:"msoa"`
	Incode                    string  `json:"incode" yaml:"incode"`
	Outcode                   string  `json:"outcode" yaml:"outcode"`
	ParliamentaryConstituency string  `json:"parliamentary_constituency" yaml:"parliamentary_constituency"`
	AdminDistrict             string  `json:"admin_district" yaml:"admin_district"`
	Parish                    string  `json:"parish" yaml:"parish"`
	AdminCounty               string  `json:"admin_county" yaml:"admin_county"`
	AdminWard                 string  `json:"admin_ward" yaml:"admin_ward"`
	CED                       string  `json:"ced" yaml:"ced"`
	CCG                       string  `json:"ccg" yaml:"ccg"`
	NUTS                      string  `json:"nuts" yaml:"nuts"`
	Codes                     Codes   `json:"codes" yaml:"codes"`

	// RawCodes is the compact JSON text of the "codes" object as received,
	// or "" when the response had none. It keeps codes not modelled by Codes.
	RawCodes string `json:"raw_codes,omitempty" yaml:"raw_codes,omitempty"`
}

// Codes holds the GSS identifiers behind the names in Postcode.
type Codes struct {
	AdminDistrict             string `json:"admin_district" yaml:"admin_district"`
	AdminCounty               string `json:"admin_county" yaml:"admin_county"`
	AdminWard                 string `json:"admin_ward" yaml:"admin_ward"`
	Parish                    string `json:"parish" yaml:"parish"`
	ParliamentaryConstituency string `json:"parliamentary_constituency" yaml:"parliamentary_constituency"`
	CCG                       string `json:"ccg" yaml:"ccg"`
	CCGID                     string `json:"ccg_id" yaml:"ccg_id"`
	CED                       string `json:"ced" yaml:"ced"`
	NUTS                      string `json:"nuts" yaml:"nuts"`
	LSOA                      string `json:"lsoa" yaml:"lsoa"`
	MSOA                      string `json:"msoa" yaml:"msoa"`
	LAU2                      string `json:"lau2" yaml:"lau2"`
}

// String renders the record the way the CLI prints it.
func (p Postcode) String() string {
	return fmt.Sprintf("%s (%s, %s) -> (%v, %v)", p.Postcode, p.Region, p.Country, p.Latitude, p.Longitude)
}
