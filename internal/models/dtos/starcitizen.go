package dtos

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexFloat decodes a JSON number that the upstream API sometimes serializes
// as a quoted string ("12.5") and sometimes as a number.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// FlexInt is the integer counterpart of FlexFloat.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = FlexInt(int(v))
	return nil
}

// SCEnvelope is the upstream response wrapper. Success is 0 on API-level
// failure; absent means success.
type SCEnvelope struct {
	Success *FlexInt        `json:"success"`
	Message string          `json:"message"`
	Source  string          `json:"source"`
	Data    json.RawMessage `json:"data"`
}

// Failed reports whether the envelope carries an API-level error.
func (e *SCEnvelope) Failed() bool {
	return e.Success != nil && *e.Success == 0
}

type SCManufacturer struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

type SCCrew struct {
	Min *FlexInt `json:"min"`
	Max *FlexInt `json:"max"`
}

type SCMedia struct {
	Image string `json:"image"`
}

// SCShip is one ship entry from v1/cache/ships. Raw keeps the undecoded
// element so the full payload can be stored verbatim.
type SCShip struct {
	ID               *FlexInt       `json:"id"`
	Name             string         `json:"name"`
	Model            string         `json:"model"`
	Type             string         `json:"type"`
	Size             string         `json:"size"`
	Focus            string         `json:"focus"`
	Description      string         `json:"description"`
	Length           *FlexFloat     `json:"length"`
	Beam             *FlexFloat     `json:"beam"`
	Height           *FlexFloat     `json:"height"`
	Mass             *FlexFloat     `json:"mass"`
	Cargo            *FlexInt       `json:"cargo"`
	MaxSpeed         *FlexInt       `json:"max_speed"`
	Price            *FlexFloat     `json:"price"`
	StoreURL         string         `json:"store_url"`
	ProductionStatus string         `json:"production_status"`
	Manufacturer     SCManufacturer `json:"manufacturer"`
	Crew             SCCrew         `json:"crew"`
	Media            SCMedia        `json:"media"`

	Raw json.RawMessage `json:"-"`
}

// SCOrganization is the organization view returned by v1/live/user/{sid}.
type SCOrganization struct {
	Name        string   `json:"name"`
	Archetype   string   `json:"archetype"`
	Commitment  string   `json:"commitment"`
	Description string   `json:"description"`
	Members     *FlexInt `json:"members"`
	Banner      string   `json:"banner"`
	Logo        string   `json:"logo"`
	URL         string   `json:"url"`

	Raw json.RawMessage `json:"-"`
}

// SCOrgMember is one roster entry from v1/live/organization_members/{sid}.
type SCOrgMember struct {
	Handle      string   `json:"handle"`
	DisplayName string   `json:"display_name"`
	Rank        string   `json:"rank"`
	Stars       *FlexInt `json:"stars"`
	Image       string   `json:"image"`

	Raw json.RawMessage `json:"-"`
}
