package wave

import (
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// ZoneRecords is the zone-record map attached to a WAVE name's registration
// metadata (core spec §3's "WAVE name record"), read from the Glyph envelope's
// app.data.zone map and stored content-addressed by the name's claim ref.
type ZoneRecords struct {
	Address     string            `cbor:"address,omitempty"`
	Avatar      string            `cbor:"avatar,omitempty"`
	Display     string            `cbor:"display,omitempty"`
	Description string            `cbor:"desc,omitempty"`
	URL         string            `cbor:"url,omitempty"`
	Email       string            `cbor:"email,omitempty"`
	A           string            `cbor:"A,omitempty"`
	AAAA        string            `cbor:"AAAA,omitempty"`
	CNAME       string            `cbor:"CNAME,omitempty"`
	TXT         []string          `cbor:"TXT,omitempty"`
	MX          []string          `cbor:"MX,omitempty"`
	NS          []string          `cbor:"NS,omitempty"`
	Custom      map[string]string `cbor:"custom,omitempty"`
}

// ZoneRecordsFromMetadata extracts zone records from a Glyph reveal
// envelope's metadata map, under the app.data.zone path.
func ZoneRecordsFromMetadata(metadata map[string]interface{}) *ZoneRecords {
	zone := dig(metadata, "app", "data", "zone")
	zoneMap, ok := zone.(map[string]interface{})
	if !ok {
		return &ZoneRecords{}
	}

	records := &ZoneRecords{
		Address:     str(zoneMap["address"]),
		Avatar:      str(zoneMap["avatar"]),
		Display:     str(zoneMap["display"]),
		Description: str(zoneMap["desc"]),
		URL:         str(zoneMap["url"]),
		Email:       str(zoneMap["email"]),
		A:           str(zoneMap["A"]),
		AAAA:        str(zoneMap["AAAA"]),
		CNAME:       str(zoneMap["CNAME"]),
		TXT:         strList(zoneMap["TXT"]),
		MX:          strList(zoneMap["MX"]),
		NS:          strList(zoneMap["NS"]),
	}

	custom := make(map[string]string)
	for k, v := range zoneMap {
		if strings.HasPrefix(k, "x-") {
			custom[k] = str(v)
		}
	}
	if len(custom) > 0 {
		records.Custom = custom
	}
	return records
}

func dig(m map[string]interface{}, path ...string) interface{} {
	var cur interface{} = m
	for _, p := range path {
		mm, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = mm[p]
	}
	return cur
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func strList(v interface{}) []string {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ToBytes CBOR-encodes the zone record map.
func (z *ZoneRecords) ToBytes() ([]byte, error) {
	return cbor.Marshal(z)
}

// ZoneRecordsFromBytes decodes a CBOR-encoded zone record map.
func ZoneRecordsFromBytes(data []byte) (*ZoneRecords, error) {
	var z ZoneRecords
	if err := cbor.Unmarshal(data, &z); err != nil {
		return nil, err
	}
	return &z, nil
}
