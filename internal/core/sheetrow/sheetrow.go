// Package sheetrow flattens a registration record into a spreadsheet row.
// This is part of the Functional Core - all functions are pure with no I/O.
//
// Nested objects become dot-joined keys ("sharesDetails.parValue"). The
// incorporators list expands positionally into "incorporator_1." through
// "incorporator_5." key groups; any other list is stored as a JSON string.
// Dates are written as yyyy-MM-dd and absent values as "".
package sheetrow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Neoksnaman/bizRegForm/internal/core/domain"
)

// Row is a flat key-value spreadsheet row.
type Row map[string]string

// IncorporatorPrefix returns the key prefix of the incorporator at index i.
func IncorporatorPrefix(i int) string {
	return "incorporator_" + strconv.Itoa(i+1)
}

// Flatten converts rec into a flat row.
func Flatten(rec domain.Record) (Row, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree map[string]any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}

	row := make(Row, len(DefaultHeaders()))
	if err := flatten(row, "", tree); err != nil {
		return nil, err
	}
	return row, nil
}

func flatten(row Row, parent string, obj map[string]any) error {
	for key, value := range obj {
		path := key
		if parent != "" {
			path = parent + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			if err := flatten(row, path, v); err != nil {
				return err
			}
		case []any:
			if key == "incorporators" && parent == "" {
				for i, item := range v {
					m, ok := item.(map[string]any)
					if !ok {
						return fmt.Errorf("incorporator %d is not an object", i)
					}
					if err := flatten(row, IncorporatorPrefix(i), m); err != nil {
						return err
					}
				}
				continue
			}
			encoded, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("encode %s: %w", path, err)
			}
			row[path] = string(encoded)
		default:
			row[path] = scalar(v)
		}
	}
	return nil
}

func scalar(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// DefaultHeaders returns the header row written to an empty sheet.
func DefaultHeaders() []string {
	headers := []string{
		"corporationNames.name1", "corporationNames.name2", "corporationNames.name3",
		"principalOfficeAddress.street", "principalOfficeAddress.barangay", "principalOfficeAddress.city",
		"principalOfficeAddress.province", "principalOfficeAddress.zipCode",
		"industryDescription", "primaryPurpose", "secondaryPurpose",
		"companyEmail", "companyPhone", "alternateEmail", "alternatePhone",
		"corporateTreasurer", "treasurerEsecureId", "annualMeetingDate",
		"sharesDetails.authorizedCapital", "sharesDetails.subscribedCapital",
		"sharesDetails.paidUpCapital", "sharesDetails.parValue",
		"leaseRent",
	}
	for i := 0; i < domain.MaxIncorporators; i++ {
		p := IncorporatorPrefix(i) + "."
		headers = append(headers,
			p+"name", p+"tin", p+"nationality",
			p+"residence.street", p+"residence.barangay", p+"residence.city",
			p+"residence.province", p+"residence.zipCode",
			p+"sharesSubscribed", p+"amountSubscribed", p+"birthdate", p+"esecureId",
		)
	}
	return headers
}

// Values lays row out in header order. Headers the row has no key for get "".
func Values(headers []string, row Row) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = row[h]
	}
	return out
}

// Build flattens rec and lays it out in header order.
func Build(headers []string, rec domain.Record) ([]string, error) {
	row, err := Flatten(rec)
	if err != nil {
		return nil, err
	}
	return Values(headers, row), nil
}
