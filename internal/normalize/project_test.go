package normalize

import (
	"reflect"
	"testing"
)

func TestFlattenNestedKeys(t *testing.T) {
	raw := map[string]any{
		"zpid": "123",
		"hdpData": map[string]any{
			"homeInfo": map[string]any{
				"price":   450000.0,
				"zipcode": "00830",
			},
		},
		"listing_sub_type": map[string]any{
			"is_FSBA": true,
		},
	}

	flat := Flatten(raw)

	if flat["hdpData.homeInfo.price"] != 450000.0 {
		t.Errorf("expected dotted home info key, got %v", flat)
	}
	if flat["listing_sub_type.is_FSBA"] != true {
		t.Errorf("expected dotted sub-type key, got %v", flat)
	}
	if flat["zpid"] != "123" {
		t.Errorf("top-level key lost: %v", flat)
	}
}

func TestStripHomeInfoPrefixKeepsFirstOccurrence(t *testing.T) {
	rec := Record{
		"price":                  "$450,000",
		"hdpData.homeInfo.price": 999999.0,
		"hdpData.homeInfo.city":  "Jersey City",
	}

	stripped := StripHomeInfoPrefix(rec)

	// The top-level column was there first; the promoted duplicate must
	// not overwrite it.
	if stripped["price"] != "$450,000" {
		t.Errorf("price = %v, want original top-level value", stripped["price"])
	}
	if stripped["city"] != "Jersey City" {
		t.Errorf("city = %v, want promoted home info value", stripped["city"])
	}
	if _, ok := stripped["hdpData.homeInfo.city"]; ok {
		t.Error("prefixed key should have been promoted, not kept")
	}
}

func TestProjectOmitsAbsentFields(t *testing.T) {
	records := []Record{
		{"zpid": "1", "price": 100.0, "rentZestimate": 10.0},
		{"zpid": "2", "price": 200.0},
	}

	projected, columns := Project(records, []string{"zpid", "price", "rentZestimate", "neverPresent"})

	wantCols := []string{"zpid", "price", "rentZestimate"}
	if !reflect.DeepEqual(columns, wantCols) {
		t.Errorf("columns = %v, want %v", columns, wantCols)
	}

	// rentZestimate exists in the column set but is missing from the
	// second record: the record simply lacks the key, no error.
	if _, ok := projected[1]["rentZestimate"]; ok {
		t.Error("record 2 should not have grown a rentZestimate value")
	}
	if projected[0]["rentZestimate"] != 10.0 {
		t.Errorf("record 1 lost its rentZestimate: %v", projected[0])
	}
}

func TestProjectCollapsesDuplicateFields(t *testing.T) {
	records := []Record{{"zpid": "1"}}

	_, columns := Project(records, []string{"zpid", "zpid"})

	if !reflect.DeepEqual(columns, []string{"zpid"}) {
		t.Errorf("columns = %v, want single zpid", columns)
	}
}

func TestProjectDropsUnrequestedFields(t *testing.T) {
	records := []Record{{"zpid": "1", "internalNoise": "x"}}

	projected, _ := Project(records, []string{"zpid"})

	if _, ok := projected[0]["internalNoise"]; ok {
		t.Error("unrequested field survived projection")
	}
}
