package models

import "testing"

func TestValidateItemType(t *testing.T) {
	for _, valid := range []string{"listing", "book", "lostfound", "gig", "business"} {
		if err := ValidateItemType(valid); err != nil {
			t.Errorf("Expected %q to be valid, got %v", valid, err)
		}
	}

	for _, invalid := range []string{"", "furniture", "LISTING"} {
		if err := ValidateItemType(invalid); err == nil {
			t.Errorf("Expected %q to be rejected", invalid)
		}
	}
}
