package domain

import "testing"

func TestVenueProgramIDRoundTrip(t *testing.T) {
	for _, v := range Venues() {
		id := v.ProgramID()
		if id == "" {
			t.Fatalf("venue %s has no program id", v)
		}
		back, ok := VenueFromProgramID(id)
		if !ok || back != v {
			t.Errorf("VenueFromProgramID(%s) = %s, %v; want %s", id, back, ok, v)
		}
	}

	if _, ok := VenueFromProgramID("11111111111111111111111111111111"); ok {
		t.Errorf("system program must not map to a venue")
	}
}

func TestParseVenue(t *testing.T) {
	cases := []struct {
		in   string
		want Venue
	}{
		{"raydium_v4", VenueRaydiumV4},
		{"raydium", VenueRaydiumV4},
		{"RAYDIUM_V4", VenueRaydiumV4},
		{"orca_whirlpool", VenueOrcaWhirlpool},
		{"orca", VenueOrcaWhirlpool},
		{"whirlpool", VenueOrcaWhirlpool},
	}
	for _, tc := range cases {
		got, err := ParseVenue(tc.in)
		if err != nil {
			t.Errorf("ParseVenue(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseVenue(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	if _, err := ParseVenue("serum"); err == nil {
		t.Errorf("ParseVenue must reject unknown venues")
	}
}

func TestVenuesOrderIsFixed(t *testing.T) {
	first := Venues()
	second := Venues()
	if len(first) != len(second) {
		t.Fatalf("Venues length changed between calls")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Venues order changed at %d: %s vs %s", i, first[i], second[i])
		}
	}
}
