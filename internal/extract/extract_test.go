package extract

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{"plain address", "a@b.com", "a@b.com", true},
		{"embedded in sentence", "sure, it's maria.lopez@example.org thanks", "maria.lopez@example.org", true},
		{"first match wins", "a@b.com or c@d.com", "a@b.com", true},
		{"not an email", "not-an-email", "", false},
		{"missing tld", "user@host", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Email(tt.input)
			if ok != tt.found {
				t.Fatalf("Email(%q) ok = %v, want %v", tt.input, ok, tt.found)
			}
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNameExtractor(t *testing.T) {
	e := NewNameExtractor(nil)

	tests := []struct {
		name     string
		input    string
		prompted bool
		want     string
		found    bool
	}{
		{"bare name when prompted", "carlos mendez", true, "Carlos Mendez", true},
		{"self intro without prompt", "hi, my name is Ana Torres", false, "Ana Torres", true},
		{"i am marker", "I am pedro ruiz", false, "Pedro Ruiz", true},
		{"spanish marker", "me llamo lucía fernández", false, "Lucía Fernández", true},
		{"task verb rejected", "I want to book an appointment", true, "", false},
		{"digits rejected", "agent 47", true, "", false},
		{"too short", "al", true, "", false},
		{"no marker no prompt", "carlos mendez", false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.Extract(tt.input, tt.prompted)
			if ok != tt.found {
				t.Fatalf("Extract(%q, %v) ok = %v, want %v", tt.input, tt.prompted, ok, tt.found)
			}
			if got != tt.want {
				t.Errorf("Extract(%q, %v) = %q, want %q", tt.input, tt.prompted, got, tt.want)
			}
		})
	}
}

func TestNameExtractorCustomDenylist(t *testing.T) {
	e := NewNameExtractor([]string{"wizard"})
	if _, ok := e.Extract("gandalf the wizard", true); ok {
		t.Error("custom blocked token not applied")
	}
	if got, ok := e.Extract("I want Something", true); !ok || got != "I Want Something" {
		t.Errorf("default denylist leaked into custom extractor: %q, %v", got, ok)
	}
}

func TestTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{"colon form", "18:00", "18:00", true},
		{"colon with minutes", "around 14:30 please", "14:30", true},
		{"pm hour", "6 pm", "18:00", true},
		{"am hour", "9am", "09:00", true},
		{"noon pm", "12 pm", "12:00", true},
		{"midnight am", "12 am", "00:00", true},
		{"at variant", "see you at 16", "16:00", true},
		{"spanish las", "a las 11", "11:00", true},
		{"h shorthand", "18h", "18:00", true},
		{"colon beats am scan", "2:30 pm", "14:30", true},
		{"out of range hour", "at 99", "", false},
		{"no time", "whenever you like", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Time(tt.input)
			if ok != tt.found {
				t.Fatalf("Time(%q) ok = %v, want %v", tt.input, ok, tt.found)
			}
			if got != tt.want {
				t.Errorf("Time(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestVehicle(t *testing.T) {
	models := []string{"Corolla", "Camry", "RAV4"}

	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{"lowercase mention", "tell me about the corolla", "Corolla", true},
		{"mixed case", "is the Rav4 available?", "RAV4", true},
		{"first match wins", "corolla or camry?", "Corolla", true},
		{"no mention", "something cheap", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Vehicle(tt.input, models)
			if ok != tt.found {
				t.Fatalf("Vehicle(%q) ok = %v, want %v", tt.input, ok, tt.found)
			}
			if got != tt.want {
				t.Errorf("Vehicle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
