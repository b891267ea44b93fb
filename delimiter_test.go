package lightcycler

import "testing"

func TestDetermineDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    rune
	}{
		{"tab", "Pos\tName\tCp\nA1\tS1\t20.1\nA2\tS2\t21.4\n", '\t'},
		{"comma", "Date,Gene,Name,CP\n2019-03-12,GAPDH,S1,20.1\n2019-03-12,GAPDH,S2,21.4\n", ','},
		{"semicolon", "Date;Gene;Name;CP\n2019-03-12;GAPDH;S1;20,1\n2019-03-12;GAPDH;S2;21,4\n", ';'},
		{"header only", "Gene\tName\tCP", '\t'},
		{"single column", "Gene\nGAPDH\n", ','},
	}

	for _, tt := range tests {
		if got := DetermineDelimiter([]byte(tt.content)); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}
