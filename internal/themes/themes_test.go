package themes

import "testing"

func TestFind(t *testing.T) {
	th, ok := Find("midnight")
	if !ok {
		t.Fatal("Find(midnight): not found")
	}
	if th.Colors.Primary != "#E94560" {
		t.Errorf("primary color: got %q, want #E94560", th.Colors.Primary)
	}

	if _, ok := Find("no-such-theme"); ok {
		t.Error("Find with unknown name should report false")
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantNames []string
	}{
		{"by tag", "professional", []string{"midnight", "boardroom"}},
		{"by name substring", "sun", []string{"sunset"}},
		{"case insensitive", "DARK", []string{"midnight"}},
		{"empty returns all", "", []string{"daylight", "midnight", "boardroom", "sunset", "forest", "academia"}},
		{"no match", "underwater", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(tt.query)
			if len(got) != len(tt.wantNames) {
				t.Fatalf("Search(%q): got %d themes, want %d", tt.query, len(got), len(tt.wantNames))
			}
			for i, want := range tt.wantNames {
				if got[i].Name != want {
					t.Errorf("result[%d]: got %q, want %q", i, got[i].Name, want)
				}
			}
		})
	}
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	a[0].Name = "mutated"
	if All()[0].Name == "mutated" {
		t.Error("All must not expose the internal catalog slice")
	}
}

func TestDefaultIsInCatalog(t *testing.T) {
	d := Default()
	if _, ok := Find(d.Name); !ok {
		t.Errorf("default theme %q missing from catalog", d.Name)
	}
}
