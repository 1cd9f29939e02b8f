package skola24

import (
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Hvitfeldtska gymnasiet", "hvitfeldtska-gymnasiet"},
		{"Polhemsgymnasiet", "polhemsgymnasiet"},
		{"Änglagårdsskolan", "anglagardsskolan"},
		{"Östra Real", "ostra-real"},
		{"S:t Eriks gymnasium", "s-t-eriks-gymnasium"},
		{"  Skola  24  ", "skola-24"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.name); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestParseDirectory(t *testing.T) {
	page := `<html><body><script>
window.pages['skolor'].data = {
	"goteborg.skola24.se": [
		{"name": "Hvitfeldtska gymnasiet", "guid": "aaa-1"},
		{"name": "Änglagårdsskolan", "guid": "aaa-2"}
	],
	"boras.skola24.se": [
		{"name": "Sven Eriksonsgymnasiet", "guid": "bbb-1"}
	]
};
</script></body></html>`

	schools, err := ParseDirectory([]byte(page))
	if err != nil {
		t.Fatalf("ParseDirectory() failed: %v", err)
	}
	if len(schools) != 3 {
		t.Fatalf("schools = %d, want 3", len(schools))
	}

	// Sorted by host, then slug.
	if schools[0].Host != "boras.skola24.se" {
		t.Errorf("first host = %q, want boras.skola24.se", schools[0].Host)
	}
	if schools[1].Slug != "anglagardsskolan" {
		t.Errorf("second slug = %q, want anglagardsskolan", schools[1].Slug)
	}
	if schools[2].Name != "Hvitfeldtska gymnasiet" || schools[2].UUID != "aaa-1" {
		t.Errorf("third school = %+v, want Hvitfeldtska", schools[2])
	}
}

func TestParseDirectory_NoData(t *testing.T) {
	if _, err := ParseDirectory([]byte("<html><body></body></html>")); err == nil {
		t.Error("ParseDirectory() accepted a page without directory data")
	}
}
