package db

import (
	"testing"
	"testing/fstest"

	"github.com/hellopiggy/backend/migrations"
)

func TestUpFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"002_traffic.up.sql":    {Data: []byte("SELECT 2")},
		"001_init.up.sql":       {Data: []byte("SELECT 1")},
		"001_init.down.sql":     {Data: []byte("DROP")},
		"README.md":             {Data: []byte("docs")},
		"old/000_legacy.up.sql": {Data: []byte("SELECT 0")},
	}

	got, err := upFiles(fsys)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"001_init.up.sql", "002_traffic.up.sql"}
	if len(got) != len(want) {
		t.Fatalf("upFiles() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("upFiles()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := upFiles(migrations.FS)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"001_init.up.sql", "002_product_templates.up.sql"}
	if len(files) != len(want) {
		t.Fatalf("embedded migrations = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("embedded migrations[%d] = %s, want %s", i, files[i], want[i])
		}
	}
}
