package appfs

import (
	"io/fs"
	"testing"
)

func TestFS(t *testing.T) {
	files := []string{
		"migrations/00001_create_school_year.sql",
		"templates/email/_base.gohtml",
		"templates/email/_base.txt",
		"templates/email/tuition_quote.gohtml",
		"templates/email/tuition_quote.txt",
	}
	for _, name := range files {
		if _, err := fs.Stat(FS, name); err != nil {
			t.Errorf("fs.Stat(%q) failed: %v", name, err)
		}
	}
}
