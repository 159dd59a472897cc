package logsvc

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/academia/tuition/core"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "API : ", 0), core.NewTestConfig())

	person := core.Person{ID: "42", Username: "admin", Email: "admin@test.cd"}
	logger.Error("quote failed", errors.New("boom"), person)
	logger.Info("listening")

	got := buf.String()
	want := []string{"API : ERROR: quote failed", "API : boom", "API : INFO: listening"}
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("log output = %q; want it to contain %q", got, w)
		}
	}
	if strings.Contains(got, "admin@test.cd") {
		t.Errorf("log output = %q; should not print the person", got)
	}
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := RollbarLogger{}
	err := errors.New("boom")
	extra := map[string]interface{}{"year": "2024-2025"}

	got := logger.prepare("msg", []interface{}{err, core.Person{ID: "1"}, extra, core.Person{ID: "2"}})
	if len(got) != 3 || got[0] != "msg" || got[1] != err {
		t.Errorf("prepare() = %v; want [msg boom map[year:2024-2025]]", got)
	}
}
