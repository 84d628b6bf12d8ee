package server_test

import (
	"testing"

	"github.com/nfdi-tools/magsub/pkg/configs/server"
)

func TestUnmarshalServerConfig(t *testing.T) {

	t.Run("it parses a full config", func(t *testing.T) {
		result, err := server.Unmarshal([]byte(`
port: "8123"
checklist: /etc/magsub/ERC000047.xml
fieldspec: /etc/magsub/fields.csv
loglevel: debug
`))
		if err != nil {
			t.Fatalf("failed to parse config.: %v", err)
		}
		if result.ServerPort != "8123" {
			t.Errorf("unmatch port:%s, expected:%s", result.ServerPort, "8123")
		}
		if result.Checklist != "/etc/magsub/ERC000047.xml" {
			t.Errorf("unmatch checklist:%s", result.Checklist)
		}
		if result.FieldSpec != "/etc/magsub/fields.csv" {
			t.Errorf("unmatch fieldspec:%s", result.FieldSpec)
		}
		if result.LogLevel != "debug" {
			t.Errorf("unmatch loglevel:%s", result.LogLevel)
		}
	})

	t.Run("it fills defaults for port and loglevel", func(t *testing.T) {
		result, err := server.Unmarshal([]byte(`checklist: ./checklist.xml`))
		if err != nil {
			t.Fatalf("failed to parse config.: %v", err)
		}
		if result.ServerPort != "8080" {
			t.Errorf("unmatch port:%s, expected:%s", result.ServerPort, "8080")
		}
		if result.LogLevel != "info" {
			t.Errorf("unmatch loglevel:%s, expected:%s", result.LogLevel, "info")
		}
	})

	t.Run("it rejects a config with no schema source", func(t *testing.T) {
		if _, err := server.Unmarshal([]byte(`port: "8080"`)); err == nil {
			t.Error("config without checklist nor fieldspec should not be accepted")
		}
	})
}
