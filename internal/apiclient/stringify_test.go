package apiclient

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"escapes resolved", `{"name": "Renée", "path": "a\/b"}`, `{"name":"Renée","path":"a/b"}`},
		{"key order kept", `{"z":1,"a":2,"m":{"y":true,"b":null}}`, `{"z":1,"a":2,"m":{"y":true,"b":null}}`},
		{"control characters", `{"s":"line\nnext\ttab \"q\" \\ \u0001"}`, `{"s":"line\nnext\ttab \"q\" \\ \u0001"}`},
		{"html left alone", `{"s":"<b>&</b>"}`, `{"s":"<b>&</b>"}`},
		{"arrays", `[1.0, "x", [], {}]`, `[1,"x",[],{}]`},
		{"scalar", `"ok"`, `"ok"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Stringify([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringifyRejectsInvalid(t *testing.T) {
	_, err := Stringify([]byte(`{"a":`))
	assert.Error(t, err)

	_, err = Stringify([]byte(`{} {}`))
	assert.Error(t, err)
}

func TestNumberText(t *testing.T) {
	tests := map[string]string{
		"500":          "500",
		"500.0":        "500",
		"37.50":        "37.5",
		"-0":           "0",
		"0.000001":     "0.000001",
		"0.0000001":    "1e-7",
		"1.5e-8":       "1.5e-8",
		"1e21":         "1e+21",
		"123456789012": "123456789012",
		"1e400":        "null",
	}
	for in, want := range tests {
		assert.Equal(t, want, NumberText(json.Number(in)), in)
	}
}
