package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/chukul/ssoctl/internal/sso"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testCredentials() *sso.Credentials {
	return &sso.Credentials{
		AccessKeyID:     "AKIA1234567890",
		SecretAccessKey: "1234567890",
		SessionToken:    "12345678901234567890",
		Expiration:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatEnv},
		{in: "env", want: FormatEnv},
		{in: "JSON", want: FormatJSON},
		{in: " yaml ", want: FormatYAML},
		{in: "process", want: FormatProcess},
		{in: "table", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestWriteCredentialsEnv(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCredentials(&buf, FormatEnv, testCredentials()))
	assert.Equal(t, "export AWS_ACCESS_KEY_ID=AKIA1234567890\n"+
		"export AWS_SECRET_ACCESS_KEY=1234567890\n"+
		"export AWS_SESSION_TOKEN=12345678901234567890\n", buf.String())

	buf.Reset()
	creds := testCredentials()
	creds.SessionToken = ""
	require.NoError(t, WriteCredentials(&buf, FormatEnv, creds))
	assert.NotContains(t, buf.String(), "AWS_SESSION_TOKEN")
}

func TestWriteCredentialsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCredentials(&buf, FormatJSON, testCredentials()))

	var got map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, map[string]string{
		"accessKeyId":     "AKIA1234567890",
		"secretAccessKey": "1234567890",
		"sessionToken":    "12345678901234567890",
		"expiration":      "2024-03-01T12:00:00Z",
	}, got)

	buf.Reset()
	creds := testCredentials()
	creds.Expiration = time.Time{}
	creds.SessionToken = ""
	require.NoError(t, WriteCredentials(&buf, FormatJSON, creds))
	assert.NotContains(t, buf.String(), "expiration")
	assert.NotContains(t, buf.String(), "sessionToken")
}

func TestWriteCredentialsYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCredentials(&buf, FormatYAML, testCredentials()))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "AKIA1234567890", got["accessKeyId"])
	assert.Equal(t, "12345678901234567890", got["sessionToken"])
}

func TestWriteCredentialsProcess(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCredentials(&buf, FormatProcess, testCredentials()))
	assert.JSONEq(t, `{
		"Version": 1,
		"AccessKeyId": "AKIA1234567890",
		"SecretAccessKey": "1234567890",
		"SessionToken": "12345678901234567890",
		"Expiration": "2024-03-01T12:00:00Z"
	}`, buf.String())
}

func TestWriteCredentialsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	require.EqualError(t, WriteCredentials(&buf, Format("table"), testCredentials()), "unknown output format: table")
	assert.Zero(t, buf.Len())
}

func TestWriteObject(t *testing.T) {
	obj := struct {
		Account string `json:"account" yaml:"account"`
	}{Account: "123456789012"}

	var buf bytes.Buffer
	require.NoError(t, WriteObject(&buf, FormatJSON, obj))
	assert.JSONEq(t, `{"account":"123456789012"}`, buf.String())

	buf.Reset()
	require.NoError(t, WriteObject(&buf, FormatYAML, obj))
	assert.Equal(t, "account: \"123456789012\"\n", buf.String())

	require.Error(t, WriteObject(&buf, FormatEnv, obj))
}
