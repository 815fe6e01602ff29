package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chukul/ssoctl/internal/sso"
	"gopkg.in/yaml.v3"
)

// Format selects how credentials are rendered.
type Format string

const (
	FormatEnv     Format = "env"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatProcess Format = "process"
)

// Formats lists the accepted --output values.
var Formats = []Format{FormatEnv, FormatJSON, FormatYAML, FormatProcess}

// ParseFormat parses an --output value case-insensitively. Empty means env.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatEnv, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format: %s", s)
}

// processCredentials is the document the AWS CLI expects from a credential_process.
type processCredentials struct {
	Version         int    `json:"Version"`
	AccessKeyID     string `json:"AccessKeyId"`
	SecretAccessKey string `json:"SecretAccessKey"`
	SessionToken    string `json:"SessionToken,omitempty"`
	Expiration      string `json:"Expiration,omitempty"`
}

// credentialView is the json/yaml shape of a credential.
type credentialView struct {
	AccessKeyID     string     `json:"accessKeyId" yaml:"accessKeyId"`
	SecretAccessKey string     `json:"secretAccessKey" yaml:"secretAccessKey"`
	SessionToken    string     `json:"sessionToken,omitempty" yaml:"sessionToken,omitempty"`
	Expiration      *time.Time `json:"expiration,omitempty" yaml:"expiration,omitempty"`
}

func newCredentialView(creds *sso.Credentials) credentialView {
	v := credentialView{
		AccessKeyID:     creds.AccessKeyID,
		SecretAccessKey: creds.SecretAccessKey,
		SessionToken:    creds.SessionToken,
	}
	if !creds.Expiration.IsZero() {
		exp := creds.Expiration.UTC()
		v.Expiration = &exp
	}
	return v
}

// WriteCredentials renders creds to w in the given format.
func WriteCredentials(w io.Writer, format Format, creds *sso.Credentials) error {
	switch format {
	case FormatEnv:
		// Output shell-compatible export commands
		if _, err := fmt.Fprintf(w, "export AWS_ACCESS_KEY_ID=%s\n", creds.AccessKeyID); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "export AWS_SECRET_ACCESS_KEY=%s\n", creds.SecretAccessKey); err != nil {
			return err
		}
		if creds.SessionToken != "" {
			if _, err := fmt.Fprintf(w, "export AWS_SESSION_TOKEN=%s\n", creds.SessionToken); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		data, err := json.MarshalIndent(newCredentialView(creds), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		data, err := yaml.Marshal(newCredentialView(creds))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatProcess:
		doc := processCredentials{
			Version:         1,
			AccessKeyID:     creds.AccessKeyID,
			SecretAccessKey: creds.SecretAccessKey,
			SessionToken:    creds.SessionToken,
		}
		if !creds.Expiration.IsZero() {
			doc.Expiration = creds.Expiration.UTC().Format(time.RFC3339)
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// WriteObject renders obj as json or yaml. Other formats are rejected.
func WriteObject(w io.Writer, format Format, obj any) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		data, err := yaml.Marshal(obj)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("%s format is not supported for this command", format)
	}
}
