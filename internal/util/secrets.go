package util

import (
	"encoding/json"
	"fmt"
	"os"
)

type Secrets struct {
	Db     DbSecrets     `json:"db"`
	Sheets SheetsSecrets `json:"sheets"`
}

type DbSecrets struct {
	Host      string `json:"host"`
	User      string `json:"user"`
	Port      string `json:"port"`
	Password  string `json:"password"`
	Database  string `json:"database"`
	EnableSsl bool   `json:"enableSsl"`
}

// SheetsSecrets locates the spreadsheet that acts as the
// GoogleFinance query slot.
type SheetsSecrets struct {
	CredentialsFile string `json:"credentialsFile"`
	SpreadsheetID   string `json:"spreadsheetId"`
	Worksheet       string `json:"worksheet"`
}

func (t DbSecrets) ToConnectionStr() string {
	x := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
		t.Host, t.Port, t.User, t.Password, t.Database)
	if !t.EnableSsl {
		x += " sslmode=disable"
	}
	return x
}

func LoadSecrets() (*Secrets, error) {
	secretsFile := "secrets.json"
	if os.Getenv("NISA_ENV") == "dev" {
		secretsFile = "secrets-dev.json"
	} else if os.Getenv("NISA_ENV") == "test" {
		secretsFile = "secrets-test.json"
	}
	f, err := os.ReadFile(secretsFile)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", secretsFile, err)
	}

	secrets := Secrets{}
	err = json.Unmarshal(f, &secrets)
	if err != nil {
		return nil, err
	}

	return &secrets, nil
}
