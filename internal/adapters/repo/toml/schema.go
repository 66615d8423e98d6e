package toml

import "fmt"

const (
	currentSchemaVersion       = 1
	currentReportSchemaVersion = 1
)

type fileSchema struct {
	Version  int             `toml:"version"`
	Accounts []accountSchema `toml:"accounts"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported accounts schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type accountSchema struct {
	Name        string `toml:"name"`
	Email       string `toml:"email"`
	Password    string `toml:"password,omitempty"`
	PasswordRef string `toml:"password_ref,omitempty"`
	BaseURL     string `toml:"base_url,omitempty"`
}

type reportFileSchema struct {
	Version int            `toml:"version"`
	Reports []reportSchema `toml:"reports"`
}

func (s *reportFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentReportSchemaVersion
	}
}

func (s reportFileSchema) validateVersion() error {
	if s.Version > currentReportSchemaVersion {
		return fmt.Errorf("unsupported reports schema version %d (current %d)", s.Version, currentReportSchemaVersion)
	}

	return nil
}

type reportSchema struct {
	RunID     string          `toml:"run_id"`
	Timestamp string          `toml:"timestamp"`
	Succeeded int             `toml:"succeeded"`
	Failed    int             `toml:"failed"`
	Outcomes  []outcomeSchema `toml:"outcomes"`
}

type outcomeSchema struct {
	Name          string `toml:"name"`
	Success       bool   `toml:"success"`
	AlreadyDone   bool   `toml:"already_done,omitempty"`
	Message       string `toml:"message,omitempty"`
	StatusSummary string `toml:"status_summary,omitempty"`
	Error         string `toml:"error,omitempty"`
	Attempts      int    `toml:"attempts,omitempty"`
}
