// Package resticgen generates and validates resticprofile configuration.
//
// The emitted document targets resticprofile's YAML schema: a global
// section plus a default profile carrying backup, and retention sections.
// Only the keys dotkit manages are modeled; resticprofile ignores nothing,
// so the emitted file is complete as-is.
package resticgen

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/dotforge/dotkit/pkg/types"
)

// Document is a resticprofile configuration file.
type Document struct {
	Global  Global  `yaml:"global"`
	Default Profile `yaml:"default"`
}

// Global is resticprofile's global section.
type Global struct {
	DefaultCommand string `yaml:"default-command"`
	Initialize     bool   `yaml:"initialize"`
	Priority       string `yaml:"priority,omitempty"`
}

// Profile is one named resticprofile profile.
type Profile struct {
	Repository   string    `yaml:"repository"`
	PasswordFile string    `yaml:"password-file,omitempty"`
	Backup       Backup    `yaml:"backup"`
	Retention    Retention `yaml:"retention"`
}

// Backup is the profile's backup section.
type Backup struct {
	Source             []string `yaml:"source"`
	Exclude            []string `yaml:"exclude,omitempty"`
	Schedule           string   `yaml:"schedule,omitempty"`
	SchedulePermission string   `yaml:"schedule-permission,omitempty"`
}

// Retention is the profile's retention section.
type Retention struct {
	BeforeBackup bool `yaml:"before-backup"`
	AfterBackup  bool `yaml:"after-backup"`
	KeepLast     int  `yaml:"keep-last,omitempty"`
	KeepDaily    int  `yaml:"keep-daily,omitempty"`
	KeepWeekly   int  `yaml:"keep-weekly,omitempty"`
	KeepMonthly  int  `yaml:"keep-monthly,omitempty"`
	Prune        bool `yaml:"prune"`
}

// Validation errors.
var (
	ErrRepositoryEmpty = errors.New("repository must not be empty")
	ErrNoSources       = errors.New("backup source must list at least one path")
	ErrNoRetention     = errors.New("retention must set at least one keep-* value")
	ErrBadSchedule     = errors.New("unrecognized schedule")
)

// scheduleWords are the calendar keywords resticprofile passes to systemd
// or launchd. Anything else must look like a HH:MM calendar event.
var scheduleWords = map[string]bool{
	"hourly": true, "daily": true, "weekly": true, "monthly": true, "yearly": true,
}

var scheduleTimeRe = regexp.MustCompile(`([01]?\d|2[0-3]):[0-5]\d`)

// Generate builds a Document from dotkit's backup settings.
func Generate(cfg types.BackupConfig) *Document {
	return &Document{
		Global: Global{
			DefaultCommand: "snapshots",
			Initialize:     false,
			Priority:       "low",
		},
		Default: Profile{
			Repository:   cfg.Repository,
			PasswordFile: cfg.PasswordFile,
			Backup: Backup{
				Source:             cfg.Paths,
				Exclude:            cfg.Exclude,
				Schedule:           cfg.Schedule,
				SchedulePermission: "user",
			},
			Retention: Retention{
				AfterBackup: true,
				KeepLast:    cfg.Retention.KeepLast,
				KeepDaily:   cfg.Retention.KeepDaily,
				KeepWeekly:  cfg.Retention.KeepWeekly,
				KeepMonthly: cfg.Retention.KeepMonthly,
				Prune:       cfg.Retention.Prune,
			},
		},
	}
}

// Validate checks the document for the mistakes restic only reports at
// backup time: an empty repository, nothing to back up, a retention policy
// that keeps nothing, or a schedule neither restic nor systemd understands.
func (d *Document) Validate() error {
	if d.Default.Repository == "" {
		return ErrRepositoryEmpty
	}
	if len(d.Default.Backup.Source) == 0 {
		return ErrNoSources
	}
	r := d.Default.Retention
	if r.KeepLast == 0 && r.KeepDaily == 0 && r.KeepWeekly == 0 && r.KeepMonthly == 0 {
		return ErrNoRetention
	}
	if s := d.Default.Backup.Schedule; s != "" {
		if !scheduleWords[s] && !scheduleTimeRe.MatchString(s) {
			return fmt.Errorf("%w: %q", ErrBadSchedule, s)
		}
	}
	return nil
}

// Marshal renders the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// Load parses a resticprofile YAML file into a Document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &d, nil
}
