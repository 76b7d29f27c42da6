package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go-payroll/internal/compensation"
	"go-payroll/internal/payroll"

	"gopkg.in/yaml.v3"
)

// Policy holds the payroll rules that vary by organisation.
type Policy struct {
	CTC       compensation.CTCPolicy  `yaml:"ctc"`
	Statutory payroll.StatutoryPolicy `yaml:"statutory"`
	WeeklyOff time.Weekday            `yaml:"-"`

	WeeklyOffRaw string `yaml:"weekly_off"`
}

func DefaultPolicy() Policy {
	return Policy{
		CTC:          compensation.DefaultCTCPolicy(),
		Statutory:    payroll.DefaultStatutoryPolicy(),
		WeeklyOff:    time.Sunday,
		WeeklyOffRaw: "sunday",
	}
}

// LoadPolicy overlays the YAML file at path on the defaults. An empty path returns the
// defaults. Keys missing from the file keep their default value.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("config: read policy %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Policy{}, fmt.Errorf("config: parse policy: %w", err)
	}

	if err := p.validateAndNormalize(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (p *Policy) validateAndNormalize() error {
	if err := p.CTC.Validate(); err != nil {
		return fmt.Errorf("config: ctc: %w", err)
	}
	if err := p.Statutory.Validate(); err != nil {
		return fmt.Errorf("config: statutory: %w", err)
	}

	day, err := parseWeekday(p.WeeklyOffRaw)
	if err != nil {
		return fmt.Errorf("config: weekly_off: %w", err)
	}
	p.WeeklyOff = day
	return nil
}

func parseWeekday(raw string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown day %q", raw)
}
