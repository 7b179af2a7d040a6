// Package locale holds the month and weekday name tables used in reports.
//
// Tables are plain data keyed by the English name, so a new language is a new
// table (built in or loaded from YAML), never a new branch in report code.
package locale

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrUnknownLocale = errors.New("unknown locale")

// Locale maps English month and weekday names to localized ones. Missing
// entries fall back to the English name.
type Locale struct {
	Name     string            `yaml:"name"`
	Months   map[string]string `yaml:"months"`
	Weekdays map[string]string `yaml:"weekdays"`
}

func (l Locale) Month(m time.Month) string {
	if n, ok := l.Months[m.String()]; ok && n != "" {
		return n
	}
	return m.String()
}

func (l Locale) Weekday(d time.Weekday) string {
	if n, ok := l.Weekdays[d.String()]; ok && n != "" {
		return n
	}
	return d.String()
}

var English = Locale{Name: "en"}

var Finnish = Locale{
	Name: "fi",
	Months: map[string]string{
		"January":   "tammikuu",
		"February":  "helmikuu",
		"March":     "maaliskuu",
		"April":     "huhtikuu",
		"May":       "toukokuu",
		"June":      "kesäkuu",
		"July":      "heinäkuu",
		"August":    "elokuu",
		"September": "syyskuu",
		"October":   "lokakuu",
		"November":  "marraskuu",
		"December":  "joulukuu",
	},
	Weekdays: map[string]string{
		"Monday":    "Maanantai",
		"Tuesday":   "Tiistai",
		"Wednesday": "Keskiviikko",
		"Thursday":  "Torstai",
		"Friday":    "Perjantai",
		"Saturday":  "Lauantai",
		"Sunday":    "Sunnuntai",
	},
}

// Registry is a set of locales addressable by name.
type Registry struct {
	locales map[string]Locale
}

// NewRegistry returns a registry holding the built-in "en" and "fi" tables.
func NewRegistry() *Registry {
	return &Registry{locales: map[string]Locale{
		English.Name: English,
		Finnish.Name: Finnish,
	}}
}

func (r *Registry) Get(name string) (Locale, error) {
	l, ok := r.locales[name]
	if !ok {
		return Locale{}, fmt.Errorf("%w %q (have %v)", ErrUnknownLocale, name, r.Names())
	}
	return l, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.locales))
	for n := range r.locales {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type localeFile struct {
	Locales []Locale `yaml:"locales"`
}

// LoadFile adds or replaces locales from a YAML file of the form
//
//	locales:
//	  - name: sv
//	    months: {January: januari}
//	    weekdays: {Monday: måndag}
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read locale file %q: %w", path, err)
	}
	var lf localeFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return fmt.Errorf("decode locale file %q: %w", path, err)
	}
	for i, l := range lf.Locales {
		if l.Name == "" {
			return fmt.Errorf("locale file %q: entry %d has no name", path, i)
		}
		if err := validate(l); err != nil {
			return fmt.Errorf("locale file %q: %s: %w", path, l.Name, err)
		}
		r.locales[l.Name] = l
	}
	return nil
}

func validate(l Locale) error {
	for k := range l.Months {
		if _, ok := monthByName[k]; !ok {
			return fmt.Errorf("unknown month key %q", k)
		}
	}
	for k := range l.Weekdays {
		if _, ok := weekdayByName[k]; !ok {
			return fmt.Errorf("unknown weekday key %q", k)
		}
	}
	return nil
}

var (
	monthByName   = map[string]time.Month{}
	weekdayByName = map[string]time.Weekday{}
)

func init() {
	for m := time.January; m <= time.December; m++ {
		monthByName[m.String()] = m
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		weekdayByName[d.String()] = d
	}
}
