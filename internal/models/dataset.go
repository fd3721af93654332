package models

import "fmt"

// DatasetKey addresses one app/mode question collection
type DatasetKey struct {
	App  AppType `json:"app"`
	Mode Mode    `json:"mode"`
}

// String formats the key as app/mode, e.g. "excel/button"
func (k DatasetKey) String() string {
	return k.App.Slug() + "/" + string(k.Mode)
}

// FileName returns the JSON file backing the dataset
func (k DatasetKey) FileName() string {
	prefix := ""
	switch k.App {
	case AppExcel:
		prefix = "excel-"
	case AppPowerPoint:
		prefix = "powerpoint-"
	}
	if k.Mode == ModeButton {
		return prefix + "button-questions.json"
	}
	return prefix + "questions.json"
}

// Route returns the legacy API path for the dataset
func (k DatasetKey) Route() string {
	return "/api/" + k.FileName()[:len(k.FileName())-len(".json")]
}

// Validate checks that the key names a known dataset
func (k DatasetKey) Validate() error {
	switch k.App {
	case AppWord, AppExcel, AppPowerPoint:
	default:
		return fmt.Errorf("unknown app type: %q", k.App)
	}
	switch k.Mode {
	case ModeTab, ModeButton:
	default:
		return fmt.Errorf("unknown mode: %q", k.Mode)
	}
	return nil
}

// ParseDatasetKey builds a key from the lowercase query forms
func ParseDatasetKey(app, mode string) (DatasetKey, error) {
	a, err := ParseAppType(app)
	if err != nil {
		return DatasetKey{}, err
	}
	return DatasetKey{App: a, Mode: ParseMode(mode)}, nil
}

// AllDatasets lists the six app/mode collections
func AllDatasets() []DatasetKey {
	apps := []AppType{AppWord, AppExcel, AppPowerPoint}
	modes := []Mode{ModeTab, ModeButton}
	keys := make([]DatasetKey, 0, len(apps)*len(modes))
	for _, a := range apps {
		for _, m := range modes {
			keys = append(keys, DatasetKey{App: a, Mode: m})
		}
	}
	return keys
}
