package formatters

import "encoding/json"

// JSONFormatter formats import views as JSON.
type JSONFormatter struct{}

// Format converts the view to indented JSON.
func (f *JSONFormatter) Format(v View) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
