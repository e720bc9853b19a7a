package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Format represents command output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates format values.
func ParseFormat(v string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(v))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q", v)
	}
}

func newRequestID() string {
	return "req_" + uuid.NewString()
}

// Meta identifies one command invocation in machine output.
type Meta struct {
	RequestID    string `json:"request_id" yaml:"request_id"`
	GeneratedAt  string `json:"generated_at" yaml:"generated_at"`
	Profile      string `json:"profile" yaml:"profile"`
	RestaurantID string `json:"restaurant_id,omitempty" yaml:"restaurant_id,omitempty"`
}

// ErrorPayload is the error block of a failed command.
type ErrorPayload struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// Envelope is the machine-output payload.
type Envelope struct {
	Meta     Meta          `json:"meta" yaml:"meta"`
	Data     any           `json:"data" yaml:"data"`
	Warnings []string      `json:"warnings" yaml:"warnings"`
	Error    *ErrorPayload `json:"error,omitempty" yaml:"error,omitempty"`
}

// BuildEnvelope constructs a success envelope. restaurantID may be empty.
func BuildEnvelope(profile, restaurantID string, data any, warnings []string) Envelope {
	if warnings == nil {
		warnings = []string{}
	}
	return Envelope{
		Meta: Meta{
			RequestID:    newRequestID(),
			GeneratedAt:  time.Now().UTC().Truncate(time.Second).Format(time.RFC3339),
			Profile:      profile,
			RestaurantID: strings.TrimSpace(restaurantID),
		},
		Data:     data,
		Warnings: warnings,
	}
}

// BuildErrorEnvelope constructs an envelope carrying only an error block.
func BuildErrorEnvelope(profile, restaurantID, code, message string) Envelope {
	env := BuildEnvelope(profile, restaurantID, nil, nil)
	env.Error = &ErrorPayload{Code: code, Message: message}
	return env
}

// RenderPayload renders payload in json/yaml format.
func RenderPayload(payload Envelope, format Format) (string, error) {
	switch format {
	case FormatJSON:
		bytes, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal json: %w", err)
		}
		return string(bytes), nil
	case FormatYAML:
		bytes, err := yaml.Marshal(payload)
		if err != nil {
			return "", fmt.Errorf("marshal yaml: %w", err)
		}
		return string(bytes), nil
	default:
		return "", fmt.Errorf("render payload only supports json/yaml")
	}
}

// WriteOutput writes output to the provided writer and optional file.
func WriteOutput(w io.Writer, text string, outputPath string) error {
	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(text), 0o644); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}
	}
	if _, err := fmt.Fprintln(w, text); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// RenderTable renders plain text tables with aligned columns.
func RenderTable(title string, headers []string, rows [][]string) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteByte('\n')
	}
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	if len(headers) > 0 {
		_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	}
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
	return strings.TrimRight(b.String(), "\n")
}
