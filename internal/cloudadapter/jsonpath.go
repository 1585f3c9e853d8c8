package cloudadapter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/oliveagle/jsonpath"

	"github.com/nimbuswatch/alerter/internal/alert"
)

// JSONPathMapping declares a cloud provider by field paths alone, so a new
// integration can be registered from config without writing a converter.
type JSONPathMapping struct {
	ContentPath   string            `mapstructure:"content_path"`
	PriorityPath  string            `mapstructure:"priority_path"`
	StatusPath    string            `mapstructure:"status_path"`
	ResolvedValue string            `mapstructure:"resolved_value"`
	TimePath      string            `mapstructure:"time_path"`
	TimeLayout    string            `mapstructure:"time_layout"`
	TagPaths      map[string]string `mapstructure:"tag_paths"`
}

type jsonPathConverter struct {
	provider string
	mapping  JSONPathMapping
}

func NewJSONPathConverter(provider string, mapping JSONPathMapping) Converter {
	return &jsonPathConverter{provider: provider, mapping: mapping}
}

func (c *jsonPathConverter) Convert(payload []byte) (*alert.Alert, error) {
	var doc interface{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%s report malformed: %w", c.provider, err)
	}

	content, err := lookupString(doc, c.mapping.ContentPath)
	if err != nil {
		return nil, fmt.Errorf("%s report malformed: content path %s: %w", c.provider, c.mapping.ContentPath, err)
	}

	priority := alert.PriorityWarning
	if c.mapping.PriorityPath != "" {
		if p, pErr := lookupInt(doc, c.mapping.PriorityPath); pErr == nil {
			priority = int(p)
		}
	}

	status := alert.StatusUnresolved
	if c.mapping.StatusPath != "" {
		if sv, sErr := lookupString(doc, c.mapping.StatusPath); sErr == nil && sv == c.mapping.ResolvedValue {
			status = alert.StatusResolved
		}
	}

	alarmTime := time.Now().UnixMilli()
	if c.mapping.TimePath != "" {
		alarmTime, err = c.lookupTime(doc)
		if err != nil {
			return nil, fmt.Errorf("%s report malformed: %w", c.provider, err)
		}
	}

	tags := map[string]string{alert.TagKeyProvider: c.provider}
	for key, path := range c.mapping.TagPaths {
		if v, tErr := lookupString(doc, path); tErr == nil && v != "" {
			tags[key] = v
		}
	}

	return &alert.Alert{
		Priority:       priority,
		Status:         status,
		Content:        content,
		Tags:           tags,
		FirstAlarmTime: alarmTime,
		LastAlarmTime:  alarmTime,
		TriggerTimes:   1,
	}, nil
}

func (c *jsonPathConverter) lookupTime(doc interface{}) (int64, error) {
	raw, err := jsonpath.JsonPathLookup(doc, c.mapping.TimePath)
	if err != nil {
		return 0, err
	}

	switch v := raw.(type) {
	case float64:
		return int64(v), nil
	case string:
		layout := c.mapping.TimeLayout
		if layout == "" {
			layout = "2006-01-02 15:04:05"
		}
		t, pErr := time.ParseInLocation(layout, v, time.Local)
		if pErr != nil {
			return 0, pErr
		}
		return t.UnixMilli(), nil
	default:
		return 0, fmt.Errorf("time path %s yields unusable type %T", c.mapping.TimePath, raw)
	}
}

func lookupString(doc interface{}, path string) (string, error) {
	raw, err := jsonpath.JsonPathLookup(doc, path)
	if err != nil {
		return "", err
	}
	switch v := raw.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

func lookupInt(doc interface{}, path string) (int64, error) {
	raw, err := jsonpath.JsonPathLookup(doc, path)
	if err != nil {
		return 0, err
	}
	switch v := raw.(type) {
	case float64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("path %s yields unusable type %T", path, raw)
	}
}
