package cloudadapter

import (
	"github.com/spf13/viper"

	"github.com/nimbuswatch/alerter/infra/ylog"
)

// RegisterFromConfig adds JSONPath-declared providers from the cloud.providers
// config section. Builtin converters stay registered either way.
func RegisterFromConfig(conf *viper.Viper) error {
	var mappings map[string]JSONPathMapping
	if err := conf.UnmarshalKey("cloud.providers", &mappings); err != nil {
		ylog.Errorf("CloudAdapter", "decode cloud.providers error %s", err.Error())
		return err
	}

	for name, mapping := range mappings {
		if mapping.ContentPath == "" {
			ylog.Errorf("CloudAdapter", "provider %s skipped, content_path is required", name)
			continue
		}
		Register(name, NewJSONPathConverter(name, mapping))
		ylog.Infof("CloudAdapter", "registered jsonpath provider %s", name)
	}
	return nil
}
