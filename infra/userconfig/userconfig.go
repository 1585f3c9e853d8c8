package userconfig

import (
	"github.com/spf13/viper"
)

func NewUserConfig(opts ...Option) (*viper.Viper, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	v := viper.New()
	v.SetConfigFile(options.Path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return v, nil
}
