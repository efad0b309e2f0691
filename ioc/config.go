package ioc

import (
	"log"

	"github.com/spf13/viper"
	"github.com/to404hanga/ctf_checker/config"
)

// UnmarshalConfig 读取并校验配置段, 失败直接 panic
func UnmarshalConfig(cfg config.Keyer) {
	if err := viper.UnmarshalKey(cfg.Key(), cfg); err != nil {
		log.Panicf("unmarshal %s config failed: %v", cfg.Key(), err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Panicf("validate %s config failed: %v", cfg.Key(), err)
	}
}
