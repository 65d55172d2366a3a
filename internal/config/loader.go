package config

import (
	"path"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/kochabx/subook/pkg/errors"
	"github.com/kochabx/subook/pkg/log"
	"github.com/kochabx/subook/pkg/tag"
	"github.com/kochabx/subook/pkg/validator"
)

// Loader 从文件加载配置，支持环境变量覆盖和热更新
type Loader struct {
	viper *viper.Viper
	name  string
	paths []string
}

// NewLoader 创建配置加载器
// name 为带扩展名的文件名，paths 为查找目录
func NewLoader(name string, paths ...string) *Loader {
	v := viper.New()

	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetConfigName(strings.TrimSuffix(name, path.Ext(name)))
	v.SetConfigType(strings.TrimPrefix(path.Ext(name), "."))

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{viper: v, name: name, paths: paths}
}

// Load 加载配置到 target
// 先套默认值再读文件，文件缺省的字段保留默认值，最后做结构校验
func (l *Loader) Load(target any) error {
	if err := tag.ApplyDefaults(target); err != nil {
		return errors.Internal("apply config defaults: %v", err)
	}

	if err := l.viper.ReadInConfig(); err != nil {
		return errors.NotFound("config file not found: %v", err)
	}

	if err := l.viper.Unmarshal(target); err != nil {
		return errors.Internal("parse config: %v", err)
	}

	if err := validator.Validate.Struct(target); err != nil {
		return errors.BadRequest("config validation failed: %v", err)
	}

	return nil
}

// Watch 监听配置文件变更，变更后重新加载并回调
func (l *Loader) Watch(target any, onReload func()) {
	l.viper.OnConfigChange(func(e fsnotify.Event) {
		log.Info().Str("file", e.Name).Msg("config change detected")

		if err := l.Load(target); err != nil {
			log.Error().Err(err).Msg("reload config failed")
			return
		}

		if onReload != nil {
			onReload()
		}
		log.Info().Msg("config reloaded")
	})
	l.viper.WatchConfig()
}

// Load 用默认位置加载应用配置
func Load(name string, paths ...string) (*Config, error) {
	cfg := &Config{}
	if err := NewLoader(name, paths...).Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
