// Package validator 封装 go-playground/validator，带中英文翻译
package validator

import (
	"context"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"

	"github.com/kochabx/subook/pkg/errors"
)

// Validate 全局校验器实例
var Validate *Validator

func init() {
	Validate = New()
}

// Validator 结构体校验器，校验失败时返回翻译后的错误
type Validator struct {
	validate    *validator.Validate
	translators map[string]ut.Translator
	defaultLang string
}

// Option 校验器选项
type Option func(*Validator)

// WithTagName 设置校验标签名
func WithTagName(name string) Option {
	return func(v *Validator) {
		v.validate.SetTagName(name)
	}
}

// WithDefaultLang 设置默认翻译语言
func WithDefaultLang(lang string) Option {
	return func(v *Validator) {
		v.defaultLang = lang
	}
}

// New 创建校验器并注册中英文翻译
func New(opts ...Option) *Validator {
	v := &Validator{
		validate:    validator.New(),
		translators: make(map[string]ut.Translator),
		defaultLang: "en",
	}

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, zh.New())

	if trans, found := uni.GetTranslator("en"); found {
		v.translators["en"] = trans
		_ = en_translations.RegisterDefaultTranslations(v.validate, trans)
	}
	if trans, found := uni.GetTranslator("zh"); found {
		v.translators["zh"] = trans
		_ = zh_translations.RegisterDefaultTranslations(v.validate, trans)
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Struct 校验结构体，失败时返回 400 结构化错误
func (v *Validator) Struct(s any) error {
	return v.translate(v.validate.Struct(s))
}

// StructCtx 带上下文校验结构体
func (v *Validator) StructCtx(ctx context.Context, s any) error {
	return v.translate(v.validate.StructCtx(ctx, s))
}

// RegisterValidation 注册自定义校验规则
func (v *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return v.validate.RegisterValidation(tag, fn)
}

// translate 将底层校验错误翻译为带字段元数据的结构化错误
func (v *Validator) translate(err error) error {
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	trans := v.translators[v.defaultLang]

	metadata := make(map[string]string, len(fieldErrs))
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := fe.Error()
		if trans != nil {
			msg = fe.Translate(trans)
		}
		metadata[fe.Field()] = msg
		messages = append(messages, msg)
	}

	return errors.BadRequest("%s", strings.Join(messages, "; ")).WithMetadata(metadata)
}
